package html

import (
	"strings"

	"pkt.systems/adoc/node"
)

// Attributes formats attrs as an HTML attribute string. ID renders as id,
// Role as class, and attributes are separated by a single space.
func Attributes(attrs []node.Attribute) string {
	var b strings.Builder
	for _, attr := range attrs {
		var s string
		switch a := attr.(type) {
		case node.ID:
			s = attribute("id", string(a))
		case node.Role:
			s = attribute("class", string(a))
		default:
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

// SplitIDs separates the IDs in attrs from the remaining attributes.
// Generators emit every ID as an anchor in front of the element, so IDs must
// not also appear on the element itself.
func SplitIDs(attrs []node.Attribute) ([]node.ID, []node.Attribute) {
	ids := node.IDs(attrs)
	if len(ids) == 0 {
		return nil, attrs
	}
	rest := make([]node.Attribute, 0, len(attrs)-len(ids))
	for _, attr := range attrs {
		if _, isID := attr.(node.ID); !isID {
			rest = append(rest, attr)
		}
	}
	return ids, rest
}

func attribute(name, value string) string {
	return name + `="` + value + `"`
}
