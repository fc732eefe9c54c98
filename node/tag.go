package node

import "strconv"

// Tag is the formatting applied by a Tagged item.
type Tag uint8

const (
	Emphasis Tag = iota
	Strong
	Code
	Superscript
	Subscript
)

var tagNames = [...]string{
	Emphasis:    "em",
	Strong:      "strong",
	Code:        "code",
	Superscript: "sup",
	Subscript:   "sub",
}

// String returns the HTML element name of the tag.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the defined tags.
func (t Tag) Valid() bool {
	return int(t) < len(tagNames)
}
