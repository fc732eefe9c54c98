// Package node defines the document model produced by parsers and consumed
// by HTML generators.
//
// Blocks are Node values, inline content is a Text made of Item values.
// Node, Item and Attribute are closed sets: only the types in this package
// implement them.
package node

// Node is a block-level element.
type Node interface {
	isNode()
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// PageBreak forces a page break when printing.
type PageBreak struct{}

// Paragraph is a block of inline text.
type Paragraph struct {
	Text Text
}

func (HorizontalRule) isNode() {}
func (PageBreak) isNode()      {}
func (Paragraph) isNode()      {}

// Text is an ordered run of inline items.
type Text struct {
	Items []Item
}

// NewText returns a Text holding items.
func NewText(items ...Item) Text {
	return Text{Items: items}
}

// Item is an inline element.
type Item interface {
	isItem()
}

// Word is literal text copied verbatim to the output.
type Word string

// Space is a single space between words.
type Space struct{}

// Mark is highlighted text.
type Mark struct {
	Text       Text
	Attributes []Attribute
}

// Tagged is text wrapped in a formatting tag.
type Tagged struct {
	Tag        Tag
	Text       Text
	Attributes []Attribute
}

func (Word) isItem()   {}
func (Space) isItem()  {}
func (Mark) isItem()   {}
func (Tagged) isItem() {}

// Attribute is metadata attached to an inline element.
type Attribute interface {
	isAttribute()
}

// ID names an anchor target. It must be unique within a document.
type ID string

// Role is a styling class.
type Role string

func (ID) isAttribute()   {}
func (Role) isAttribute() {}

// IDs returns the IDs in attrs in order.
func IDs(attrs []Attribute) []ID {
	var ids []ID
	for _, attr := range attrs {
		if id, ok := attr.(ID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
