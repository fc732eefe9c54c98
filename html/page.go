package html

import (
	stdhtml "html"
	"io"
)

// Page wraps fragments into a standalone document.
type Page struct {
	Title string
	// XHTML selects an XML prolog, the XHTML namespace and self-closing
	// void elements.
	XHTML bool
}

// WriteHeader writes everything up to and including the opening body tag.
func (p Page) WriteHeader(w io.Writer) error {
	head := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n"
	if p.XHTML {
		head = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE html>\n" +
			"<html xmlns=\"http://www.w3.org/1999/xhtml\">\n<head>\n<meta charset=\"utf-8\"/>\n"
	}
	if p.Title != "" {
		head += "<title>" + stdhtml.EscapeString(p.Title) + "</title>\n"
	}
	head += "</head>\n<body>\n"
	return writeText(w, head)
}

// WriteFooter closes the body and html elements.
func (p Page) WriteFooter(w io.Writer) error {
	return writeText(w, "</body>\n</html>\n")
}
