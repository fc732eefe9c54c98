// Package adoc converts lightweight markup to HTML.
//
// Input is read from an io.Reader through a Lexer with a fixed 4 KiB buffer,
// so documents are never loaded whole. The Lexer produces tokens with a
// line/column cursor and skips `//` line comments and `////` block comments.
// A Parser turns the tokens into document nodes (see package node), and an
// html.Generator turns each node into an HTML tree that is written to the
// output.
//
// Core properties:
//   - Streaming input from io.Reader
//   - Raw bytes pass through unmodified unless strict input is requested
//   - Per node kind overridable HTML generation (see packages html and xhtml)
//   - Front matter is stripped and exposed as Metadata
//
// Example:
//
//	reader := strings.NewReader("Hello #marked# world\n\n'''\n")
//	err := adoc.Convert(adoc.ConvertRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Conversion can be customized with ConvertOptions such as WithStandalone.
package adoc
