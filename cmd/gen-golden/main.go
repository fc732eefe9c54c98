package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/adoc"
	"pkt.systems/adoc/html"
	"pkt.systems/adoc/xhtml"
)

var generators = map[string]func() html.Generator{
	"html":  func() html.Generator { return html.New() },
	"xhtml": func() html.Generator { return xhtml.New() },
}

func main() {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, ".adoc") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no adoc files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		for name, newGenerator := range generators {
			var out bytes.Buffer
			err := adoc.Convert(adoc.ConvertRequest{
				Reader:    bytes.NewReader(src),
				Writer:    &out,
				Generator: newGenerator(),
			})
			if err != nil {
				fatalf("convert %s with %s: %v", path, name, err)
			}
			goldenPath := goldenPath(path, name)
			if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

// goldenPath must match the naming used by the golden test in the root
// package.
func goldenPath(src, generator string) string {
	return strings.TrimSuffix(src, ".adoc") + "." + generator + ".golden"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
