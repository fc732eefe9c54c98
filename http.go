package adoc

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"pkt.systems/adoc/html"
)

// HTTPConvertRequest configures HTTPConvert.
type HTTPConvertRequest struct {
	URL       string
	Client    *http.Client
	Writer    io.Writer
	Generator html.Generator
	Options   []ConvertOption
}

// Fetch issues a GET for an http or https URL and returns the response once
// the server answers with a 2xx status. A nil client uses http.DefaultClient.
// The caller closes the response body.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("fetch: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q", req.URL.Scheme)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %s", rawURL, resp.Status)
	}
	return resp, nil
}

// HTTPConvert fetches markup over HTTP(S) and converts it to HTML.
//
// With WithStrictInput a response declaring a non-text media type is
// rejected with ErrBinaryInput before its body is read.
func HTTPConvert(ctx context.Context, req HTTPConvertRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("convert http: Writer is nil")
	}
	cfg := resolveConfig(req.Options)
	resp, err := Fetch(ctx, req.Client, req.URL)
	if err != nil {
		return fmt.Errorf("convert http: %w", err)
	}
	defer resp.Body.Close()
	contentType := resp.Header.Get("Content-Type")
	cfg.logger.Debug("fetched", "url", req.URL, "status", resp.StatusCode, "content_type", contentType)
	if cfg.strict && !isTextMediaType(contentType) {
		return fmt.Errorf("convert http: content type %q: %w", contentType, ErrBinaryInput)
	}
	return Convert(ConvertRequest{
		Reader:    resp.Body,
		Writer:    req.Writer,
		Generator: req.Generator,
		Options:   req.Options,
	})
}

// isTextMediaType accepts a missing header, text/* and the markup types
// servers commonly send for plain documents.
func isTextMediaType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	switch mediaType {
	case "application/x-asciidoc", "application/yaml", "application/json":
		return true
	}
	return false
}
