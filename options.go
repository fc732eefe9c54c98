package adoc

import "log/slog"

// ConvertOption configures conversion behavior.
type ConvertOption func(*convertConfig)

type convertConfig struct {
	standalone    bool
	title         string
	xhtml         bool
	noFrontMatter bool
	strict        bool
	logger        *slog.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)

func resolveConfig(opts []ConvertOption) convertConfig {
	cfg := configPool.Get().(*convertConfig)
	*cfg = convertConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	out := *cfg
	configPool.Put(cfg)
	if out.logger == nil {
		out.logger = discardLogger
	}
	return out
}

// WithStandalone wraps the output in a complete HTML document.
func WithStandalone(enabled bool) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.standalone = enabled
	}
}

// WithTitle sets the standalone document title. It takes precedence over a
// title found in front matter.
func WithTitle(title string) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.title = title
	}
}

// WithXHTML makes standalone documents use the XHTML prolog.
func WithXHTML(enabled bool) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.xhtml = enabled
	}
}

// WithFrontMatter enables or disables front matter stripping. It is enabled
// by default.
func WithFrontMatter(enabled bool) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.noFrontMatter = !enabled
	}
}

// WithStrictInput rejects invalid UTF-8 and binary looking input instead of
// passing bytes through unmodified.
func WithStrictInput(enabled bool) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.strict = enabled
	}
}

// WithLogger sets the logger used for debug output. Nothing is logged by
// default.
func WithLogger(logger *slog.Logger) ConvertOption {
	return func(cfg *convertConfig) {
		cfg.logger = logger
	}
}
