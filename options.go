package memgraph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name or a file extension such as ".yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown graph document format %q", name)
	}
}

type Options struct {
	// Logger defaults to log.Default().
	Logger *log.Logger

	// Format of documents written by Save and read by Load. Defaults to FormatJSON.
	Format Format

	// Indent used for JSON documents. Defaults to two spaces; "-" disables indentation.
	Indent string

	// SkipValidation loads documents without checking edge symmetry, self-loops
	// or dangling edges.
	SkipValidation bool
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	switch opts.Indent {
	case "":
		opts.Indent = "  "
	case "-":
		opts.Indent = ""
	}
	return opts
}

func codecFor[K comparable, D any](opts Options) (Codec[K, D], error) {
	switch opts.Format {
	case FormatJSON:
		return JSONCodec[K, D]{Indent: opts.Indent}, nil
	case FormatYAML:
		return YAMLCodec[K, D]{}, nil
	default:
		return nil, fmt.Errorf("unknown graph document format %q", opts.Format)
	}
}
