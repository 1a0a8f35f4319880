// Package registry manages format-specific parsers and writers.
package registry

import (
	"context"
	"io"

	"github.com/simonhull/oggmeta/internal/types"
)

// ParseOptions tunes a single parse.
type ParseOptions struct {
	// VerifyChecksums rejects header pages whose CRC does not match instead
	// of recording a warning.
	VerifyChecksums bool
}

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse extracts metadata and audio properties from a stream.
	// The logger, if any, travels in ctx.
	Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts ParseOptions) (*types.File, error)
}

// FormatWriter is the interface format writers implement.
type FormatWriter interface {
	// Write writes a copy of original to w with file's metadata in place of
	// the original metadata.
	Write(ctx context.Context, w io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// writers maps formats to their writers.
var writers = make(map[types.Format]FormatWriter)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
// This is called by format packages during initialization (init functions).
func RegisterWriter(format types.Format, writer FormatWriter) {
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) FormatWriter {
	return writers[format]
}
