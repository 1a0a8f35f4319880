package oggmeta

import (
	"github.com/simonhull/oggmeta/internal/logger"
)

// Logger is an alias to logger.Logger, the structured logger the library
// writes debug records to.
type Logger = logger.Logger

// Option configures behavior when opening audio files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := oggmeta.Open("song.opus",
//	    oggmeta.WithStrictParsing(),
//	    oggmeta.WithChecksumVerification(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger          Logger
	strictParsing   bool // Fail on any warning
	ignoreWarnings  bool // Suppress all warnings
	verifyChecksums bool // Fail on header pages with a bad CRC
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		logger: logger.Discard(),
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, oggmeta continues parsing when it encounters issues
// like a bad page checksum or an unreadable comment, returning warnings
// alongside the parsed data.
//
// Example:
//
//	file, err := oggmeta.Open("song.ogg", oggmeta.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// Example:
//
//	file, err := oggmeta.Open("song.ogg", oggmeta.WithIgnoreWarnings())
//	// file.Warnings will always be empty
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithChecksumVerification rejects files whose identification or comment
// pages fail their CRC check. Without it a bad checksum is a warning.
// Audio pages are never verified.
func WithChecksumVerification() Option {
	return func(o *openOptions) {
		o.verifyChecksums = true
	}
}

// WithLogger sends debug records about parsing and saving to l.
// The same logger is used when the file is saved.
func WithLogger(l Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
