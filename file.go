package oggmeta

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/oggmeta/internal/logger"
	_ "github.com/simonhull/oggmeta/internal/ogg" // Register Vorbis, Opus and Speex
	"github.com/simonhull/oggmeta/internal/registry"
	"github.com/simonhull/oggmeta/internal/types"
)

// File represents an opened Ogg file with parsed metadata.
//
// File provides access to the comment header (Tags) and the derived audio
// properties (AudioInfo). Opening a file reads the header pages and the page
// headers of the audio region; audio payloads are skipped.
//
// Always call Close() when done to release file resources:
//
//	file, err := oggmeta.Open("song.opus")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	types.File

	reader io.ReaderAt // File handle or other reader
	log    Logger
}

// Open opens an Ogg file and reads its metadata.
//
// Supported formats: Ogg Vorbis, Opus, Speex
//
// If the comment header is damaged, Open returns the File with warnings
// instead of an error. A stream whose page structure is broken is an error.
//
// Options can be provided to customize parsing behavior:
//
//	file, err := oggmeta.Open("song.opus",
//	    oggmeta.WithStrictParsing(),
//	    oggmeta.WithLogger(logger),
//	)
func Open(path string, opts ...Option) (*File, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked between parsing phases.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	file, err := oggmeta.OpenContext(ctx, "song.ogg")
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(ctx, f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Keep the file handle for Save
	file.reader = f

	if options.strictParsing && len(file.Warnings) > 0 {
		f.Close()
		return nil, fmt.Errorf("strict parsing failed: %s", file.Warnings[0].Message)
	}

	return file, nil
}

// openReader opens from an io.ReaderAt (internal, for testing)
func openReader(ctx context.Context, r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	log := options.logger.With("format", format.String())
	ctx = logger.WithContext(ctx, log)

	parsed, err := parser.Parse(ctx, r, size, path, registry.ParseOptions{
		VerifyChecksums: options.verifyChecksums,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	file := &File{File: *parsed, reader: r, log: options.logger}
	file.Path = path
	file.Size = size

	if options.ignoreWarnings {
		file.Warnings = nil
	}

	log.Debug("opened", "path", path, "duration", file.Audio.Duration, "warnings", len(file.Warnings))
	return file, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenMany opens multiple Ogg files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := oggmeta.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	return openMany(ctx, runtime.NumCPU(), paths, nil)
}

// OpenManyWithOptions is OpenMany with an explicit concurrency limit and
// options applied to every file. A limit below 1 means runtime.NumCPU().
func OpenManyWithOptions(ctx context.Context, limit int, paths []string, opts ...Option) ([]*File, error) {
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	return openMany(ctx, limit, paths, opts)
}

func openMany(ctx context.Context, limit int, paths []string, opts []Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
