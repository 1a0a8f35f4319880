package oggmeta

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/oggmeta/internal/logger"
	"github.com/simonhull/oggmeta/internal/registry"
	"github.com/simonhull/oggmeta/internal/types"
)

// Save writes modified metadata back to the original file.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the original path. If any step fails, the original file remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    oggmeta.WithBackup(".bak"),
//	    oggmeta.WithValidation(),
//	)
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs writes the file to a new location.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the output path. If any step fails, any partially written data is cleaned up.
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	return f.SaveAsContext(context.Background(), outputPath, opts...)
}

// SaveAsContext is SaveAs with a context checked before the audio region
// is copied.
func (f *File) SaveAsContext(ctx context.Context, outputPath string, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	writer := registry.GetWriter(f.Format)
	if writer == nil {
		return &types.UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	if f.reader == nil {
		return fmt.Errorf("file not open: reader is nil")
	}

	log := f.logger().With("path", outputPath)

	// Get original file's mod time if we need to preserve it
	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	// Create temp file in same directory as output (for atomic rename)
	outputDir := filepath.Dir(outputPath)
	tempFile, err := os.CreateTemp(outputDir, ".oggmeta-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	ctx = logger.WithContext(ctx, log)
	if err := writer.Write(ctx, tempFile, &f.File, f.reader, f.Size); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		backupPath := outputPath + options.backupSuffix
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			log.Debug("backed up original", "backup", backupPath)
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}

	success = true

	if origInfo != nil {
		_ = os.Chtimes(outputPath, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := f.validateWrittenFile(ctx, outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	log.Debug("saved")
	return nil
}

// validateWrittenFile re-opens the file and compares tags and properties.
func (f *File) validateWrittenFile(ctx context.Context, path string) error {
	written, err := OpenContext(ctx, path, WithChecksumVerification(), WithLogger(f.logger()))
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	if !written.Tags.Equal(&f.Tags) {
		return fmt.Errorf("tags mismatch: got %q, want %q", written.Tags.Comments(), f.Tags.Comments())
	}
	if written.Audio.Duration != f.Audio.Duration {
		return fmt.Errorf("duration mismatch: got %s, want %s", written.Audio.Duration, f.Audio.Duration)
	}

	return nil
}

func (f *File) logger() Logger {
	if f.log == nil {
		return logger.Discard()
	}
	return f.log
}
