// Package types provides core data structures for Ogg stream metadata.
//
// This package defines the File, Tags, and AudioInfo types shared by the
// public package and the format implementations, plus the error types
// every layer returns.
package types

// File holds the metadata parsed from one Ogg logical stream.
//
// Format parsers return a File; the public package wraps it with the open
// file handle and options.
type File struct {
	Path     string
	Warnings []Warning
	Tags     Tags
	Audio    AudioInfo
	Format   Format
	Size     int64
}
