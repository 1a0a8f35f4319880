package oggmeta_test

import (
	"context"
	"errors"
	"testing"

	"github.com/simonhull/oggmeta"
)

// TestOpenMany_Cancellation verifies that cancelled operations clean up resources
func TestOpenMany_Cancellation(t *testing.T) {
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = writeFixture(t, "song.opus", createOpus("TITLE=x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := oggmeta.OpenMany(ctx, paths...)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if files != nil {
		t.Error("expected nil files on error")
	}
}

// TestOpenMany_PartialFailure verifies cleanup on partial failure
func TestOpenMany_PartialFailure(t *testing.T) {
	validPath := writeFixture(t, "song.opus", createOpus("TITLE=x"))

	paths := []string{
		validPath,
		"/nonexistent/file.opus",
		validPath,
	}

	files, err := oggmeta.OpenMany(context.Background(), paths...)
	if err == nil {
		t.Fatal("expected error from nonexistent file")
	}
	if files != nil {
		t.Error("expected nil files on partial failure")
	}
}

func TestOpenMany_Order(t *testing.T) {
	titles := []string{"one", "two", "three", "four"}
	paths := make([]string, len(titles))
	for i, title := range titles {
		paths[i] = writeFixture(t, "song.opus", createOpus("TITLE="+title))
	}

	files, err := oggmeta.OpenManyWithOptions(context.Background(), 2, paths, oggmeta.WithChecksumVerification())
	if err != nil {
		t.Fatalf("OpenManyWithOptions failed: %v", err)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for i, f := range files {
		if f.Tags.Title != titles[i] {
			t.Errorf("files[%d].Tags.Title = %q, want %q", i, f.Tags.Title, titles[i])
		}
	}
}

func TestOpenMany_Empty(t *testing.T) {
	files, err := oggmeta.OpenMany(context.Background())
	if err != nil || files != nil {
		t.Errorf("OpenMany() = %v, %v; want nil, nil", files, err)
	}
}

func TestOpenContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := oggmeta.OpenContext(ctx, "unused.opus"); !errors.Is(err, context.Canceled) {
		t.Errorf("OpenContext() error = %v, want context.Canceled", err)
	}
}
