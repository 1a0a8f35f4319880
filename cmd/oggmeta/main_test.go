package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/oggmeta"
	"github.com/simonhull/oggmeta/internal/ogg"
	"github.com/simonhull/oggmeta/internal/vorbis"
)

// opusFile writes a two-second mono Opus file with the given comments.
func opusFile(t *testing.T, comments ...string) string {
	t.Helper()

	head := &bytes.Buffer{}
	head.WriteString("OpusHead")
	head.WriteByte(1)                                      // Version
	head.WriteByte(1)                                      // Channels
	binary.Write(head, binary.LittleEndian, uint16(0))     // Pre-skip
	binary.Write(head, binary.LittleEndian, uint32(48000)) // Input sample rate
	binary.Write(head, binary.LittleEndian, int16(0))      // Output gain
	head.WriteByte(0)                                      // Mapping family

	tags := append([]byte("OpusTags"), vorbis.EncodeCommentBlock("cli test", comments)...)

	id := ogg.Paginate([][]byte{head.Bytes()}, 77, 0, 0)[0]
	id.HeaderType = ogg.FlagFirst
	id.GenerateChecksum()

	pages := []*ogg.Page{id}
	pages = append(pages, ogg.Paginate([][]byte{tags}, 77, 1, 0)...)
	for i := range 2 {
		audio := ogg.Paginate([][]byte{bytes.Repeat([]byte{0xAA}, 250)}, 77, uint32(2+i), uint64(48000*(i+1)))[0]
		if i == 1 {
			audio.HeaderType |= ogg.FlagLast
			audio.GenerateChecksum()
		}
		pages = append(pages, audio)
	}

	var buf bytes.Buffer
	for _, p := range pages {
		buf.Write(p.Bytes())
	}

	path := filepath.Join(t.TempDir(), "test.opus")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// run executes the CLI with a config file that does not exist unless the
// caller passes --config itself.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	argv := []string{"oggmeta"}
	if !containsFlag(args, "--config") {
		argv = append(argv, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	}
	argv = append(argv, args...)

	err := app.Run(context.Background(), argv)
	return out.String(), err
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func TestInfo_JSON(t *testing.T) {
	path := opusFile(t, "TITLE=Song", "ARTIST=Band")

	out, err := run(t, "info", "--json", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}

	var reports []fileReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}

	r := reports[0]
	if r.Codec != "Opus" {
		t.Errorf("Codec = %q, want Opus", r.Codec)
	}
	if r.DurationMs != 2000 {
		t.Errorf("DurationMs = %d, want 2000", r.DurationMs)
	}
	if r.Channels != 1 || r.SampleRate != 48000 {
		t.Errorf("Channels/SampleRate = %d/%d, want 1/48000", r.Channels, r.SampleRate)
	}
	if r.Serial != 77 {
		t.Errorf("Serial = %d, want 77", r.Serial)
	}
	if r.Vendor != "cli test" {
		t.Errorf("Vendor = %q, want %q", r.Vendor, "cli test")
	}
	want := []string{"TITLE=Song", "ARTIST=Band"}
	if strings.Join(r.Comments, "|") != strings.Join(want, "|") {
		t.Errorf("Comments = %v, want %v", r.Comments, want)
	}
}

func TestInfo_TextMultipleFiles(t *testing.T) {
	a := opusFile(t, "TITLE=First")
	b := opusFile(t, "TITLE=Second")

	out, err := run(t, "info", "--jobs", "2", a, b)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}

	first := strings.Index(out, "TITLE=First")
	second := strings.Index(out, "TITLE=Second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("files missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "Format:  Opus") {
		t.Errorf("output lacks format line:\n%s", out)
	}
}

func TestInfo_MissingFile(t *testing.T) {
	if _, err := run(t, "info", filepath.Join(t.TempDir(), "missing.opus")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestPages(t *testing.T) {
	path := opusFile(t, "TITLE=Song")

	out, err := run(t, "pages", "--json", path)
	if err != nil {
		t.Fatalf("pages failed: %v", err)
	}

	var rows []pageRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d pages, want 4", len(rows))
	}
	if rows[0].Flags != "-b-" || rows[0].Offset != 0 {
		t.Errorf("first page = %+v, want flags -b- at offset 0", rows[0])
	}
	if rows[3].Flags != "--e" || rows[3].Granule != "96000" {
		t.Errorf("last page = %+v, want flags --e granule 96000", rows[3])
	}
	for i, r := range rows {
		if !r.CRCOK {
			t.Errorf("page %d has a bad checksum", i)
		}
		if i > 0 && r.Offset != rows[i-1].Offset+rows[i-1].Size {
			t.Errorf("page %d offset = %d, want %d", i, r.Offset, rows[i-1].Offset+rows[i-1].Size)
		}
	}
}

func TestPages_Table(t *testing.T) {
	path := opusFile(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xFF // corrupt the last page's payload
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "pages", path)
	if err != nil {
		t.Fatalf("pages failed: %v", err)
	}
	if !strings.Contains(out, "OFFSET") {
		t.Errorf("table header missing:\n%s", out)
	}
	if strings.Count(out, "BAD") != 1 {
		t.Errorf("want exactly one BAD checksum:\n%s", out)
	}
}

func TestSet(t *testing.T) {
	path := opusFile(t, "TITLE=Old", "ARTIST=Band", "COMMENT=drop me")

	_, err := run(t, "set", "--delete", "COMMENT", path, "TITLE=New", "genre=Jazz", "GENRE=Blues")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	f, err := oggmeta.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	if f.Tags.Title != "New" {
		t.Errorf("Title = %q, want New", f.Tags.Title)
	}
	if strings.Join(f.Tags.Genres, ",") != "Jazz,Blues" {
		t.Errorf("Genres = %v, want [Jazz Blues]", f.Tags.Genres)
	}
	if f.Tags.Comment != "" {
		t.Errorf("Comment = %q, want deleted", f.Tags.Comment)
	}
	if f.Tags.Artist != "Band" {
		t.Errorf("Artist = %q, want untouched", f.Tags.Artist)
	}
	if f.Audio.Duration.Milliseconds() != 2000 {
		t.Errorf("Duration = %v, want 2s", f.Audio.Duration)
	}
}

func TestSet_Output(t *testing.T) {
	path := opusFile(t, "TITLE=Old")
	dest := filepath.Join(t.TempDir(), "copy.opus")

	if _, err := run(t, "set", "-o", dest, "--vendor", "edited", path, "TITLE=New"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	orig, err := oggmeta.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer orig.Close()
	if orig.Tags.Title != "Old" {
		t.Errorf("source Title = %q, want unchanged", orig.Tags.Title)
	}

	out, err := oggmeta.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if out.Tags.Title != "New" || out.Tags.Vendor != "edited" {
		t.Errorf("output Title/Vendor = %q/%q, want New/edited", out.Tags.Title, out.Tags.Vendor)
	}
}

func TestSet_BackupFromConfig(t *testing.T) {
	path := opusFile(t, "TITLE=Old")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("backup_suffix: .orig\nvalidate: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfgPath, "set", path, "TITLE=New"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := os.Stat(path + ".orig"); err != nil {
		t.Errorf("backup not created: %v", err)
	}
}

func TestSet_NothingToChange(t *testing.T) {
	path := opusFile(t)
	if _, err := run(t, "set", path); err == nil {
		t.Fatal("expected error when no edits are given")
	}
}

func TestRun_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("jobs: [not a number\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "--config", cfgPath, "info", opusFile(t))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("err = %v, want a parse config error", err)
	}
}
