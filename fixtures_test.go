package oggmeta_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/oggmeta/internal/ogg"
	"github.com/simonhull/oggmeta/internal/vorbis"
)

const fixtureSerial = 0x5EED

// createOpus builds a three-second stereo Opus stream with the given
// comments.
func createOpus(comments ...string) []byte {
	head := &bytes.Buffer{}
	head.WriteString("OpusHead")
	head.WriteByte(1)                                      // Version
	head.WriteByte(2)                                      // Channels
	binary.Write(head, binary.LittleEndian, uint16(312))   // Pre-skip
	binary.Write(head, binary.LittleEndian, uint32(44100)) // Input sample rate
	binary.Write(head, binary.LittleEndian, int16(0))      // Output gain
	head.WriteByte(0)                                      // Mapping family

	tags := append([]byte("OpusTags"), vorbis.EncodeCommentBlock("oggmeta test", comments)...)

	id := ogg.Paginate([][]byte{head.Bytes()}, fixtureSerial, 0, 0)[0]
	id.HeaderType = ogg.FlagFirst
	id.GenerateChecksum()

	pages := []*ogg.Page{id}
	pages = append(pages, ogg.Paginate([][]byte{tags}, fixtureSerial, 1, 0)...)

	seq := pages[len(pages)-1].Sequence + 1
	for i := range 3 {
		audio := ogg.Paginate([][]byte{bytes.Repeat([]byte{byte(i)}, 500)}, fixtureSerial, seq, uint64(312+48000*(i+1)))[0]
		if i == 2 {
			audio.HeaderType |= ogg.FlagLast
			audio.GenerateChecksum()
		}
		pages = append(pages, audio)
		seq++
	}

	var buf bytes.Buffer
	for _, p := range pages {
		buf.Write(p.Bytes())
	}
	return buf.Bytes()
}

// writeFixture writes data to name inside a fresh temp directory.
func writeFixture(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
