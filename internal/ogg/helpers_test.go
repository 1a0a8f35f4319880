package ogg

import (
	"bytes"
	"encoding/binary"
)

const testSerial = 12345

// newPage builds a page carrying complete packets, checksum generated.
func newPage(headerType byte, granule uint64, serial, sequence uint32, packets ...[]byte) *Page {
	p := &Page{
		HeaderType:      headerType,
		GranulePosition: granule,
		Serial:          serial,
		Sequence:        sequence,
	}
	for _, packet := range packets {
		n := len(packet)
		for n >= 255 {
			p.Segments = append(p.Segments, 255)
			n -= 255
		}
		p.Segments = append(p.Segments, byte(n))
		p.Content = append(p.Content, packet...)
	}
	p.GenerateChecksum()
	return p
}

// rawPage builds a page from an explicit segment table.
func rawPage(headerType byte, granule uint64, serial, sequence uint32, segments, content []byte) *Page {
	p := &Page{
		HeaderType:      headerType,
		GranulePosition: granule,
		Serial:          serial,
		Sequence:        sequence,
		Segments:        segments,
		Content:         content,
	}
	p.GenerateChecksum()
	return p
}

// join serializes pages back to back.
func join(pages ...*Page) []byte {
	var buf bytes.Buffer
	for _, p := range pages {
		buf.Write(p.Bytes())
	}
	return buf.Bytes()
}

func opusHead(channels uint8, preSkip uint16, rate uint32) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("OpusHead")
	buf.WriteByte(1) // Version
	buf.WriteByte(channels)
	binary.Write(buf, binary.LittleEndian, preSkip)
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, int16(0)) // Output gain
	buf.WriteByte(0)                                 // Mapping family
	return buf.Bytes()
}

func vorbisIdent(channels uint8, rate uint32) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("\x01vorbis")
	binary.Write(buf, binary.LittleEndian, uint32(0)) // Version
	buf.WriteByte(channels)
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, uint32(0))      // Bitrate maximum
	binary.Write(buf, binary.LittleEndian, uint32(128000)) // Bitrate nominal
	binary.Write(buf, binary.LittleEndian, uint32(0))      // Bitrate minimum
	buf.WriteByte(0xB8)                                    // Blocksizes 2^11 / 2^8
	buf.WriteByte(0x01)                                    // Framing
	return buf.Bytes()
}

func speexHeader(rate uint32, channels uint32) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("Speex   ")
	version := make([]byte, 20)
	copy(version, "1.2.1")
	buf.Write(version)
	binary.Write(buf, binary.LittleEndian, uint32(1))  // Version id
	binary.Write(buf, binary.LittleEndian, uint32(80)) // Header size
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, uint32(1)) // Mode
	binary.Write(buf, binary.LittleEndian, uint32(4)) // Mode bitstream version
	binary.Write(buf, binary.LittleEndian, channels)
	binary.Write(buf, binary.LittleEndian, int32(-1))   // Bitrate
	binary.Write(buf, binary.LittleEndian, uint32(320)) // Frame size
	binary.Write(buf, binary.LittleEndian, uint32(0))   // VBR
	binary.Write(buf, binary.LittleEndian, uint32(1))   // Frames per packet
	binary.Write(buf, binary.LittleEndian, uint32(0))   // Extra headers
	binary.Write(buf, binary.LittleEndian, uint32(0))   // Reserved
	binary.Write(buf, binary.LittleEndian, uint32(0))   // Reserved
	return buf.Bytes()
}

// audioPages builds n audio pages of size bytes each, the last one carrying
// lastGranule and flagged end-of-stream.
func audioPages(serial, firstSeq uint32, n, size int, lastGranule uint64) []*Page {
	pages := make([]*Page, n)
	for i := range n {
		packet := bytes.Repeat([]byte{byte(0xA0 + i)}, size)
		granule := lastGranule / uint64(n) * uint64(i+1)
		var flags byte
		if i == n-1 {
			granule = lastGranule
			flags = FlagLast
		}
		pages[i] = newPage(flags, granule, serial, firstSeq+uint32(i), packet)
	}
	return pages
}

// opusStream builds a complete single-page-metadata Opus stream.
func opusStream(preSkip uint16, lastGranule uint64, comments ...string) []byte {
	id := newPage(FlagFirst, 0, testSerial, 0, opusHead(2, preSkip, 44100))
	tags := newPage(0, 0, testSerial, 1, codecOpus.commentPacket("test vendor", comments))
	return join(append([]*Page{id, tags}, audioPages(testSerial, 2, 3, 100, lastGranule)...)...)
}

// openHeaderStream builds an Opus stream whose comment page ends with a
// 255 lacing value although the next page is not flagged as continued.
func openHeaderStream() []byte {
	id := newPage(FlagFirst, 0, testSerial, 0, opusHead(2, 0, 48000))
	tags := newPage(0, 0, testSerial, 1, codecOpus.commentPacket("test vendor", []string{"TITLE=Song"}))
	tags.Segments = append(tags.Segments, 255)
	tags.Content = append(tags.Content, bytes.Repeat([]byte{'x'}, 255)...)
	tags.GenerateChecksum()
	return join(append([]*Page{id, tags}, audioPages(testSerial, 2, 1, 10, 48000)...)...)
}
