package ogg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/oggmeta/internal/vorbis"
)

// Comment packet prefixes.
const (
	vorbisCommentMagic = "\x03vorbis"
	opusCommentMagic   = "OpusTags"
)

// commentPacket frames a comment block the way codec c carries it.
func (c codec) commentPacket(vendor string, comments []string) []byte {
	block := vorbis.EncodeCommentBlock(vendor, comments)
	switch c {
	case codecVorbis:
		packet := make([]byte, 0, len(vorbisCommentMagic)+len(block)+1)
		packet = append(packet, vorbisCommentMagic...)
		packet = append(packet, block...)
		return append(packet, 0x01) // framing bit
	case codecOpus:
		return append([]byte(opusCommentMagic), block...)
	default:
		return block
	}
}

// commentBlock strips the codec framing from a comment packet.
func (c codec) commentBlock(packet []byte) ([]byte, error) {
	var magic string
	switch c {
	case codecVorbis:
		magic = vorbisCommentMagic
	case codecOpus:
		magic = opusCommentMagic
	default:
		return packet, nil
	}

	if !bytes.HasPrefix(packet, []byte(magic)) {
		return nil, fmt.Errorf("%s comment header: expected %q prefix, got %q",
			c, magic, packet[:min(len(packet), len(magic))])
	}
	return packet[len(magic):], nil
}

// parseComments decodes a comment packet into vendor and comments.
func (c codec) parseComments(packet []byte) (vendor string, comments []string, err error) {
	block, err := c.commentBlock(packet)
	if err != nil {
		return "", nil, err
	}
	return vorbis.ParseCommentBlock(block)
}
