package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with little-endian and length-prefixed
// helpers.
type SafeWriter struct {
	w io.Writer
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	_, err := sw.w.Write(b)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T Unsigned](sw *SafeWriter, val T) error {
	buf := make([]byte, sizeOf[T]())
	switch len(buf) {
	case 1:
		buf[0] = byte(val)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(val))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(val))
	default:
		binary.LittleEndian.PutUint64(buf, uint64(val))
	}
	return sw.WriteBytes(buf)
}

// WriteLengthPrefixed writes a 32-bit little-endian length followed by s.
//
// This is the string encoding used throughout Vorbis comment blocks.
func (sw *SafeWriter) WriteLengthPrefixed(s string) error {
	if err := WriteLE(sw, uint32(len(s))); err != nil {
		return err
	}
	return sw.WriteString(s)
}
