package stream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer is a growable buffer with a seekable cursor. Seeking backwards lets
// callers reserve space for headers and tables whose contents are only known
// after the body has been written, then backpatch them in place.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Pos returns the current cursor position.
func (w *Writer) Pos() int {
	return w.pos
}

// Len returns the total length written so far, independent of the cursor.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Seek moves the cursor to an absolute position within the written region.
func (w *Writer) Seek(pos int) error {
	if pos < 0 || pos > len(w.buf) {
		return fmt.Errorf("seek to %d is out of bounds (buffer is %d bytes)", pos, len(w.buf))
	}
	w.pos = pos
	return nil
}

// Write appends or overwrites bytes at the cursor, growing the buffer as
// needed. It never fails; the error return satisfies io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

// Reserve writes n zero bytes and returns the offset where they begin.
func (w *Writer) Reserve(n int) int {
	start := w.pos
	w.Write(make([]byte, n))
	return start
}

// Pad writes zero bytes until the cursor is a multiple of align.
func (w *Writer) Pad(align int) {
	if rem := w.pos % align; rem != 0 {
		w.Write(make([]byte, align-rem))
	}
}

// PadTo writes zero bytes until the cursor reaches pos. It does nothing if
// the cursor is already at or past pos.
func (w *Writer) PadTo(pos int) {
	if w.pos < pos {
		w.Write(make([]byte, pos-w.pos))
	}
}

// U8 writes one byte.
func (w *Writer) U8(v uint8) {
	w.Write([]byte{v})
}

// U16 writes a little-endian uint16.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

// U32 writes a little-endian uint32.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

// I16 writes a little-endian int16.
func (w *Writer) I16(v int16) {
	w.U16(uint16(v))
}

// I32 writes a little-endian int32.
func (w *Writer) I32(v int32) {
	w.U32(uint32(v))
}

// I64 writes a little-endian int64.
func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

// F32 writes a little-endian float32.
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// U16BE writes a big-endian uint16.
func (w *Writer) U16BE(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

// U32BE writes a big-endian uint32.
func (w *Writer) U32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// U64BE writes a big-endian uint64.
func (w *Writer) U64BE(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

// CString writes a string followed by a null terminator.
func (w *Writer) CString(s string) {
	w.Write([]byte(s))
	w.U8(0)
}

// WriteString writes a length-prefixed UTF-8 string: pad to 4, little-endian
// uint32 byte count, then the bytes.
func (w *Writer) WriteString(s string) {
	w.Pad(4)
	w.U32(uint32(len(s)))
	w.Write([]byte(s))
}

// WriteArray writes a length-prefixed array: pad to 4, little-endian uint32
// count, then each element via elem. Writes cannot fail, so neither can elem.
func WriteArray[T any](w *Writer, items []T, elem func(*Writer, T)) {
	w.Pad(4)
	w.U32(uint32(len(items)))
	for _, item := range items {
		elem(w, item)
	}
}

// WriteByteArray writes a length-prefixed byte array.
func (w *Writer) WriteByteArray(data []byte) {
	w.Pad(4)
	w.U32(uint32(len(data)))
	w.Write(data)
}
