// Package stream provides cursor-based binary readers and writers with the
// alignment discipline used by Unity serialized files: variable-length fields
// are aligned to 4-byte boundaries relative to the start of the enclosing
// stream, and headers are reserved up front and backpatched once final sizes
// are known.
package stream

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Reader is an explicit cursor over a byte slice. The cursor position is the
// parser state; alignment is computed against the start of the slice, never
// against a sub-buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("seek to %d is out of bounds (stream is %d bytes)", pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Len returns the total length of the underlying stream.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Align advances the cursor to the next multiple of align, skipping the gap.
func (r *Reader) Align(align int) error {
	if rem := r.pos % align; rem != 0 {
		return r.Skip(align - rem)
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("skip of %d bytes at offset %d exceeds stream length %d", n, r.pos, len(r.data))
	}
	r.pos += n
	return nil
}

// Bytes reads exactly n bytes. The returned slice is a copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("read of %d bytes at offset %d exceeds stream length %d", n, r.pos, len(r.data))
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("read of %d bytes at offset %d exceeds stream length %d", n, r.pos, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// I16 reads a little-endian int16.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// I64 reads a little-endian int64.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

// F32 reads a little-endian float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// U16BE reads a big-endian uint16.
func (r *Reader) U16BE() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// U32BE reads a big-endian uint32.
func (r *Reader) U32BE() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// U64BE reads a big-endian uint64.
func (r *Reader) U64BE() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// CString reads a null-terminated string, consuming the terminator.
func (r *Reader) CString() (string, error) {
	start := r.pos
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[start:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", start)
}

// ReadString reads a length-prefixed UTF-8 string: the cursor is first
// aligned to 4 bytes, then a little-endian uint32 byte count and that many
// bytes follow. A UTF-8 BOM is stripped and invalid sequences are replaced
// rather than rejected, since text payloads come from sources the codec does
// not control.
func (r *Reader) ReadString() (string, error) {
	if err := r.Align(4); err != nil {
		return "", err
	}
	count, err := r.U32()
	if err != nil {
		return "", err
	}
	raw, err := r.take(int(count))
	if err != nil {
		return "", err
	}
	return DecodeUTF8(raw), nil
}

// DecodeUTF8 converts raw bytes to a string, stripping a leading BOM and
// replacing invalid UTF-8 sequences with U+FFFD.
func DecodeUTF8(raw []byte) string {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}
	return strings.ToValidUTF8(string(raw), "�")
}

// ReadArray reads a length-prefixed array: align to 4, little-endian uint32
// count, then count elements decoded by elem.
func ReadArray[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	if err := r.Align(4); err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, min(int(count), r.Remaining()))
	for i := uint32(0); i < count; i++ {
		item, err := elem(r)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ReadByteArray reads a length-prefixed byte array without an element loop.
func (r *Reader) ReadByteArray() ([]byte, error) {
	if err := r.Align(4); err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(count))
}
