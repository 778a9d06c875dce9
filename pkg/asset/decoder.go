package asset

import (
	"github.com/tanukisoft/unitypack/pkg/stream"
)

// dec wraps a stream.Reader with sticky error state so the record decoders
// can read field after field without per-call error checks. After a decode,
// callers inspect dec.err once.
type dec struct {
	r   *stream.Reader
	err error
}

func (d *dec) fail() bool {
	return d.err != nil
}

func (d *dec) align(n int) {
	if d.err == nil {
		d.err = d.r.Align(n)
	}
}

func (d *dec) skip(n int) {
	if d.err == nil {
		d.err = d.r.Skip(n)
	}
}

func (d *dec) u8() uint8 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.U8()
	d.err = err
	return v
}

func (d *dec) u16() uint16 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.U16()
	d.err = err
	return v
}

func (d *dec) u32() uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.U32()
	d.err = err
	return v
}

func (d *dec) u64() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.U64()
	d.err = err
	return v
}

func (d *dec) i32() int32 {
	return int32(d.u32())
}

func (d *dec) i64() int64 {
	return int64(d.u64())
}

func (d *dec) f32() float32 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.F32()
	d.err = err
	return v
}

func (d *dec) hash() Hash {
	if d.err != nil {
		return Hash{}
	}
	v, err := readHash(d.r)
	d.err = err
	return v
}

// str reads an aligned length-prefixed UTF-8 string.
func (d *dec) str() string {
	if d.err != nil {
		return ""
	}
	v, err := d.r.ReadString()
	d.err = err
	return v
}

// byteArray reads an aligned length-prefixed byte array.
func (d *dec) byteArray() []byte {
	if d.err != nil {
		return nil
	}
	v, err := d.r.ReadByteArray()
	d.err = err
	return v
}

// arr reads an aligned length-prefixed array whose elements decode through
// the same sticky-error state.
func arr[T any](d *dec, elem func(*dec) T) []T {
	if d.err != nil {
		return nil
	}
	d.align(4)
	count := d.u32()
	if d.err != nil {
		return nil
	}
	items := make([]T, 0, capHint(int(count), d.r.Remaining()))
	for i := uint32(0); i < count && d.err == nil; i++ {
		items = append(items, elem(d))
	}
	if d.err != nil {
		return nil
	}
	return items
}

// capHint bounds a wire-supplied element count by the bytes actually left in
// the stream, so a corrupt count cannot trigger a huge allocation.
func capHint(count, remaining int) int {
	if count > remaining {
		return remaining
	}
	return count
}
