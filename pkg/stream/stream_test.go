package stream

import (
	"bytes"
	"testing"
)

func TestReaderAlignment(t *testing.T) {
	t.Run("AlignSkipsToBoundary", func(t *testing.T) {
		r := NewReader([]byte{0x01, 0xFF, 0xFF, 0xFF, 0x02})
		if _, err := r.U8(); err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := r.Align(4); err != nil {
			t.Fatalf("align: %v", err)
		}
		if r.Pos() != 4 {
			t.Fatalf("expected position 4 after align, got %d", r.Pos())
		}
		v, err := r.U8()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if v != 0x02 {
			t.Errorf("expected 0x02 after alignment, got 0x%02x", v)
		}
	})

	t.Run("AlignAtBoundaryIsNoop", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3, 4, 5})
		if err := r.Align(4); err != nil {
			t.Fatalf("align: %v", err)
		}
		if r.Pos() != 0 {
			t.Errorf("expected position 0, got %d", r.Pos())
		}
	})

	t.Run("AlignPastEndFails", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		if _, err := r.U8(); err != nil {
			t.Fatalf("read: %v", err)
		}
		if err := r.Align(4); err == nil {
			t.Error("expected error aligning past end of buffer")
		}
	})
}

func TestReaderStrings(t *testing.T) {
	t.Run("StringStripsBOM", func(t *testing.T) {
		w := NewWriter()
		w.WriteString("\xEF\xBB\xBFhello")
		r := NewReader(w.Bytes())
		s, err := r.ReadString()
		if err != nil {
			t.Fatalf("read string: %v", err)
		}
		if s != "hello" {
			t.Errorf("expected %q, got %q", "hello", s)
		}
	})

	t.Run("StringReplacesInvalidUTF8", func(t *testing.T) {
		w := NewWriter()
		w.Pad(4)
		w.U32(2)
		w.U8(0xC3) // truncated two-byte sequence
		w.U8(0x28)
		r := NewReader(w.Bytes())
		s, err := r.ReadString()
		if err != nil {
			t.Fatalf("read string: %v", err)
		}
		if s != "�(" {
			t.Errorf("expected lossy decode, got %q", s)
		}
	})

	t.Run("StringAlignsBeforeLength", func(t *testing.T) {
		w := NewWriter()
		w.U8(0)
		w.WriteString("ab")
		r := NewReader(w.Bytes())
		if _, err := r.U8(); err != nil {
			t.Fatalf("read: %v", err)
		}
		s, err := r.ReadString()
		if err != nil {
			t.Fatalf("read string: %v", err)
		}
		if s != "ab" {
			t.Errorf("expected %q, got %q", "ab", s)
		}
	})

	t.Run("CStringRoundTrip", func(t *testing.T) {
		w := NewWriter()
		w.CString("2020.3.18f1")
		w.U8(0x7F)
		r := NewReader(w.Bytes())
		s, err := r.CString()
		if err != nil {
			t.Fatalf("read cstring: %v", err)
		}
		if s != "2020.3.18f1" {
			t.Errorf("expected %q, got %q", "2020.3.18f1", s)
		}
		next, err := r.U8()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if next != 0x7F {
			t.Errorf("cursor not past terminator, read 0x%02x", next)
		}
	})

	t.Run("UnterminatedCStringFails", func(t *testing.T) {
		r := NewReader([]byte("abc"))
		if _, err := r.CString(); err == nil {
			t.Error("expected error for missing terminator")
		}
	})
}

func TestWriterBackpatch(t *testing.T) {
	w := NewWriter()
	sizeAt := w.Reserve(4)
	w.Write([]byte("payload"))
	end := w.Len()

	if err := w.Seek(sizeAt); err != nil {
		t.Fatalf("seek: %v", err)
	}
	w.U32(uint32(end - 4))
	if err := w.Seek(end); err != nil {
		t.Fatalf("seek: %v", err)
	}
	w.U8(0xAA)

	want := append([]byte{7, 0, 0, 0}, []byte("payload")...)
	want = append(want, 0xAA)
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("mismatch: got % x, want % x", w.Bytes(), want)
	}
}

func TestWriterPad(t *testing.T) {
	t.Run("PadToBoundary", func(t *testing.T) {
		w := NewWriter()
		w.U8(1)
		w.Pad(8)
		if w.Len() != 8 {
			t.Errorf("expected 8 bytes after pad, got %d", w.Len())
		}
	})

	t.Run("PadAtBoundaryIsNoop", func(t *testing.T) {
		w := NewWriter()
		w.U32(1)
		w.Pad(4)
		if w.Len() != 4 {
			t.Errorf("expected 4 bytes, got %d", w.Len())
		}
	})

	t.Run("PadToPosition", func(t *testing.T) {
		w := NewWriter()
		w.U8(1)
		w.PadTo(0x10)
		if w.Len() != 0x10 {
			t.Errorf("expected 0x10 bytes, got %d", w.Len())
		}
		w.PadTo(4) // already past, no-op
		if w.Len() != 0x10 {
			t.Errorf("expected length unchanged, got %d", w.Len())
		}
	})
}

func TestEndianness(t *testing.T) {
	w := NewWriter()
	w.U32(0x11223344)
	w.U32BE(0x11223344)
	got := w.Bytes()
	want := []byte{0x44, 0x33, 0x22, 0x11, 0x11, 0x22, 0x33, 0x44}
	if !bytes.Equal(got, want) {
		t.Fatalf("mismatch: got % x, want % x", got, want)
	}

	r := NewReader(got)
	le, err := r.U32()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	be, err := r.U32BE()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if le != 0x11223344 || be != 0x11223344 {
		t.Errorf("expected 0x11223344 both ways, got 0x%08x and 0x%08x", le, be)
	}
}

func TestArrays(t *testing.T) {
	t.Run("ByteArrayRoundTrip", func(t *testing.T) {
		w := NewWriter()
		w.U8(0xFF) // force padding before the length prefix
		w.WriteByteArray([]byte{1, 2, 3})
		r := NewReader(w.Bytes())
		if _, err := r.U8(); err != nil {
			t.Fatalf("read: %v", err)
		}
		data, err := r.ReadByteArray()
		if err != nil {
			t.Fatalf("read byte array: %v", err)
		}
		if !bytes.Equal(data, []byte{1, 2, 3}) {
			t.Errorf("mismatch: got %v", data)
		}
	})

	t.Run("GenericArrayRoundTrip", func(t *testing.T) {
		w := NewWriter()
		WriteArray(w, []uint32{10, 20, 30}, func(w *Writer, v uint32) { w.U32(v) })
		r := NewReader(w.Bytes())
		items, err := ReadArray(r, func(r *Reader) (uint32, error) { return r.U32() })
		if err != nil {
			t.Fatalf("read array: %v", err)
		}
		if len(items) != 3 || items[0] != 10 || items[2] != 30 {
			t.Errorf("mismatch: got %v", items)
		}
	})

	t.Run("TruncatedArrayFails", func(t *testing.T) {
		w := NewWriter()
		w.U32(1000)
		r := NewReader(w.Bytes())
		if _, err := r.ReadByteArray(); err == nil {
			t.Error("expected error for truncated array")
		}
	})
}
