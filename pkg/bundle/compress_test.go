package bundle

import (
	"bytes"
	"testing"

	"github.com/ulikunitz/xz/lzma"
)

func TestDecompressLZMABlock(t *testing.T) {
	payload := bytes.Repeat([]byte("bundle block payload, lzma scheme "), 64)

	var buf bytes.Buffer
	cfg := lzma.WriterConfig{Size: int64(len(payload))}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		t.Fatalf("new lzma writer: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A bundle block stores only the five property bytes followed by the
	// stream; the 8-byte size field of the classic container is omitted and
	// comes from the block table instead.
	packed := buf.Bytes()
	block := append([]byte(nil), packed[:5]...)
	block = append(block, packed[13:]...)

	t.Run("RoundTrip", func(t *testing.T) {
		out, err := decompress(schemeLZMA, block, uint32(len(payload)))
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(out, payload) {
			t.Error("lzma block did not round-trip")
		}
	})

	t.Run("TruncatedStreamFails", func(t *testing.T) {
		if _, err := decompress(schemeLZMA, block[:len(block)/2], uint32(len(payload))); err == nil {
			t.Error("expected error for a truncated lzma stream")
		}
	})

	t.Run("TooShortForProperties", func(t *testing.T) {
		if _, err := decompress(schemeLZMA, block[:4], uint32(len(payload))); err == nil {
			t.Error("expected error for a block shorter than the property header")
		}
	})
}
