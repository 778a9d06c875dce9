package msbt

import (
	"bytes"
	"testing"
	"unicode/utf16"
)

func makeTestMap() *MessageMap {
	m := &MessageMap{}
	m.Set("MID_GREETING", utf16.Encode([]rune("Hello!\x00")))
	m.Set("MID_FAREWELL", utf16.Encode([]rune("Goodbye.\x00")))
	m.Set("MID_SHOP_01", utf16.Encode([]rune("Welcome to the shop.\x00")))
	return m
}

func TestRoundTrip(t *testing.T) {
	original := makeTestMap()
	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(parsed.Messages))
	}

	t.Run("OrderPreserved", func(t *testing.T) {
		want := []string{"MID_GREETING", "MID_FAREWELL", "MID_SHOP_01"}
		for i, label := range want {
			if parsed.Messages[i].Label != label {
				t.Errorf("message %d: expected label %q, got %q", i, label, parsed.Messages[i].Label)
			}
		}
	})

	t.Run("PayloadsIntact", func(t *testing.T) {
		msg := parsed.Get("MID_FAREWELL")
		if msg == nil {
			t.Fatal("MID_FAREWELL missing")
		}
		if msg.String() != "Goodbye.\x00" {
			t.Errorf("payload mismatch: %q", msg.String())
		}
	})

	t.Run("BucketCountPreserved", func(t *testing.T) {
		// Fresh maps hash into len/2+1 buckets; parsing records that count.
		if parsed.NumBuckets != 2 {
			t.Errorf("expected 2 buckets, got %d", parsed.NumBuckets)
		}
		again, err := parsed.Serialize()
		if err != nil {
			t.Fatalf("reserialize: %v", err)
		}
		if !bytes.Equal(data, again) {
			t.Error("parse/serialize round trip changed the archive")
		}
	})
}

func TestFileLayout(t *testing.T) {
	data, err := makeTestMap().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	t.Run("Header", func(t *testing.T) {
		if string(data[:8]) != "MsgStdBn" {
			t.Errorf("bad magic: % x", data[:8])
		}
		if data[8] != 0xFF || data[9] != 0xFE {
			t.Errorf("bad byte order mark: % x", data[8:10])
		}
	})

	t.Run("SectionsAligned", func(t *testing.T) {
		if len(data)%16 != 0 {
			t.Errorf("archive length %d is not 16-byte aligned", len(data))
		}
	})
}

func TestHashLabel(t *testing.T) {
	// One-byte labels hash to their byte value modulo the bucket count.
	if got := hashLabel("A", 101); got != int('A')%101 {
		t.Errorf("expected %d, got %d", int('A')%101, got)
	}
	// Order matters through the 0x492 multiplier.
	if hashLabel("AB", 1<<30) == hashLabel("BA", 1<<30) {
		t.Error("expected different hashes for transposed labels")
	}
}

func TestRejectsUsedATR1(t *testing.T) {
	original := makeTestMap()
	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	// Find the ATR1 section and flip one of its attribute bytes.
	idx := bytes.Index(data, []byte("ATR1"))
	if idx < 0 {
		t.Fatal("ATR1 section missing")
	}
	// 4 magic + 4 length + 8 reserved + 4 count + 4 unknown = first payload byte.
	data[idx+24] = 1

	if _, err := Parse(data); err == nil {
		t.Error("expected error for archive with attribute data")
	}
}

func TestRejectsTruncated(t *testing.T) {
	data, err := makeTestMap().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if _, err := Parse(data[:0x18]); err == nil {
		t.Error("expected error for truncated archive")
	}
}

func TestEmptyMap(t *testing.T) {
	m := &MessageMap{}
	data, err := m.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(parsed.Messages))
	}
}
