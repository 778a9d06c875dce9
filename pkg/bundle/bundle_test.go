package bundle

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/tanukisoft/unitypack/pkg/asset"
)

const testCAB = "CAB-000102030405060708090a0b0c0d0e0f"

func makeTextAssetFile(name, contents string) *asset.File {
	f := &asset.File{
		Header: asset.Header{UnityVersion: "2020.3.18f1"},
		Types: []asset.TypeDescriptor{
			{ClassID: 49, TypeHash: asset.TextAssetHash},
		},
	}
	f.AddAsset(&asset.TextAsset{Name: name, Data: []byte(contents)}, 1)
	return f
}

func makeTestBundle() *Bundle {
	return &Bundle{entries: []Entry{
		{Path: testCAB, Assets: makeTextAssetFile("dialogue", "line one")},
		{Path: testCAB + ".resS", Raw: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
	}}
}

func TestBundleRoundTrip(t *testing.T) {
	for _, kind := range []Compression{CompressionNone, CompressionLZ4} {
		t.Run(kind.String(), func(t *testing.T) {
			data, err := makeTestBundle().SerializeCompressed(kind)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}

			parsed, err := Parse(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			files := parsed.Files()
			if len(files) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(files))
			}
			if files[0].Path != testCAB || files[0].Assets == nil {
				t.Errorf("first entry should be the asset file, got %+v", files[0].Path)
			}
			if !bytes.Equal(files[1].Raw, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
				t.Errorf("raw entry payload mismatch: %v", files[1].Raw)
			}

			text, ok := files[0].Assets.Assets[0].(*asset.TextAsset)
			if !ok {
				t.Fatalf("expected a text asset, got %T", files[0].Assets.Assets[0])
			}
			if text.Name != "dialogue" || string(text.Data) != "line one" {
				t.Errorf("text asset mismatch: %+v", text)
			}
		})
	}
}

func TestBundleLZMAWriteUnsupported(t *testing.T) {
	if _, err := makeTestBundle().SerializeCompressed(CompressionLZMA); err == nil {
		t.Error("expected error for lzma serialization")
	}
}

func TestListFiles(t *testing.T) {
	data, err := makeTestBundle().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	paths, err := ListFiles(data)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 2 || paths[0] != testCAB || paths[1] != testCAB+".resS" {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestBundleRejectsBadMagic(t *testing.T) {
	data, err := makeTestBundle().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	data[0] = 'X'
	if _, err := Parse(data); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestBundleRejectsOutOfBoundsNode(t *testing.T) {
	data, err := makeTestBundle().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	// The metadata sits right after the 0x40-byte header: 16 guid bytes, a
	// block count, one 10-byte block entry, a node count, then the first
	// node's offset and size as big-endian u64s.
	offsetPos := headerSize + 16 + 4 + 10 + 4
	sizePos := offsetPos + 8

	t.Run("SizePastBlob", func(t *testing.T) {
		data := append([]byte(nil), data...)
		data[sizePos] = 0x7F
		if _, err := Parse(data); err == nil {
			t.Error("expected error for node size past the content blob")
		}
	})

	t.Run("OffsetPlusSizeWraps", func(t *testing.T) {
		data := append([]byte(nil), data...)
		binary.BigEndian.PutUint64(data[offsetPos:], 8)
		binary.BigEndian.PutUint64(data[sizePos:], ^uint64(7))
		if _, err := Parse(data); err == nil {
			t.Error("expected error for offset and size wrapping past zero")
		}
	})
}

func TestCAB(t *testing.T) {
	b := makeTestBundle()

	t.Run("Lookup", func(t *testing.T) {
		cab, ok := b.CAB()
		if !ok || cab != testCAB {
			t.Errorf("expected %q, got %q (%v)", testCAB, cab, ok)
		}
	})

	t.Run("RenameKeepsPosition", func(t *testing.T) {
		renamed := "CAB-fffefdfcfbfaf9f8f7f6f5f4f3f2f1f0"
		if err := b.RenameCAB(renamed); err != nil {
			t.Fatalf("rename: %v", err)
		}
		if b.entries[0].Path != renamed {
			t.Errorf("renamed node moved or kept old path: %v", b.entries[0].Path)
		}
	})

	t.Run("RenameMissingFileFails", func(t *testing.T) {
		if err := b.Rename("no-such-file", "other"); err == nil {
			t.Error("expected error renaming a missing file")
		}
	})
}

func TestTextBundleReplace(t *testing.T) {
	data, err := makeTestBundle().Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	tb, err := ParseText(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	name, err := tb.AssetName()
	if err != nil {
		t.Fatalf("asset name: %v", err)
	}
	if name != "dialogue" {
		t.Errorf("expected asset name %q, got %q", "dialogue", name)
	}
	text, err := tb.Text()
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != "line one" {
		t.Errorf("expected %q, got %q", "line one", text)
	}

	if err := tb.ReplaceText("line two"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	edited, err := tb.Serialize()
	if err != nil {
		t.Fatalf("serialize edited: %v", err)
	}

	reparsed, err := ParseText(edited)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	got, err := reparsed.Text()
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "line two" {
		t.Errorf("replacement not persisted: %q", got)
	}
}

func TestTextBundleStripsBOM(t *testing.T) {
	b := &Bundle{entries: []Entry{
		{Path: testCAB, Assets: makeTextAssetFile("notes", "\xEF\xBB\xBFpayload")},
	}}
	tb := &TextBundle{Bundle: b}
	text, err := tb.Text()
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != "payload" {
		t.Errorf("expected BOM stripped, got %q", text)
	}
}

func TestTextBundleWithoutTextAsset(t *testing.T) {
	b := &Bundle{entries: []Entry{{Path: testCAB + ".resS", Raw: []byte{1}}}}
	tb := &TextBundle{Bundle: b}
	if _, err := tb.Raw(); err == nil || !strings.Contains(err.Error(), "text assets") {
		t.Errorf("expected missing text asset error, got %v", err)
	}
}
