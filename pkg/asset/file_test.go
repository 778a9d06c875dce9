package asset

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

var unknownHash = Hash{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}

// makeTestFile builds a file with a permuted object table: the text asset
// sits in table slot 1 but is written first, the opaque record in slot 0.
func makeTestFile() *File {
	return &File{
		Header: Header{UnityVersion: "2020.3.18f1"},
		Types: []TypeDescriptor{
			{ClassID: 49, TypeHash: TextAssetHash},
			{ClassID: 114, ScriptID: Hash{0x11}, TypeHash: unknownHash},
		},
		PathIDs: []uint64{1001, 42},
		Externals: []External{
			{Tag: "", GUID: Hash{0x01}, Type: 0, Path: "archive:/CAB-ext/CAB-ext"},
		},
		UserInfo: "",
		Assets: []Asset{
			&TextAsset{Name: "dialogue", Data: []byte("hello world")},
			&Unparsed{Type: unknownHash, PathID: 1001, Data: []byte{9, 8, 7, 6, 5}},
		},
		objectOrder: []int{1, 0},
	}
}

func TestFileRoundTrip(t *testing.T) {
	original := makeTestFile()
	data, err := original.Write()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	t.Run("Header", func(t *testing.T) {
		h := parsed.Header
		if h.Version != formatVersion {
			t.Errorf("expected version %d, got %d", formatVersion, h.Version)
		}
		if h.Platform != targetPlatform {
			t.Errorf("expected platform %d, got %d", targetPlatform, h.Platform)
		}
		if h.EnableTypeTree != 1 {
			t.Errorf("expected type trees enabled, got %d", h.EnableTypeTree)
		}
		if h.UnityVersion != "2020.3.18f1" {
			t.Errorf("unexpected unity version %q", h.UnityVersion)
		}
		if h.DataOffset < minDataOffset {
			t.Errorf("data offset %d below minimum %d", h.DataOffset, minDataOffset)
		}
		if h.FileSize != uint64(len(data)) {
			t.Errorf("header file size %d, actual %d", h.FileSize, len(data))
		}
	})

	t.Run("RecordOrder", func(t *testing.T) {
		if len(parsed.Assets) != 2 {
			t.Fatalf("expected 2 assets, got %d", len(parsed.Assets))
		}
		text, ok := parsed.Assets[0].(*TextAsset)
		if !ok {
			t.Fatalf("expected first decoded record to be a text asset, got %T", parsed.Assets[0])
		}
		if text.Name != "dialogue" || !bytes.Equal(text.Data, []byte("hello world")) {
			t.Errorf("text asset mismatch: %+v", text)
		}
	})

	t.Run("TablePermutation", func(t *testing.T) {
		if !reflect.DeepEqual(parsed.PathIDs, []uint64{1001, 42}) {
			t.Errorf("path ids lost table order: %v", parsed.PathIDs)
		}
		// The text asset was written first but occupies table slot 1.
		if got := parsed.PathID(0); got != 42 {
			t.Errorf("expected first decoded record to map to path id 42, got %d", got)
		}
		if got := parsed.PathID(1); got != 1001 {
			t.Errorf("expected second decoded record to map to path id 1001, got %d", got)
		}
	})

	t.Run("UnparsedPassthrough", func(t *testing.T) {
		raw, ok := parsed.Assets[1].(*Unparsed)
		if !ok {
			t.Fatalf("expected second record to stay unparsed, got %T", parsed.Assets[1])
		}
		if raw.Type != unknownHash {
			t.Errorf("unparsed record lost its type hash: %s", raw.Type)
		}
		if raw.PathID != 1001 {
			t.Errorf("unparsed record has path id %d, want 1001", raw.PathID)
		}
		if !bytes.Equal(raw.Data, []byte{9, 8, 7, 6, 5}) {
			t.Errorf("unparsed payload mismatch: %v", raw.Data)
		}
	})

	t.Run("ScriptType", func(t *testing.T) {
		desc := parsed.LookupType(unknownHash)
		if desc == nil {
			t.Fatal("script-backed type missing from table")
		}
		if desc.ScriptID != (Hash{0x11}) {
			t.Errorf("script id not round-tripped: %s", desc.ScriptID)
		}
	})

	t.Run("Externals", func(t *testing.T) {
		if len(parsed.Externals) != 1 || parsed.Externals[0].Path != "archive:/CAB-ext/CAB-ext" {
			t.Errorf("externals mismatch: %+v", parsed.Externals)
		}
	})
}

func TestFileWriteIsStable(t *testing.T) {
	first, err := makeTestFile().Write()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := parsed.Write()
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("parse/write round trip changed the encoded file")
	}
}

func TestFileRejectsRefTypes(t *testing.T) {
	empty := &File{Header: Header{UnityVersion: "2020.3.18f1"}}
	data, err := empty.Write()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	// Walk the metadata layout to the ref type count and set it.
	pos := headerReserveBase + len(empty.Header.UnityVersion)
	pos += 4 // type count
	pos += 4 // object count
	pos = (pos + 3) &^ 3
	pos += 4 // script count
	pos += 4 // external count
	data[pos] = 1

	if _, err := Parse(data); err == nil {
		t.Error("expected error for file declaring ref types")
	}
}

func TestFileRejectsBadTypeIndex(t *testing.T) {
	f := makeTestFile()
	f.Types = f.Types[:1]
	if _, err := f.Write(); err == nil {
		t.Error("expected error for record without a type table entry")
	}
}

func TestMonoBehaviorPadding(t *testing.T) {
	original := &EmptyBehavior{MonoBehavior: MonoBehavior{
		GameObject: PPtr{FileID: 0, PathID: 3},
		Enabled:    1,
		Script:     PPtr{FileID: 1, PathID: 9},
		Name:       "controller",
	}}

	w := stream.NewWriter()
	original.write(w)
	d := &dec{r: stream.NewReader(w.Bytes())}
	decoded := &EmptyBehavior{}
	decoded.read(d)
	if d.err != nil {
		t.Fatalf("read: %v", d.err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("mismatch: got %+v, want %+v", decoded, original)
	}
}
