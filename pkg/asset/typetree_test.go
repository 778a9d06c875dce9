package asset

import (
	"strings"
	"testing"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

func TestTypeTreeStringAt(t *testing.T) {
	tree := &TypeTree{StrBuffer: []byte("abc\x00def\x00")}

	t.Run("LocalBuffer", func(t *testing.T) {
		s, err := tree.StringAt(4)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if s != "def" {
			t.Errorf("expected %q, got %q", "def", s)
		}
	})

	t.Run("Builtin", func(t *testing.T) {
		s, err := tree.StringAt(0x80000000)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if s != "AABB" {
			t.Errorf("expected %q, got %q", "AABB", s)
		}
	})

	t.Run("UnknownBuiltin", func(t *testing.T) {
		if _, err := tree.StringAt(0x80000000 | 3); err == nil {
			t.Error("expected error for unmapped built-in offset")
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		if _, err := tree.StringAt(100); err == nil {
			t.Error("expected error for offset past buffer")
		}
	})

	t.Run("Unterminated", func(t *testing.T) {
		bad := &TypeTree{StrBuffer: []byte("abc")}
		if _, err := bad.StringAt(0); err == nil {
			t.Error("expected error for unterminated string")
		}
	})
}

func TestTypeTreeRoundTrip(t *testing.T) {
	original := &TypeTree{
		Nodes: []TypeTreeNode{
			{NodeVersion: 1, TypeStrOffset: 0x80000000 | 263, NameStrOffset: 0x80000000 | 55, ByteSize: -1},
			{NodeVersion: 1, Level: 1, TypeStrOffset: 0, NameStrOffset: 4, ByteSize: 4, Index: 1},
		},
		StrBuffer: []byte("int\x00m_X\x00"),
	}

	w := stream.NewWriter()
	original.write(w)

	d := &dec{r: stream.NewReader(w.Bytes())}
	decoded := &TypeTree{}
	decoded.read(d)
	if d.err != nil {
		t.Fatalf("read: %v", d.err)
	}
	if len(decoded.Nodes) != 2 || decoded.Nodes[1].NameStrOffset != 4 {
		t.Fatalf("node mismatch: %+v", decoded.Nodes)
	}
	if string(decoded.StrBuffer) != "int\x00m_X\x00" {
		t.Errorf("string buffer mismatch: %q", decoded.StrBuffer)
	}

	dump, err := decoded.Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(dump, "m_X: int") {
		t.Errorf("dump missing local strings:\n%s", dump)
	}
}
