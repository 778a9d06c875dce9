package book

import (
	"bytes"
	"reflect"
	"testing"
)

const sampleBook = `<?xml version="1.0" encoding="utf-8"?>` +
	`<Book Count="1">` +
	`<Sheet Name="Items" Count="2">` +
	`<Header>` +
	`<Param Name="Identifier" Ident="Iid" Type="String"></Param>` +
	`<Param Name="Price" Ident="Price" Type="Int" Min="0" Max="99999"></Param>` +
	`</Header>` +
	`<Data>` +
	`<Param Iid="IID_SWORD" Price="500"></Param>` +
	`<Param Price="300" Iid="IID_LANCE"></Param>` +
	`</Data>` +
	`</Sheet>` +
	`</Book>`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sampleBook))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.Count != 1 || len(b.Sheets) != 1 {
		t.Fatalf("unexpected book shape: %+v", b)
	}

	sheet := b.Sheets[0]
	if sheet.Name != "Items" || sheet.Count != 2 {
		t.Errorf("sheet attributes mismatch: %+v", sheet)
	}
	if len(sheet.Header.Params) != 2 || sheet.Header.Params[1].Min != "0" {
		t.Errorf("header mismatch: %+v", sheet.Header.Params)
	}
	if len(sheet.Data.Params) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Data.Params))
	}

	t.Run("AttributeOrderPreserved", func(t *testing.T) {
		// The second row lists Price before Iid; the order must survive.
		row := sheet.Data.Params[1]
		want := []Attr{{Key: "Price", Value: "300"}, {Key: "Iid", Value: "IID_LANCE"}}
		if !reflect.DeepEqual(row.Attrs, want) {
			t.Errorf("attribute order lost: %+v", row.Attrs)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	b, err := Parse([]byte(sampleBook))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := b.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !bytes.HasPrefix(out, []byte(xmlProlog)) {
		t.Errorf("missing prolog: %s", out[:60])
	}

	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(b, again) {
		t.Errorf("round trip changed the book:\nfirst:  %+v\nsecond: %+v", b, again)
	}
}

func TestRowAccessors(t *testing.T) {
	row := Row{}
	row.Set("Iid", "IID_AXE")
	row.Set("Price", "100")
	row.Set("Price", "150")

	if v, ok := row.Get("Price"); !ok || v != "150" {
		t.Errorf("expected updated price, got %q (%v)", v, ok)
	}
	if _, ok := row.Get("Missing"); ok {
		t.Error("expected miss for absent key")
	}
	if len(row.Attrs) != 2 {
		t.Errorf("set duplicated a key: %+v", row.Attrs)
	}
}

func TestLists(t *testing.T) {
	t.Run("SplitDropsTrailingSeparator", func(t *testing.T) {
		got := SplitList("a;b;c;")
		if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("unexpected items: %v", got)
		}
	})

	t.Run("SplitEmpty", func(t *testing.T) {
		if got := SplitList(""); got != nil {
			t.Errorf("expected nil for empty value, got %v", got)
		}
	})

	t.Run("JoinAddsTrailingSeparator", func(t *testing.T) {
		if got := JoinList([]string{"a", "b"}); got != "a;b;" {
			t.Errorf("expected %q, got %q", "a;b;", got)
		}
	})

	t.Run("JoinEmpty", func(t *testing.T) {
		if got := JoinList(nil); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestGroupRows(t *testing.T) {
	rows := []Row{
		{Attrs: []Attr{{Key: "Group", Value: "GID_A"}}},
		{Attrs: []Attr{{Key: "Group", Value: ""}, {Key: "Value", Value: "1"}}},
		{Attrs: []Attr{{Key: "Value", Value: "2"}}},
		{Attrs: []Attr{{Key: "Group", Value: "GID_B"}}},
		{Attrs: []Attr{{Key: "Value", Value: "3"}}},
	}

	groups, err := GroupRows(rows, "Group")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "GID_A" || len(groups[0].Rows) != 2 {
		t.Errorf("first group mismatch: %+v", groups[0])
	}
	if groups[1].Key != "GID_B" || len(groups[1].Rows) != 1 {
		t.Errorf("second group mismatch: %+v", groups[1])
	}

	t.Run("ValueBeforeKeyFails", func(t *testing.T) {
		bad := []Row{{Attrs: []Attr{{Key: "Value", Value: "1"}}}}
		if _, err := GroupRows(bad, "Group"); err == nil {
			t.Error("expected error for values before a key")
		}
	})
}
