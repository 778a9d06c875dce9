// Package book reads and writes the XML "book" tabular format: a Book of
// Sheets, each with a Header describing its columns and Data rows whose
// cells are XML attributes keyed by the column ident. Rows keep their
// attributes in document order because the format is rewritten in place and
// diffs should stay minimal.
package book

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const xmlProlog = `<?xml version="1.0" encoding="utf-8"?>`

// Book is the document root.
type Book struct {
	XMLName xml.Name `xml:"Book"`
	Count   int      `xml:"Count,attr"`
	Sheets  []Sheet  `xml:"Sheet"`
}

// Sheet is one table: column metadata plus rows.
type Sheet struct {
	Name   string `xml:"Name,attr"`
	Count  int    `xml:"Count,attr"`
	Header Header `xml:"Header"`
	Data   Data   `xml:"Data"`
}

// Header lists the sheet's columns.
type Header struct {
	Params []HeaderParam `xml:"Param"`
}

// HeaderParam describes one column.
type HeaderParam struct {
	Name  string `xml:"Name,attr"`
	Ident string `xml:"Ident,attr"`
	Type  string `xml:"Type,attr"`
	Min   string `xml:"Min,attr,omitempty"`
	Max   string `xml:"Max,attr,omitempty"`
	Chg   string `xml:"Chg,attr,omitempty"`
}

// Data holds the sheet's rows.
type Data struct {
	Params []Row `xml:"Param"`
}

// Row is one data row. Cells are attributes whose names come from the
// sheet header, so the set differs per sheet and order is preserved.
type Row struct {
	Attrs []Attr
}

// Attr is one row cell.
type Attr struct {
	Key   string
	Value string
}

// Get returns the cell under key and whether the row has it.
func (r *Row) Get(key string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set replaces the cell under key, appending it if absent.
func (r *Row) Set(key, value string) {
	for i := range r.Attrs {
		if r.Attrs[i].Key == key {
			r.Attrs[i].Value = value
			return
		}
	}
	r.Attrs = append(r.Attrs, Attr{Key: key, Value: value})
}

// UnmarshalXML implements xml.Unmarshaler, keeping attribute order.
func (r *Row) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.Attrs = make([]Attr, 0, len(start.Attr))
	for _, a := range start.Attr {
		r.Attrs = append(r.Attrs, Attr{Key: a.Name.Local, Value: a.Value})
	}
	return d.Skip()
}

// MarshalXML implements xml.Marshaler.
func (r Row) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = start.Attr[:0]
	for _, a := range r.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Key}, Value: a.Value})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// Parse decodes a book document.
func Parse(data []byte) (*Book, error) {
	var b Book
	if err := xml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing book: %w", err)
	}
	return &b, nil
}

// Serialize re-encodes the book with the format's prolog.
func (b *Book) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlProlog)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("serializing book: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SplitList splits a semicolon-separated cell value, dropping empty parts.
// List cells carry a trailing separator, so "a;b;" is two items.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList renders items as a semicolon-separated cell value with the
// format's trailing separator.
func JoinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ";") + ";"
}

// Group is a run of rows filed under a key row.
type Group struct {
	Key  string
	Rows []Row
}

// GroupRows partitions rows into keyed groups: a row whose keyIdent cell is
// non-empty starts a group, and the rows after it until the next key belong
// to it. A value row before any key row is an error.
func GroupRows(rows []Row, keyIdent string) ([]Group, error) {
	var groups []Group
	for _, row := range rows {
		key, _ := row.Get(keyIdent)
		if key != "" {
			groups = append(groups, Group{Key: key})
			continue
		}
		if len(groups) == 0 {
			return nil, fmt.Errorf("found values before a key in public array")
		}
		last := &groups[len(groups)-1]
		last.Rows = append(last.Rows, row)
	}
	return groups, nil
}
