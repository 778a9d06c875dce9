// Package msbt reads and writes MSBT message archives: a fixed 0x20-byte
// header followed by a hashed label section (LBL1), an attribute section
// (ATR1) that must be unused, and UTF-16 message bodies (TXT2).
package msbt

import (
	"fmt"
	"unicode/utf16"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

const (
	magic      = "MsgStdBn"
	headerSize = 0x20

	// Sections pad to 16-byte boundaries with this filler byte.
	padByte = 0xAB
)

// Message is one labeled entry. Text holds raw UTF-16 code units because
// bodies embed control sequences that are not valid text; String converts
// when the payload is plain.
type Message struct {
	Label string
	Text  []uint16
}

// String decodes the message body as UTF-16.
func (m *Message) String() string {
	return string(utf16.Decode(m.Text))
}

// SetString replaces the message body with the UTF-16 encoding of s.
func (m *Message) SetString(s string) {
	m.Text = utf16.Encode([]rune(s))
}

// MessageMap is an ordered label-to-message table. Order is ascending
// message id, which is what the TXT2 section stores; lookups by label scan.
// NumBuckets preserves the parsed hash bucket count so a rewrite reproduces
// the original layout; zero means "pick a fresh count on serialize".
type MessageMap struct {
	NumBuckets int
	Messages   []Message
}

// Get returns the message stored under label, or nil.
func (m *MessageMap) Get(label string) *Message {
	for i := range m.Messages {
		if m.Messages[i].Label == label {
			return &m.Messages[i]
		}
	}
	return nil
}

// Set replaces the message under label, appending a new entry if absent.
func (m *MessageMap) Set(label string, text []uint16) {
	if msg := m.Get(label); msg != nil {
		msg.Text = text
		return
	}
	m.Messages = append(m.Messages, Message{Label: label, Text: text})
}

type labelEntry struct {
	label string
	id    uint32
}

// Parse decodes an MSBT archive.
func Parse(data []byte) (*MessageMap, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("archive is %d bytes, shorter than the %d-byte header", len(data), headerSize)
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("bad magic %q, want %q", data[:len(magic)], magic)
	}
	r := stream.NewReader(data)
	if err := r.Seek(headerSize); err != nil {
		return nil, err
	}

	groups, err := parseLBL1(r)
	if err != nil {
		return nil, fmt.Errorf("parsing LBL1: %w", err)
	}
	if err := parseATR1(r); err != nil {
		return nil, fmt.Errorf("parsing ATR1: %w", err)
	}
	texts, err := parseTXT2(r)
	if err != nil {
		return nil, fmt.Errorf("parsing TXT2: %w", err)
	}

	var labels []labelEntry
	for _, g := range groups {
		labels = append(labels, g...)
	}
	// Bucket order is hash order; message order is id order.
	sortLabelsByID(labels)

	m := &MessageMap{NumBuckets: len(groups)}
	for _, l := range labels {
		if int(l.id) >= len(texts) {
			return nil, fmt.Errorf("label id %d for label %q is out of bounds", l.id, l.label)
		}
		m.Messages = append(m.Messages, Message{Label: l.label, Text: texts[l.id]})
	}
	return m, nil
}

func sortLabelsByID(labels []labelEntry) {
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && labels[j].id < labels[j-1].id; j-- {
			labels[j], labels[j-1] = labels[j-1], labels[j]
		}
	}
}

// sectionHeader reads a 4-byte magic plus length and skips the 8 reserved
// bytes, returning the section length and the base position the section's
// offsets are relative to.
func sectionHeader(r *stream.Reader, want string) (length int, base int, err error) {
	got, err := r.Bytes(4)
	if err != nil {
		return 0, 0, err
	}
	if string(got) != want {
		return 0, 0, fmt.Errorf("expected magic %q, found %q", want, got)
	}
	n, err := r.U32()
	if err != nil {
		return 0, 0, err
	}
	if err := r.Skip(8); err != nil {
		return 0, 0, err
	}
	return int(n), r.Pos(), nil
}

func alignUp(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}

func parseLBL1(r *stream.Reader) ([][]labelEntry, error) {
	length, base, err := sectionHeader(r, "LBL1")
	if err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	groups := make([][]labelEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		group, err := parseLabelGroup(r, base)
		if err != nil {
			return nil, fmt.Errorf("label group %d: %w", i, err)
		}
		groups = append(groups, group)
	}
	if err := r.Seek(alignUp(base+length, 0x10)); err != nil {
		return nil, err
	}
	return groups, nil
}

func parseLabelGroup(r *stream.Reader, base int) ([]labelEntry, error) {
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	offset, err := r.U32()
	if err != nil {
		return nil, err
	}
	resume := r.Pos()
	if err := r.Seek(base + int(offset)); err != nil {
		return nil, err
	}
	var items []labelEntry
	for i := uint32(0); i < count; i++ {
		length, err := r.U8()
		if err != nil {
			return nil, err
		}
		raw, err := r.Bytes(int(length))
		if err != nil {
			return nil, err
		}
		id, err := r.U32()
		if err != nil {
			return nil, err
		}
		items = append(items, labelEntry{label: stream.DecodeUTF8(raw), id: id})
	}
	if err := r.Seek(resume); err != nil {
		return nil, err
	}
	return items, nil
}

// parseATR1 validates that the attribute section carries no data. Attributes
// are not understood, so an archive that uses them cannot round-trip.
func parseATR1(r *stream.Reader) error {
	length, base, err := sectionHeader(r, "ATR1")
	if err != nil {
		return err
	}
	count, err := r.U32()
	if err != nil {
		return err
	}
	unknown, err := r.U32()
	if err != nil {
		return err
	}
	if unknown != 1 {
		return fmt.Errorf("attribute section field is %d, expected 1", unknown)
	}
	attrs, err := r.Bytes(int(count))
	if err != nil {
		return err
	}
	for _, b := range attrs {
		if b != 0 {
			return fmt.Errorf("archive uses the ATR1 section, which is not supported")
		}
	}
	return r.Seek(alignUp(base+length, 0x10))
}

func parseTXT2(r *stream.Reader) ([][]uint16, error) {
	length, base, err := sectionHeader(r, "TXT2")
	if err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	offsets := make([]int, 0, count)
	for i := uint32(0); i < count; i++ {
		off, err := r.U32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, base+int(off))
	}
	entries := make([][]uint16, 0, count)
	for i, offset := range offsets {
		end := base + length
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if err := r.Seek(offset); err != nil {
			return nil, err
		}
		var text []uint16
		for r.Pos() < end {
			u, err := r.U16()
			if err != nil {
				return nil, err
			}
			text = append(text, u)
		}
		entries = append(entries, text)
	}
	return entries, nil
}

// Serialize re-encodes the archive, reusing the parsed bucket count when one
// is known.
func (m *MessageMap) Serialize() ([]byte, error) {
	if m.NumBuckets == 0 {
		return m.RehashAndSerialize()
	}
	return m.serializeWithBucketCount(m.NumBuckets)
}

// RehashAndSerialize re-encodes the archive with a bucket count derived from
// the number of messages.
func (m *MessageMap) RehashAndSerialize() ([]byte, error) {
	buckets := 0
	if len(m.Messages) > 0 {
		buckets = len(m.Messages)/2 + 1
	}
	return m.serializeWithBucketCount(buckets)
}

func (m *MessageMap) serializeWithBucketCount(numBuckets int) ([]byte, error) {
	lbl1, err := m.serializeLBL1(numBuckets)
	if err != nil {
		return nil, err
	}
	atr1 := serializeATR1(len(m.Messages))
	txt2 := m.serializeTXT2()

	fileLength := headerSize + len(lbl1) + len(atr1) + len(txt2)
	w := stream.NewWriter()
	w.Write([]byte(magic))
	w.U8(0xFF) // UTF-16LE byte order mark
	w.U8(0xFE)
	w.Reserve(2)
	w.U8(0x01)
	w.U8(0x03) // section count
	w.U8(0x03)
	w.Reserve(3)
	w.U32(uint32(fileLength))
	w.PadTo(headerSize)
	w.Write(lbl1)
	w.Write(atr1)
	w.Write(txt2)
	return w.Bytes(), nil
}

// hashLabel is the bucket hash: sum = sum*0x492 + byte, modulo the bucket
// count.
func hashLabel(label string, numBuckets int) int {
	var sum uint32
	for i := 0; i < len(label); i++ {
		sum = sum*0x492 + uint32(label[i])
	}
	return int(sum % uint32(numBuckets))
}

func (m *MessageMap) serializeLBL1(numBuckets int) ([]byte, error) {
	buckets := make([][]labelEntry, numBuckets)
	for i := range m.Messages {
		label := m.Messages[i].Label
		h := hashLabel(label, numBuckets)
		buckets[h] = append(buckets[h], labelEntry{label: label, id: uint32(i)})
	}

	base := numBuckets*8 + 4
	text := stream.NewWriter()
	type bucketInfo struct {
		count  int
		offset int
	}
	infos := make([]bucketInfo, 0, numBuckets)
	for _, bucket := range buckets {
		infos = append(infos, bucketInfo{count: len(bucket), offset: base + text.Len()})
		for _, entry := range bucket {
			if len(entry.label) > 0xFF {
				return nil, fmt.Errorf("label %q is longer than 255 bytes", entry.label)
			}
			text.U8(uint8(len(entry.label)))
			text.Write([]byte(entry.label))
			text.U32(entry.id)
		}
	}

	sectionLength := len(infos)*8 + 4 + text.Len()
	w := stream.NewWriter()
	w.Write([]byte("LBL1"))
	w.U32(uint32(sectionLength))
	w.Reserve(8)
	w.U32(uint32(len(infos)))
	for _, info := range infos {
		w.U32(uint32(info.count))
		w.U32(uint32(info.offset))
	}
	w.Write(text.Bytes())
	padSection(w, sectionLength)
	return w.Bytes(), nil
}

func serializeATR1(count int) []byte {
	sectionLength := count + 8
	w := stream.NewWriter()
	w.Write([]byte("ATR1"))
	w.U32(uint32(sectionLength))
	w.Reserve(8)
	w.U32(uint32(count))
	w.U32(1)
	w.Reserve(count)
	padSection(w, sectionLength)
	return w.Bytes()
}

func (m *MessageMap) serializeTXT2() []byte {
	base := len(m.Messages)*4 + 4
	text := stream.NewWriter()
	offsets := make([]int, 0, len(m.Messages))
	for i := range m.Messages {
		offsets = append(offsets, base+text.Len())
		for _, u := range m.Messages[i].Text {
			text.U16(u)
		}
	}

	sectionLength := len(m.Messages)*4 + 4 + text.Len()
	w := stream.NewWriter()
	w.Write([]byte("TXT2"))
	w.U32(uint32(sectionLength))
	w.Reserve(8)
	w.U32(uint32(len(m.Messages)))
	for _, off := range offsets {
		w.U32(uint32(off))
	}
	w.Write(text.Bytes())
	padSection(w, sectionLength)
	return w.Bytes()
}

// padSection fills the section out to a 16-byte boundary with the filler
// byte. sectionLength excludes the 0x10-byte section header.
func padSection(w *stream.Writer, sectionLength int) {
	padded := alignUp(sectionLength+0x10, 16)
	for w.Pos() < padded {
		w.U8(padByte)
	}
}
