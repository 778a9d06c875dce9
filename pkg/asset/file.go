// Package asset decodes and re-encodes serialized asset files: a big-endian
// header, a type table with embedded type trees, an object table, and the
// little-endian object records themselves. Files survive a parse/write round
// trip with their object table order intact, including records the package
// has no codec for.
package asset

import (
	"fmt"
	"sort"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

// Serialization constants pinned by the target engine build. Write always
// stamps these regardless of what was parsed, matching the files the engine
// produces.
const (
	formatVersion     = 22
	targetPlatform    = 38
	minDataOffset     = 0x1000
	objectEntrySize   = 24
	headerReserveBase = 0x36
)

// scriptClassID marks type descriptors that carry an extra script identity
// hash.
const scriptClassID = 114

// Header is the asset file header. It is big-endian on the wire except for
// Platform, which is little-endian. The unnamed reserved fields are retained
// verbatim for write-back.
type Header struct {
	Reserved       uint64
	Version        uint32
	Reserved2      uint64
	MetaDataSize   uint32
	FileSize       uint64
	DataOffset     uint64
	Reserved3      uint64
	UnityVersion   string
	Platform       uint32
	EnableTypeTree uint8
}

func (h *Header) parse(r *stream.Reader) error {
	var err error
	if h.Reserved, err = r.U64BE(); err != nil {
		return err
	}
	if h.Version, err = r.U32BE(); err != nil {
		return err
	}
	if h.Reserved2, err = r.U64BE(); err != nil {
		return err
	}
	if h.MetaDataSize, err = r.U32BE(); err != nil {
		return err
	}
	if h.FileSize, err = r.U64BE(); err != nil {
		return err
	}
	if h.DataOffset, err = r.U64BE(); err != nil {
		return err
	}
	if h.Reserved3, err = r.U64BE(); err != nil {
		return err
	}
	if h.UnityVersion, err = r.CString(); err != nil {
		return err
	}
	if h.Platform, err = r.U32(); err != nil {
		return err
	}
	if h.EnableTypeTree, err = r.U8(); err != nil {
		return err
	}
	return nil
}

func (h *Header) encode(w *stream.Writer) {
	w.U64BE(h.Reserved)
	w.U32BE(h.Version)
	w.U64BE(h.Reserved2)
	w.U32BE(h.MetaDataSize)
	w.U64BE(h.FileSize)
	w.U64BE(h.DataOffset)
	w.U64BE(h.Reserved3)
	w.CString(h.UnityVersion)
	w.U32(h.Platform)
	w.U8(h.EnableTypeTree)
}

// TypeDescriptor is one entry of the type table. ScriptID is only present on
// the wire when ClassID identifies a script-backed type.
type TypeDescriptor struct {
	ClassID         uint32
	IsStrippedType  uint8
	ScriptTypeIndex int16
	ScriptID        Hash
	TypeHash        Hash
	TypeTree        TypeTree
	Reserved        uint32
}

func (t *TypeDescriptor) read(d *dec) {
	t.ClassID = d.u32()
	t.IsStrippedType = d.u8()
	if d.err == nil {
		v, err := d.r.I16()
		d.err = err
		t.ScriptTypeIndex = v
	}
	if t.ClassID == scriptClassID {
		t.ScriptID = d.hash()
	}
	t.TypeHash = d.hash()
	t.TypeTree.read(d)
	t.Reserved = d.u32()
}

func (t *TypeDescriptor) write(w *stream.Writer) {
	w.U32(t.ClassID)
	w.U8(t.IsStrippedType)
	w.I16(t.ScriptTypeIndex)
	if t.ClassID == scriptClassID {
		t.ScriptID.write(w)
	}
	t.TypeHash.write(w)
	t.TypeTree.write(w)
	w.U32(t.Reserved)
}

// Dump renders the descriptor's hash and schema tree.
func (t *TypeDescriptor) Dump() (string, error) {
	tree, err := t.TypeTree.Dump()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s\n%s", t.TypeHash, t.ScriptID, tree), nil
}

// Script is one entry of the script reference table.
type Script struct {
	FileID   uint32
	ObjectID uint64
}

// External references another serialized file by path.
type External struct {
	Tag  string
	GUID Hash
	Type uint32
	Path string
}

// objectEntry is one row of the object table.
type objectEntry struct {
	pathID uint64
	offset uint64
	size   uint32
	typeID uint32
}

// File is a parsed asset file. Assets holds the decoded records in ascending
// data offset order; PathIDs and the retained table order follow the object
// table's original (arbitrary) ordering so a rewrite reproduces it.
type File struct {
	Header    Header
	Types     []TypeDescriptor
	PathIDs   []uint64
	Scripts   []Script
	Externals []External
	UserInfo  string
	Assets    []Asset

	// objectOrder[i] is the object-table index of Assets[i].
	objectOrder []int
}

// Parse decodes a serialized asset file.
func Parse(data []byte) (*File, error) {
	r := stream.NewReader(data)
	f := &File{}
	if err := f.Header.parse(r); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	d := &dec{r: r}
	typeCount := d.u32()
	if d.err != nil {
		return nil, fmt.Errorf("parsing type table: %w", d.err)
	}
	f.Types = make([]TypeDescriptor, 0, capHint(int(typeCount), r.Remaining()))
	for i := uint32(0); i < typeCount; i++ {
		var t TypeDescriptor
		t.read(d)
		if d.err != nil {
			return nil, fmt.Errorf("parsing type descriptor %d: %w", i, d.err)
		}
		f.Types = append(f.Types, t)
	}

	objectCount := d.u32()
	d.align(4)
	if d.err != nil {
		return nil, fmt.Errorf("parsing object table: %w", d.err)
	}
	objects := make([]objectEntry, 0, capHint(int(objectCount), r.Remaining()/objectEntrySize))
	for i := uint32(0); i < objectCount; i++ {
		var o objectEntry
		o.pathID = d.u64()
		o.offset = d.u64()
		o.size = d.u32()
		o.typeID = d.u32()
		if d.err != nil {
			return nil, fmt.Errorf("parsing object entry %d: %w", i, d.err)
		}
		objects = append(objects, o)
	}
	f.PathIDs = make([]uint64, len(objects))
	for i, o := range objects {
		f.PathIDs[i] = o.pathID
	}

	scriptCount := d.u32()
	for i := uint32(0); i < scriptCount && d.err == nil; i++ {
		var s Script
		s.FileID = d.u32()
		s.ObjectID = d.u64()
		f.Scripts = append(f.Scripts, s)
	}
	if d.err != nil {
		return nil, fmt.Errorf("parsing script table: %w", d.err)
	}

	externalCount := d.u32()
	if d.err != nil {
		return nil, fmt.Errorf("parsing externals: %w", d.err)
	}
	for i := uint32(0); i < externalCount; i++ {
		var e External
		var err error
		if e.Tag, err = r.CString(); err != nil {
			return nil, fmt.Errorf("parsing external %d: %w", i, err)
		}
		if e.GUID, err = readHash(r); err != nil {
			return nil, fmt.Errorf("parsing external %d: %w", i, err)
		}
		if e.Type, err = r.U32(); err != nil {
			return nil, fmt.Errorf("parsing external %d: %w", i, err)
		}
		if e.Path, err = r.CString(); err != nil {
			return nil, fmt.Errorf("parsing external %d: %w", i, err)
		}
		f.Externals = append(f.Externals, e)
	}

	refTypeCount := d.u32()
	if d.err != nil {
		return nil, fmt.Errorf("parsing ref type count: %w", d.err)
	}
	if refTypeCount != 0 {
		return nil, fmt.Errorf("file declares %d ref types, which are not supported", refTypeCount)
	}
	userInfo, err := r.CString()
	if err != nil {
		return nil, fmt.Errorf("parsing user info: %w", err)
	}
	f.UserInfo = userInfo

	// Object table entries appear in arbitrary order. Decode in ascending
	// offset order for locality, but remember each record's table slot so
	// the rewrite reproduces the original ordering.
	f.objectOrder = make([]int, len(objects))
	order := make([]int, len(objects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return objects[order[a]].offset < objects[order[b]].offset
	})
	copy(f.objectOrder, order)

	f.Assets = make([]Asset, 0, len(objects))
	for _, tableIndex := range order {
		obj := objects[tableIndex]
		if int(obj.typeID) >= len(f.Types) {
			return nil, fmt.Errorf("object with path id %d references type %d of %d", obj.pathID, obj.typeID, len(f.Types))
		}
		if err := r.Seek(int(f.Header.DataOffset + obj.offset)); err != nil {
			return nil, fmt.Errorf("seeking to object with path id %d: %w", obj.pathID, err)
		}
		record, err := decodeAsset(r, f.Types[obj.typeID].TypeHash, obj.size, obj.pathID)
		if err != nil {
			return nil, err
		}
		f.Assets = append(f.Assets, record)
	}
	return f, nil
}

// Write re-encodes the file. The header, type table, and object table are
// reserved first and backpatched once the record blob is laid out; records
// are written in Assets order (ascending original offset) while the object
// table keeps its original slot order.
func (f *File) Write() ([]byte, error) {
	if len(f.Assets) != len(f.PathIDs) || len(f.Assets) != len(f.objectOrder) {
		return nil, fmt.Errorf("file has %d assets, %d path ids, and %d order slots; they must all match", len(f.Assets), len(f.PathIDs), len(f.objectOrder))
	}

	w := stream.NewWriter()
	w.Reserve(headerReserveBase + len(f.Header.UnityVersion))

	metaBase := w.Pos()
	w.U32(uint32(len(f.Types)))
	for i := range f.Types {
		f.Types[i].write(w)
	}
	w.U32(uint32(len(f.Assets)))
	w.Pad(4)
	objectsPos := w.Reserve(objectEntrySize * len(f.Assets))
	w.U32(uint32(len(f.Scripts)))
	for _, s := range f.Scripts {
		w.U32(s.FileID)
		w.U64(s.ObjectID)
	}
	w.U32(uint32(len(f.Externals)))
	for _, e := range f.Externals {
		w.CString(e.Tag)
		e.GUID.write(w)
		w.U32(e.Type)
		w.CString(e.Path)
	}
	w.U32(0) // ref types
	w.CString(f.UserInfo)
	metaSize := w.Pos() - metaBase

	w.Pad(16)
	dataOffset := w.Pos()
	if dataOffset < minDataOffset {
		dataOffset = minDataOffset
	}
	w.PadTo(dataOffset)

	typeIDs := make(map[Hash]uint32, len(f.Types))
	for i := range f.Types {
		typeIDs[f.Types[i].TypeHash] = uint32(i)
	}

	objects := make([]objectEntry, len(f.Assets))
	start := w.Pos()
	for i, record := range f.Assets {
		w.Pad(8)
		offset := w.Pos() - start
		record.write(w)
		w.Pad(4)
		typeID, ok := typeIDs[record.TypeHash()]
		if !ok {
			return nil, fmt.Errorf("record %T has type hash %s with no type table entry", record, record.TypeHash())
		}
		objects[f.objectOrder[i]] = objectEntry{
			offset: uint64(offset),
			size:   uint32(w.Pos() - start - offset),
			typeID: typeID,
		}
	}
	w.Pad(4)
	for i, pathID := range f.PathIDs {
		objects[i].pathID = pathID
	}

	end := w.Pos()

	header := f.Header
	header.Version = formatVersion
	// The unity version string and trailing platform fields count toward the
	// metadata size even though they sit in the header region.
	header.MetaDataSize = uint32(metaSize + len(f.Header.UnityVersion) + 6)
	header.FileSize = uint64(end)
	header.DataOffset = uint64(dataOffset)
	header.Platform = targetPlatform
	header.EnableTypeTree = 1
	if err := w.Seek(0); err != nil {
		return nil, err
	}
	header.encode(w)

	if err := w.Seek(objectsPos); err != nil {
		return nil, err
	}
	for _, o := range objects {
		w.U64(o.pathID)
		w.U64(o.offset)
		w.U32(o.size)
		w.U32(o.typeID)
	}
	if err := w.Seek(end); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// AddAsset appends a record under a fresh object table slot.
func (f *File) AddAsset(a Asset, pathID uint64) {
	f.objectOrder = append(f.objectOrder, len(f.PathIDs))
	f.PathIDs = append(f.PathIDs, pathID)
	f.Assets = append(f.Assets, a)
}

// PathID returns the stable id of Assets[i]. Assets are held in data order
// while path ids follow the object table, so the retained order mapping
// bridges the two.
func (f *File) PathID(i int) uint64 {
	return f.PathIDs[f.objectOrder[i]]
}

// LookupType returns the type table entry matching hash, or nil.
func (f *File) LookupType(hash Hash) *TypeDescriptor {
	for i := range f.Types {
		if f.Types[i].TypeHash == hash {
			return &f.Types[i]
		}
	}
	return nil
}
