// Package bundle reads and writes UnityFS resource bundles: a big-endian
// header, a compressed metadata section describing blocks and named nodes,
// and a blob of content reassembled from the blocks. Nodes tagged as asset
// files are parsed with the asset package; everything else is kept as raw
// bytes.
package bundle

import (
	"fmt"

	"github.com/tanukisoft/unitypack/pkg/asset"
	"github.com/tanukisoft/unitypack/pkg/stream"
)

const (
	bundleMagic   = "UnityFS"
	formatVersion = 7

	// Version strings stamped on every serialized bundle.
	majorVersion = "5.x.x"
	minorVersion = "2020.3.18f1"

	// Serialized header size: the fields plus padding to 16.
	headerSize = 0x40

	// Content is chunked into blocks of this size before compression.
	blockSize = 0x20000
)

// Node content type tags.
const (
	nodeRaw    = 0
	nodeAssets = 4
)

// Entry is one named file inside a bundle. Exactly one of Raw and Assets is
// set: Raw holds an opaque resource payload, Assets a parsed asset file.
type Entry struct {
	Path   string
	Raw    []byte
	Assets *asset.File
}

func (e *Entry) nodeType() uint32 {
	if e.Assets != nil {
		return nodeAssets
	}
	return nodeRaw
}

// Bundle is a parsed UnityFS container. Entry order is load-bearing: it is
// the node table order, and consumers index files positionally.
type Bundle struct {
	entries []Entry
}

type block struct {
	decompressedSize uint32
	compressedSize   uint32
	flags            uint16
}

type node struct {
	offset   uint64
	size     uint64
	fileType uint32
	path     string
}

type metaData struct {
	blocks []block
	nodes  []node
}

type header struct {
	fileSize         uint64
	compressedSize   uint32
	decompressedSize uint32
	flags            uint32
}

func parseHeader(r *stream.Reader) (header, error) {
	var h header
	magic, err := r.CString()
	if err != nil {
		return h, err
	}
	if magic != bundleMagic {
		return h, fmt.Errorf("bad magic %q, want %q", magic, bundleMagic)
	}
	if err := r.Align(4); err != nil {
		return h, err
	}
	version, err := r.U32BE()
	if err != nil {
		return h, err
	}
	if version != formatVersion {
		return h, fmt.Errorf("unsupported format version %d, want %d", version, formatVersion)
	}
	if _, err := r.CString(); err != nil { // major engine version
		return h, err
	}
	if _, err := r.CString(); err != nil { // minor engine version
		return h, err
	}
	if h.fileSize, err = r.U64BE(); err != nil {
		return h, err
	}
	if h.compressedSize, err = r.U32BE(); err != nil {
		return h, err
	}
	if h.decompressedSize, err = r.U32BE(); err != nil {
		return h, err
	}
	if h.flags, err = r.U32BE(); err != nil {
		return h, err
	}
	if err := r.Align(16); err != nil {
		return h, err
	}
	return h, nil
}

// readMetaData parses the header and the block/node tables. The metadata
// buffer lives either right after the header or, when the header flags say
// so, at the end of the file; either way the reader is left positioned at
// the first content block.
func readMetaData(r *stream.Reader) (metaData, error) {
	var meta metaData
	h, err := parseHeader(r)
	if err != nil {
		return meta, fmt.Errorf("parsing bundle header: %w", err)
	}

	var raw []byte
	if h.flags&flagMetaAtEnd != 0 {
		resume := r.Pos()
		if err := r.Seek(int(h.fileSize) - int(h.compressedSize)); err != nil {
			return meta, fmt.Errorf("seeking to trailing metadata: %w", err)
		}
		if raw, err = r.Bytes(int(h.compressedSize)); err != nil {
			return meta, fmt.Errorf("reading trailing metadata: %w", err)
		}
		if err := r.Seek(resume); err != nil {
			return meta, err
		}
	} else {
		if raw, err = r.Bytes(int(h.compressedSize)); err != nil {
			return meta, fmt.Errorf("reading metadata: %w", err)
		}
	}
	data, err := decompress(h.flags, raw, h.decompressedSize)
	if err != nil {
		return meta, fmt.Errorf("decompressing metadata: %w", err)
	}

	mr := stream.NewReader(data)
	if err := mr.Skip(16); err != nil { // guid
		return meta, err
	}
	blockCount, err := mr.U32BE()
	if err != nil {
		return meta, err
	}
	for i := uint32(0); i < blockCount; i++ {
		var b block
		if b.decompressedSize, err = mr.U32BE(); err != nil {
			return meta, fmt.Errorf("parsing block %d: %w", i, err)
		}
		if b.compressedSize, err = mr.U32BE(); err != nil {
			return meta, fmt.Errorf("parsing block %d: %w", i, err)
		}
		if b.flags, err = mr.U16BE(); err != nil {
			return meta, fmt.Errorf("parsing block %d: %w", i, err)
		}
		meta.blocks = append(meta.blocks, b)
	}
	nodeCount, err := mr.U32BE()
	if err != nil {
		return meta, err
	}
	for i := uint32(0); i < nodeCount; i++ {
		var n node
		if n.offset, err = mr.U64BE(); err != nil {
			return meta, fmt.Errorf("parsing node %d: %w", i, err)
		}
		if n.size, err = mr.U64BE(); err != nil {
			return meta, fmt.Errorf("parsing node %d: %w", i, err)
		}
		if n.fileType, err = mr.U32BE(); err != nil {
			return meta, fmt.Errorf("parsing node %d: %w", i, err)
		}
		if n.path, err = mr.CString(); err != nil {
			return meta, fmt.Errorf("parsing node %d: %w", i, err)
		}
		meta.nodes = append(meta.nodes, n)
	}
	return meta, nil
}

// ListFiles returns the node paths of a bundle without decompressing its
// content blocks.
func ListFiles(data []byte) ([]string, error) {
	meta, err := readMetaData(stream.NewReader(data))
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(meta.nodes))
	for i, n := range meta.nodes {
		paths[i] = n.path
	}
	return paths, nil
}

// Parse decodes a bundle: metadata, block reassembly, then per-node slicing
// and asset file parsing.
func Parse(data []byte) (*Bundle, error) {
	r := stream.NewReader(data)
	meta, err := readMetaData(r)
	if err != nil {
		return nil, fmt.Errorf("reading bundle metadata: %w", err)
	}

	var blob []byte
	for i, b := range meta.blocks {
		raw, err := r.Bytes(int(b.compressedSize))
		if err != nil {
			return nil, fmt.Errorf("reading block %d: %w", i, err)
		}
		expanded, err := decompress(uint32(b.flags), raw, b.decompressedSize)
		if err != nil {
			return nil, fmt.Errorf("decompressing block %d: %w", i, err)
		}
		blob = append(blob, expanded...)
	}

	bundle := &Bundle{}
	for _, n := range meta.nodes {
		// Zero-size nodes show up in the wild; skip them.
		if n.size == 0 {
			continue
		}
		// Checked without adding offset+size, which can wrap a uint64.
		if n.size > uint64(len(blob)) || n.offset > uint64(len(blob))-n.size {
			return nil, fmt.Errorf("corrupted offset/size for node %q", n.path)
		}
		start := n.offset
		end := n.offset + n.size
		entry := Entry{Path: n.path}
		switch n.fileType {
		case nodeRaw:
			entry.Raw = blob[start:end]
		case nodeAssets:
			file, err := asset.Parse(blob[start:end])
			if err != nil {
				return nil, fmt.Errorf("parsing asset file %q: %w", n.path, err)
			}
			entry.Assets = file
		default:
			return nil, fmt.Errorf("node %q has unsupported type %d", n.path, n.fileType)
		}
		bundle.entries = append(bundle.entries, entry)
	}
	return bundle, nil
}

// Serialize re-encodes the bundle with uncompressed content blocks.
func (b *Bundle) Serialize() ([]byte, error) {
	return b.SerializeCompressed(CompressionNone)
}

// SerializeCompressed re-encodes the bundle, compressing content blocks with
// the given scheme. The metadata section is always written uncompressed.
func (b *Bundle) SerializeCompressed(kind Compression) ([]byte, error) {
	// Entries concatenate back to back. Each asset file encodes into its
	// own buffer, so its internal alignment is file-relative, matching the
	// per-node slices the read path hands to asset.Parse.
	blobWriter := stream.NewWriter()
	nodes := make([]node, 0, len(b.entries))
	for i := range b.entries {
		entry := &b.entries[i]
		base := blobWriter.Pos()
		if entry.Assets != nil {
			encoded, err := entry.Assets.Write()
			if err != nil {
				return nil, fmt.Errorf("encoding asset file %q: %w", entry.Path, err)
			}
			blobWriter.Write(encoded)
		} else {
			blobWriter.Write(entry.Raw)
		}
		nodes = append(nodes, node{
			offset:   uint64(base),
			size:     uint64(blobWriter.Pos() - base),
			fileType: entry.nodeType(),
			path:     entry.Path,
		})
	}
	blob := blobWriter.Bytes()

	var compressed []byte
	var blocks []block
	for start := 0; start < len(blob); start += blockSize {
		end := start + blockSize
		if end > len(blob) {
			end = len(blob)
		}
		chunk, scheme, err := compressChunk(kind, blob[start:end])
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block{
			decompressedSize: uint32(end - start),
			compressedSize:   uint32(len(chunk)),
			flags:            scheme,
		})
		compressed = append(compressed, chunk...)
	}

	mw := stream.NewWriter()
	mw.Write(make([]byte, 16)) // guid
	mw.U32BE(uint32(len(blocks)))
	for _, blk := range blocks {
		mw.U32BE(blk.decompressedSize)
		mw.U32BE(blk.compressedSize)
		mw.U16BE(blk.flags)
	}
	mw.U32BE(uint32(len(nodes)))
	for _, n := range nodes {
		mw.U64BE(n.offset)
		mw.U64BE(n.size)
		mw.U32BE(n.fileType)
		mw.CString(n.path)
	}
	meta := mw.Bytes()

	w := stream.NewWriter()
	w.CString(bundleMagic)
	w.Pad(4)
	w.U32BE(formatVersion)
	w.CString(majorVersion)
	w.CString(minorVersion)
	w.U64BE(uint64(len(compressed) + len(meta) + headerSize))
	w.U32BE(uint32(len(meta)))
	w.U32BE(uint32(len(meta)))
	w.U32BE(64) // block info and directory combined, stored after header
	w.Pad(16)
	w.Write(meta)
	w.Write(compressed)
	return w.Bytes(), nil
}

// Get returns the entry stored under path, or nil.
func (b *Bundle) Get(path string) *Entry {
	for i := range b.entries {
		if b.entries[i].Path == path {
			return &b.entries[i]
		}
	}
	return nil
}

// Files returns the bundle's entries in node table order. The slice aliases
// the bundle's state; mutating entries mutates the bundle.
func (b *Bundle) Files() []Entry {
	return b.entries
}

// CAB returns the bundle's content archive name: the 36-character node path
// starting with "CAB-".
func (b *Bundle) CAB() (string, bool) {
	for i := range b.entries {
		if p := b.entries[i].Path; len(p) == 36 && p[:4] == "CAB-" {
			return p, true
		}
	}
	return "", false
}

// Rename renames a node in place, keeping its table position.
func (b *Bundle) Rename(oldPath, newPath string) error {
	for i := range b.entries {
		if b.entries[i].Path == oldPath {
			b.entries[i].Path = newPath
			return nil
		}
	}
	return fmt.Errorf("bundle does not contain file %q", oldPath)
}

// RenameCAB renames the content archive node.
func (b *Bundle) RenameCAB(newPath string) error {
	cab, ok := b.CAB()
	if !ok {
		return fmt.Errorf("could not identify cab file")
	}
	return b.Rename(cab, newPath)
}
