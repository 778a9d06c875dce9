package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// Compression selects the block compression scheme used when serializing a
// bundle. Reading always accepts all supported schemes.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionLZMA
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// Block compression scheme tags as stored in the low six bits of block and
// header flags.
const (
	schemeNone    = 0
	schemeLZMA    = 1
	schemeLZ4     = 2
	schemeLZ4HC   = 3
	schemeMask    = 0x3F
	flagMetaAtEnd = 0x80
)

// decompress expands one block or metadata buffer according to the scheme in
// the low bits of flags. decompressedSize comes from the block table and is
// trusted only as an allocation bound; a mismatch is an error.
func decompress(flags uint32, data []byte, decompressedSize uint32) ([]byte, error) {
	switch flags & schemeMask {
	case schemeNone:
		return data, nil
	case schemeLZMA:
		return decompressLZMA(data, decompressedSize)
	case schemeLZ4, schemeLZ4HC:
		out := make([]byte, decompressedSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 block decompression failed: %w", err)
		}
		if n != int(decompressedSize) {
			return nil, fmt.Errorf("lz4 block expanded to %d bytes, block table says %d", n, decompressedSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression scheme '%d'", flags&schemeMask)
	}
}

// decompressLZMA expands a headerless LZMA stream: five property bytes
// followed directly by compressed data, with the unpacked size supplied by
// the block table instead of the stream. The classic container the decoder
// expects carries the size after the properties, so it is spliced in.
func decompressLZMA(data []byte, decompressedSize uint32) ([]byte, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("lzma block is %d bytes, too short for a property header", len(data))
	}
	header := make([]byte, 13)
	copy(header, data[:5])
	binary.LittleEndian.PutUint64(header[5:], uint64(decompressedSize))
	r, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header), bytes.NewReader(data[5:])))
	if err != nil {
		return nil, fmt.Errorf("initializing lzma reader: %w", err)
	}
	out := make([]byte, decompressedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("lzma block decompression failed: %w", err)
	}
	return out, nil
}

// compressChunk compresses one chunk for serialization and returns the data
// to store plus the scheme tag that describes it. Incompressible chunks fall
// back to being stored raw, with the per-block tag marking them so.
func compressChunk(kind Compression, chunk []byte) ([]byte, uint16, error) {
	switch kind {
	case CompressionNone:
		return chunk, schemeNone, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(chunk)))
		var c lz4.Compressor
		n, err := c.CompressBlock(chunk, buf)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 block compression failed: %w", err)
		}
		if n == 0 || n >= len(chunk) {
			return chunk, schemeNone, nil
		}
		return buf[:n], schemeLZ4HC, nil
	case CompressionLZMA:
		return nil, 0, fmt.Errorf("lzma compression is not supported for writing")
	default:
		return nil, 0, fmt.Errorf("unknown compression kind %s", kind)
	}
}
