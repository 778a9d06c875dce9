// Package texture maps engine texture formats to pixel layouts and decodes
// the uncompressed ones into standard images.
//
// Compressed formats (ASTC, ETC2, BC) are not decoded here; callers register
// an external Decoder for the formats they need. The package still knows the
// block layout of every format it names, which is enough to slice mip chains
// out of raw image data without decoding anything.
package texture

import "fmt"

// Format is the engine's texture format tag, stored as a uint32 in
// serialized Texture2D records.
type Format uint32

const (
	Alpha8 Format = iota + 1
	ARGB4444
	RGB24
	RGBA32
	ARGB32
	ARGBFloat
	RGB565
	BGR24
	R16
	DXT1
	DXT3
	DXT5
	RGBA4444
	BGRA32
	RHalf
	RGHalf
	RGBAHalf
	RFloat
	RGFloat
	RGBAFloat
	YUY2
	RGB9e5Float
	RGBFloat
	BC6H
	BC7
	BC4
	BC5
	DXT1Crunched
	DXT5Crunched
	PVRTC_RGB2
	PVRTC_RGBA2
	PVRTC_RGB4
	PVRTC_RGBA4
	ETC_RGB4
	ATC_RGB4
	ATC_RGBA8
)

const (
	EAC_R Format = iota + 41
	EAC_R_SIGNED
	EAC_RG
	EAC_RG_SIGNED
	ETC2_RGB
	ETC2_RGBA1
	ETC2_RGBA8
	ASTC_RGB_4x4
	ASTC_RGB_5x5
	ASTC_RGB_6x6
	ASTC_RGB_8x8
	ASTC_RGB_10x10
	ASTC_RGB_12x12
	ASTC_RGBA_4x4
	ASTC_RGBA_5x5
	ASTC_RGBA_6x6
	ASTC_RGBA_8x8
	ASTC_RGBA_10x10
	ASTC_RGBA_12x12
	ETC_RGB4_3DS
	ETC_RGBA8_3DS
	RG16
	R8
	ETC_RGB4Crunched
	ETC2_RGBA8Crunched
	ASTC_HDR_4x4
	ASTC_HDR_5x5
	ASTC_HDR_6x6
	ASTC_HDR_8x8
	ASTC_HDR_10x10
	ASTC_HDR_12x12
	RG32
	RGB48
	RGBA64
)

// String returns the engine's name for the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", uint32(f))
}

var formatNames = map[Format]string{
	Alpha8:             "Alpha8",
	ARGB4444:           "ARGB4444",
	RGB24:              "RGB24",
	RGBA32:             "RGBA32",
	ARGB32:             "ARGB32",
	ARGBFloat:          "ARGBFloat",
	RGB565:             "RGB565",
	BGR24:              "BGR24",
	R16:                "R16",
	DXT1:               "DXT1",
	DXT3:               "DXT3",
	DXT5:               "DXT5",
	RGBA4444:           "RGBA4444",
	BGRA32:             "BGRA32",
	RHalf:              "RHalf",
	RGHalf:             "RGHalf",
	RGBAHalf:           "RGBAHalf",
	RFloat:             "RFloat",
	RGFloat:            "RGFloat",
	RGBAFloat:          "RGBAFloat",
	YUY2:               "YUY2",
	RGB9e5Float:        "RGB9e5Float",
	RGBFloat:           "RGBFloat",
	BC6H:               "BC6H",
	BC7:                "BC7",
	BC4:                "BC4",
	BC5:                "BC5",
	DXT1Crunched:       "DXT1Crunched",
	DXT5Crunched:       "DXT5Crunched",
	PVRTC_RGB2:         "PVRTC_RGB2",
	PVRTC_RGBA2:        "PVRTC_RGBA2",
	PVRTC_RGB4:         "PVRTC_RGB4",
	PVRTC_RGBA4:        "PVRTC_RGBA4",
	ETC_RGB4:           "ETC_RGB4",
	ATC_RGB4:           "ATC_RGB4",
	ATC_RGBA8:          "ATC_RGBA8",
	EAC_R:              "EAC_R",
	EAC_R_SIGNED:       "EAC_R_SIGNED",
	EAC_RG:             "EAC_RG",
	EAC_RG_SIGNED:      "EAC_RG_SIGNED",
	ETC2_RGB:           "ETC2_RGB",
	ETC2_RGBA1:         "ETC2_RGBA1",
	ETC2_RGBA8:         "ETC2_RGBA8",
	ASTC_RGB_4x4:       "ASTC_RGB_4x4",
	ASTC_RGB_5x5:       "ASTC_RGB_5x5",
	ASTC_RGB_6x6:       "ASTC_RGB_6x6",
	ASTC_RGB_8x8:       "ASTC_RGB_8x8",
	ASTC_RGB_10x10:     "ASTC_RGB_10x10",
	ASTC_RGB_12x12:     "ASTC_RGB_12x12",
	ASTC_RGBA_4x4:      "ASTC_RGBA_4x4",
	ASTC_RGBA_5x5:      "ASTC_RGBA_5x5",
	ASTC_RGBA_6x6:      "ASTC_RGBA_6x6",
	ASTC_RGBA_8x8:      "ASTC_RGBA_8x8",
	ASTC_RGBA_10x10:    "ASTC_RGBA_10x10",
	ASTC_RGBA_12x12:    "ASTC_RGBA_12x12",
	ETC_RGB4_3DS:       "ETC_RGB4_3DS",
	ETC_RGBA8_3DS:      "ETC_RGBA8_3DS",
	RG16:               "RG16",
	R8:                 "R8",
	ETC_RGB4Crunched:   "ETC_RGB4Crunched",
	ETC2_RGBA8Crunched: "ETC2_RGBA8Crunched",
	ASTC_HDR_4x4:       "ASTC_HDR_4x4",
	ASTC_HDR_5x5:       "ASTC_HDR_5x5",
	ASTC_HDR_6x6:       "ASTC_HDR_6x6",
	ASTC_HDR_8x8:       "ASTC_HDR_8x8",
	ASTC_HDR_10x10:     "ASTC_HDR_10x10",
	ASTC_HDR_12x12:     "ASTC_HDR_12x12",
	RG32:               "RG32",
	RGB48:              "RGB48",
	RGBA64:             "RGBA64",
}

// BlockLayout returns the block dimensions and block byte size of a format.
// Uncompressed formats report 1x1 blocks with their per-pixel size.
func (f Format) BlockLayout() (blockWidth, blockHeight, blockBytes int, err error) {
	switch f {
	case ASTC_RGB_4x4, ASTC_RGBA_4x4, ASTC_HDR_4x4:
		return 4, 4, 16, nil
	case ASTC_RGB_5x5, ASTC_RGBA_5x5, ASTC_HDR_5x5:
		return 5, 5, 16, nil
	case ASTC_RGB_6x6, ASTC_RGBA_6x6, ASTC_HDR_6x6:
		return 6, 6, 16, nil
	case ASTC_RGB_8x8, ASTC_RGBA_8x8, ASTC_HDR_8x8:
		return 8, 8, 16, nil
	case R8, Alpha8:
		return 1, 1, 1, nil
	case RG16, RGB565, RGBA4444, ARGB4444, R16:
		return 1, 1, 2, nil
	case RGB24, BGR24:
		return 1, 1, 3, nil
	case RGBA32, ARGB32, BGRA32:
		return 1, 1, 4, nil
	default:
		return 0, 0, 0, fmt.Errorf("no block layout known for texture format %s", f)
	}
}

// MipSize returns the byte size of one mip level of the given pixel
// dimensions. Partial blocks at the right and bottom edges round up to whole
// blocks.
func (f Format) MipSize(width, height int) (int, error) {
	bw, bh, bytes, err := f.BlockLayout()
	if err != nil {
		return 0, err
	}
	blocksWide := (width + bw - 1) / bw
	blocksHigh := (height + bh - 1) / bh
	return blocksWide * blocksHigh * bytes, nil
}
