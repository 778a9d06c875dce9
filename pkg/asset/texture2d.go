package asset

import (
	"github.com/tanukisoft/unitypack/pkg/stream"
	"github.com/tanukisoft/unitypack/pkg/texture"
)

// Texture2D is a serialized texture. Pixel data lives either inline in
// ImageData or in an external resource blob described by StreamData.
type Texture2D struct {
	Name                      string
	ForcedFallbackFormat      int32
	DownscaleFallback         uint8
	IsAlphaChannelOptional    uint8
	Width                     uint32
	Height                    uint32
	CompleteImageSize         uint32
	MipsStripped              uint32
	TextureFormat             texture.Format
	MipCount                  uint32
	IsReadable                uint8
	IsPreProcessed            uint8
	IgnoreMasterTextureLimit  uint8
	StreamingMipmaps          uint8
	StreamingMipmapsPriority  int32
	ImageCount                uint32
	TextureDimension          uint32
	TextureSettings           GLTextureSettings
	LightmapFormat            int32
	ColorSpace                int32
	PlatformBlob              []byte
	ImageData                 []byte
	StreamData                StreamingInfo
}

// TypeHash implements Asset.
func (t *Texture2D) TypeHash() Hash { return Texture2DHash }

func (t *Texture2D) read(d *dec) {
	t.Name = d.str()
	d.align(4)
	t.ForcedFallbackFormat = d.i32()
	t.DownscaleFallback = d.u8()
	t.IsAlphaChannelOptional = d.u8()
	d.align(4)
	t.Width = d.u32()
	t.Height = d.u32()
	t.CompleteImageSize = d.u32()
	t.MipsStripped = d.u32()
	t.TextureFormat = texture.Format(d.u32())
	t.MipCount = d.u32()
	t.IsReadable = d.u8()
	t.IsPreProcessed = d.u8()
	t.IgnoreMasterTextureLimit = d.u8()
	t.StreamingMipmaps = d.u8()
	t.StreamingMipmapsPriority = d.i32()
	t.ImageCount = d.u32()
	t.TextureDimension = d.u32()
	t.TextureSettings.read(d)
	t.LightmapFormat = d.i32()
	t.ColorSpace = d.i32()
	t.PlatformBlob = d.byteArray()
	t.ImageData = d.byteArray()
	t.StreamData.read(d)
}

func (t *Texture2D) write(w *stream.Writer) {
	w.WriteString(t.Name)
	w.Pad(4)
	w.I32(t.ForcedFallbackFormat)
	w.U8(t.DownscaleFallback)
	w.U8(t.IsAlphaChannelOptional)
	w.Pad(4)
	w.U32(t.Width)
	w.U32(t.Height)
	w.U32(t.CompleteImageSize)
	w.U32(t.MipsStripped)
	w.U32(uint32(t.TextureFormat))
	w.U32(t.MipCount)
	w.U8(t.IsReadable)
	w.U8(t.IsPreProcessed)
	w.U8(t.IgnoreMasterTextureLimit)
	w.U8(t.StreamingMipmaps)
	w.I32(t.StreamingMipmapsPriority)
	w.U32(t.ImageCount)
	w.U32(t.TextureDimension)
	t.TextureSettings.write(w)
	w.I32(t.LightmapFormat)
	w.I32(t.ColorSpace)
	w.WriteByteArray(t.PlatformBlob)
	w.WriteByteArray(t.ImageData)
	t.StreamData.write(w)
}

// GLTextureSettings holds sampler state for a texture.
type GLTextureSettings struct {
	FilterMode int32
	Aniso      int32
	MipBias    float32
	WrapU      int32
	WrapV      int32
	WrapW      int32
}

func (g *GLTextureSettings) read(d *dec) {
	g.FilterMode = d.i32()
	g.Aniso = d.i32()
	g.MipBias = d.f32()
	g.WrapU = d.i32()
	g.WrapV = d.i32()
	g.WrapW = d.i32()
}

func (g *GLTextureSettings) write(w *stream.Writer) {
	w.I32(g.FilterMode)
	w.I32(g.Aniso)
	w.F32(g.MipBias)
	w.I32(g.WrapU)
	w.I32(g.WrapV)
	w.I32(g.WrapW)
}

// StreamingInfo points at pixel data stored outside the serialized file, in
// a sibling resource blob. A zero Size means all data is inline.
type StreamingInfo struct {
	Offset uint64
	Size   uint32
	Path   string
}

func (s *StreamingInfo) read(d *dec) {
	s.Offset = d.u64()
	s.Size = d.u32()
	s.Path = d.str()
}

func (s *StreamingInfo) write(w *stream.Writer) {
	w.U64(s.Offset)
	w.U32(s.Size)
	w.WriteString(s.Path)
}
