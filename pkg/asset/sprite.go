package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// RenderDataKey identifies one render-data entry of an atlas: the sprite's
// GUID plus a sub-index.
type RenderDataKey struct {
	GUID   Hash
	Second uint64
}

func (k *RenderDataKey) read(d *dec) {
	d.align(4)
	k.GUID = d.hash()
	k.Second = d.u64()
}

func (k *RenderDataKey) write(w *stream.Writer) {
	w.Pad(4)
	k.GUID.write(w)
	w.U64(k.Second)
}

// SecondarySpriteTexture is an auxiliary texture attached to a sprite.
type SecondarySpriteTexture struct {
	Texture PPtr
	Name    string
}

func (s *SecondarySpriteTexture) read(d *dec) {
	s.Texture.read(d)
	s.Name = d.str()
}

func (s *SecondarySpriteTexture) write(w *stream.Writer) {
	s.Texture.write(w)
	w.WriteString(s.Name)
}

// SpriteAtlasData locates one packed sprite inside an atlas page.
type SpriteAtlasData struct {
	Texture             PPtr
	AlphaTexture        PPtr
	TextureRect         RectF
	TextureRectOffset   Vector2f
	AtlasRectOffset     Vector2f
	UVTransform         Vector4f
	DownscaleMultiplier float32
	SettingsRaw         uint32
	SecondaryTextures   []SecondarySpriteTexture
}

func (s *SpriteAtlasData) read(d *dec) {
	s.Texture.read(d)
	s.AlphaTexture.read(d)
	s.TextureRect.read(d)
	s.TextureRectOffset.read(d)
	s.AtlasRectOffset.read(d)
	s.UVTransform.read(d)
	s.DownscaleMultiplier = d.f32()
	s.SettingsRaw = d.u32()
	s.SecondaryTextures = arr(d, func(d *dec) SecondarySpriteTexture {
		var t SecondarySpriteTexture
		t.read(d)
		return t
	})
}

func (s *SpriteAtlasData) write(w *stream.Writer) {
	s.Texture.write(w)
	s.AlphaTexture.write(w)
	s.TextureRect.write(w)
	s.TextureRectOffset.write(w)
	s.AtlasRectOffset.write(w)
	s.UVTransform.write(w)
	w.F32(s.DownscaleMultiplier)
	w.U32(s.SettingsRaw)
	stream.WriteArray(w, s.SecondaryTextures, func(w *stream.Writer, t SecondarySpriteTexture) { t.write(w) })
}

// RenderDataEntry is one key/value pair of an atlas render-data map.
type RenderDataEntry struct {
	Key  RenderDataKey
	Data SpriteAtlasData
}

func (e *RenderDataEntry) read(d *dec) {
	e.Key.read(d)
	e.Data.read(d)
}

func (e *RenderDataEntry) write(w *stream.Writer) {
	e.Key.write(w)
	e.Data.write(w)
}

// SpriteAtlas is a packed page of sprites with a render-data map keyed by
// sprite GUID.
type SpriteAtlas struct {
	Name               string
	PackedSprites      []PPtr
	SpriteNamesToIndex []string
	RenderDataMap      []RenderDataEntry
	Tag                string
	IsVariant          uint32
}

// TypeHash implements Asset.
func (a *SpriteAtlas) TypeHash() Hash { return SpriteAtlasHash }

func (a *SpriteAtlas) read(d *dec) {
	a.Name = d.str()
	a.PackedSprites = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	a.SpriteNamesToIndex = arr(d, func(d *dec) string { return d.str() })
	a.RenderDataMap = arr(d, func(d *dec) RenderDataEntry { var e RenderDataEntry; e.read(d); return e })
	a.Tag = d.str()
	a.IsVariant = d.u32()
}

func (a *SpriteAtlas) write(w *stream.Writer) {
	w.WriteString(a.Name)
	stream.WriteArray(w, a.PackedSprites, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, a.SpriteNamesToIndex, func(w *stream.Writer, s string) { w.WriteString(s) })
	stream.WriteArray(w, a.RenderDataMap, func(w *stream.Writer, e RenderDataEntry) { e.write(w) })
	w.WriteString(a.Tag)
	w.U32(a.IsVariant)
}

// LookupRenderData returns the render data stored under key, or nil.
func (a *SpriteAtlas) LookupRenderData(key RenderDataKey) *SpriteAtlasData {
	for i := range a.RenderDataMap {
		if a.RenderDataMap[i].Key == key {
			return &a.RenderDataMap[i].Data
		}
	}
	return nil
}

// SpriteRenderData is a sprite's standalone render geometry, used when the
// sprite is not packed into an atlas.
type SpriteRenderData struct {
	Texture             PPtr
	AlphaTexture        PPtr
	SecondaryTextures   []SecondarySpriteTexture
	SubMeshes           []SubMesh
	IndexBuffer         []byte
	VertexData          VertexData
	BindPose            []Matrix4x4f
	TextureRect         RectF
	TextureRectOffset   Vector2f
	AtlasRectOffset     Vector2f
	SettingsRaw         uint32
	UVTransform         Vector4f
	DownscaleMultiplier float32
}

func (s *SpriteRenderData) read(d *dec) {
	s.Texture.read(d)
	s.AlphaTexture.read(d)
	s.SecondaryTextures = arr(d, func(d *dec) SecondarySpriteTexture {
		var t SecondarySpriteTexture
		t.read(d)
		return t
	})
	s.SubMeshes = arr(d, func(d *dec) SubMesh { var m SubMesh; m.read(d); return m })
	s.IndexBuffer = d.byteArray()
	s.VertexData.read(d)
	s.BindPose = arr(d, func(d *dec) Matrix4x4f { var m Matrix4x4f; m.read(d); return m })
	s.TextureRect.read(d)
	s.TextureRectOffset.read(d)
	s.AtlasRectOffset.read(d)
	s.SettingsRaw = d.u32()
	s.UVTransform.read(d)
	s.DownscaleMultiplier = d.f32()
}

func (s *SpriteRenderData) write(w *stream.Writer) {
	s.Texture.write(w)
	s.AlphaTexture.write(w)
	stream.WriteArray(w, s.SecondaryTextures, func(w *stream.Writer, t SecondarySpriteTexture) { t.write(w) })
	stream.WriteArray(w, s.SubMeshes, func(w *stream.Writer, m SubMesh) { m.write(w) })
	w.WriteByteArray(s.IndexBuffer)
	s.VertexData.write(w)
	stream.WriteArray(w, s.BindPose, func(w *stream.Writer, m Matrix4x4f) { m.write(w) })
	s.TextureRect.write(w)
	s.TextureRectOffset.write(w)
	s.AtlasRectOffset.write(w)
	w.U32(s.SettingsRaw)
	s.UVTransform.write(w)
	w.F32(s.DownscaleMultiplier)
}

// SpriteBone is one bone of a sprite's 2D rig.
type SpriteBone struct {
	Name     string
	Position Vector3f
	Rotation Quaternionf
	Length   float32
	ParentID uint32
}

func (b *SpriteBone) read(d *dec) {
	b.Name = d.str()
	b.Position.read(d)
	b.Rotation.read(d)
	b.Length = d.f32()
	b.ParentID = d.u32()
}

func (b *SpriteBone) write(w *stream.Writer) {
	w.WriteString(b.Name)
	b.Position.write(w)
	b.Rotation.write(w)
	w.F32(b.Length)
	w.U32(b.ParentID)
}

// Sprite is a rectangular cutout of a texture, optionally atlas-packed.
type Sprite struct {
	Name             string
	Rect             RectF
	Offset           Vector2f
	Border           Vector4f
	PixelsToUnits    float32
	Pivot            Vector2f
	Extrude          uint32
	IsPolygon        uint8
	RenderDataKey    RenderDataKey
	AtlasTags        []string
	SpriteAtlas      PPtr
	SpriteRenderData SpriteRenderData
	PhysicsShape     [][]Vector2f
	Bones            []SpriteBone
}

// TypeHash implements Asset.
func (s *Sprite) TypeHash() Hash { return SpriteHash }

func (s *Sprite) read(d *dec) {
	s.Name = d.str()
	s.Rect.read(d)
	s.Offset.read(d)
	s.Border.read(d)
	s.PixelsToUnits = d.f32()
	s.Pivot.read(d)
	s.Extrude = d.u32()
	s.IsPolygon = d.u8()
	s.RenderDataKey.read(d)
	s.AtlasTags = arr(d, func(d *dec) string { return d.str() })
	s.SpriteAtlas.read(d)
	s.SpriteRenderData.read(d)
	s.PhysicsShape = arr(d, func(d *dec) []Vector2f {
		return arr(d, func(d *dec) Vector2f { var v Vector2f; v.read(d); return v })
	})
	s.Bones = arr(d, func(d *dec) SpriteBone { var b SpriteBone; b.read(d); return b })
}

func (s *Sprite) write(w *stream.Writer) {
	w.WriteString(s.Name)
	s.Rect.write(w)
	s.Offset.write(w)
	s.Border.write(w)
	w.F32(s.PixelsToUnits)
	s.Pivot.write(w)
	w.U32(s.Extrude)
	w.U8(s.IsPolygon)
	s.RenderDataKey.write(w)
	stream.WriteArray(w, s.AtlasTags, func(w *stream.Writer, t string) { w.WriteString(t) })
	s.SpriteAtlas.write(w)
	s.SpriteRenderData.write(w)
	stream.WriteArray(w, s.PhysicsShape, func(w *stream.Writer, shape []Vector2f) {
		stream.WriteArray(w, shape, func(w *stream.Writer, v Vector2f) { v.write(w) })
	})
	stream.WriteArray(w, s.Bones, func(w *stream.Writer, b SpriteBone) { b.write(w) })
}
