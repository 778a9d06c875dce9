package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// TexEnv is one texture slot of a material: the texture plus its UV
// scale/offset.
type TexEnv struct {
	Texture PPtr
	Scale   Vector2f
	Offset  Vector2f
}

func (t *TexEnv) read(d *dec) {
	t.Texture.read(d)
	t.Scale.read(d)
	t.Offset.read(d)
}

func (t *TexEnv) write(w *stream.Writer) {
	t.Texture.write(w)
	t.Scale.write(w)
	t.Offset.write(w)
}

// TexEnvEntry is a named texture slot.
type TexEnvEntry struct {
	Name string
	Env  TexEnv
}

func (e *TexEnvEntry) read(d *dec) {
	e.Name = d.str()
	e.Env.read(d)
}

func (e *TexEnvEntry) write(w *stream.Writer) {
	w.WriteString(e.Name)
	e.Env.write(w)
}

// FloatEntry is a named shader float property.
type FloatEntry struct {
	Key   string
	Value float32
}

func (e *FloatEntry) read(d *dec) {
	e.Key = d.str()
	d.align(4)
	e.Value = d.f32()
}

func (e *FloatEntry) write(w *stream.Writer) {
	w.WriteString(e.Key)
	w.Pad(4)
	w.F32(e.Value)
}

// ColorEntry is a named shader color property.
type ColorEntry struct {
	Key   string
	Value ColorRGBA
}

func (e *ColorEntry) read(d *dec) {
	e.Key = d.str()
	e.Value.read(d)
}

func (e *ColorEntry) write(w *stream.Writer) {
	w.WriteString(e.Key)
	e.Value.write(w)
}

// PropertySheet holds a material's shader property values.
type PropertySheet struct {
	TexEnvs []TexEnvEntry
	Floats  []FloatEntry
	Colors  []ColorEntry
}

func (p *PropertySheet) read(d *dec) {
	p.TexEnvs = arr(d, func(d *dec) TexEnvEntry { var e TexEnvEntry; e.read(d); return e })
	p.Floats = arr(d, func(d *dec) FloatEntry { var e FloatEntry; e.read(d); return e })
	p.Colors = arr(d, func(d *dec) ColorEntry { var e ColorEntry; e.read(d); return e })
}

func (p *PropertySheet) write(w *stream.Writer) {
	stream.WriteArray(w, p.TexEnvs, func(w *stream.Writer, e TexEnvEntry) { e.write(w) })
	stream.WriteArray(w, p.Floats, func(w *stream.Writer, e FloatEntry) { e.write(w) })
	stream.WriteArray(w, p.Colors, func(w *stream.Writer, e ColorEntry) { e.write(w) })
}

// Material binds a shader to its property values.
type Material struct {
	Name                     string
	Shader                   PPtr
	ShaderKeywords           string
	LightmapFlags            uint32
	EnableInstancingVariants uint8
	DoubleSidedGI            uint8
	CustomRenderQueue        uint32
	StringTagMap             []StringPair
	DisabledShaderPasses     []string
	SavedProperties          PropertySheet
	BuildTextureStacks       []StringPair
}

// TypeHash implements Asset.
func (m *Material) TypeHash() Hash { return MaterialHash }

func (m *Material) read(d *dec) {
	m.Name = d.str()
	m.Shader.read(d)
	m.ShaderKeywords = d.str()
	d.align(4)
	m.LightmapFlags = d.u32()
	m.EnableInstancingVariants = d.u8()
	m.DoubleSidedGI = d.u8()
	d.align(4)
	m.CustomRenderQueue = d.u32()
	m.StringTagMap = arr(d, func(d *dec) StringPair { var p StringPair; p.read(d); return p })
	m.DisabledShaderPasses = arr(d, func(d *dec) string { return d.str() })
	m.SavedProperties.read(d)
	m.BuildTextureStacks = arr(d, func(d *dec) StringPair { var p StringPair; p.read(d); return p })
}

func (m *Material) write(w *stream.Writer) {
	w.WriteString(m.Name)
	m.Shader.write(w)
	w.WriteString(m.ShaderKeywords)
	w.Pad(4)
	w.U32(m.LightmapFlags)
	w.U8(m.EnableInstancingVariants)
	w.U8(m.DoubleSidedGI)
	w.Pad(4)
	w.U32(m.CustomRenderQueue)
	stream.WriteArray(w, m.StringTagMap, func(w *stream.Writer, p StringPair) { p.write(w) })
	stream.WriteArray(w, m.DisabledShaderPasses, func(w *stream.Writer, s string) { w.WriteString(s) })
	m.SavedProperties.write(w)
	stream.WriteArray(w, m.BuildTextureStacks, func(w *stream.Writer, p StringPair) { p.write(w) })
}

// SkinnedMeshRenderer renders a mesh deformed by an avatar's bones.
type SkinnedMeshRenderer struct {
	GameObject                  PPtr
	Enabled                     uint8
	CastShadows                 uint8
	ReceiveShadows              uint8
	DynamicOccludee             uint8
	MotionVectors               uint8
	LightProbeUsage             uint8
	ReflectionProbeUsage        uint8
	RayTracingMode              uint8
	RayTraceProcedural          uint8
	RenderingLayerMask          uint32
	RendererPriority            uint32
	LightmapIndex               uint16
	LightmapIndexDynamic        uint16
	LightmapTilingOffset        Vector4f
	LightmapTilingOffsetDynamic Vector4f
	Materials                   []PPtr
	FirstSubMesh                uint16
	SubMeshCount                uint16
	StaticBatchRoot             PPtr
	ProbeAnchor                 PPtr
	LightProbeVolumeOverride    PPtr
	SortingLayerID              uint32
	SortingLayer                uint16
	SortingOrder                uint16
	Quality                     uint32
	UpdateWhenOffscreen         uint8
	SkinnedMotionVectors        uint8
	Mesh                        PPtr
	Bones                       []PPtr
	BlendShapeWeights           []float32
	RootBone                    PPtr
	AABB                        AABB
	DirtyAABB                   uint8
}

// TypeHash implements Asset.
func (r *SkinnedMeshRenderer) TypeHash() Hash { return SkinnedMeshRendererHash }

func (r *SkinnedMeshRenderer) read(d *dec) {
	r.GameObject.read(d)
	r.Enabled = d.u8()
	r.CastShadows = d.u8()
	r.ReceiveShadows = d.u8()
	r.DynamicOccludee = d.u8()
	r.MotionVectors = d.u8()
	r.LightProbeUsage = d.u8()
	r.ReflectionProbeUsage = d.u8()
	r.RayTracingMode = d.u8()
	r.RayTraceProcedural = d.u8()
	d.align(4)
	r.RenderingLayerMask = d.u32()
	r.RendererPriority = d.u32()
	r.LightmapIndex = d.u16()
	r.LightmapIndexDynamic = d.u16()
	r.LightmapTilingOffset.read(d)
	r.LightmapTilingOffsetDynamic.read(d)
	r.Materials = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	r.FirstSubMesh = d.u16()
	r.SubMeshCount = d.u16()
	r.StaticBatchRoot.read(d)
	r.ProbeAnchor.read(d)
	r.LightProbeVolumeOverride.read(d)
	r.SortingLayerID = d.u32()
	r.SortingLayer = d.u16()
	r.SortingOrder = d.u16()
	r.Quality = d.u32()
	r.UpdateWhenOffscreen = d.u8()
	r.SkinnedMotionVectors = d.u8()
	d.align(4)
	r.Mesh.read(d)
	r.Bones = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	r.BlendShapeWeights = arr(d, func(d *dec) float32 { return d.f32() })
	r.RootBone.read(d)
	r.AABB.read(d)
	r.DirtyAABB = d.u8()
}

func (r *SkinnedMeshRenderer) write(w *stream.Writer) {
	r.GameObject.write(w)
	w.U8(r.Enabled)
	w.U8(r.CastShadows)
	w.U8(r.ReceiveShadows)
	w.U8(r.DynamicOccludee)
	w.U8(r.MotionVectors)
	w.U8(r.LightProbeUsage)
	w.U8(r.ReflectionProbeUsage)
	w.U8(r.RayTracingMode)
	w.U8(r.RayTraceProcedural)
	w.Pad(4)
	w.U32(r.RenderingLayerMask)
	w.U32(r.RendererPriority)
	w.U16(r.LightmapIndex)
	w.U16(r.LightmapIndexDynamic)
	r.LightmapTilingOffset.write(w)
	r.LightmapTilingOffsetDynamic.write(w)
	stream.WriteArray(w, r.Materials, func(w *stream.Writer, p PPtr) { p.write(w) })
	w.U16(r.FirstSubMesh)
	w.U16(r.SubMeshCount)
	r.StaticBatchRoot.write(w)
	r.ProbeAnchor.write(w)
	r.LightProbeVolumeOverride.write(w)
	w.U32(r.SortingLayerID)
	w.U16(r.SortingLayer)
	w.U16(r.SortingOrder)
	w.U32(r.Quality)
	w.U8(r.UpdateWhenOffscreen)
	w.U8(r.SkinnedMotionVectors)
	w.Pad(4)
	r.Mesh.write(w)
	stream.WriteArray(w, r.Bones, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, r.BlendShapeWeights, func(w *stream.Writer, f float32) { w.F32(f) })
	r.RootBone.write(w)
	r.AABB.write(w)
	w.U8(r.DirtyAABB)
}
