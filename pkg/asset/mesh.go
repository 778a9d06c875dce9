package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// SubMesh is one draw range of a mesh's index buffer.
type SubMesh struct {
	FirstByte   uint32
	IndexCount  uint32
	Topology    int32
	BaseVertex  uint32
	FirstVertex uint32
	VertexCount uint32
	AABB        AABB
}

func (m *SubMesh) read(d *dec) {
	d.align(4)
	m.FirstByte = d.u32()
	m.IndexCount = d.u32()
	m.Topology = d.i32()
	m.BaseVertex = d.u32()
	m.FirstVertex = d.u32()
	m.VertexCount = d.u32()
	m.AABB.read(d)
}

func (m *SubMesh) write(w *stream.Writer) {
	w.Pad(4)
	w.U32(m.FirstByte)
	w.U32(m.IndexCount)
	w.I32(m.Topology)
	w.U32(m.BaseVertex)
	w.U32(m.FirstVertex)
	w.U32(m.VertexCount)
	m.AABB.write(w)
}

// ChannelInfo describes one vertex attribute's placement in the vertex
// buffer.
type ChannelInfo struct {
	Stream    uint8
	Offset    uint8
	Format    uint8
	Dimension uint8
}

func (c *ChannelInfo) read(d *dec) {
	c.Stream = d.u8()
	c.Offset = d.u8()
	c.Format = d.u8()
	c.Dimension = d.u8()
}

func (c *ChannelInfo) write(w *stream.Writer) {
	w.U8(c.Stream)
	w.U8(c.Offset)
	w.U8(c.Format)
	w.U8(c.Dimension)
}

// VertexData is an interleaved vertex buffer plus its channel layout.
type VertexData struct {
	VertexCount uint32
	Channels    []ChannelInfo
	Data        []byte
}

func (v *VertexData) read(d *dec) {
	d.align(4)
	v.VertexCount = d.u32()
	v.Channels = arr(d, func(d *dec) ChannelInfo { var c ChannelInfo; c.read(d); return c })
	v.Data = d.byteArray()
}

func (v *VertexData) write(w *stream.Writer) {
	w.Pad(4)
	w.U32(v.VertexCount)
	stream.WriteArray(w, v.Channels, func(w *stream.Writer, c ChannelInfo) { c.write(w) })
	w.WriteByteArray(v.Data)
}

// BlendShapeVertex is one displaced vertex of a blend shape frame.
type BlendShapeVertex struct {
	Vertex  Vector3f
	Normal  Vector3f
	Tangent Vector3f
	Index   uint32
}

func (v *BlendShapeVertex) read(d *dec) {
	v.Vertex.read(d)
	v.Normal.read(d)
	v.Tangent.read(d)
	v.Index = d.u32()
}

func (v *BlendShapeVertex) write(w *stream.Writer) {
	v.Vertex.write(w)
	v.Normal.write(w)
	v.Tangent.write(w)
	w.U32(v.Index)
}

// MeshBlendShape is one blend shape frame's vertex range.
type MeshBlendShape struct {
	FirstVertex uint32
	VertexCount uint32
	HasNormals  uint8
	HasTangents uint8
}

func (s *MeshBlendShape) read(d *dec) {
	s.FirstVertex = d.u32()
	s.VertexCount = d.u32()
	s.HasNormals = d.u8()
	s.HasTangents = d.u8()
}

func (s *MeshBlendShape) write(w *stream.Writer) {
	w.U32(s.FirstVertex)
	w.U32(s.VertexCount)
	w.U8(s.HasNormals)
	w.U8(s.HasTangents)
}

// MeshBlendShapeChannel names a group of blend shape frames.
type MeshBlendShapeChannel struct {
	Name       string
	NameHash   uint32
	FrameIndex uint32
	FrameCount uint32
}

func (c *MeshBlendShapeChannel) read(d *dec) {
	c.Name = d.str()
	c.NameHash = d.u32()
	c.FrameIndex = d.u32()
	c.FrameCount = d.u32()
}

func (c *MeshBlendShapeChannel) write(w *stream.Writer) {
	w.WriteString(c.Name)
	w.U32(c.NameHash)
	w.U32(c.FrameIndex)
	w.U32(c.FrameCount)
}

// BlendShapeData is a mesh's full blend shape set.
type BlendShapeData struct {
	Vertices    []BlendShapeVertex
	Shapes      []MeshBlendShape
	Channels    []MeshBlendShapeChannel
	FullWeights []float32
}

func (b *BlendShapeData) read(d *dec) {
	b.Vertices = arr(d, func(d *dec) BlendShapeVertex { var v BlendShapeVertex; v.read(d); return v })
	b.Shapes = arr(d, func(d *dec) MeshBlendShape { var s MeshBlendShape; s.read(d); return s })
	b.Channels = arr(d, func(d *dec) MeshBlendShapeChannel {
		var c MeshBlendShapeChannel
		c.read(d)
		return c
	})
	b.FullWeights = arr(d, func(d *dec) float32 { return d.f32() })
}

func (b *BlendShapeData) write(w *stream.Writer) {
	stream.WriteArray(w, b.Vertices, func(w *stream.Writer, v BlendShapeVertex) { v.write(w) })
	stream.WriteArray(w, b.Shapes, func(w *stream.Writer, s MeshBlendShape) { s.write(w) })
	stream.WriteArray(w, b.Channels, func(w *stream.Writer, c MeshBlendShapeChannel) { c.write(w) })
	stream.WriteArray(w, b.FullWeights, func(w *stream.Writer, f float32) { w.F32(f) })
}

// PackedBitVector is a quantized float array: values are bit-packed against
// a range and start offset.
type PackedBitVector struct {
	NumItems uint32
	Range    float32
	Start    float32
	Data     []byte
	BitSize  uint8
}

func (p *PackedBitVector) read(d *dec) {
	d.align(4)
	p.NumItems = d.u32()
	p.Range = d.f32()
	p.Start = d.f32()
	p.Data = d.byteArray()
	p.BitSize = d.u8()
}

func (p *PackedBitVector) write(w *stream.Writer) {
	w.Pad(4)
	w.U32(p.NumItems)
	w.F32(p.Range)
	w.F32(p.Start)
	w.WriteByteArray(p.Data)
	w.U8(p.BitSize)
}

// PackedIntVector is a bit-packed integer array. Unlike PackedBitVector it
// carries no dequantization range.
type PackedIntVector struct {
	NumItems uint32
	Data     []byte
	BitSize  uint8
}

func (p *PackedIntVector) read(d *dec) {
	d.align(4)
	p.NumItems = d.u32()
	p.Data = d.byteArray()
	p.BitSize = d.u8()
}

func (p *PackedIntVector) write(w *stream.Writer) {
	w.Pad(4)
	w.U32(p.NumItems)
	w.WriteByteArray(p.Data)
	w.U8(p.BitSize)
}

// CompressedMesh is the bit-packed representation of mesh geometry.
type CompressedMesh struct {
	Vertices     PackedBitVector
	UV           PackedBitVector
	Normals      PackedBitVector
	Tangents     PackedBitVector
	Weights      PackedIntVector
	NormalSigns  PackedIntVector
	TangentSigns PackedIntVector
	FloatColors  PackedBitVector
	BoneIndices  PackedIntVector
	Triangles    PackedIntVector
	UVInfo       uint32
}

func (c *CompressedMesh) read(d *dec) {
	c.Vertices.read(d)
	c.UV.read(d)
	c.Normals.read(d)
	c.Tangents.read(d)
	c.Weights.read(d)
	c.NormalSigns.read(d)
	c.TangentSigns.read(d)
	c.FloatColors.read(d)
	c.BoneIndices.read(d)
	c.Triangles.read(d)
	d.align(4)
	c.UVInfo = d.u32()
}

func (c *CompressedMesh) write(w *stream.Writer) {
	c.Vertices.write(w)
	c.UV.write(w)
	c.Normals.write(w)
	c.Tangents.write(w)
	c.Weights.write(w)
	c.NormalSigns.write(w)
	c.TangentSigns.write(w)
	c.FloatColors.write(w)
	c.BoneIndices.write(w)
	c.Triangles.write(w)
	w.Pad(4)
	w.U32(c.UVInfo)
}

// Mesh is renderable geometry: sub-mesh ranges, vertex and index buffers,
// blend shapes, and an optional compressed form.
type Mesh struct {
	Name                       string
	SubMeshes                  []SubMesh
	Shapes                     BlendShapeData
	BindPose                   []Matrix4x4f
	BoneNameHashes             []uint32
	RootBoneNameHash           uint32
	BonesAABB                  []MinMaxAABB
	VariableBoneCountWeights   []uint32
	MeshCompression            uint8
	IsReadable                 uint8
	KeepVertices               uint8
	KeepIndices                uint8
	IndexFormat                uint32
	IndexBuffer                []byte
	VertexData                 VertexData
	CompressedMesh             CompressedMesh
	LocalAABB                  AABB
	MeshUsageFlags             uint32
	BakedConvexCollisionMesh   []byte
	BakedTriangleCollisionMesh []byte
	MeshMetrics                [2]float32
	StreamData                 StreamingInfo
}

// TypeHash implements Asset.
func (m *Mesh) TypeHash() Hash { return MeshHash }

func (m *Mesh) read(d *dec) {
	m.Name = d.str()
	m.SubMeshes = arr(d, func(d *dec) SubMesh { var s SubMesh; s.read(d); return s })
	m.Shapes.read(d)
	m.BindPose = arr(d, func(d *dec) Matrix4x4f { var x Matrix4x4f; x.read(d); return x })
	m.BoneNameHashes = arr(d, func(d *dec) uint32 { return d.u32() })
	m.RootBoneNameHash = d.u32()
	m.BonesAABB = arr(d, func(d *dec) MinMaxAABB { var b MinMaxAABB; b.read(d); return b })
	m.VariableBoneCountWeights = arr(d, func(d *dec) uint32 { return d.u32() })
	m.MeshCompression = d.u8()
	m.IsReadable = d.u8()
	m.KeepVertices = d.u8()
	m.KeepIndices = d.u8()
	m.IndexFormat = d.u32()
	m.IndexBuffer = d.byteArray()
	m.VertexData.read(d)
	d.align(4)
	m.CompressedMesh.read(d)
	m.LocalAABB.read(d)
	m.MeshUsageFlags = d.u32()
	m.BakedConvexCollisionMesh = d.byteArray()
	m.BakedTriangleCollisionMesh = d.byteArray()
	m.MeshMetrics[0] = d.f32()
	m.MeshMetrics[1] = d.f32()
	m.StreamData.read(d)
}

func (m *Mesh) write(w *stream.Writer) {
	w.WriteString(m.Name)
	stream.WriteArray(w, m.SubMeshes, func(w *stream.Writer, s SubMesh) { s.write(w) })
	m.Shapes.write(w)
	stream.WriteArray(w, m.BindPose, func(w *stream.Writer, x Matrix4x4f) { x.write(w) })
	stream.WriteArray(w, m.BoneNameHashes, func(w *stream.Writer, h uint32) { w.U32(h) })
	w.U32(m.RootBoneNameHash)
	stream.WriteArray(w, m.BonesAABB, func(w *stream.Writer, b MinMaxAABB) { b.write(w) })
	stream.WriteArray(w, m.VariableBoneCountWeights, func(w *stream.Writer, v uint32) { w.U32(v) })
	w.U8(m.MeshCompression)
	w.U8(m.IsReadable)
	w.U8(m.KeepVertices)
	w.U8(m.KeepIndices)
	w.U32(m.IndexFormat)
	w.WriteByteArray(m.IndexBuffer)
	m.VertexData.write(w)
	w.Pad(4)
	m.CompressedMesh.write(w)
	m.LocalAABB.write(w)
	w.U32(m.MeshUsageFlags)
	w.WriteByteArray(m.BakedConvexCollisionMesh)
	w.WriteByteArray(m.BakedTriangleCollisionMesh)
	w.F32(m.MeshMetrics[0])
	w.F32(m.MeshMetrics[1])
	m.StreamData.write(w)
}
