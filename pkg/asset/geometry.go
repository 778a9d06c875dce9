package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// Shared math value types used across record layouts. Alignment-before flags
// mirror the engine's native struct packing: most vector types realign to a
// 4-byte boundary before their first component because they frequently
// follow single-byte flag fields.

// Vector2f is a 2-component float vector, aligned to 4 before reading.
type Vector2f struct {
	X, Y float32
}

func (v *Vector2f) read(d *dec) {
	d.align(4)
	v.X = d.f32()
	v.Y = d.f32()
}

func (v *Vector2f) write(w *stream.Writer) {
	w.Pad(4)
	w.F32(v.X)
	w.F32(v.Y)
}

// Vector3f is a 3-component float vector, aligned to 4 before reading.
type Vector3f struct {
	X, Y, Z float32
}

func (v *Vector3f) read(d *dec) {
	d.align(4)
	v.X = d.f32()
	v.Y = d.f32()
	v.Z = d.f32()
}

func (v *Vector3f) write(w *stream.Writer) {
	w.Pad(4)
	w.F32(v.X)
	w.F32(v.Y)
	w.F32(v.Z)
}

// Vector4f is a 4-component float vector, aligned to 4 before reading.
type Vector4f struct {
	X, Y, Z, W float32
}

func (v *Vector4f) read(d *dec) {
	d.align(4)
	v.X = d.f32()
	v.Y = d.f32()
	v.Z = d.f32()
	v.W = d.f32()
}

func (v *Vector4f) write(w *stream.Writer) {
	w.Pad(4)
	w.F32(v.X)
	w.F32(v.Y)
	w.F32(v.Z)
	w.F32(v.W)
}

// Quaternionf is a rotation quaternion. No realignment: it only ever follows
// 4-byte-aligned fields.
type Quaternionf struct {
	X, Y, Z, W float32
}

func (q *Quaternionf) read(d *dec) {
	q.X = d.f32()
	q.Y = d.f32()
	q.Z = d.f32()
	q.W = d.f32()
}

func (q *Quaternionf) write(w *stream.Writer) {
	w.F32(q.X)
	w.F32(q.Y)
	w.F32(q.Z)
	w.F32(q.W)
}

// RectF is an axis-aligned rectangle, aligned to 4 before reading.
type RectF struct {
	X, Y, W, H float32
}

func (rc *RectF) read(d *dec) {
	d.align(4)
	rc.X = d.f32()
	rc.Y = d.f32()
	rc.W = d.f32()
	rc.H = d.f32()
}

func (rc *RectF) write(w *stream.Writer) {
	w.Pad(4)
	w.F32(rc.X)
	w.F32(rc.Y)
	w.F32(rc.W)
	w.F32(rc.H)
}

// Matrix4x4f is a row-major 4x4 float matrix.
type Matrix4x4f [16]float32

func (m *Matrix4x4f) read(d *dec) {
	for i := range m {
		m[i] = d.f32()
	}
}

func (m *Matrix4x4f) write(w *stream.Writer) {
	for _, e := range m {
		w.F32(e)
	}
}

// AABB is a center/extent bounding box.
type AABB struct {
	Center Vector3f
	Extent Vector3f
}

func (b *AABB) read(d *dec) {
	b.Center.read(d)
	b.Extent.read(d)
}

func (b *AABB) write(w *stream.Writer) {
	b.Center.write(w)
	b.Extent.write(w)
}

// MinMaxAABB is a min/max bounding box.
type MinMaxAABB struct {
	Min Vector3f
	Max Vector3f
}

func (b *MinMaxAABB) read(d *dec) {
	b.Min.read(d)
	b.Max.read(d)
}

func (b *MinMaxAABB) write(w *stream.Writer) {
	b.Min.write(w)
	b.Max.write(w)
}

// ColorRGBA is a float color, aligned to 4 before reading.
type ColorRGBA struct {
	R, G, B, A float32
}

func (c *ColorRGBA) read(d *dec) {
	d.align(4)
	c.R = d.f32()
	c.G = d.f32()
	c.B = d.f32()
	c.A = d.f32()
}

func (c *ColorRGBA) write(w *stream.Writer) {
	w.Pad(4)
	w.F32(c.R)
	w.F32(c.G)
	w.F32(c.B)
	w.F32(c.A)
}
