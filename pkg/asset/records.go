package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// PPtr is an object reference: a file index plus the target's stable path
// id. It realigns to 4 before reading because references routinely follow
// single-byte flags in the engine's native layouts.
type PPtr struct {
	FileID int32
	PathID int64
}

func (p *PPtr) read(d *dec) {
	d.align(4)
	p.FileID = d.i32()
	p.PathID = d.i64()
}

func (p *PPtr) write(w *stream.Writer) {
	w.Pad(4)
	w.I32(p.FileID)
	w.I64(p.PathID)
}

// AssetInfo describes one entry of an asset bundle's container map.
type AssetInfo struct {
	PreloadIndex uint32
	PreloadSize  uint32
	Asset        PPtr
}

func (a *AssetInfo) read(d *dec) {
	a.PreloadIndex = d.u32()
	a.PreloadSize = d.u32()
	a.Asset.read(d)
}

func (a *AssetInfo) write(w *stream.Writer) {
	w.U32(a.PreloadIndex)
	w.U32(a.PreloadSize)
	a.Asset.write(w)
}

// ContainerEntry is a named AssetInfo in a bundle's container map.
type ContainerEntry struct {
	Name string
	Info AssetInfo
}

func (c *ContainerEntry) read(d *dec) {
	c.Name = d.str()
	c.Info.read(d)
}

func (c *ContainerEntry) write(w *stream.Writer) {
	w.WriteString(c.Name)
	c.Info.write(w)
}

// StringPair is a generic two-string map entry.
type StringPair struct {
	First  string
	Second string
}

func (p *StringPair) read(d *dec) {
	p.First = d.str()
	p.Second = d.str()
}

func (p *StringPair) write(w *stream.Writer) {
	w.WriteString(p.First)
	w.WriteString(p.Second)
}

// AssetBundle is the bundle manifest record describing the bundle's own
// contents and dependencies.
type AssetBundle struct {
	Name                  string
	Preloads              []PPtr
	ContainerMap          []ContainerEntry
	MainAsset             AssetInfo
	RuntimeCompatibility  uint32
	AssetBundleName       string
	Dependencies          []string
	IsStreamedAssetBundle uint8
	ExplicitDataLayout    uint32
	PathFlags             uint32
	SceneHashes           []StringPair
}

// TypeHash implements Asset.
func (a *AssetBundle) TypeHash() Hash { return AssetBundleHash }

func (a *AssetBundle) read(d *dec) {
	a.Name = d.str()
	a.Preloads = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	a.ContainerMap = arr(d, func(d *dec) ContainerEntry { var c ContainerEntry; c.read(d); return c })
	a.MainAsset.read(d)
	a.RuntimeCompatibility = d.u32()
	a.AssetBundleName = d.str()
	a.Dependencies = arr(d, func(d *dec) string { return d.str() })
	a.IsStreamedAssetBundle = d.u8()
	d.align(4)
	a.ExplicitDataLayout = d.u32()
	a.PathFlags = d.u32()
	a.SceneHashes = arr(d, func(d *dec) StringPair { var p StringPair; p.read(d); return p })
}

func (a *AssetBundle) write(w *stream.Writer) {
	w.WriteString(a.Name)
	stream.WriteArray(w, a.Preloads, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, a.ContainerMap, func(w *stream.Writer, c ContainerEntry) { c.write(w) })
	a.MainAsset.write(w)
	w.U32(a.RuntimeCompatibility)
	w.WriteString(a.AssetBundleName)
	stream.WriteArray(w, a.Dependencies, func(w *stream.Writer, s string) { w.WriteString(s) })
	w.U8(a.IsStreamedAssetBundle)
	w.Pad(4)
	w.U32(a.ExplicitDataLayout)
	w.U32(a.PathFlags)
	stream.WriteArray(w, a.SceneHashes, func(w *stream.Writer, p StringPair) { p.write(w) })
}

// GameObject is a scene object: its component references plus identity.
type GameObject struct {
	Components []PPtr
	Layer      uint32
	Name       string
	Tag        uint16
	IsActive   uint8
}

// TypeHash implements Asset.
func (g *GameObject) TypeHash() Hash { return GameObjectHash }

func (g *GameObject) read(d *dec) {
	g.Components = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	g.Layer = d.u32()
	g.Name = d.str()
	d.align(4)
	g.Tag = d.u16()
	g.IsActive = d.u8()
}

func (g *GameObject) write(w *stream.Writer) {
	stream.WriteArray(w, g.Components, func(w *stream.Writer, p PPtr) { p.write(w) })
	w.U32(g.Layer)
	w.WriteString(g.Name)
	w.Pad(4)
	w.U16(g.Tag)
	w.U8(g.IsActive)
}

// Transform is a scene-graph node: local TRS plus parent/child references.
type Transform struct {
	GameObject    PPtr
	LocalRotation Quaternionf
	LocalPosition Vector3f
	LocalScale    Vector3f
	Children      []PPtr
	Father        PPtr
}

// TypeHash implements Asset.
func (t *Transform) TypeHash() Hash { return TransformHash }

func (t *Transform) read(d *dec) {
	t.GameObject.read(d)
	t.LocalRotation.read(d)
	t.LocalPosition.read(d)
	t.LocalScale.read(d)
	t.Children = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	t.Father.read(d)
}

func (t *Transform) write(w *stream.Writer) {
	t.GameObject.write(w)
	t.LocalRotation.write(w)
	t.LocalPosition.write(w)
	t.LocalScale.write(w)
	stream.WriteArray(w, t.Children, func(w *stream.Writer, p PPtr) { p.write(w) })
	t.Father.write(w)
}

// Animator drives an avatar with an animation controller.
type Animator struct {
	GameObject                               PPtr
	Enabled                                  uint8
	Avatar                                   PPtr
	Controller                               PPtr
	CullingMode                              uint32
	UpdateMode                               uint32
	ApplyRootMotion                          uint8
	LinearVelocityBlending                   uint8
	HasTransformHierarchy                    uint8
	AllowConstantClipSamplingOptimization    uint8
	KeepAnimatorControllerStateOnDisable     uint8
}

// TypeHash implements Asset.
func (a *Animator) TypeHash() Hash { return AnimatorHash }

func (a *Animator) read(d *dec) {
	a.GameObject.read(d)
	a.Enabled = d.u8()
	a.Avatar.read(d)
	a.Controller.read(d)
	a.CullingMode = d.u32()
	a.UpdateMode = d.u32()
	a.ApplyRootMotion = d.u8()
	a.LinearVelocityBlending = d.u8()
	d.align(4)
	a.HasTransformHierarchy = d.u8()
	a.AllowConstantClipSamplingOptimization = d.u8()
	a.KeepAnimatorControllerStateOnDisable = d.u8()
}

func (a *Animator) write(w *stream.Writer) {
	a.GameObject.write(w)
	w.U8(a.Enabled)
	a.Avatar.write(w)
	a.Controller.write(w)
	w.U32(a.CullingMode)
	w.U32(a.UpdateMode)
	w.U8(a.ApplyRootMotion)
	w.U8(a.LinearVelocityBlending)
	w.Pad(4)
	w.U8(a.HasTransformHierarchy)
	w.U8(a.AllowConstantClipSamplingOptimization)
	w.U8(a.KeepAnimatorControllerStateOnDisable)
}

// TextAsset is a named text payload. The bytes are arbitrary data the engine
// does not interpret; accessors tolerate any encoding.
type TextAsset struct {
	Name string
	Data []byte
}

// TypeHash implements Asset.
func (t *TextAsset) TypeHash() Hash { return TextAssetHash }

func (t *TextAsset) read(d *dec) {
	t.Name = d.str()
	t.Data = d.byteArray()
}

func (t *TextAsset) write(w *stream.Writer) {
	w.WriteString(t.Name)
	w.WriteByteArray(t.Data)
}

// MonoScript identifies a managed script class.
type MonoScript struct {
	Name           string
	ExecutionOrder int32
	PropertiesHash Hash
	ClassName      string
	Namespace      string
	AssemblyName   string
}

// TypeHash implements Asset.
func (m *MonoScript) TypeHash() Hash { return MonoScriptHash }

func (m *MonoScript) read(d *dec) {
	m.Name = d.str()
	d.align(4)
	m.ExecutionOrder = d.i32()
	m.PropertiesHash = d.hash()
	m.ClassName = d.str()
	m.Namespace = d.str()
	m.AssemblyName = d.str()
}

func (m *MonoScript) write(w *stream.Writer) {
	w.WriteString(m.Name)
	w.Pad(4)
	w.I32(m.ExecutionOrder)
	m.PropertiesHash.write(w)
	w.WriteString(m.ClassName)
	w.WriteString(m.Namespace)
	w.WriteString(m.AssemblyName)
}

// MonoBehavior is the common prefix of every script-backed behavior record.
// The three bytes after the enabled flag are struct padding from the
// engine's native layout; they must be reproduced exactly or every byte that
// follows in the object desyncs.
type MonoBehavior struct {
	GameObject PPtr
	Enabled    uint8
	Script     PPtr
	Name       string
}

func (m *MonoBehavior) read(d *dec) {
	m.GameObject.read(d)
	m.Enabled = d.u8()
	d.skip(3)
	m.Script.read(d)
	m.Name = d.str()
}

func (m *MonoBehavior) write(w *stream.Writer) {
	m.GameObject.write(w)
	w.U8(m.Enabled)
	w.U8(0)
	w.U8(0)
	w.U8(0)
	m.Script.write(w)
	w.WriteString(m.Name)
}

// EmptyBehavior is a behavior record with no payload.
type EmptyBehavior struct {
	MonoBehavior
}

// TypeHash implements Asset.
func (e *EmptyBehavior) TypeHash() Hash { return EmptyBehaviorHash }

func (e *EmptyBehavior) read(d *dec) {
	e.MonoBehavior.read(d)
}

func (e *EmptyBehavior) write(w *stream.Writer) {
	e.MonoBehavior.write(w)
}

// TerrainBehavior is a behavior record carrying map terrain data.
type TerrainBehavior struct {
	MonoBehavior
	Data TerrainData
}

// TypeHash implements Asset.
func (t *TerrainBehavior) TypeHash() Hash { return TerrainBehaviorHash }

func (t *TerrainBehavior) read(d *dec) {
	t.MonoBehavior.read(d)
	t.Data.read(d)
}

func (t *TerrainBehavior) write(w *stream.Writer) {
	t.MonoBehavior.write(w)
	t.Data.write(w)
}

// TerrainData is a grid of terrain layers and overlaps.
type TerrainData struct {
	X        int32
	Z        int32
	Width    int32
	Height   int32
	Layers   []TerrainLayer
	Overlaps []TerrainOverlap
	Terrains []string
}

func (t *TerrainData) read(d *dec) {
	t.X = d.i32()
	t.Z = d.i32()
	t.Width = d.i32()
	t.Height = d.i32()
	t.Layers = arr(d, func(d *dec) TerrainLayer { var l TerrainLayer; l.read(d); return l })
	t.Overlaps = arr(d, func(d *dec) TerrainOverlap { var o TerrainOverlap; o.read(d); return o })
	t.Terrains = arr(d, func(d *dec) string { return d.str() })
}

func (t *TerrainData) write(w *stream.Writer) {
	w.I32(t.X)
	w.I32(t.Z)
	w.I32(t.Width)
	w.I32(t.Height)
	stream.WriteArray(w, t.Layers, func(w *stream.Writer, l TerrainLayer) { l.write(w) })
	stream.WriteArray(w, t.Overlaps, func(w *stream.Writer, o TerrainOverlap) { o.write(w) })
	stream.WriteArray(w, t.Terrains, func(w *stream.Writer, s string) { w.WriteString(s) })
}

// TerrainLayer is one rectangular terrain cell group. Aligned to 4 after
// reading.
type TerrainLayer struct {
	X, Y, W, H uint8
	Group      int32
	Attrs      []string
}

func (l *TerrainLayer) read(d *dec) {
	l.X = d.u8()
	l.Y = d.u8()
	l.W = d.u8()
	l.H = d.u8()
	l.Group = d.i32()
	l.Attrs = arr(d, func(d *dec) string { return d.str() })
	d.align(4)
}

func (l *TerrainLayer) write(w *stream.Writer) {
	w.U8(l.X)
	w.U8(l.Y)
	w.U8(l.W)
	w.U8(l.H)
	w.I32(l.Group)
	stream.WriteArray(w, l.Attrs, func(w *stream.Writer, s string) { w.WriteString(s) })
	w.Pad(4)
}

// TerrainOverlap marks one overlapping terrain cell. Aligned to 4 after
// reading.
type TerrainOverlap struct {
	X, Y  uint8
	Attrs []string
}

func (o *TerrainOverlap) read(d *dec) {
	o.X = d.u8()
	o.Y = d.u8()
	o.Attrs = arr(d, func(d *dec) string { return d.str() })
	d.align(4)
}

func (o *TerrainOverlap) write(w *stream.Writer) {
	w.U8(o.X)
	w.U8(o.Y)
	stream.WriteArray(w, o.Attrs, func(w *stream.Writer, s string) { w.WriteString(s) })
	w.Pad(4)
}
