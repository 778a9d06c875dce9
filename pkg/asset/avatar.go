package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// SkeletonNode links one skeleton joint to its parent and axes.
type SkeletonNode struct {
	ParentID uint32
	AxesID   uint32
}

func (n *SkeletonNode) read(d *dec) {
	n.ParentID = d.u32()
	n.AxesID = d.u32()
}

func (n *SkeletonNode) write(w *stream.Writer) {
	w.U32(n.ParentID)
	w.U32(n.AxesID)
}

// SkeletonLimit bounds a joint's rotation per axis.
type SkeletonLimit struct {
	Min Vector3f
	Max Vector3f
}

func (l *SkeletonLimit) read(d *dec) {
	l.Min.read(d)
	l.Max.read(d)
}

func (l *SkeletonLimit) write(w *stream.Writer) {
	l.Min.write(w)
	l.Max.write(w)
}

// SkeletonAxes describes a joint's rotation axes and limits.
type SkeletonAxes struct {
	PreQ   Vector4f
	PostQ  Vector4f
	Sgn    Vector3f
	Limit  SkeletonLimit
	Length float32
	Type   uint32
}

func (a *SkeletonAxes) read(d *dec) {
	a.PreQ.read(d)
	a.PostQ.read(d)
	a.Sgn.read(d)
	a.Limit.read(d)
	a.Length = d.f32()
	a.Type = d.u32()
}

func (a *SkeletonAxes) write(w *stream.Writer) {
	a.PreQ.write(w)
	a.PostQ.write(w)
	a.Sgn.write(w)
	a.Limit.write(w)
	w.F32(a.Length)
	w.U32(a.Type)
}

// Skeleton is a joint hierarchy with per-joint ids and axes.
type Skeleton struct {
	Nodes []SkeletonNode
	IDs   []uint32
	Axes  []SkeletonAxes
}

func (s *Skeleton) read(d *dec) {
	s.Nodes = arr(d, func(d *dec) SkeletonNode { var n SkeletonNode; n.read(d); return n })
	s.IDs = arr(d, func(d *dec) uint32 { return d.u32() })
	s.Axes = arr(d, func(d *dec) SkeletonAxes { var a SkeletonAxes; a.read(d); return a })
}

func (s *Skeleton) write(w *stream.Writer) {
	stream.WriteArray(w, s.Nodes, func(w *stream.Writer, n SkeletonNode) { n.write(w) })
	stream.WriteArray(w, s.IDs, func(w *stream.Writer, id uint32) { w.U32(id) })
	stream.WriteArray(w, s.Axes, func(w *stream.Writer, a SkeletonAxes) { a.write(w) })
}

// SkeletonTransform is one joint's local TRS.
type SkeletonTransform struct {
	Transform  Vector3f
	Quaternion Quaternionf
	Scale      Vector3f
}

func (t *SkeletonTransform) read(d *dec) {
	t.Transform.read(d)
	t.Quaternion.read(d)
	t.Scale.read(d)
}

func (t *SkeletonTransform) write(w *stream.Writer) {
	t.Transform.write(w)
	t.Quaternion.write(w)
	t.Scale.write(w)
}

// SkeletonPose is one transform per skeleton joint.
type SkeletonPose struct {
	Transforms []SkeletonTransform
}

func (p *SkeletonPose) read(d *dec) {
	p.Transforms = arr(d, func(d *dec) SkeletonTransform {
		var t SkeletonTransform
		t.read(d)
		return t
	})
}

func (p *SkeletonPose) write(w *stream.Writer) {
	stream.WriteArray(w, p.Transforms, func(w *stream.Writer, t SkeletonTransform) { t.write(w) })
}

// AvatarHuman maps the humanoid rig onto the skeleton.
type AvatarHuman struct {
	RootX          SkeletonTransform
	Skeleton       Skeleton
	SkeletonPose   SkeletonPose
	LeftHand       []uint32
	RightHand      []uint32
	HumanBoneIndex []uint32
	HumanBoneMass  []float32
	Scale          float32
	ArmTwist       float32
	ForearmTwist   float32
	UpperLegTwist  float32
	LegTwist       float32
	ArmStretch     float32
	LegStretch     float32
	FeetSpacing    float32
	HasLeftHand    uint8
	HasRightHand   uint8
	HasTDoF        uint8
}

func (h *AvatarHuman) read(d *dec) {
	h.RootX.read(d)
	h.Skeleton.read(d)
	h.SkeletonPose.read(d)
	h.LeftHand = arr(d, func(d *dec) uint32 { return d.u32() })
	h.RightHand = arr(d, func(d *dec) uint32 { return d.u32() })
	h.HumanBoneIndex = arr(d, func(d *dec) uint32 { return d.u32() })
	h.HumanBoneMass = arr(d, func(d *dec) float32 { return d.f32() })
	h.Scale = d.f32()
	h.ArmTwist = d.f32()
	h.ForearmTwist = d.f32()
	h.UpperLegTwist = d.f32()
	h.LegTwist = d.f32()
	h.ArmStretch = d.f32()
	h.LegStretch = d.f32()
	h.FeetSpacing = d.f32()
	h.HasLeftHand = d.u8()
	h.HasRightHand = d.u8()
	h.HasTDoF = d.u8()
}

func (h *AvatarHuman) write(w *stream.Writer) {
	h.RootX.write(w)
	h.Skeleton.write(w)
	h.SkeletonPose.write(w)
	stream.WriteArray(w, h.LeftHand, func(w *stream.Writer, v uint32) { w.U32(v) })
	stream.WriteArray(w, h.RightHand, func(w *stream.Writer, v uint32) { w.U32(v) })
	stream.WriteArray(w, h.HumanBoneIndex, func(w *stream.Writer, v uint32) { w.U32(v) })
	stream.WriteArray(w, h.HumanBoneMass, func(w *stream.Writer, v float32) { w.F32(v) })
	w.F32(h.Scale)
	w.F32(h.ArmTwist)
	w.F32(h.ForearmTwist)
	w.F32(h.UpperLegTwist)
	w.F32(h.LegTwist)
	w.F32(h.ArmStretch)
	w.F32(h.LegStretch)
	w.F32(h.FeetSpacing)
	w.U8(h.HasLeftHand)
	w.U8(h.HasRightHand)
	w.U8(h.HasTDoF)
}

// AvatarConstant is the baked avatar: skeletons, poses, humanoid mapping,
// and root motion configuration.
type AvatarConstant struct {
	Skeleton                       Skeleton
	AvatarSkeletonPose             SkeletonPose
	DefaultPose                    SkeletonPose
	SkeletonNameIDArray            []uint32
	Human                          AvatarHuman
	HumanSkeletonIndexArray        []uint32
	HumanSkeletonReverseIndexArray []uint32
	RootMotionBoneIndex            uint32
	RootMotionBoneX                SkeletonTransform
	RootMotionSkeleton             Skeleton
	RootMotionSkeletonPose         SkeletonPose
	RootMotionSkeletonIndexArray   []uint32
}

func (c *AvatarConstant) read(d *dec) {
	c.Skeleton.read(d)
	c.AvatarSkeletonPose.read(d)
	c.DefaultPose.read(d)
	c.SkeletonNameIDArray = arr(d, func(d *dec) uint32 { return d.u32() })
	c.Human.read(d)
	c.HumanSkeletonIndexArray = arr(d, func(d *dec) uint32 { return d.u32() })
	c.HumanSkeletonReverseIndexArray = arr(d, func(d *dec) uint32 { return d.u32() })
	c.RootMotionBoneIndex = d.u32()
	c.RootMotionBoneX.read(d)
	c.RootMotionSkeleton.read(d)
	c.RootMotionSkeletonPose.read(d)
	c.RootMotionSkeletonIndexArray = arr(d, func(d *dec) uint32 { return d.u32() })
}

func (c *AvatarConstant) write(w *stream.Writer) {
	c.Skeleton.write(w)
	c.AvatarSkeletonPose.write(w)
	c.DefaultPose.write(w)
	stream.WriteArray(w, c.SkeletonNameIDArray, func(w *stream.Writer, v uint32) { w.U32(v) })
	c.Human.write(w)
	stream.WriteArray(w, c.HumanSkeletonIndexArray, func(w *stream.Writer, v uint32) { w.U32(v) })
	stream.WriteArray(w, c.HumanSkeletonReverseIndexArray, func(w *stream.Writer, v uint32) { w.U32(v) })
	w.U32(c.RootMotionBoneIndex)
	c.RootMotionBoneX.write(w)
	c.RootMotionSkeleton.write(w)
	c.RootMotionSkeletonPose.write(w)
	stream.WriteArray(w, c.RootMotionSkeletonIndexArray, func(w *stream.Writer, v uint32) { w.U32(v) })
}

// TOSPair maps a name hash to its string.
type TOSPair struct {
	First  uint32
	Second string
}

func (p *TOSPair) read(d *dec) {
	d.align(4)
	p.First = d.u32()
	p.Second = d.str()
}

func (p *TOSPair) write(w *stream.Writer) {
	w.Pad(4)
	w.U32(p.First)
	w.WriteString(p.Second)
}

// SkeletonBoneLimit bounds one editor-facing humanoid bone.
type SkeletonBoneLimit struct {
	Min      Vector3f
	Max      Vector3f
	Value    Vector3f
	Length   float32
	Modified uint8
}

func (l *SkeletonBoneLimit) read(d *dec) {
	l.Min.read(d)
	l.Max.read(d)
	l.Value.read(d)
	l.Length = d.f32()
	l.Modified = d.u8()
}

func (l *SkeletonBoneLimit) write(w *stream.Writer) {
	l.Min.write(w)
	l.Max.write(w)
	l.Value.write(w)
	w.F32(l.Length)
	w.U8(l.Modified)
}

// HumanBone maps a rig bone name to its humanoid slot.
type HumanBone struct {
	BoneName  string
	HumanName string
	Limit     SkeletonBoneLimit
}

func (b *HumanBone) read(d *dec) {
	b.BoneName = d.str()
	b.HumanName = d.str()
	b.Limit.read(d)
}

func (b *HumanBone) write(w *stream.Writer) {
	w.WriteString(b.BoneName)
	w.WriteString(b.HumanName)
	b.Limit.write(w)
}

// SkeletonBone is an editor-facing bone description.
type SkeletonBone struct {
	Name       string
	ParentName string
	Position   Vector3f
	Rotation   Vector3f
	Scale      Vector3f
}

func (b *SkeletonBone) read(d *dec) {
	b.Name = d.str()
	b.ParentName = d.str()
	b.Position.read(d)
	b.Rotation.read(d)
	b.Scale.read(d)
}

func (b *SkeletonBone) write(w *stream.Writer) {
	w.WriteString(b.Name)
	w.WriteString(b.ParentName)
	b.Position.write(w)
	b.Rotation.write(w)
	b.Scale.write(w)
}

// HumanDescription is the editor-facing humanoid setup.
type HumanDescription struct {
	Human              []HumanBone
	Skeleton           []SkeletonBone
	ArmTwist           float32
	ForearmTwist       float32
	UpperLegTwist      float32
	LegTwist           float32
	ArmStretch         float32
	LegStretch         float32
	FeetSpacing        float32
	GlobalScale        float32
	RootMotionBoneName string
	HasTranslationDoF  uint8
	HasExtraRoot       uint8
	SkeletonHasParents uint8
}

func (h *HumanDescription) read(d *dec) {
	h.Human = arr(d, func(d *dec) HumanBone { var b HumanBone; b.read(d); return b })
	h.Skeleton = arr(d, func(d *dec) SkeletonBone { var b SkeletonBone; b.read(d); return b })
	h.ArmTwist = d.f32()
	h.ForearmTwist = d.f32()
	h.UpperLegTwist = d.f32()
	h.LegTwist = d.f32()
	h.ArmStretch = d.f32()
	h.LegStretch = d.f32()
	h.FeetSpacing = d.f32()
	h.GlobalScale = d.f32()
	h.RootMotionBoneName = d.str()
	h.HasTranslationDoF = d.u8()
	h.HasExtraRoot = d.u8()
	h.SkeletonHasParents = d.u8()
}

func (h *HumanDescription) write(w *stream.Writer) {
	stream.WriteArray(w, h.Human, func(w *stream.Writer, b HumanBone) { b.write(w) })
	stream.WriteArray(w, h.Skeleton, func(w *stream.Writer, b SkeletonBone) { b.write(w) })
	w.F32(h.ArmTwist)
	w.F32(h.ForearmTwist)
	w.F32(h.UpperLegTwist)
	w.F32(h.LegTwist)
	w.F32(h.ArmStretch)
	w.F32(h.LegStretch)
	w.F32(h.FeetSpacing)
	w.F32(h.GlobalScale)
	w.WriteString(h.RootMotionBoneName)
	w.U8(h.HasTranslationDoF)
	w.U8(h.HasExtraRoot)
	w.U8(h.SkeletonHasParents)
}

// Avatar is a rigged character's baked skeleton and humanoid mapping.
type Avatar struct {
	Name             string
	AvatarSize       uint32
	Avatar           AvatarConstant
	TOS              []TOSPair
	HumanDescription HumanDescription
}

// TypeHash implements Asset.
func (a *Avatar) TypeHash() Hash { return AvatarHash }

func (a *Avatar) read(d *dec) {
	a.Name = d.str()
	a.AvatarSize = d.u32()
	a.Avatar.read(d)
	a.TOS = arr(d, func(d *dec) TOSPair { var p TOSPair; p.read(d); return p })
	a.HumanDescription.read(d)
}

func (a *Avatar) write(w *stream.Writer) {
	w.WriteString(a.Name)
	w.U32(a.AvatarSize)
	a.Avatar.write(w)
	stream.WriteArray(w, a.TOS, func(w *stream.Writer, p TOSPair) { p.write(w) })
	a.HumanDescription.write(w)
}
