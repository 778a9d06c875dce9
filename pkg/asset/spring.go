package asset

import "github.com/tanukisoft/unitypack/pkg/stream"

// AngleLimits bounds a spring bone's swing on one axis.
type AngleLimits struct {
	Active uint8
	Min    float32
	Max    float32
}

func (a *AngleLimits) read(d *dec) {
	a.Active = d.u8()
	d.align(4)
	a.Min = d.f32()
	a.Max = d.f32()
}

func (a *AngleLimits) write(w *stream.Writer) {
	w.U8(a.Active)
	w.Pad(4)
	w.F32(a.Min)
	w.F32(a.Max)
}

// SpringBoneProperties is one bone's physics parameters inside a spring job.
type SpringBoneProperties struct {
	StiffnessForce       float32
	DragForce            float32
	SpringForce          Vector3f
	WindInfluence        float32
	AngularStiffness     float32
	YAngleLimits         AngleLimits
	ZAngleLimits         AngleLimits
	Radius               float32
	SpringLength         float32
	BoneAxis             Vector3f
	LocalPosition        Vector3f
	InitialLocalRotation Quaternionf
	ParentIndex          uint32
	PivotIndex           uint32
	PivotLocalMatrix     Matrix4x4f
}

func (p *SpringBoneProperties) read(d *dec) {
	p.StiffnessForce = d.f32()
	p.DragForce = d.f32()
	p.SpringForce.read(d)
	p.WindInfluence = d.f32()
	p.AngularStiffness = d.f32()
	p.YAngleLimits.read(d)
	p.ZAngleLimits.read(d)
	p.Radius = d.f32()
	p.SpringLength = d.f32()
	p.BoneAxis.read(d)
	p.LocalPosition.read(d)
	p.InitialLocalRotation.read(d)
	p.ParentIndex = d.u32()
	p.PivotIndex = d.u32()
	p.PivotLocalMatrix.read(d)
}

func (p *SpringBoneProperties) write(w *stream.Writer) {
	w.F32(p.StiffnessForce)
	w.F32(p.DragForce)
	p.SpringForce.write(w)
	w.F32(p.WindInfluence)
	w.F32(p.AngularStiffness)
	p.YAngleLimits.write(w)
	p.ZAngleLimits.write(w)
	w.F32(p.Radius)
	w.F32(p.SpringLength)
	p.BoneAxis.write(w)
	p.LocalPosition.write(w)
	p.InitialLocalRotation.write(w)
	w.U32(p.ParentIndex)
	w.U32(p.PivotIndex)
	p.PivotLocalMatrix.write(w)
}

// SpringColliderProperty is one collider shape a spring job tests against.
type SpringColliderProperty struct {
	Type   uint32
	Radius float32
	Width  float32
	Height float32
}

func (p *SpringColliderProperty) read(d *dec) {
	p.Type = d.u32()
	p.Radius = d.f32()
	p.Width = d.f32()
	p.Height = d.f32()
}

func (p *SpringColliderProperty) write(w *stream.Writer) {
	w.U32(p.Type)
	w.F32(p.Radius)
	w.F32(p.Width)
	w.F32(p.Height)
}

// LengthLimitProperty constrains the distance to a target bone.
type LengthLimitProperty struct {
	TargetIndex uint32
	Target      float32
}

func (p *LengthLimitProperty) read(d *dec) {
	p.TargetIndex = d.u32()
	p.Target = d.f32()
}

func (p *LengthLimitProperty) write(w *stream.Writer) {
	w.U32(p.TargetIndex)
	w.F32(p.Target)
}

// SpringJob is the batched simulation settings for a group of spring bones.
type SpringJob struct {
	OptimizeTransform   uint32
	IsPaused            uint32
	SimulationFrameRate uint32
	DynamicRatio        float32
	Gravity             Vector3f
	Bounce              float32
	Friction            float32
	Time                float32
	EnableAngleLimits   uint32
	EnableCollision     uint32
	EnableLengthLimits  uint32
	CollideWithGround   uint32
	GroundHeight        float32
	WindDisabled        uint32
	WindInfluence       float32
	WindPower           Vector3f
	WindDir             Vector3f
	DistanceRate        Vector3f
	AutomaticReset      uint32
	ResetDistance       float32
	ResetAngle          float32
	SortedBones         []PPtr
	JobColliders        []PPtr
	JobProperties       []SpringBoneProperties
	InitLocalRotations  []Quaternionf
	JobColProperties    []SpringColliderProperty
	JobLengthProperties []LengthLimitProperty
}

func (j *SpringJob) read(d *dec) {
	j.OptimizeTransform = d.u32()
	j.IsPaused = d.u32()
	j.SimulationFrameRate = d.u32()
	j.DynamicRatio = d.f32()
	j.Gravity.read(d)
	j.Bounce = d.f32()
	j.Friction = d.f32()
	j.Time = d.f32()
	j.EnableAngleLimits = d.u32()
	j.EnableCollision = d.u32()
	j.EnableLengthLimits = d.u32()
	j.CollideWithGround = d.u32()
	j.GroundHeight = d.f32()
	j.WindDisabled = d.u32()
	j.WindInfluence = d.f32()
	j.WindPower.read(d)
	j.WindDir.read(d)
	j.DistanceRate.read(d)
	j.AutomaticReset = d.u32()
	j.ResetDistance = d.f32()
	j.ResetAngle = d.f32()
	j.SortedBones = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	j.JobColliders = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	j.JobProperties = arr(d, func(d *dec) SpringBoneProperties {
		var p SpringBoneProperties
		p.read(d)
		return p
	})
	j.InitLocalRotations = arr(d, func(d *dec) Quaternionf { var q Quaternionf; q.read(d); return q })
	j.JobColProperties = arr(d, func(d *dec) SpringColliderProperty {
		var p SpringColliderProperty
		p.read(d)
		return p
	})
	j.JobLengthProperties = arr(d, func(d *dec) LengthLimitProperty {
		var p LengthLimitProperty
		p.read(d)
		return p
	})
}

func (j *SpringJob) write(w *stream.Writer) {
	w.U32(j.OptimizeTransform)
	w.U32(j.IsPaused)
	w.U32(j.SimulationFrameRate)
	w.F32(j.DynamicRatio)
	j.Gravity.write(w)
	w.F32(j.Bounce)
	w.F32(j.Friction)
	w.F32(j.Time)
	w.U32(j.EnableAngleLimits)
	w.U32(j.EnableCollision)
	w.U32(j.EnableLengthLimits)
	w.U32(j.CollideWithGround)
	w.F32(j.GroundHeight)
	w.U32(j.WindDisabled)
	w.F32(j.WindInfluence)
	j.WindPower.write(w)
	j.WindDir.write(w)
	j.DistanceRate.write(w)
	w.U32(j.AutomaticReset)
	w.F32(j.ResetDistance)
	w.F32(j.ResetAngle)
	stream.WriteArray(w, j.SortedBones, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, j.JobColliders, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, j.JobProperties, func(w *stream.Writer, p SpringBoneProperties) { p.write(w) })
	stream.WriteArray(w, j.InitLocalRotations, func(w *stream.Writer, q Quaternionf) { q.write(w) })
	stream.WriteArray(w, j.JobColProperties, func(w *stream.Writer, p SpringColliderProperty) { p.write(w) })
	stream.WriteArray(w, j.JobLengthProperties, func(w *stream.Writer, p LengthLimitProperty) { p.write(w) })
}

// SpringBoneData is a single spring bone's runtime configuration.
type SpringBoneData struct {
	Index              uint32
	EnabledJobSystem   uint8
	JobColliders       []PPtr
	ValidChildren      []PPtr
	StiffnessForce     float32
	DragForce          float32
	SpringForce        Vector3f
	WindInfluence      float32
	PivotNode          PPtr
	AngularStiffness   float32
	YAngleLimits       AngleLimits
	ZAngleLimits       AngleLimits
	LengthLimitTargets []PPtr
	Radius             float32
	SphereColliders    []PPtr
	CapsuleColliders   []PPtr
	PanelColliders     []PPtr
}

func (b *SpringBoneData) read(d *dec) {
	b.Index = d.u32()
	b.EnabledJobSystem = d.u8()
	b.JobColliders = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	b.ValidChildren = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	b.StiffnessForce = d.f32()
	b.DragForce = d.f32()
	b.SpringForce.read(d)
	b.WindInfluence = d.f32()
	b.PivotNode.read(d)
	b.AngularStiffness = d.f32()
	b.YAngleLimits.read(d)
	b.ZAngleLimits.read(d)
	b.LengthLimitTargets = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	b.Radius = d.f32()
	b.SphereColliders = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	b.CapsuleColliders = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
	b.PanelColliders = arr(d, func(d *dec) PPtr { var p PPtr; p.read(d); return p })
}

func (b *SpringBoneData) write(w *stream.Writer) {
	w.U32(b.Index)
	w.U8(b.EnabledJobSystem)
	stream.WriteArray(w, b.JobColliders, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, b.ValidChildren, func(w *stream.Writer, p PPtr) { p.write(w) })
	w.F32(b.StiffnessForce)
	w.F32(b.DragForce)
	b.SpringForce.write(w)
	w.F32(b.WindInfluence)
	b.PivotNode.write(w)
	w.F32(b.AngularStiffness)
	b.YAngleLimits.write(w)
	b.ZAngleLimits.write(w)
	stream.WriteArray(w, b.LengthLimitTargets, func(w *stream.Writer, p PPtr) { p.write(w) })
	w.F32(b.Radius)
	stream.WriteArray(w, b.SphereColliders, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, b.CapsuleColliders, func(w *stream.Writer, p PPtr) { p.write(w) })
	stream.WriteArray(w, b.PanelColliders, func(w *stream.Writer, p PPtr) { p.write(w) })
}

// SpringJobBehavior is a behavior record carrying a SpringJob payload.
type SpringJobBehavior struct {
	MonoBehavior
	Job SpringJob
}

// TypeHash implements Asset.
func (s *SpringJobBehavior) TypeHash() Hash { return SpringJobBehaviorHash }

func (s *SpringJobBehavior) read(d *dec) {
	s.MonoBehavior.read(d)
	s.Job.read(d)
}

func (s *SpringJobBehavior) write(w *stream.Writer) {
	s.MonoBehavior.write(w)
	s.Job.write(w)
}

// SpringBoneBehavior is a behavior record carrying a spring bone payload.
type SpringBoneBehavior struct {
	MonoBehavior
	Bone SpringBoneData
}

// TypeHash implements Asset.
func (s *SpringBoneBehavior) TypeHash() Hash { return SpringBoneBehaviorHash }

func (s *SpringBoneBehavior) read(d *dec) {
	s.MonoBehavior.read(d)
	s.Bone.read(d)
}

func (s *SpringBoneBehavior) write(w *stream.Writer) {
	s.MonoBehavior.write(w)
	s.Bone.write(w)
}
