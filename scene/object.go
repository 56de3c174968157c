package scene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

// Object is a node of the scene graph. Its transform is its base operations
// followed by the operations of the last update.
type Object struct {
	Mesh *glmesh.Mesh
	// Color is the RGB base color in [0,1].
	Color    ms3.Vec
	Texture  Texture
	Children []*Object

	base      []Op
	transform ms3.Mat4
}

// NewObject returns an object drawing mesh, which may be nil for grouping
// nodes. Base operations act on vertices in the order given.
func NewObject(mesh *glmesh.Mesh, color ms3.Vec, base ...Op) *Object {
	o := &Object{Mesh: mesh, Color: color}
	o.base = make([]Op, len(base))
	for i := range base {
		o.base[len(base)-1-i] = base[i]
	}
	o.Update()
	return o
}

// Transform returns the object's transform relative to its parent.
func (o *Object) Transform() ms3.Mat4 { return o.transform }

// Update rebuilds the transform from identity with the base operations
// followed by ops, which act on vertices before the base operations.
func (o *Object) Update(ops ...Op) {
	all := make([]Op, 0, len(o.base)+len(ops))
	all = append(all, o.base...)
	all = append(all, ops...)
	o.transform = Compose(all...)
}

// Walk calls fn for o and its descendants with their world transform,
// parents before children.
func (o *Object) Walk(parent ms3.Mat4, fn func(o *Object, model ms3.Mat4)) {
	m := ms3.MulMat4(parent, o.transform)
	fn(o, m)
	for _, c := range o.Children {
		c.Walk(m, fn)
	}
}

// Animation computes the transform operations of a frame at time t.
type Animation interface {
	AppendOps(dst []Op, t float32) []Op
}

// Rotation spins an object about Axis at one radian per time unit.
type Rotation struct {
	// Axis of rotation. Zero means (1,0,1).
	Axis ms3.Vec
}

func (r Rotation) AppendOps(dst []Op, t float32) []Op {
	axis := r.Axis
	if axis == (ms3.Vec{}) {
		axis = ms3.Vec{X: 1, Z: 1}
	}
	return append(dst, Rotate(t, axis))
}

// resizePeak is the maximum scale factor of [Resize].
const resizePeak = 1.5

// Resize scales an object uniformly with a triangle wave that rises from 0
// to 1.5 and back down over 3 time units. Time is rounded to hundredths.
type Resize struct{}

func (Resize) AppendOps(dst []Op, t float32) []Op {
	s := ResizeFactor(t)
	return append(dst, Scale(ms3.Vec{X: s, Y: s, Z: s}))
}

// ResizeFactor returns the scale factor of [Resize] at time t.
func ResizeFactor(t float32) float32 {
	t = math32.Round(t*100) / 100
	phase := math32.Mod(t, 2*resizePeak)
	if phase < 0 {
		phase += 2 * resizePeak
	}
	if phase <= resizePeak {
		return phase
	}
	return 2*resizePeak - phase
}

// Animator applies an animation when enabled, with time scaled by Speed.
type Animator struct {
	Animation Animation
	Enabled   bool
	Speed     float32
}

// Animate updates o with the combined operations of the enabled animators at time t.
func Animate(o *Object, t float32, animators ...Animator) {
	var ops []Op
	for _, a := range animators {
		if a.Enabled && a.Animation != nil {
			ops = a.Animation.AppendOps(ops, t*a.Speed)
		}
	}
	o.Update(ops...)
}
