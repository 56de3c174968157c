// Package scene arranges meshes into animated objects viewed by an orbital
// camera and holds the user selectable properties of a viewer session.
package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// OpKind is the kind of a transform operation.
type OpKind uint8

const (
	OpTranslate OpKind = iota
	OpRotate
	OpScale
)

func (k OpKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// Op is a named transform operation. Objects keep their operations and
// rebuild their transform by replaying them from identity so that no state
// accumulates between frames.
type Op struct {
	Kind OpKind
	// V is the translation, the scale factors or the rotation axis.
	V ms3.Vec
	// Angle is the rotation angle in radians.
	Angle float32
}

func Translate(v ms3.Vec) Op { return Op{Kind: OpTranslate, V: v} }

func Scale(v ms3.Vec) Op { return Op{Kind: OpScale, V: v} }

// Rotate rotates by angle radians about axis. The axis need not be normalized.
func Rotate(angle float32, axis ms3.Vec) Op { return Op{Kind: OpRotate, V: axis, Angle: angle} }

// Matrix returns the transform matrix of op.
func (op Op) Matrix() ms3.Mat4 {
	switch op.Kind {
	case OpTranslate:
		return ms3.TranslatingMat4(op.V)
	case OpScale:
		return ms3.ScalingMat4(op.V)
	case OpRotate:
		if op.V == (ms3.Vec{}) {
			return ms3.IdentityMat4()
		}
		return ms3.RotationMat4(op.Angle, op.V)
	}
	panic("invalid transform operation " + op.Kind.String())
}

// Compose replays ops from identity. Each operation post-multiplies the
// accumulated matrix, so the last operation acts on vertices first.
func Compose(ops ...Op) ms3.Mat4 {
	m := ms3.IdentityMat4()
	for _, op := range ops {
		m = ms3.MulMat4(m, op.Matrix())
	}
	return m
}

// LookAt returns the view matrix of a camera at eye looking at center.
func LookAt(eye, center, up ms3.Vec) ms3.Mat4 {
	f := ms3.Unit(ms3.Sub(center, eye))
	r := ms3.Unit(ms3.Cross(f, up))
	u := ms3.Cross(r, f)
	return ms3.NewMat4([]float32{
		r.X, r.Y, r.Z, -ms3.Dot(r, eye),
		u.X, u.Y, u.Z, -ms3.Dot(u, eye),
		-f.X, -f.Y, -f.Z, ms3.Dot(f, eye),
		0, 0, 0, 1,
	})
}

// Perspective returns an OpenGL projection matrix with vertical field of
// view fovy in radians.
func Perspective(fovy, aspect, near, far float32) ms3.Mat4 {
	f := 1 / math32.Tan(fovy/2)
	nf := 1 / (near - far)
	return ms3.NewMat4([]float32{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	})
}
