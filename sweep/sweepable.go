// Package sweep builds surfaces by transporting a profile curve along a path
// curve or around a revolution axis.
package sweep

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/curve"
)

// ErrNoPath is returned when the path curve of a sweep that has none, such as
// a [Revolution], is requested.
var ErrNoPath = fmt.Errorf("sweep has no path curve: %w", errors.ErrUnsupported)

// Sweepable supplies the profile curve of a sweep and the frames it is
// transported along.
type Sweepable interface {
	// Shape returns the profile curve, evaluated in its own local frame.
	Shape() *curve.Curve
	// Path returns the path curve or [ErrNoPath] if the frames are synthesized.
	Path() (*curve.Curve, error)
	// DiscretizePath samples the path frames with global parameter step delta.
	DiscretizePath(delta float32) curve.Discretized
}

var (
	_ Sweepable = (*Path)(nil)
	_ Sweepable = (*Revolution)(nil)
)

// Path sweeps a shape along a path curve. The path's tangent, normal and
// binormal become the local frames the shape is transported with.
type Path struct {
	shape *curve.Curve
	path  *curve.Curve
}

// NewPath returns a sweep of shape along path.
func NewPath(shape, path *curve.Curve) (*Path, error) {
	if shape == nil || path == nil {
		return nil, errors.New("nil curve in sweep path")
	}
	return &Path{shape: shape, path: path}, nil
}

func (p *Path) Shape() *curve.Curve { return p.shape }

func (p *Path) Path() (*curve.Curve, error) { return p.path, nil }

func (p *Path) DiscretizePath(delta float32) curve.Discretized {
	return p.path.Discretize(delta)
}

// Revolution sweeps a shape around the y axis through the origin by a
// non-zero angle in radians. A zero angle passed to [NewRevolution] means a
// full turn, so a zero-angle revolution cannot be expressed.
type Revolution struct {
	shape *curve.Curve
	angle float32
}

// NewRevolution returns a revolution of shape by angle radians. An angle of
// zero is taken as a full turn.
func NewRevolution(shape *curve.Curve, angle float32) (*Revolution, error) {
	if shape == nil {
		return nil, errors.New("nil curve in revolution")
	} else if math32.IsNaN(angle) || math32.IsInf(angle, 0) {
		return nil, fmt.Errorf("invalid revolution angle %g", angle)
	}
	if angle == 0 {
		angle = 2 * math32.Pi
	}
	return &Revolution{shape: shape, angle: angle}, nil
}

func (r *Revolution) Shape() *curve.Curve { return r.shape }

// Path always returns [ErrNoPath]: revolution frames are computed analytically.
func (r *Revolution) Path() (*curve.Curve, error) { return nil, ErrNoPath }

// Angle returns the swept angle in radians.
func (r *Revolution) Angle() float32 { return r.angle }

// Closed reports whether the revolution is a full turn so its first and last frames coincide.
func (r *Revolution) Closed() bool {
	return math32.Abs(math32.Abs(r.angle)-2*math32.Pi) < 1e-5
}

// DiscretizePath synthesizes revolution frames: every sample lies at the origin
// with binormal (0,1,0), tangent (cos(u·angle), 0, sin(u·angle)) and
// normal binormal×tangent.
func (r *Revolution) DiscretizePath(delta float32) curve.Discretized {
	n := curve.SampleCount(delta)
	d := curve.Discretized{
		P: make([]ms3.Vec, 0, n),
		N: make([]ms3.Vec, 0, n),
		B: make([]ms3.Vec, 0, n),
		T: make([]ms3.Vec, 0, n),
	}
	for i := 0; i < n; i++ {
		d.Append(r.Frame(curve.SampleParam(i, delta)))
	}
	return d
}

// Frame returns the revolution frame at parameter u.
func (r *Revolution) Frame(u float32) curve.Sample {
	b := ms3.Vec{Y: 1}
	s, c := math32.Sincos(u * r.angle)
	t := ms3.Vec{X: c, Z: s}
	return curve.Sample{
		T: t,
		N: ms3.Cross(b, t),
		B: b,
	}
}
