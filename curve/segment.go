package curve

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// DefaultDelta is the default parameter step used for arc length
// integration and curve discretization.
const DefaultDelta = 0.01

// DefaultBinormal is the reference binormal assigned to every new segment.
var DefaultBinormal = ms3.Vec{Z: 1}

// Sample is a point on a curve with its orientation frame.
type Sample struct {
	P ms3.Vec // Position.
	T ms3.Vec // Unit tangent, or zero when the derivative vanishes.
	N ms3.Vec // Unit normal.
	B ms3.Vec // Binormal.
}

// Segment is a single polynomial patch of a [Curve]. Its control points are
// a view into the parent curve's control points.
type Segment struct {
	points   []ms3.Vec
	b, db    []BasisFunc
	length   float32
	binormal ms3.Vec
}

// ControlPoints returns the level+1 control points of the segment. The returned
// slice must not be modified.
func (s *Segment) ControlPoints() []ms3.Vec { return s.points }

// Length returns the arc length cached at curve construction.
func (s *Segment) Length() float32 { return s.length }

// Binormal returns the segment's reference binormal.
func (s *Segment) Binormal() ms3.Vec { return s.binormal }

// Point returns the position at local parameter u.
func (s *Segment) Point(u float32) ms3.Vec {
	return s.apply(u, s.b, true)
}

// Derivative returns the raw (unnormalized) first derivative at u.
func (s *Segment) Derivative(u float32) ms3.Vec {
	return s.apply(u, s.db, false)
}

// Tangent returns the unit tangent at u. A vanishing derivative, as found
// on coincident control points, yields the zero vector.
func (s *Segment) Tangent(u float32) ms3.Vec {
	return unit(s.Derivative(u))
}

// Normal returns the normal for a given tangent, which is the cross product of
// the reference binormal and the tangent.
func (s *Segment) Normal(tangent ms3.Vec) ms3.Vec {
	return unit(ms3.Cross(s.binormal, tangent))
}

// Evaluate returns position and frame at local parameter u. The binormal is the
// segment's reference binormal and is not recomputed, so the frame is only
// orthonormal while the tangent is not parallel to it.
func (s *Segment) Evaluate(u float32) Sample {
	t := s.Tangent(u)
	return Sample{
		P: s.Point(u),
		T: t,
		N: s.Normal(t),
		B: s.binormal,
	}
}

// ArcLength approximates the segment length by summing chord lengths
// between samples delta apart. The error is of order delta.
func (s *Segment) ArcLength(delta float32) float32 {
	if !(delta > 0) {
		delta = DefaultDelta
	}
	n := int(math32.Ceil(1/delta - 1e-3))
	if n < 1 {
		n = 1
	}
	var length float32
	prev := s.Point(0)
	for i := 1; i <= n; i++ {
		u := math32.Min(float32(i)*delta, 1)
		next := s.Point(u)
		length += ms3.Norm(ms3.Sub(next, prev))
		prev = next
	}
	return length
}

// apply weighs control points relative to the first one. Position bases sum to
// one and derivative bases to zero, so coincident points yield exactly p0 and a
// zero derivative regardless of rounding in the weights.
func (s *Segment) apply(u float32, bases []BasisFunc, pos bool) (p ms3.Vec) {
	p0 := s.points[0]
	for i := 1; i < len(s.points); i++ {
		p = ms3.Add(p, ms3.Scale(bases[i](u), ms3.Sub(s.points[i], p0)))
	}
	if pos {
		p = ms3.Add(p, p0)
	}
	return p
}

// unit normalizes v, returning the zero vector for vanishing vectors instead of NaNs.
func unit(v ms3.Vec) ms3.Vec {
	n := ms3.Norm(v)
	if !(n > epstol) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/n, v)
}

// epstol is used to check for badly conditioned denominators
// such as lengths used for normalization.
const epstol = 1e-12
