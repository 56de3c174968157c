// Package curve implements piecewise Bezier and uniform B-spline curves of
// quadratic and cubic degree with arc length weighted global parametrization.
//
// Curves are immutable once built: segments and their arc lengths are computed
// at construction and a geometry change requires building a new Curve.
package curve

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// discretizeOvershoot extends the discretization range past 1 so the
// endpoint is sampled when 1/delta is an integer.
const discretizeOvershoot = 0.001

// Curve is a piecewise polynomial curve. The zero value is not usable, use
// [NewCurve], [NewBezier], [NewBSpline] or [StraightLines].
type Curve struct {
	points   []ms3.Vec
	level    Level
	family   Family
	segments []Segment
	length   float32
}

// NewBezier builds a Bezier curve using [DefaultDelta] for arc length integration.
func NewBezier(points []ms3.Vec, level Level) (*Curve, error) {
	return NewCurve(Bezier{}, points, level, DefaultDelta)
}

// NewBSpline builds a uniform B-spline using [DefaultDelta] for arc length integration.
func NewBSpline(points []ms3.Vec, level Level) (*Curve, error) {
	return NewCurve(BSpline{}, points, level, DefaultDelta)
}

// NewCurve validates the control points against fam's grouping rule, builds the
// segments and caches their arc length computed with parameter step delta.
// The control points are copied.
func NewCurve(fam Family, points []ms3.Vec, level Level, delta float32) (*Curve, error) {
	if fam == nil {
		return nil, errors.New("nil curve family")
	} else if !(delta > 0 && delta <= 1) {
		return nil, fmt.Errorf("arc length step %g must be in (0,1]", delta)
	}
	err := fam.Validate(len(points), level)
	if err != nil {
		return nil, err
	}
	c := &Curve{
		points: append([]ms3.Vec(nil), points...),
		level:  level,
		family: fam,
	}
	c.buildSegments()
	for i := range c.segments {
		seg := &c.segments[i]
		seg.length = seg.ArcLength(delta)
		c.length += seg.length
	}
	return c, nil
}

// StraightLines builds a polygonal path through points as a degenerate cubic
// B-spline: every point is tripled so each spline segment collapses onto a
// straight line. Segment lengths are set to 1 so the curve is parametrized
// uniformly per segment instead of by arc length.
func StraightLines(points []ms3.Vec) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: straight lines need at least 2 points, got %d", ErrInvalidControlPoints, len(points))
	}
	tripled := make([]ms3.Vec, 0, 3*len(points)+1)
	for _, p := range points {
		tripled = append(tripled, p, p, p)
	}
	tripled = append(tripled, points[len(points)-1])
	c := &Curve{
		points: tripled,
		level:  Cubic,
		family: BSpline{},
	}
	c.buildSegments()
	// Last segment only has copies of the last point.
	c.segments = c.segments[:len(c.segments)-1]
	for i := range c.segments {
		c.segments[i].length = 1
	}
	c.length = float32(len(c.segments))
	return c, nil
}

func (c *Curve) buildSegments() {
	b, db := c.family.Bases(c.level)
	n := c.family.SegmentAmount(len(c.points), c.level)
	c.segments = make([]Segment, n)
	for i := range c.segments {
		start, end := c.family.Window(i, c.level)
		c.segments[i] = Segment{
			points:   c.points[start:end:end],
			b:        b,
			db:       db,
			binormal: DefaultBinormal,
		}
	}
}

// WithBinormal returns a copy of the curve where the reference binormal of
// the segments at the given indices is replaced by binormal. If no indices
// are given all segments are changed. Cached lengths are preserved.
func (c *Curve) WithBinormal(binormal ms3.Vec, segmentIdx ...int) *Curve {
	cp := *c
	cp.points = append([]ms3.Vec(nil), c.points...)
	cp.segments = append([]Segment(nil), c.segments...)
	for i := range cp.segments {
		// Segment views must point into the copy.
		start, end := cp.family.Window(i, cp.level)
		cp.segments[i].points = cp.points[start:end:end]
	}
	if len(segmentIdx) == 0 {
		for i := range cp.segments {
			cp.segments[i].binormal = binormal
		}
		return &cp
	}
	for _, idx := range segmentIdx {
		cp.segments[idx].binormal = binormal
	}
	return &cp
}

// Level returns the polynomial degree of the curve's segments.
func (c *Curve) Level() Level { return c.level }

// Family returns the curve family.
func (c *Curve) Family() Family { return c.family }

// Length returns the total cached length of the curve.
func (c *Curve) Length() float32 { return c.length }

// SegmentAmount returns the number of segments.
func (c *Curve) SegmentAmount() int { return len(c.segments) }

// Segment returns the i'th segment.
func (c *Curve) Segment(i int) *Segment { return &c.segments[i] }

// ControlPoints returns a copy of the curve's control points.
func (c *Curve) ControlPoints() []ms3.Vec {
	return append([]ms3.Vec(nil), c.points...)
}

// CoordToSegment maps global parameter u in [0,1] to a segment and a local
// parameter by consuming u proportionally to each segment's share of the
// total length. Leftover u after the last segment, caused by floating point
// drift, clamps to the last segment at local parameter 1.
func (c *Curve) CoordToSegment(u float32) (seg *Segment, index int, local float32) {
	n := len(c.segments)
	if c.length <= 0 {
		// Degenerate curve: parametrize uniformly per segment.
		for i := range c.segments {
			frac := 1 / float32(n)
			if u <= frac {
				return &c.segments[i], i, u / frac
			}
			u -= frac
		}
		return &c.segments[n-1], n - 1, 1
	}
	for i := range c.segments {
		frac := c.segments[i].length / c.length
		if u <= frac {
			if frac == 0 {
				return &c.segments[i], i, 0
			}
			return &c.segments[i], i, u / frac
		}
		u -= frac
	}
	return &c.segments[n-1], n - 1, 1
}

// PointData evaluates the curve at global parameter u.
func (c *Curve) PointData(u float32) Sample {
	seg, _, local := c.CoordToSegment(u)
	return seg.Evaluate(local)
}

// Discretized holds curve samples as parallel sequences of equal length.
type Discretized struct {
	P []ms3.Vec // Positions.
	N []ms3.Vec // Normals.
	B []ms3.Vec // Binormals.
	T []ms3.Vec // Tangents.
}

// Len returns the amount of samples.
func (d Discretized) Len() int { return len(d.P) }

// At returns the i'th sample.
func (d Discretized) At(i int) Sample {
	return Sample{P: d.P[i], N: d.N[i], B: d.B[i], T: d.T[i]}
}

// Append adds a sample to the end of the sequences.
func (d *Discretized) Append(s Sample) {
	d.P = append(d.P, s.P)
	d.N = append(d.N, s.N)
	d.B = append(d.B, s.B)
	d.T = append(d.T, s.T)
}

// SampleCount returns the amount of samples a discretization with step delta produces.
func SampleCount(delta float32) int {
	if !(delta > 0) {
		delta = DefaultDelta
	}
	return int(math32.Floor((1+discretizeOvershoot)/delta)) + 1
}

// SampleParam returns the global parameter of the i'th sample of a
// discretization with step delta.
func SampleParam(i int, delta float32) float32 {
	if !(delta > 0) {
		delta = DefaultDelta
	}
	return float32(i) * delta
}

// Discretize samples the curve at global parameter steps of delta from 0 to 1
// inclusive and orients samples with [FixedBinormal].
func (c *Curve) Discretize(delta float32) Discretized {
	return c.DiscretizeWith(delta, FixedBinormal{})
}

// DiscretizeWith samples the curve like [Curve.Discretize] using framer to orient samples.
// A nil framer is equivalent to [FixedBinormal]. Samples before the first
// defined tangent take the first defined frame.
func (c *Curve) DiscretizeWith(delta float32, framer Framer) Discretized {
	if framer == nil {
		framer = FixedBinormal{}
	}
	n := SampleCount(delta)
	d := Discretized{
		P: make([]ms3.Vec, 0, n),
		N: make([]ms3.Vec, 0, n),
		B: make([]ms3.Vec, 0, n),
		T: make([]ms3.Vec, 0, n),
	}
	var prev *Sample
	for i := 0; i < n; i++ {
		seg, _, local := c.CoordToSegment(SampleParam(i, delta))
		s := framer.Orient(prev, seg.Evaluate(local), seg)
		d.Append(s)
		prev = &s
	}
	backfill(d)
	return d
}

// backfill gives leading samples with an undefined tangent, such as the start
// of a straight line segment, the frame of the first defined sample.
func backfill(d Discretized) {
	first := -1
	for i, t := range d.T {
		if t != (ms3.Vec{}) {
			first = i
			break
		}
	}
	for i := 0; i < first; i++ {
		d.N[i], d.B[i], d.T[i] = d.N[first], d.B[first], d.T[first]
	}
}
