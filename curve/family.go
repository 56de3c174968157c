package curve

import (
	"errors"
	"fmt"
)

// ErrInvalidControlPoints is returned when the amount of control points
// does not satisfy a curve family's grouping rule.
var ErrInvalidControlPoints = errors.New("invalid control point count")

// Family supplies the basis functions and the control point grouping rule
// of a piecewise polynomial curve.
type Family interface {
	// Bases returns the blending functions and their derivatives for a segment of the given level.
	Bases(level Level) (b, db []BasisFunc)
	// SegmentAmount returns the amount of segments formed by n control points.
	SegmentAmount(n int, level Level) int
	// Window returns the half open range [start, end) of control points that make up segment i.
	Window(i int, level Level) (start, end int)
	// Validate checks the control point count is valid for the family.
	Validate(n int, level Level) error
}

var (
	_ Family = Bezier{}
	_ Family = BSpline{}
)

// Bezier curves interpolate every level'th control point. Adjacent segments share
// their endpoint so each segment consumes level new points.
type Bezier struct{}

func (Bezier) String() string { return "bezier" }

func (Bezier) Bases(level Level) (b, db []BasisFunc) {
	switch level {
	case Quadratic:
		return bezierQuadratic, bezierQuadraticDer
	case Cubic:
		return bezierCubic, bezierCubicDer
	}
	panic("invalid curve level " + level.String())
}

func (Bezier) SegmentAmount(n int, level Level) int {
	return (n - 1) / int(level)
}

func (Bezier) Window(i int, level Level) (start, end int) {
	start = i * int(level)
	return start, start + int(level) + 1
}

func (Bezier) Validate(n int, level Level) error {
	if !level.valid() {
		return fmt.Errorf("%w: bad curve level %d", ErrInvalidControlPoints, level)
	}
	if n < int(level)+1 || (n-1)%int(level) != 0 {
		return fmt.Errorf("%w: %d points for %s bezier, want %d+%d·k", ErrInvalidControlPoints, n, level, 1, level)
	}
	return nil
}

// BSpline is a uniform B-spline. Every window of level+1 consecutive control
// points forms a segment so adjacent segments overlap by level points.
type BSpline struct{}

func (BSpline) String() string { return "bspline" }

func (BSpline) Bases(level Level) (b, db []BasisFunc) {
	switch level {
	case Quadratic:
		return bsplineQuadratic, bsplineQuadraticDer
	case Cubic:
		return bsplineCubic, bsplineCubicDer
	}
	panic("invalid curve level " + level.String())
}

func (BSpline) SegmentAmount(n int, level Level) int {
	return n - int(level)
}

func (BSpline) Window(i int, level Level) (start, end int) {
	return i, i + int(level) + 1
}

func (BSpline) Validate(n int, level Level) error {
	if !level.valid() {
		return fmt.Errorf("%w: bad curve level %d", ErrInvalidControlPoints, level)
	}
	if n < int(level)+1 {
		return fmt.Errorf("%w: %d points for %s bspline, want at least %d", ErrInvalidControlPoints, n, level, level+1)
	}
	return nil
}
