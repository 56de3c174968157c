package curve

import "github.com/soypat/geometry/ms3"

// Framer orients consecutive samples of a discretized curve. Implementations
// receive samples in increasing parameter order.
type Framer interface {
	// Orient returns the frame for cur, which was evaluated on seg. prev is the
	// previously oriented sample and is nil for the first sample.
	Orient(prev *Sample, cur Sample, seg *Segment) Sample
}

var (
	_ Framer = FixedBinormal{}
	_ Framer = RotationMinimizing{}
)

// FixedBinormal orients samples with each segment's reference binormal:
// the normal is binormal×tangent. This is stable for planar and convex
// profiles but flips or degenerates where the tangent becomes parallel to the
// binormal. Samples with an undefined tangent retain the previous frame.
type FixedBinormal struct{}

func (FixedBinormal) Orient(prev *Sample, cur Sample, seg *Segment) Sample {
	if cur.T == (ms3.Vec{}) && prev != nil {
		return retain(prev, cur.P)
	}
	return cur
}

// RotationMinimizing orients samples with the double reflection method of
// Wang, Jüttler, Zheng and Liu (2008). The first sample takes its normal from
// the segment's reference binormal frame, or from the coordinate axis least
// aligned with the tangent when the tangent is parallel to the reference
// binormal. Following frames are transported
// along the curve with minimal twist, so they do not flip on highly curved paths.
// Unlike [FixedBinormal] the binormal is recomputed as tangent×normal.
type RotationMinimizing struct{}

func (RotationMinimizing) Orient(prev *Sample, cur Sample, seg *Segment) Sample {
	if prev == nil || prev.N == (ms3.Vec{}) {
		s := FixedBinormal{}.Orient(prev, cur, seg)
		if s.N == (ms3.Vec{}) && s.T != (ms3.Vec{}) {
			s.N = perpendicular(s.T)
		}
		if s.N != (ms3.Vec{}) {
			s.B = ms3.Cross(s.T, s.N)
		}
		return s
	}
	if cur.T == (ms3.Vec{}) {
		return retain(prev, cur.P)
	}
	// Reflect previous frame across the bisecting plane of the two positions.
	rL, tL := prev.N, prev.T
	v1 := ms3.Sub(cur.P, prev.P)
	if c1 := ms3.Dot(v1, v1); c1 > epstol {
		rL = ms3.Sub(rL, ms3.Scale(2/c1*ms3.Dot(v1, rL), v1))
		tL = ms3.Sub(tL, ms3.Scale(2/c1*ms3.Dot(v1, tL), v1))
	}
	// Second reflection maps reflected tangent onto the current tangent.
	v2 := ms3.Sub(cur.T, tL)
	if c2 := ms3.Dot(v2, v2); c2 > epstol {
		rL = ms3.Sub(rL, ms3.Scale(2/c2*ms3.Dot(v2, rL), v2))
	}
	n := unit(rL)
	if n == (ms3.Vec{}) {
		return retain(prev, cur.P)
	}
	cur.N = n
	cur.B = ms3.Cross(cur.T, n)
	return cur
}

// perpendicular returns a unit vector normal to the non-zero vector t.
func perpendicular(t ms3.Vec) ms3.Vec {
	a := ms3.AbsElem(t)
	axis := ms3.Vec{X: 1}
	if a.Y < a.X && a.Y <= a.Z {
		axis = ms3.Vec{Y: 1}
	} else if a.Z < a.X && a.Z < a.Y {
		axis = ms3.Vec{Z: 1}
	}
	return unit(ms3.Cross(axis, t))
}

func retain(prev *Sample, p ms3.Vec) Sample {
	s := *prev
	s.P = p
	return s
}
