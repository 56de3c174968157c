package sweep

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/curve"
	"github.com/soypat/gsweep/glmesh"
)

// cover builds the triangle fan closing the surface at the given level. The
// fan's center is the path point c and every fan vertex takes the path tangent
// as normal, negated if invert is set. The ring reuses the grid row at level
// and is wound counter clockwise around the cover normal.
//
// Texture coordinates come from projecting the ring onto the end frame's
// normal and binormal axes relative to the center. Each axis is normalized by
// its largest absolute extent so the cover spans [0,1]² independently of the
// side surface.
func (s *Surface) cover(level int, c curve.Sample, invert bool) glmesh.Fan {
	normal := c.T
	if normal == (ms3.Vec{}) {
		normal = s.path.T[level]
	}
	if invert {
		normal = ms3.Scale(-1, normal)
	}
	axisX, axisY := s.path.N[level], s.path.B[level]

	ring := make([]glmesh.Vertex, s.cols+1)
	local := make([]ms2.Vec, s.cols+1)
	var maxX, maxY float32
	for j := range ring {
		v := s.mesh.Vertex(glmesh.GridIndex(level, j, s.cols))
		v.N = normal
		d := ms3.Sub(v.P, c.P)
		local[j] = ms2.Vec{X: ms3.Dot(d, axisX), Y: ms3.Dot(d, axisY)}
		maxX = math32.Max(maxX, math32.Abs(local[j].X))
		maxY = math32.Max(maxY, math32.Abs(local[j].Y))
		ring[j] = v
	}
	facing := ms3.Dot(ms3.Cross(axisX, axisY), normal)
	if area := signedArea(local); area*facing < 0 {
		slices.Reverse(ring)
		slices.Reverse(local)
	}

	var f glmesh.Fan
	f.Grow(len(ring) + 1)
	f.AppendVertex(glmesh.Vertex{
		P:  c.P,
		N:  normal,
		T:  axisX,
		B:  axisY,
		UV: s.coverUV(ms2.Vec{}),
	})
	for j := range ring {
		uv := ms2.Vec{X: safeDiv(local[j].X, maxX), Y: safeDiv(local[j].Y, maxY)}
		ring[j].UV = s.coverUV(uv)
		f.AppendVertex(ring[j])
	}
	f.Index = glmesh.FanIndex(f.VertexCount())
	return f
}

// coverUV maps normalized local coordinates in [-1,1] to texture coordinates
// in [0,1] scaled about the cover center.
func (s *Surface) coverUV(local ms2.Vec) ms2.Vec {
	uv := s.uv.ApplyUV(local)
	return ms2.Vec{X: (uv.X + 1) / 2, Y: (uv.Y + 1) / 2}
}

// signedArea returns twice the signed area enclosed by the polygon.
func signedArea(poly []ms2.Vec) (area float32) {
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		area += a.X*b.Y - b.X*a.Y
	}
	return area
}

func safeDiv(num, den float32) float32 {
	if den == 0 {
		return 0
	}
	return num / den
}
