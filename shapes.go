package gsweep

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/curve"
	"github.com/soypat/gsweep/glmesh"
	"github.com/soypat/gsweep/sweep"
)

// NewSphere creates a sphere centered at the origin of radius r. Alpha sweeps
// longitude around the y axis and beta latitude from the north to the south pole.
func (bld *Builder) NewSphere(r float32) glmesh.Mesh {
	if !(r > 0) {
		bld.shapeErrorf("zero or negative sphere radius")
	}
	return bld.grid(glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		sphi, cphi := math32.Sincos(twoPi * alpha)
		stheta, ctheta := math32.Sincos(pi * (0.5 - beta))
		p := ms3.Vec{X: r * ctheta * cphi, Y: r * stheta, Z: -r * ctheta * sphi}
		return glmesh.Vertex{
			P:  p,
			N:  ms3.Vec{X: ctheta * cphi, Y: stheta, Z: -ctheta * sphi},
			T:  ms3.Vec{X: -stheta * cphi, Y: ctheta, Z: stheta * sphi},
			B:  ms3.Vec{X: sphi, Z: cphi},
			UV: ms2.Vec{X: alpha, Y: beta},
		}
	}))
}

// NewTorus creates a torus centered at the origin lying on the xz plane. The
// tube circle of radius tube is centered ring units away from the y axis.
func (bld *Builder) NewTorus(tube, ring float32) glmesh.Mesh {
	if !(tube > 0) || !(ring > 0) {
		bld.shapeErrorf("zero or negative torus radius")
	}
	return bld.grid(glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		sphi, cphi := math32.Sincos(twoPi * alpha)
		spsi, cpsi := math32.Sincos(twoPi * beta)
		// Normal points away from the tube's center circle.
		n := ms3.Vec{X: cpsi * cphi, Y: spsi, Z: -cpsi * sphi}
		center := ms3.Vec{X: ring * cphi, Z: -ring * sphi}
		return glmesh.Vertex{
			P:  ms3.Add(center, ms3.Scale(tube, n)),
			N:  n,
			T:  ms3.Vec{X: -spsi * cphi, Y: cpsi, Z: spsi * sphi},
			B:  ms3.Vec{X: sphi, Z: cphi},
			UV: ms2.Vec{X: alpha, Y: beta},
		}
	}))
}

// NewCylinder creates a cylinder of radius r and height h centered at the
// origin with its axis along z. The flat ends are closed with triangle fans.
func (bld *Builder) NewCylinder(r, h float32) glmesh.Mesh {
	if !(r > 0) || !(h > 0) {
		bld.shapeErrorf("zero or negative cylinder dimension")
	}
	m := bld.grid(glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		s, c := math32.Sincos(twoPi * alpha)
		n := ms3.Vec{X: c, Y: s}
		t := ms3.Vec{X: -s, Y: c}
		return glmesh.Vertex{
			P:  ms3.Vec{X: r * c, Y: r * s, Z: (beta - 0.5) * h},
			N:  n,
			T:  t,
			B:  ms3.Cross(n, t),
			UV: ms2.Vec{X: alpha, Y: beta},
		}
	}))
	if m.IsEmpty() {
		return m
	}
	m.Covers = []glmesh.Fan{
		bld.cylinderCover(r, h, m.Cols, true),
		bld.cylinderCover(r, h, m.Cols, false),
	}
	return m
}

// cylinderCover returns the top or bottom fan of a cylinder with texture
// coordinates laid on a circle inscribed in the unit square.
func (bld *Builder) cylinderCover(r, h float32, cols int, top bool) glmesh.Fan {
	sign := float32(-1)
	if top {
		sign = 1
	}
	n := ms3.Vec{Z: sign}
	t := ms3.Vec{X: 1}
	b := ms3.Vec{Y: sign}
	factors := bld.uvFactors
	if factors.X == 0 {
		factors.X = 1
	}
	if factors.Y == 0 {
		factors.Y = 1
	}
	var f glmesh.Fan
	f.Grow(cols + 2)
	f.AppendVertex(glmesh.Vertex{P: ms3.Vec{Z: sign * h / 2}, N: n, T: t, B: b, UV: ms2.Vec{X: 0.5, Y: 0.5}})
	for i := 0; i <= cols; i++ {
		u := float32(i) / float32(cols)
		if !top {
			// Bottom ring runs clockwise seen from +z so the fan faces -z.
			u = 1 - u
		}
		s, c := math32.Sincos(twoPi * u)
		f.AppendVertex(glmesh.Vertex{
			P: ms3.Vec{X: r * c, Y: r * s, Z: sign * h / 2},
			N: n,
			T: t,
			B: b,
			UV: ms2.Vec{
				X: (-c*factors.X + 1) / 2,
				Y: (s*factors.Y + 1) / 2,
			},
		})
	}
	f.Index = glmesh.FanIndex(f.VertexCount())
	return f
}

// NewPlane creates a width×height plane on the xz plane centered at the origin facing +y.
func (bld *Builder) NewPlane(width, height float32) glmesh.Mesh {
	if !(width > 0) || !(height > 0) {
		bld.shapeErrorf("zero or negative plane dimension")
	}
	return bld.grid(glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		return glmesh.Vertex{
			P:  ms3.Vec{X: (alpha - 0.5) * width, Z: (beta - 0.5) * height},
			N:  ms3.Vec{Y: 1},
			T:  ms3.Vec{X: 1},
			B:  ms3.Vec{Z: 1},
			UV: ms2.Vec{X: beta, Y: alpha},
		}
	}))
}

// NewSineTube creates a tube of height h along +y whose radius oscillates
// around r with the given amplitude and a wavelength of length·h.
func (bld *Builder) NewSineTube(r, length, amplitude, h float32) glmesh.Mesh {
	switch {
	case !(r > 0) || !(h > 0) || !(length > 0):
		bld.shapeErrorf("zero or negative sine tube dimension")
	case amplitude < 0 || amplitude >= r:
		bld.shapeErrorf("sine tube amplitude must be in [0, radius)")
	}
	k := twoPi / length
	return bld.grid(glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		s, c := math32.Sincos(twoPi * alpha)
		swave, cwave := math32.Sincos(k * beta)
		radius := r + amplitude*swave
		dradius := amplitude * k * cwave
		// Normal is the cross product of the partial derivatives along beta and alpha.
		dbeta := ms3.Vec{X: dradius * c, Y: h, Z: dradius * s}
		dalpha := ms3.Vec{X: -s, Z: c}
		n := unit(ms3.Cross(dbeta, dalpha))
		b := ms3.Vec{Y: 1}
		return glmesh.Vertex{
			P:  ms3.Vec{X: radius * c, Y: h * beta, Z: radius * s},
			N:  n,
			T:  ms3.Cross(n, b),
			B:  b,
			UV: ms2.Vec{X: beta, Y: alpha},
		}
	}))
}

// NewCone creates a cone of base radius r lying on the xz plane with its apex
// h units up the y axis. It is built as the revolution of a cubic Bezier
// profile running from the base center to the base rim and up to the apex.
func (bld *Builder) NewCone(r, h float32) glmesh.Mesh {
	if !(r > 0) || !(h > 0) {
		bld.shapeErrorf("zero or negative cone dimension")
	}
	rim := ms3.Vec{X: r}
	apex := ms3.Vec{Y: h}
	shape, err := curve.NewBezier([]ms3.Vec{{}, rim, rim, rim, apex, apex, apex}, curve.Cubic)
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return bld.NewRevolution(shape, 0)
}

// NewCube creates a width×height×depth box centered at the origin by sweeping
// a rectangle on the xz plane along the y axis. The ends are closed with covers.
func (bld *Builder) NewCube(width, height, depth float32) glmesh.Mesh {
	if !(width > 0) || !(height > 0) || !(depth > 0) {
		bld.shapeErrorf("zero or negative cube dimension")
	}
	path, err := curve.NewBezier([]ms3.Vec{{Y: -depth / 2}, {}, {Y: depth / 2}}, curve.Quadratic)
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	x, y := width/2, height/2
	shape, err := curve.StraightLines([]ms3.Vec{
		{X: -x, Y: -y},
		{X: -x, Y: y},
		{X: x, Y: y},
		{X: x, Y: -y},
		{X: -x, Y: -y},
	})
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return bld.NewSweep(shape, path)
}

// NewSweep sweeps shape along path and closes both ends with covers. The
// shape is given in its local frame: x maps to the path normal, y to the
// path binormal and z to the path tangent.
func (bld *Builder) NewSweep(shape, path *curve.Curve) glmesh.Mesh {
	if shape == nil {
		bld.nilcurve("shape")
	} else if path == nil {
		bld.nilcurve("path")
	}
	p, err := sweep.NewPath(shape, path)
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return bld.surface(p, sweep.CoverOn)
}

// NewRevolution revolves shape around the y axis by angle radians. An angle
// of zero is a full turn. Revolutions are not covered.
func (bld *Builder) NewRevolution(shape *curve.Curve, angle float32) glmesh.Mesh {
	if shape == nil {
		bld.nilcurve("shape")
	}
	r, err := sweep.NewRevolution(shape, angle)
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return bld.surface(r, sweep.CoverOff)
}

// NewSurface builds the sweep surface of s with the Builder's resolution and
// texture settings. Useful to access frames and covers of a sweep.
func (bld *Builder) NewSurface(s sweep.Sweepable, covers sweep.CoverMode) (*sweep.Surface, error) {
	cfg := sweep.SurfaceConfig{
		Levels:    bld.rows,
		Cols:      bld.cols,
		Covers:    covers,
		UVFactors: bld.uvFactors,
		ReverseUV: bld.reverseUV,
	}
	if bld.flags&FlagRotationMinimizing != 0 {
		cfg.PathFramer = curve.RotationMinimizing{}
	}
	return sweep.NewSurface(s, cfg)
}

func (bld *Builder) surface(s sweep.Sweepable, covers sweep.CoverMode) glmesh.Mesh {
	surf, err := bld.NewSurface(s, covers)
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return surf.Mesh()
}

func (bld *Builder) grid(surf glmesh.Parametric) glmesh.Mesh {
	m, err := glmesh.BuildGrid(surf, bld.gridConfig())
	if err != nil {
		bld.shapeError(err)
		return glmesh.Mesh{}
	}
	return m
}
