package sweep_test

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/google/go-cmp/cmp"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/curve"
	"github.com/soypat/gsweep/glmesh"
	"github.com/soypat/gsweep/sweep"
)

const tol = 1e-4

func square(t *testing.T, w, h float32) *curve.Curve {
	t.Helper()
	c, err := curve.StraightLines([]ms3.Vec{
		{X: -w / 2, Y: -h / 2},
		{X: -w / 2, Y: h / 2},
		{X: w / 2, Y: h / 2},
		{X: w / 2, Y: -h / 2},
		{X: -w / 2, Y: -h / 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func prism(t *testing.T, depth float32) *sweep.Path {
	t.Helper()
	path, err := curve.NewBezier([]ms3.Vec{{Y: -depth / 2}, {}, {Y: depth / 2}}, curve.Quadratic)
	if err != nil {
		t.Fatal(err)
	}
	p, err := sweep.NewPath(square(t, 2, 2), path)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func profile(t *testing.T, radius, height float32) *curve.Curve {
	t.Helper()
	c, err := curve.NewBezier([]ms3.Vec{
		{}, {X: radius}, {X: radius}, {X: radius},
		{Y: height}, {Y: height}, {Y: height},
	}, curve.Cubic)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSurfaceGrid(t *testing.T) {
	for _, test := range []struct {
		levels, cols int
	}{
		{1, 1}, {3, 8}, {10, 4}, {0, 0},
	} {
		s, err := sweep.NewSurface(prism(t, 3), sweep.SurfaceConfig{Levels: test.levels, Cols: test.cols})
		if err != nil {
			t.Fatal(err)
		}
		L, C := s.Levels(), s.Cols()
		if test.levels == 0 && (L != glmesh.DefaultResolution || C != glmesh.DefaultResolution) {
			t.Errorf("zero config got %dx%d, want default resolution", L, C)
		}
		m := s.Mesh()
		if err := m.Validate(); err != nil {
			t.Fatal(err)
		}
		if len(m.Positions) != (L+1)*(C+1) {
			t.Errorf("%dx%d: got %d vertices, want %d", L, C, len(m.Positions), (L+1)*(C+1))
		}
		if len(m.Index) != 2*(C+1)*L {
			t.Errorf("%dx%d: got %d indices, want %d", L, C, len(m.Index), 2*(C+1)*L)
		}
		if diff := cmp.Diff(glmesh.StripIndex(L, C), m.Index); diff != "" {
			t.Errorf("%dx%d: strip pattern mismatch:\n%s", L, C, diff)
		}
	}
}

func TestSurfacePrismGeometry(t *testing.T) {
	const depth = 3
	s, err := sweep.NewSurface(prism(t, depth), sweep.SurfaceConfig{Levels: 6, Cols: 40})
	if err != nil {
		t.Fatal(err)
	}
	m := s.Mesh()
	bb := m.Bounds()
	wantMin := ms3.Vec{X: -1, Y: -depth / 2., Z: -1}
	wantMax := ms3.Vec{X: 1, Y: depth / 2., Z: 1}
	if !vecEqual(bb.Min, wantMin, tol) || !vecEqual(bb.Max, wantMax, tol) {
		t.Errorf("bounds %+v, want %v..%v", bb, wantMin, wantMax)
	}
	// First shape sample (-1,-1) at the path start frame n=(-1,0,0), b=(0,0,1).
	v := s.PointData(0, 0)
	if want := (ms3.Vec{X: 1, Y: -depth / 2., Z: -1}); !vecEqual(v.P, want, tol) {
		t.Errorf("first vertex %v, want %v", v.P, want)
	}
	if v.UV.X != 0 || v.UV.Y != 0 {
		t.Errorf("first vertex uv %v", v.UV)
	}
	last := s.PointData(s.Levels(), s.Cols())
	if last.UV.X != 1 || last.UV.Y != 1 {
		t.Errorf("last vertex uv %v, want (1,1)", last.UV)
	}
	for i, n := range m.Normals {
		if math32.Abs(ms3.Norm(n)-1) > tol {
			t.Fatalf("normal %d not unit: %v", i, n)
		}
		if math32.Abs(n.Y) > tol {
			t.Fatalf("side normal %d should be perpendicular to path: %v", i, n)
		}
	}
}

func TestSurfaceCovers(t *testing.T) {
	const depth = 3
	s, err := sweep.NewSurface(prism(t, depth), sweep.SurfaceConfig{Levels: 4, Cols: 20})
	if err != nil {
		t.Fatal(err)
	}
	covers := s.Covers()
	if len(covers) != 2 {
		t.Fatalf("got %d covers, want 2", len(covers))
	}
	wantCenter := []ms3.Vec{{Y: depth / 2.}, {Y: -depth / 2.}}
	wantNormal := []ms3.Vec{{Y: 1}, {Y: -1}}
	for i, c := range covers {
		if err := c.Validate(); err != nil {
			t.Fatal(err)
		}
		if c.VertexCount() != s.Cols()+2 {
			t.Errorf("cover %d has %d vertices, want %d", i, c.VertexCount(), s.Cols()+2)
		}
		if !vecEqual(c.Positions[0], wantCenter[i], tol) {
			t.Errorf("cover %d center %v, want %v", i, c.Positions[0], wantCenter[i])
		}
		for j, n := range c.Normals {
			if !vecEqual(n, wantNormal[i], tol) {
				t.Fatalf("cover %d vertex %d normal %v, want %v", i, j, n, wantNormal[i])
			}
		}
		for j, uv := range c.UV {
			if uv.X < -tol || uv.X > 1+tol || uv.Y < -tol || uv.Y > 1+tol {
				t.Errorf("cover %d uv %d out of unit square: %v", i, j, uv)
			}
		}
		if c.UV[0].X != 0.5 || c.UV[0].Y != 0.5 {
			t.Errorf("cover %d center uv %v, want (0.5,0.5)", i, c.UV[0])
		}
		tris := c.Triangles(nil)
		if len(tris) == 0 {
			t.Fatalf("cover %d has no triangles", i)
		}
		var area float32
		for _, tri := range tris {
			n := ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))
			if ms3.Dot(n, wantNormal[i]) < 0 {
				t.Fatalf("cover %d triangle %v wound against its normal", i, tri)
			}
			area += ms3.Norm(n) / 2
		}
		if math32.Abs(area-4) > 1e-3 {
			t.Errorf("cover %d area %g, want 4", i, area)
		}
	}
	m := s.Mesh()
	if len(m.Covers) != 2 {
		t.Errorf("mesh should carry covers")
	}

	off, err := sweep.NewSurface(prism(t, depth), sweep.SurfaceConfig{Levels: 4, Cols: 20, Covers: sweep.CoverOff})
	if err != nil {
		t.Fatal(err)
	}
	if off.HasCovers() || off.Covers() != nil {
		t.Error("covers built with CoverOff")
	}
}

func TestSurfaceImmutable(t *testing.T) {
	s, err := sweep.NewSurface(prism(t, 2), sweep.SurfaceConfig{Levels: 2, Cols: 4})
	if err != nil {
		t.Fatal(err)
	}
	m := s.Mesh()
	m.Positions[0] = ms3.Vec{X: 100}
	m.Covers[0].Positions[0] = ms3.Vec{X: 100}
	again := s.Mesh()
	if again.Positions[0] == m.Positions[0] || again.Covers[0].Positions[0] == m.Covers[0].Positions[0] {
		t.Error("surface mesh modified through returned copy")
	}
}

func TestRevolution(t *testing.T) {
	shape := profile(t, 2, 4)
	rev, err := sweep.NewRevolution(shape, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !rev.Closed() || rev.Angle() != 2*math32.Pi {
		t.Errorf("zero angle should be a full turn, got %g", rev.Angle())
	}
	_, err = rev.Path()
	if !errors.Is(err, sweep.ErrNoPath) || !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("revolution path error %v, want ErrNoPath", err)
	}

	d := rev.DiscretizePath(0.01)
	if d.Len() != 101 {
		t.Fatalf("got %d frames, want 101", d.Len())
	}
	first, last := d.At(0), d.At(d.Len()-1)
	if !vecEqual(first.P, last.P, tol) || !vecEqual(first.T, last.T, tol) ||
		!vecEqual(first.N, last.N, tol) || !vecEqual(first.B, last.B, tol) {
		t.Errorf("full revolution seam frames differ: %+v vs %+v", first, last)
	}
	for i := 0; i < d.Len(); i++ {
		f := d.At(i)
		if f.P != (ms3.Vec{}) || f.B != (ms3.Vec{Y: 1}) {
			t.Fatalf("frame %d not centered on y axis: %+v", i, f)
		}
		if math32.Abs(ms3.Dot(f.N, f.T)) > tol || math32.Abs(ms3.Norm(f.N)-1) > tol {
			t.Fatalf("frame %d not orthonormal: %+v", i, f)
		}
	}

	s, err := sweep.NewSurface(rev, sweep.SurfaceConfig{Levels: 30, Cols: 30})
	if err != nil {
		t.Fatal(err)
	}
	if s.HasCovers() {
		t.Error("revolution built covers")
	}
	shapeSamples := s.DiscretizedShape()
	for i := 0; i <= s.Levels(); i++ {
		for j := 0; j <= s.Cols(); j++ {
			v := s.PointData(i, j)
			want := shapeSamples.P[j]
			r := math32.Hypot(v.P.X, v.P.Z)
			if math32.Abs(r-math32.Abs(want.X)) > tol || math32.Abs(v.P.Y-want.Y) > tol {
				t.Fatalf("vertex (%d,%d) at %v not a rotation of %v", i, j, v.P, want)
			}
		}
	}
	for j := 0; j <= s.Cols(); j++ {
		a, b := s.PointData(0, j), s.PointData(s.Levels(), j)
		if !vecEqual(a.P, b.P, tol) || !vecEqual(a.N, b.N, tol) {
			t.Fatalf("seam column %d differs: %v vs %v", j, a.P, b.P)
		}
	}

	_, err = sweep.NewSurface(rev, sweep.SurfaceConfig{Covers: sweep.CoverOn})
	if !errors.Is(err, sweep.ErrNoPath) {
		t.Errorf("forced covers on revolution: got %v, want ErrNoPath", err)
	}
}

func TestHalfRevolution(t *testing.T) {
	rev, err := sweep.NewRevolution(profile(t, 1, 1), math32.Pi)
	if err != nil {
		t.Fatal(err)
	}
	if rev.Closed() {
		t.Error("half revolution reported closed")
	}
	last := rev.Frame(1)
	if !vecEqual(last.T, ms3.Vec{X: -1}, tol) {
		t.Errorf("half turn tangent %v, want (-1,0,0)", last.T)
	}
	full, err := sweep.NewRevolution(profile(t, 1, 1), 0)
	if err != nil {
		t.Fatal(err)
	}
	if full.Angle() != 2*math32.Pi || !full.Closed() {
		t.Errorf("zero angle gave angle %v closed=%v, want a full turn", full.Angle(), full.Closed())
	}
	_, err = sweep.NewRevolution(profile(t, 1, 1), math32.NaN())
	if err == nil {
		t.Error("expected error for NaN angle")
	}
}

func TestPathFramer(t *testing.T) {
	path, err := curve.NewBezier([]ms3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}, curve.Cubic)
	if err != nil {
		t.Fatal(err)
	}
	p, err := sweep.NewPath(square(t, 0.2, 0.2), path)
	if err != nil {
		t.Fatal(err)
	}
	fixed, err := sweep.NewSurface(p, sweep.SurfaceConfig{Levels: 50, Cols: 8})
	if err != nil {
		t.Fatal(err)
	}
	rmf, err := sweep.NewSurface(p, sweep.SurfaceConfig{Levels: 50, Cols: 8, PathFramer: curve.RotationMinimizing{}})
	if err != nil {
		t.Fatal(err)
	}
	// Planar paths keep a constant binormal under rotation minimizing transport
	// so both framings agree.
	a, b := fixed.Mesh(), rmf.Mesh()
	for i := range a.Positions {
		if !vecEqual(a.Positions[i], b.Positions[i], 1e-3) {
			t.Fatalf("vertex %d: fixed %v, rotation minimizing %v", i, a.Positions[i], b.Positions[i])
		}
	}
}

func TestPathFramerAlongBinormal(t *testing.T) {
	path, err := curve.NewBezier([]ms3.Vec{{}, {Z: 1}, {Z: 2}}, curve.Quadratic)
	if err != nil {
		t.Fatal(err)
	}
	p, err := sweep.NewPath(square(t, 2, 2), path)
	if err != nil {
		t.Fatal(err)
	}
	surf, err := sweep.NewSurface(p, sweep.SurfaceConfig{Levels: 10, Cols: 8, PathFramer: curve.RotationMinimizing{}})
	if err != nil {
		t.Fatal(err)
	}
	m := surf.Mesh()
	bb := m.Bounds()
	size := ms3.Sub(bb.Max, bb.Min)
	// The square cross-section keeps its 2x2 extent perpendicular to the path.
	if !vecEqual(size, ms3.Vec{X: 2, Y: 2, Z: 2}, 1e-3) {
		t.Errorf("swept bounds %v, want a 2x2x2 box", bb)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := sweep.NewPath(nil, nil); err == nil {
		t.Error("expected error for nil curves")
	}
	if _, err := sweep.NewRevolution(nil, 0); err == nil {
		t.Error("expected error for nil shape")
	}
	if _, err := sweep.NewSurface(nil, sweep.SurfaceConfig{}); err == nil {
		t.Error("expected error for nil sweep")
	}
	if _, err := sweep.NewSurface(prism(t, 1), sweep.SurfaceConfig{Levels: -2}); err == nil {
		t.Error("expected error for negative levels")
	}
}

func vecEqual(a, b ms3.Vec, tol float32) bool {
	return ms3.Norm(ms3.Sub(a, b)) <= tol
}
