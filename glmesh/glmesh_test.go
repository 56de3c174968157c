package glmesh_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

func TestStripIndex(t *testing.T) {
	for _, test := range []struct {
		rows, cols int
	}{
		{1, 1}, {2, 3}, {5, 1}, {75, 75},
	} {
		index := glmesh.StripIndex(test.rows, test.cols)
		if want := 2 * (test.cols + 1) * test.rows; len(index) != want {
			t.Fatalf("%dx%d: got %d indices, want %d", test.rows, test.cols, len(index), want)
		}
		k := 0
		for i := 0; i < test.rows; i++ {
			for j := 0; j <= test.cols; j++ {
				top := uint32(j + (test.cols+1)*i)
				bottom := uint32(j + (test.cols+1)*(i+1))
				if index[k] != top || index[k+1] != bottom {
					t.Fatalf("%dx%d: pair %d is (%d,%d), want (%d,%d)", test.rows, test.cols, k/2, index[k], index[k+1], top, bottom)
				}
				k += 2
			}
		}
	}
	want := []uint32{0, 3, 1, 4, 2, 5}
	if diff := cmp.Diff(want, glmesh.StripIndex(1, 2)); diff != "" {
		t.Error(diff)
	}
	if glmesh.StripIndex(0, 4) != nil {
		t.Error("expected nil index for zero rows")
	}
}

func TestBuildGrid(t *testing.T) {
	plane := glmesh.ParametricFunc(func(alpha, beta float32) glmesh.Vertex {
		return glmesh.Vertex{
			P:  ms3.Vec{X: alpha, Z: beta},
			N:  ms3.Vec{Y: 1},
			T:  ms3.Vec{X: 1},
			B:  ms3.Vec{Z: 1},
			UV: ms2.Vec{X: alpha, Y: beta},
		}
	})
	m, err := glmesh.BuildGrid(plane, glmesh.GridConfig{Rows: 4, Cols: 3, UVFactors: ms2.Vec{X: 2, Y: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 5*4 {
		t.Errorf("got %d vertices, want 20", m.VertexCount())
	}
	last := m.Vertex(m.VertexCount() - 1)
	if last.P != (ms3.Vec{X: 1, Z: 1}) {
		t.Errorf("last vertex at %v, want (1,0,1)", last.P)
	}
	if last.UV != (ms2.Vec{X: 2, Y: 3}) {
		t.Errorf("last uv %v, want (2,3)", last.UV)
	}
	// A flat 4x3 grid has 2 triangles per quad.
	tris := m.Triangles(nil)
	if len(tris) != 2*4*3 {
		t.Errorf("got %d triangles, want %d", len(tris), 2*4*3)
	}
	var area float32
	for _, tri := range tris {
		area += ms3.Norm(ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))) / 2
	}
	if area < 1-1e-5 || area > 1+1e-5 {
		t.Errorf("triangulated area %g, want 1", area)
	}
	bb := m.Bounds()
	if bb.Min != (ms3.Vec{}) || bb.Max != (ms3.Vec{X: 1, Z: 1}) {
		t.Errorf("bad bounds %+v", bb)
	}

	rev, err := glmesh.BuildGrid(plane, glmesh.GridConfig{Rows: 2, Cols: 2, ReverseUV: true, UVFactors: ms2.Vec{X: 2, Y: 3}})
	if err != nil {
		t.Fatal(err)
	}
	// Vertex at alpha=1, beta=0.5.
	got := rev.UV[glmesh.GridIndex(2, 1, 2)]
	if got != (ms2.Vec{X: 1.5, Y: 2}) {
		t.Errorf("reversed uv %v, want (1.5,2)", got)
	}
}

func TestBuildGridDefaults(t *testing.T) {
	m, err := glmesh.BuildGrid(glmesh.ParametricFunc(func(a, b float32) glmesh.Vertex {
		return glmesh.Vertex{P: ms3.Vec{X: a, Y: b}}
	}), glmesh.GridConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != glmesh.DefaultResolution || m.Cols != glmesh.DefaultResolution {
		t.Errorf("got %dx%d grid, want default %d", m.Rows, m.Cols, glmesh.DefaultResolution)
	}
	_, err = glmesh.BuildGrid(nil, glmesh.GridConfig{})
	if err == nil {
		t.Error("expected error for nil surface")
	}
	_, err = glmesh.BuildGrid(glmesh.ParametricFunc(func(a, b float32) glmesh.Vertex { return glmesh.Vertex{} }), glmesh.GridConfig{Rows: -1})
	if err == nil {
		t.Error("expected error for negative rows")
	}
}

func TestFanTriangles(t *testing.T) {
	var f glmesh.Fan
	f.AppendVertex(glmesh.Vertex{})
	for _, p := range []ms3.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}, {X: 1}} {
		f.AppendVertex(glmesh.Vertex{P: p})
	}
	f.Index = glmesh.FanIndex(f.VertexCount())
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}
	tris := f.Triangles(nil)
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	for _, tri := range tris {
		n := ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))
		if n.Z <= 0 {
			t.Errorf("fan triangle %v not counter clockwise", tri)
		}
	}
}

func TestValidate(t *testing.T) {
	m := glmesh.Mesh{Mode: glmesh.TriangleStrip, Rows: 1, Cols: 1}
	for i := 0; i < 4; i++ {
		m.AppendVertex(glmesh.Vertex{P: ms3.Vec{X: float32(i)}})
	}
	m.Index = glmesh.StripIndex(1, 1)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	m.Normals = m.Normals[:3]
	if err := m.Validate(); err == nil {
		t.Error("expected attribute length mismatch")
	}
	m.Normals = append(m.Normals, ms3.Vec{})
	m.Index[0] = 10
	if err := m.Validate(); err == nil {
		t.Error("expected index out of range")
	}
}

func TestCurveLines(t *testing.T) {
	pts := []ms3.Vec{{}, {X: 1}, {X: 1, Y: 1}}
	m, err := glmesh.CurveLines(pts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Mode != glmesh.LineStrip || len(m.Index) != 3 {
		t.Errorf("bad line strip %v %v", m.Mode, m.Index)
	}
	if len(m.Triangles(nil)) != 0 {
		t.Error("line strip should yield no triangles")
	}
	_, err = glmesh.CurveLines(pts[:1], nil)
	if err == nil {
		t.Error("expected error for single point")
	}
}

func TestWriteOBJ(t *testing.T) {
	m, err := glmesh.BuildGrid(glmesh.ParametricFunc(func(a, b float32) glmesh.Vertex {
		return glmesh.Vertex{P: ms3.Vec{X: a, Y: b}, N: ms3.Vec{Z: 1}, UV: ms2.Vec{X: a, Y: b}}
	}), glmesh.GridConfig{Rows: 2, Cols: 2})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := glmesh.WriteOBJ(&buf, &m)
	if err != nil {
		t.Fatal(err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}
	var v, vn, vt, f int
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			v++
		case strings.HasPrefix(line, "vn "):
			vn++
		case strings.HasPrefix(line, "vt "):
			vt++
		case strings.HasPrefix(line, "f "):
			f++
		}
	}
	if v != 9 || vn != 9 || vt != 9 {
		t.Errorf("got %d positions, %d normals, %d uvs, want 9 each", v, vn, vt)
	}
	if f != 8 {
		t.Errorf("got %d faces, want 8", f)
	}
}
