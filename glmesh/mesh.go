// Package glmesh holds the renderer-agnostic geometry record produced by the
// shape builders: parallel vertex attribute sequences plus an index sequence
// that a rendering backend can upload without further geometric processing.
package glmesh

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// DrawMode is the primitive assembly used to interpret an index sequence.
type DrawMode uint8

const (
	_ DrawMode = iota
	// TriangleStrip indices are drawn as one strip per grid row of [Mesh.StripLen] indices.
	TriangleStrip
	// TriangleFan indices are drawn as a single fan around the first vertex.
	TriangleFan
	// LineStrip indices are drawn as a connected polyline.
	LineStrip
)

func (dm DrawMode) String() string {
	switch dm {
	case TriangleStrip:
		return "strip"
	case TriangleFan:
		return "fan"
	case LineStrip:
		return "lines"
	}
	return fmt.Sprintf("DrawMode(%d)", uint8(dm))
}

// Vertex is a single mesh vertex with its frame and texture coordinate.
type Vertex struct {
	P  ms3.Vec // Position.
	N  ms3.Vec // Normal.
	T  ms3.Vec // Tangent.
	B  ms3.Vec // Binormal.
	UV ms2.Vec
}

// Buffers stores vertex attributes as parallel sequences of equal length.
// ms3.Vec and ms2.Vec are tightly packed float32s so the slices may be
// uploaded directly as vertex buffers.
type Buffers struct {
	Positions []ms3.Vec `json:"positions"`
	Normals   []ms3.Vec `json:"normals"`
	Tangents  []ms3.Vec `json:"tangents"`
	Binormals []ms3.Vec `json:"binormals"`
	UV        []ms2.Vec `json:"uv"`
	Index     []uint32  `json:"index"`
}

// VertexCount returns the number of vertices stored.
func (b *Buffers) VertexCount() int { return len(b.Positions) }

// Vertex returns the i'th vertex.
func (b *Buffers) Vertex(i int) Vertex {
	return Vertex{
		P:  b.Positions[i],
		N:  b.Normals[i],
		T:  b.Tangents[i],
		B:  b.Binormals[i],
		UV: b.UV[i],
	}
}

// AppendVertex adds v to the end of the attribute sequences. It does not modify Index.
func (b *Buffers) AppendVertex(v Vertex) {
	b.Positions = append(b.Positions, v.P)
	b.Normals = append(b.Normals, v.N)
	b.Tangents = append(b.Tangents, v.T)
	b.Binormals = append(b.Binormals, v.B)
	b.UV = append(b.UV, v.UV)
}

// Grow preallocates space for n more vertices.
func (b *Buffers) Grow(n int) {
	b.Positions = grow(b.Positions, n)
	b.Normals = grow(b.Normals, n)
	b.Tangents = grow(b.Tangents, n)
	b.Binormals = grow(b.Binormals, n)
	b.UV = grow(b.UV, n)
}

// Validate checks attribute sequences have equal length and indices are in range.
func (b *Buffers) Validate() error {
	n := len(b.Positions)
	if len(b.Normals) != n || len(b.Tangents) != n || len(b.Binormals) != n || len(b.UV) != n {
		return fmt.Errorf("attribute length mismatch: %d positions, %d normals, %d tangents, %d binormals, %d uv",
			n, len(b.Normals), len(b.Tangents), len(b.Binormals), len(b.UV))
	}
	for i, idx := range b.Index {
		if int(idx) >= n {
			return fmt.Errorf("index %d at %d out of range for %d vertices", idx, i, n)
		}
	}
	return nil
}

// Bounds returns the axis aligned box containing all positions.
func (b *Buffers) Bounds() ms3.Box {
	if len(b.Positions) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: b.Positions[0], Max: b.Positions[0]}
	for _, p := range b.Positions[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	return bb
}

// Fan is a triangle fan whose first vertex is the center. Used to close the
// open ends of swept surfaces and cylinders.
type Fan struct {
	Buffers
}

// TriangleIndices appends the vertex index triples of the fan's triangles to dst.
func (f *Fan) TriangleIndices(dst [][3]uint32) [][3]uint32 {
	return appendFanIndices(dst, f.Index)
}

// Triangles appends the fan's non-degenerate triangles to dst.
func (f *Fan) Triangles(dst []ms3.Triangle) []ms3.Triangle {
	return appendTriangles(dst, f.Positions, f.TriangleIndices(nil))
}

// Mesh is a geometry record: a grid of (Rows+1)×(Cols+1) vertices indexed
// as triangle strips plus optional fan covers.
type Mesh struct {
	Buffers
	Mode DrawMode `json:"mode"`
	// Rows is the number of strips. For sweeps it is the number of path levels.
	Rows int `json:"rows"`
	// Cols is the number of quads per strip.
	Cols   int   `json:"cols"`
	Covers []Fan `json:"covers,omitempty"`
}

// ErrEmptyMesh is returned by operations that require geometry.
var ErrEmptyMesh = errors.New("empty mesh")

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// StripLen returns the amount of indices in each row strip.
func (m *Mesh) StripLen() int { return 2 * (m.Cols + 1) }

// Strip returns the index sequence of row i.
func (m *Mesh) Strip(i int) []uint32 {
	n := m.StripLen()
	return m.Index[i*n : (i+1)*n]
}

// Validate checks the mesh and its covers for consistency.
func (m *Mesh) Validate() error {
	if err := m.Buffers.Validate(); err != nil {
		return err
	}
	switch m.Mode {
	case TriangleStrip:
		if want := (m.Rows + 1) * (m.Cols + 1); len(m.Positions) != want {
			return fmt.Errorf("grid %dx%d wants %d vertices, got %d", m.Rows, m.Cols, want, len(m.Positions))
		}
		if want := m.StripLen() * m.Rows; len(m.Index) != want {
			return fmt.Errorf("grid %dx%d wants %d indices, got %d", m.Rows, m.Cols, want, len(m.Index))
		}
	case TriangleFan, LineStrip:
	default:
		return fmt.Errorf("invalid draw mode %s", m.Mode)
	}
	for i := range m.Covers {
		if err := m.Covers[i].Validate(); err != nil {
			return fmt.Errorf("cover %d: %w", i, err)
		}
	}
	return nil
}

// TriangleIndices appends the vertex index triples of the mesh's own
// triangles to dst. Covers are not included. Line strips yield no triangles.
func (m *Mesh) TriangleIndices(dst [][3]uint32) [][3]uint32 {
	switch m.Mode {
	case TriangleStrip:
		for i := 0; i < m.Rows; i++ {
			dst = appendStripIndices(dst, m.Strip(i))
		}
	case TriangleFan:
		dst = appendFanIndices(dst, m.Index)
	}
	return dst
}

// Triangles appends all non-degenerate triangles of the mesh, covers
// included, to dst.
func (m *Mesh) Triangles(dst []ms3.Triangle) []ms3.Triangle {
	dst = appendTriangles(dst, m.Positions, m.TriangleIndices(nil))
	for i := range m.Covers {
		dst = m.Covers[i].Triangles(dst)
	}
	return dst
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() Mesh {
	cp := Mesh{
		Buffers: m.Buffers.clone(),
		Mode:    m.Mode,
		Rows:    m.Rows,
		Cols:    m.Cols,
	}
	for i := range m.Covers {
		cp.Covers = append(cp.Covers, Fan{Buffers: m.Covers[i].clone()})
	}
	return cp
}

func (b *Buffers) clone() Buffers {
	return Buffers{
		Positions: append([]ms3.Vec(nil), b.Positions...),
		Normals:   append([]ms3.Vec(nil), b.Normals...),
		Tangents:  append([]ms3.Vec(nil), b.Tangents...),
		Binormals: append([]ms3.Vec(nil), b.Binormals...),
		UV:        append([]ms2.Vec(nil), b.UV...),
		Index:     append([]uint32(nil), b.Index...),
	}
}

func appendStripIndices(dst [][3]uint32, strip []uint32) [][3]uint32 {
	for k := 0; k+2 < len(strip); k++ {
		a, b, c := strip[k], strip[k+1], strip[k+2]
		if k%2 == 1 {
			// Odd strip triangles have reversed winding.
			a, b = b, a
		}
		dst = append(dst, [3]uint32{a, b, c})
	}
	return dst
}

func appendFanIndices(dst [][3]uint32, index []uint32) [][3]uint32 {
	for k := 1; k+1 < len(index); k++ {
		dst = append(dst, [3]uint32{index[0], index[k], index[k+1]})
	}
	return dst
}

func appendTriangles(dst []ms3.Triangle, pos []ms3.Vec, tris [][3]uint32) []ms3.Triangle {
	for _, tri := range tris {
		dst = appendNonDegenerate(dst, ms3.Triangle{pos[tri[0]], pos[tri[1]], pos[tri[2]]})
	}
	return dst
}

// IsDegenerate reports whether the triangle has a negligible area, as
// happens where grid rows collapse onto a pole or a revolution axis.
func IsDegenerate(t ms3.Triangle) bool {
	area2 := ms3.Norm(ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0])))
	return area2 < degenerateArea
}

func appendNonDegenerate(dst []ms3.Triangle, t ms3.Triangle) []ms3.Triangle {
	if IsDegenerate(t) {
		return dst
	}
	return append(dst, t)
}

// degenerateArea is twice the area below which triangles are discarded,
// such as those formed by coincident vertices on a sphere's poles.
const degenerateArea = 1e-10

func grow[T any](s []T, n int) []T {
	if cap(s)-len(s) >= n {
		return s
	}
	return append(make([]T, 0, len(s)+n), s...)
}
