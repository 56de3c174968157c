// Package glrender converts meshes into triangle soups, STL files and
// preview images without a GPU.
package glrender

import (
	"errors"
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

// Renderer streams triangles. ReadTriangles fills dst and returns io.EOF
// after the last triangle has been read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

var _ Renderer = (*MeshRenderer)(nil)

// MeshRenderer streams the non-degenerate triangles of one or more meshes,
// covers included.
type MeshRenderer struct {
	meshes []*glmesh.Mesh
	// Index of the mesh being read. Covers follow the mesh's own triangles.
	meshIdx int
	// Index of the triangle group within the mesh: 0 is the mesh, 1+i is cover i.
	groupIdx int
	triIdx   int
	tris     [][3]uint32
	read     int
}

// NewMeshRenderer returns a renderer over the given meshes. The meshes must
// not be modified while the renderer is in use.
func NewMeshRenderer(meshes ...*glmesh.Mesh) (*MeshRenderer, error) {
	if len(meshes) == 0 {
		return nil, glmesh.ErrEmptyMesh
	}
	for _, m := range meshes {
		if m == nil {
			return nil, errors.New("nil mesh")
		} else if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	mr := &MeshRenderer{meshes: meshes}
	mr.Reset()
	return mr, nil
}

// Reset rewinds the renderer to the first triangle.
func (mr *MeshRenderer) Reset() {
	mr.meshIdx = 0
	mr.groupIdx = 0
	mr.triIdx = 0
	mr.read = 0
	mr.tris = mr.meshes[0].TriangleIndices(mr.tris[:0])
}

// TrianglesRead returns the amount of triangles read since the last reset.
func (mr *MeshRenderer) TrianglesRead() int { return mr.read }

func (mr *MeshRenderer) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	for n < len(dst) {
		if mr.triIdx >= len(mr.tris) {
			if !mr.nextGroup() {
				mr.read += n
				return n, io.EOF
			}
			continue
		}
		idx := mr.tris[mr.triIdx]
		mr.triIdx++
		pos := mr.positions()
		t := ms3.Triangle{pos[idx[0]], pos[idx[1]], pos[idx[2]]}
		if glmesh.IsDegenerate(t) {
			continue
		}
		dst[n] = t
		n++
	}
	mr.read += n
	return n, nil
}

func (mr *MeshRenderer) positions() []ms3.Vec {
	m := mr.meshes[mr.meshIdx]
	if mr.groupIdx == 0 {
		return m.Positions
	}
	return m.Covers[mr.groupIdx-1].Positions
}

// nextGroup advances to the next cover or mesh and loads its triangles.
func (mr *MeshRenderer) nextGroup() bool {
	m := mr.meshes[mr.meshIdx]
	mr.triIdx = 0
	mr.groupIdx++
	if mr.groupIdx <= len(m.Covers) {
		mr.tris = m.Covers[mr.groupIdx-1].TriangleIndices(mr.tris[:0])
		return true
	}
	mr.meshIdx++
	mr.groupIdx = 0
	if mr.meshIdx >= len(mr.meshes) {
		mr.meshIdx = len(mr.meshes) - 1
		mr.groupIdx = len(mr.meshes[mr.meshIdx].Covers) + 1
		mr.tris = mr.tris[:0]
		return false
	}
	mr.tris = mr.meshes[mr.meshIdx].TriangleIndices(mr.tris[:0])
	return true
}
