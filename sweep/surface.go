package sweep

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/curve"
	"github.com/soypat/gsweep/glmesh"
)

// CoverMode selects whether end caps are built.
type CoverMode uint8

const (
	// CoverAuto builds covers for every sweep except revolutions.
	CoverAuto CoverMode = iota
	// CoverOn always builds covers. Fails for sweeps without a path curve.
	CoverOn
	// CoverOff never builds covers.
	CoverOff
)

// SurfaceConfig configures sweep surface sampling. The zero value is a
// 75×75 grid with automatic covers and unit UV factors.
type SurfaceConfig struct {
	// Levels is the number of path divisions. Zero means [glmesh.DefaultResolution].
	Levels int
	// Cols is the number of shape divisions. Zero means [glmesh.DefaultResolution].
	Cols   int
	Covers CoverMode
	// UVFactors scale side texture coordinates and cover coordinates about their center.
	UVFactors ms2.Vec
	ReverseUV bool
	// ShapeFramer orients shape samples. Nil means [curve.FixedBinormal].
	ShapeFramer curve.Framer
	// PathFramer orients path samples of sweeps with a path curve. Nil uses
	// the sweep's own DiscretizePath.
	PathFramer curve.Framer
}

// Surface is a swept surface: a grid of (levels+1)×(cols+1) vertices where
// row i is the shape transformed by the i'th path frame. It holds snapshots
// of the discretized path and shape and is immutable after construction.
type Surface struct {
	sweep  Sweepable
	levels int
	cols   int
	uv     glmesh.GridConfig
	path   curve.Discretized
	shape  curve.Discretized
	mesh   glmesh.Mesh
}

// NewSurface discretizes the sweep, transforms every shape sample by every
// path frame and builds the strip index and covers.
func NewSurface(s Sweepable, cfg SurfaceConfig) (*Surface, error) {
	if s == nil || s.Shape() == nil {
		return nil, errors.New("nil sweep or sweep shape")
	}
	uv := glmesh.GridConfig{Rows: cfg.Levels, Cols: cfg.Cols, UVFactors: cfg.UVFactors, ReverseUV: cfg.ReverseUV}
	if err := uv.Validate(); err != nil {
		return nil, err
	}
	levels, cols := uv.Resolution()
	useCovers := cfg.Covers == CoverOn
	if cfg.Covers == CoverAuto {
		_, isRevolution := s.(*Revolution)
		useCovers = !isRevolution
	}
	pathCurve, pathErr := s.Path()
	if useCovers && pathErr != nil {
		return nil, fmt.Errorf("building covers: %w", pathErr)
	}

	surf := &Surface{
		sweep:  s,
		levels: levels,
		cols:   cols,
		uv:     uv,
	}
	var err error
	pathDelta := 1 / float32(levels)
	if cfg.PathFramer != nil && pathErr == nil {
		surf.path, err = head(pathCurve.DiscretizeWith(pathDelta, cfg.PathFramer), levels+1)
	} else {
		surf.path, err = head(s.DiscretizePath(pathDelta), levels+1)
	}
	if err != nil {
		return nil, fmt.Errorf("discretizing path: %w", err)
	}
	surf.shape, err = head(s.Shape().DiscretizeWith(1/float32(cols), cfg.ShapeFramer), cols+1)
	if err != nil {
		return nil, fmt.Errorf("discretizing shape: %w", err)
	}

	surf.buildGrid()
	if useCovers {
		top := pathCurve.PointData(1)
		bottom := pathCurve.PointData(0)
		surf.mesh.Covers = []glmesh.Fan{
			surf.cover(levels, top, false),
			surf.cover(0, bottom, true),
		}
	}
	return surf, nil
}

// Levels returns the number of path divisions.
func (s *Surface) Levels() int { return s.levels }

// Cols returns the number of shape divisions.
func (s *Surface) Cols() int { return s.cols }

// Sweep returns the sweep the surface was built from.
func (s *Surface) Sweep() Sweepable { return s.sweep }

// HasCovers reports whether end caps were built.
func (s *Surface) HasCovers() bool { return len(s.mesh.Covers) > 0 }

// Mesh returns a copy of the surface geometry, covers included.
func (s *Surface) Mesh() glmesh.Mesh { return s.mesh.Clone() }

// Covers returns copies of the top and bottom covers, or nil if none were built.
func (s *Surface) Covers() []glmesh.Fan {
	if !s.HasCovers() {
		return nil
	}
	m := s.Mesh()
	return m.Covers
}

// DiscretizedPath returns the path frames the surface was built with.
func (s *Surface) DiscretizedPath() curve.Discretized { return clone(s.path) }

// DiscretizedShape returns the shape samples the surface was built with.
func (s *Surface) DiscretizedShape() curve.Discretized { return clone(s.shape) }

// PointData returns the grid vertex at path level and shape column: the
// shape sample at col transformed by the path frame at level. UV is (level/levels, col/cols)
// after factors are applied.
func (s *Surface) PointData(level, col int) glmesh.Vertex {
	pos, nor := levelMatrices(s.path, level)
	v := glmesh.Vertex{
		P: pos.MulPosition(s.shape.P[col]),
		N: nor.MulPosition(s.shape.N[col]),
		T: nor.MulPosition(s.shape.T[col]),
		B: nor.MulPosition(s.shape.B[col]),
		UV: ms2.Vec{
			X: float32(level) / float32(s.levels),
			Y: float32(col) / float32(s.cols),
		},
	}
	v.UV = s.uv.ApplyUV(v.UV)
	return v
}

func (s *Surface) buildGrid() {
	m := glmesh.Mesh{Mode: glmesh.TriangleStrip, Rows: s.levels, Cols: s.cols}
	m.Grow((s.levels + 1) * (s.cols + 1))
	for i := 0; i <= s.levels; i++ {
		for j := 0; j <= s.cols; j++ {
			m.AppendVertex(s.PointData(i, j))
		}
	}
	m.Index = glmesh.StripIndex(s.levels, s.cols)
	s.mesh = m
}

// levelMatrices returns the position and normal matrices of the path frame
// at index i. The frame's normal, binormal and tangent are the matrix
// columns so a shape point (x,y,z) maps to n·x + b·y + t·z + p.
func levelMatrices(path curve.Discretized, i int) (pos, nor ms3.Mat4) {
	n, b, t, p := path.N[i], path.B[i], path.T[i], path.P[i]
	pos = ms3.NewMat4([]float32{
		n.X, b.X, t.X, p.X,
		n.Y, b.Y, t.Y, p.Y,
		n.Z, b.Z, t.Z, p.Z,
		0, 0, 0, 1,
	})
	nor = ms3.NewMat4([]float32{
		n.X, b.X, t.X, 0,
		n.Y, b.Y, t.Y, 0,
		n.Z, b.Z, t.Z, 0,
		0, 0, 0, 1,
	})
	return pos, nor
}

// head returns the first n samples of d.
func head(d curve.Discretized, n int) (curve.Discretized, error) {
	if d.Len() < n {
		return d, fmt.Errorf("got %d samples, need %d", d.Len(), n)
	}
	return curve.Discretized{P: d.P[:n], N: d.N[:n], B: d.B[:n], T: d.T[:n]}, nil
}

func clone(d curve.Discretized) curve.Discretized {
	return curve.Discretized{
		P: append([]ms3.Vec(nil), d.P...),
		N: append([]ms3.Vec(nil), d.N...),
		B: append([]ms3.Vec(nil), d.B...),
		T: append([]ms3.Vec(nil), d.T...),
	}
}
