package glmesh

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// DefaultResolution is the grid resolution used when a [GridConfig] dimension is zero.
const DefaultResolution = 75

// StripIndex returns the triangle strip index sequence for a grid of
// (rows+1)×(cols+1) vertices stored row major. Row i emits the pairs
// (i,j),(i+1,j) for j in [0,cols], giving 2*(cols+1)*rows indices in total.
func StripIndex(rows, cols int) []uint32 {
	if rows <= 0 || cols < 0 {
		return nil
	}
	index := make([]uint32, 0, 2*(cols+1)*rows)
	for i := 0; i < rows; i++ {
		for j := 0; j <= cols; j++ {
			index = append(index, gridIdx(i, j, cols), gridIdx(i+1, j, cols))
		}
	}
	return index
}

// GridIndex returns the vertex index of grid point (row, col) for a grid with cols columns.
func GridIndex(row, col, cols int) int {
	return col + (cols+1)*row
}

func gridIdx(i, j, cols int) uint32 { return uint32(GridIndex(i, j, cols)) }

// FanIndex returns the sequential index 0..n-1 of a fan with n vertices.
func FanIndex(n int) []uint32 {
	index := make([]uint32, n)
	for i := range index {
		index[i] = uint32(i)
	}
	return index
}

// Parametric surfaces map a pair of parameters in [0,1] to a vertex.
type Parametric interface {
	// PointData returns the vertex at parameters (alpha, beta). The returned
	// UV is the raw texture coordinate before [GridConfig] factors are applied.
	PointData(alpha, beta float32) Vertex
}

// ParametricFunc adapts a function to the [Parametric] interface.
type ParametricFunc func(alpha, beta float32) Vertex

func (f ParametricFunc) PointData(alpha, beta float32) Vertex { return f(alpha, beta) }

// GridConfig configures grid sampling and texture coordinates.
type GridConfig struct {
	// Rows and Cols set the number of divisions along alpha and beta. Zero means [DefaultResolution].
	Rows, Cols int
	// UVFactors scale texture coordinates. A zero factor is taken as 1.
	UVFactors ms2.Vec
	// ReverseUV swaps u and v after scaling.
	ReverseUV bool
}

func (cfg GridConfig) withDefaults() GridConfig {
	if cfg.Rows == 0 {
		cfg.Rows = DefaultResolution
	}
	if cfg.Cols == 0 {
		cfg.Cols = DefaultResolution
	}
	if cfg.UVFactors.X == 0 {
		cfg.UVFactors.X = 1
	}
	if cfg.UVFactors.Y == 0 {
		cfg.UVFactors.Y = 1
	}
	return cfg
}

// Validate checks the configuration after defaults are applied.
func (cfg GridConfig) Validate() error {
	cfg = cfg.withDefaults()
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return fmt.Errorf("grid resolution must be positive, got %dx%d", cfg.Rows, cfg.Cols)
	}
	return nil
}

// Resolution returns the rows and columns the configuration produces.
func (cfg GridConfig) Resolution() (rows, cols int) {
	cfg = cfg.withDefaults()
	return cfg.Rows, cfg.Cols
}

// ApplyUV scales uv by the configured factors and swaps components if ReverseUV is set.
func (cfg GridConfig) ApplyUV(uv ms2.Vec) ms2.Vec {
	cfg = cfg.withDefaults()
	if cfg.ReverseUV {
		return ms2.Vec{X: uv.Y * cfg.UVFactors.Y, Y: uv.X * cfg.UVFactors.X}
	}
	return ms2.Vec{X: uv.X * cfg.UVFactors.X, Y: uv.Y * cfg.UVFactors.Y}
}

// BuildGrid samples surf at alpha = i/Rows, beta = j/Cols for every grid
// point and returns the strip indexed mesh.
func BuildGrid(surf Parametric, cfg GridConfig) (Mesh, error) {
	if surf == nil {
		return Mesh{}, errors.New("nil parametric surface")
	} else if err := cfg.Validate(); err != nil {
		return Mesh{}, err
	}
	cfg = cfg.withDefaults()
	rows, cols := cfg.Rows, cfg.Cols
	m := Mesh{Mode: TriangleStrip, Rows: rows, Cols: cols}
	m.Grow((rows + 1) * (cols + 1))
	for i := 0; i <= rows; i++ {
		alpha := float32(i) / float32(rows)
		for j := 0; j <= cols; j++ {
			beta := float32(j) / float32(cols)
			v := surf.PointData(alpha, beta)
			v.UV = cfg.ApplyUV(v.UV)
			m.AppendVertex(v)
		}
	}
	m.Index = StripIndex(rows, cols)
	return m, nil
}

// CurveLines builds a line strip mesh through points. Useful for
// previewing control polygons and discretized curves.
func CurveLines(points, tangents []ms3.Vec) (Mesh, error) {
	if len(points) < 2 {
		return Mesh{}, fmt.Errorf("line strip needs at least 2 points, got %d", len(points))
	} else if tangents != nil && len(tangents) != len(points) {
		return Mesh{}, fmt.Errorf("got %d tangents for %d points", len(tangents), len(points))
	}
	m := Mesh{Mode: LineStrip, Cols: len(points) - 1}
	m.Grow(len(points))
	for i, p := range points {
		v := Vertex{P: p, UV: ms2.Vec{X: float32(i) / float32(len(points)-1)}}
		if tangents != nil {
			v.T = tangents[i]
		}
		m.AppendVertex(v)
	}
	m.Index = FanIndex(len(points))
	return m, nil
}
