// Package gsweep builds renderable meshes of parametric primitives and swept
// surfaces. Shapes are assembled from curves of package curve and sweeps of
// package sweep and returned as [glmesh.Mesh] geometry records.
package gsweep

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

const (
	pi    = math32.Pi
	twoPi = 2 * math32.Pi
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Flags is a bitmask of values to control the functioning of the [Builder] type.
type Flags uint64

const (
	// FlagNoDimensionPanic controls panicking behavior on invalid shape dimension errors.
	// If set then these errors are stored in [Builder] and can be retrieved by calling [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
	// FlagRotationMinimizing orients sweep paths with [curve.RotationMinimizing]
	// frames instead of the fixed reference binormal.
	FlagRotationMinimizing
)

// Builder wraps all mesh primitive generation.
// Provides error handling strategies with panics or error accumulation during shape generation.
// The zero value builds 75×75 grids with unit UV factors.
type Builder struct {
	flags      Flags
	accumErrs  []error
	rows, cols int
	uvFactors  ms2.Vec
	reverseUV  bool
}

// Flags returns the current Builder's flags.
func (bld *Builder) Flags() Flags {
	return bld.flags
}

// SetFlags sets Builder flags.
func (bld *Builder) SetFlags(flags Flags) {
	bld.flags = flags
}

// SetResolution sets the grid divisions of subsequently built shapes. For
// sweeps rows are path levels and cols shape divisions. Zero values select
// [glmesh.DefaultResolution].
func (bld *Builder) SetResolution(rows, cols int) {
	if rows < 0 || cols < 0 {
		bld.shapeErrorf("negative resolution %dx%d", rows, cols)
		return
	}
	bld.rows, bld.cols = rows, cols
}

// Resolution returns the grid divisions used for new shapes.
func (bld *Builder) Resolution() (rows, cols int) {
	return bld.gridConfig().Resolution()
}

// SetUV sets texture coordinate scaling factors and whether u and v are swapped.
// Zero factors are taken as 1.
func (bld *Builder) SetUV(factors ms2.Vec, reverse bool) {
	bld.uvFactors = factors
	bld.reverseUV = reverse
}

func (bld *Builder) gridConfig() glmesh.GridConfig {
	return glmesh.GridConfig{
		Rows:      bld.rows,
		Cols:      bld.cols,
		UVFactors: bld.uvFactors,
		ReverseUV: bld.reverseUV,
	}
}

// Err returns errors accumulated during shape generation. Is always nil
// unless [FlagNoDimensionPanic] is set.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors clears accumulated errors such that [Builder.Err] returns nil on next call.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func (bld *Builder) shapeError(err error) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(err)
	}
	bld.accumErrs = append(bld.accumErrs, err)
}

func (*Builder) nilcurve(msg string) {
	panic("nil curve argument: " + msg)
}

func unit(v ms3.Vec) ms3.Vec {
	n := ms3.Norm(v)
	if n < epstol {
		return ms3.Vec{}
	}
	return ms3.Scale(1/n, v)
}
