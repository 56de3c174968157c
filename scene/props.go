package scene

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep"
	"github.com/soypat/gsweep/glbuild"
	"github.com/soypat/gsweep/glmesh"
	"github.com/soypat/gsweep/glrender"
)

// ShapeKind selects the primitive displayed by a scene.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeCylinder
	ShapePlane
	ShapeTorus
	ShapeCone
	ShapeCube
	ShapeSineTube
	numShapes
)

var shapeNames = [numShapes]string{
	ShapeSphere:   "sphere",
	ShapeCylinder: "cylinder",
	ShapePlane:    "plane",
	ShapeTorus:    "torus",
	ShapeCone:     "cone",
	ShapeCube:     "cube",
	ShapeSineTube: "sinetube",
}

func (s ShapeKind) String() string {
	if s < numShapes {
		return shapeNames[s]
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(s))
}

// ParseShape returns the shape named name, ignoring case.
func ParseShape(name string) (ShapeKind, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Texture selects a procedural surface texture.
type Texture uint8

const (
	TextureNone Texture = iota
	TextureLava
	TextureGrass
	TextureWater
	numTextures
)

func (t Texture) String() string {
	switch t {
	case TextureNone:
		return "NONE"
	case TextureLava:
		return "LAVA"
	case TextureGrass:
		return "GRASS"
	case TextureWater:
		return "WATER"
	}
	return fmt.Sprintf("Texture(%d)", uint8(t))
}

// Next cycles NONE, LAVA, GRASS, WATER and back to NONE.
func (t Texture) Next() Texture {
	switch t {
	case TextureNone:
		return TextureLava
	case TextureLava:
		return TextureGrass
	case TextureGrass:
		return TextureWater
	}
	return TextureNone
}

// Image returns a size×size rendition of the texture or nil for TextureNone.
func (t Texture) Image(size int) image.Image {
	if t == TextureNone || t >= numTextures || size <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	inv := 1 / float32(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u, v := float32(x)*inv, float32(y)*inv
			img.SetRGBA(x, y, t.texel(u, v))
		}
	}
	return img
}

// texel evaluates periodic patterns so textures tile seamlessly.
func (t Texture) texel(u, v float32) color.RGBA {
	const tau = 2 * math32.Pi
	switch t {
	case TextureLava:
		w := 0.5 + 0.25*math32.Sin(tau*(3*u+math32.Sin(tau*2*v)/4)) + 0.25*math32.Sin(tau*5*v)
		return color.RGBA{R: 255, G: unitByte(0.2 + 0.6*w*w), B: unitByte(0.1 * w), A: 255}
	case TextureGrass:
		w := 0.5 + 0.5*math32.Sin(tau*(16*u+math32.Sin(tau*3*v)))
		return color.RGBA{R: unitByte(0.15 + 0.15*w), G: unitByte(0.45 + 0.35*w), B: unitByte(0.1), A: 255}
	case TextureWater:
		w := 0.5 + 0.25*math32.Sin(tau*(4*v+math32.Sin(tau*u)/2)) + 0.25*math32.Sin(tau*6*u)
		return color.RGBA{R: unitByte(0.1 * w), G: unitByte(0.35 + 0.25*w), B: unitByte(0.6 + 0.4*w), A: 255}
	}
	return color.RGBA{A: 255}
}

func unitByte(f float32) uint8 {
	return uint8(min(max(f, 0), 1)*255 + 0.5)
}

// RenderMode selects how a scene is shaded.
type RenderMode uint8

const (
	RenderSmooth RenderMode = iota
	RenderNormal
	RenderWireframe
)

func (r RenderMode) String() string {
	switch r {
	case RenderSmooth:
		return "SMOOTH"
	case RenderNormal:
		return "NORMAL"
	case RenderWireframe:
		return "WIREFRAME"
	}
	return fmt.Sprintf("RenderMode(%d)", uint8(r))
}

// Next cycles SMOOTH, NORMAL, WIREFRAME and back to SMOOTH.
func (r RenderMode) Next() RenderMode {
	switch r {
	case RenderSmooth:
		return RenderNormal
	case RenderNormal:
		return RenderWireframe
	}
	return RenderSmooth
}

// ImageMode returns the equivalent CPU rasterizer mode.
func (r RenderMode) ImageMode() glrender.RenderMode {
	switch r {
	case RenderNormal:
		return glrender.RenderNormal
	case RenderWireframe:
		return glrender.RenderWireframe
	}
	return glrender.RenderSmooth
}

// Shading returns the equivalent GPU fragment shading.
func (r RenderMode) Shading() glbuild.Shading {
	switch r {
	case RenderNormal:
		return glbuild.ShadeNormal
	case RenderWireframe:
		return glbuild.ShadeWireframe
	}
	return glbuild.ShadeSmooth
}

// Props are the user selectable properties of a viewer session.
type Props struct {
	Shape   ShapeKind
	Texture Texture
	Render  RenderMode
	// Color is the RGB base color of the shape.
	Color color.RGBA

	Rotate      bool
	RotateSpeed float32
	Resize      bool
	ResizeSpeed float32

	Sphere   struct{ Radius float32 }
	Cylinder struct{ Radius, Height float32 }
	Plane    struct{ Width, Height float32 }
	Torus    struct{ Ring, Tube float32 }
	Cone     struct{ Radius, Height float32 }
	Cube     struct{ Width, Height, Depth float32 }
	SineTube struct{ Radius, Length, Amplitude, Height float32 }
}

// DefaultProps returns a rotating torus with normal coloring and the default
// dimensions of every shape.
func DefaultProps() Props {
	var p Props
	p.Shape = ShapeTorus
	p.Texture = TextureNone
	p.Render = RenderNormal
	p.Color = color.RGBA{R: 100, G: 200, B: 100, A: 255}
	p.Rotate = true
	p.RotateSpeed = 1
	p.ResizeSpeed = 1
	p.Sphere.Radius = 4
	p.Cylinder.Radius, p.Cylinder.Height = 4, 7
	p.Plane.Width, p.Plane.Height = 5, 5
	p.Torus.Ring, p.Torus.Tube = 4, 3
	p.Cone.Radius, p.Cone.Height = 2, 4
	p.Cube.Width, p.Cube.Height, p.Cube.Depth = 2, 2, 3
	p.SineTube.Radius, p.SineTube.Length, p.SineTube.Amplitude, p.SineTube.Height = 2, 1, 0.5, 4
	return p
}

// Build builds the selected shape with bld.
func (p *Props) Build(bld *gsweep.Builder) (glmesh.Mesh, error) {
	var m glmesh.Mesh
	switch p.Shape {
	case ShapeSphere:
		m = bld.NewSphere(p.Sphere.Radius)
	case ShapeCylinder:
		m = bld.NewCylinder(p.Cylinder.Radius, p.Cylinder.Height)
	case ShapePlane:
		m = bld.NewPlane(p.Plane.Width, p.Plane.Height)
	case ShapeTorus:
		m = bld.NewTorus(p.Torus.Tube, p.Torus.Ring)
	case ShapeCone:
		m = bld.NewCone(p.Cone.Radius, p.Cone.Height)
	case ShapeCube:
		m = bld.NewCube(p.Cube.Width, p.Cube.Height, p.Cube.Depth)
	case ShapeSineTube:
		st := p.SineTube
		m = bld.NewSineTube(st.Radius, st.Length, st.Amplitude, st.Height)
	default:
		return m, fmt.Errorf("invalid shape %s", p.Shape)
	}
	return m, bld.Err()
}

// Animators returns the rotation and resize animators as configured.
func (p *Props) Animators() []Animator {
	return []Animator{
		{Animation: Resize{}, Enabled: p.Resize, Speed: p.ResizeSpeed},
		{Animation: Rotation{}, Enabled: p.Rotate, Speed: p.RotateSpeed},
	}
}

// BaseColor returns Color as an RGB vector in [0,1].
func (p *Props) BaseColor() ms3.Vec {
	return ms3.Vec{X: float32(p.Color.R) / 255, Y: float32(p.Color.G) / 255, Z: float32(p.Color.B) / 255}
}
