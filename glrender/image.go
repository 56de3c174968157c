package glrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// RenderMode selects how meshes are shaded.
type RenderMode uint8

const (
	// RenderSmooth shades with interpolated normals and a directional light,
	// modulating the texture if one is set.
	RenderSmooth RenderMode = iota
	// RenderNormal colors each pixel with its interpolated normal mapped from [-1,1] to [0,1].
	RenderNormal
	// RenderWireframe draws triangle edges only.
	RenderWireframe
	numRenderModes
)

func (rm RenderMode) String() string {
	switch rm {
	case RenderSmooth:
		return "smooth"
	case RenderNormal:
		return "normal"
	case RenderWireframe:
		return "wireframe"
	}
	return fmt.Sprintf("RenderMode(%d)", uint8(rm))
}

// ImageConfig configures an [ImageRenderer]. The zero value renders smooth
// shaded meshes seen from +z with the camera fit to the mesh bounds.
type ImageConfig struct {
	Mode RenderMode
	// Eye and Target place the camera. If both are equal the camera is fit to the bounds of the rendered meshes.
	Eye, Target ms3.Vec
	// Up is the camera's up direction. Zero means +y.
	Up ms3.Vec
	// FOV is the vertical field of view in radians. Zero means π/4.
	FOV float32
	// Light is the direction towards the light. Zero means a light above, right of and behind the camera.
	Light ms3.Vec
	// Color is the base surface and wire color. Nil means light gray.
	Color color.Color
	// Background fills pixels not covered by geometry. Nil means opaque black.
	Background color.Color
	// Texture is sampled with wrapping texture coordinates in [RenderSmooth] mode.
	Texture image.Image
	// Model transforms mesh positions before projection. The zero matrix is treated as identity.
	Model ms3.Mat4
}

// ImageRenderer is a CPU z-buffer rasterizer used for previews and tests.
type ImageRenderer struct {
	cfg  ImageConfig
	zbuf []float32
}

// NewImageRenderer returns an ImageRenderer with cfg's defaults applied.
func NewImageRenderer(cfg ImageConfig) (*ImageRenderer, error) {
	if cfg.Mode >= numRenderModes {
		return nil, fmt.Errorf("invalid render mode %s", cfg.Mode)
	}
	if cfg.FOV == 0 {
		cfg.FOV = math32.Pi / 4
	} else if !(cfg.FOV > 0 && cfg.FOV < math32.Pi) {
		return nil, errors.New("field of view must be in (0, π)")
	}
	if cfg.Up == (ms3.Vec{}) {
		cfg.Up = ms3.Vec{Y: 1}
	}
	if cfg.Light == (ms3.Vec{}) {
		cfg.Light = ms3.Vec{X: 0.5, Y: 1, Z: 0.75}
	}
	cfg.Light = ms3.Unit(cfg.Light)
	if cfg.Color == nil {
		cfg.Color = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
	return &ImageRenderer{cfg: cfg}, nil
}

// Render clears img with the background color and draws the meshes, covers
// included. Line strip meshes are drawn as lines in every mode.
func (ir *ImageRenderer) Render(img setImage, meshes ...*glmesh.Mesh) error {
	if len(meshes) == 0 {
		return glmesh.ErrEmptyMesh
	}
	for _, m := range meshes {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return errors.New("empty image")
	}
	cam, err := ir.camera(meshes, w, h)
	if err != nil {
		return err
	}
	npix := w * h
	if cap(ir.zbuf) < npix {
		ir.zbuf = make([]float32, npix)
	}
	ir.zbuf = ir.zbuf[:npix]
	for i := range ir.zbuf {
		ir.zbuf[i] = math32.Inf(1)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, ir.cfg.Background)
		}
	}
	r := raster{ir: ir, cam: cam, img: img, bounds: bounds}
	var tris [][3]uint32
	for _, m := range meshes {
		if m.Mode == glmesh.LineStrip {
			r.drawLineStrip(&m.Buffers, m.Index)
			continue
		}
		tris = m.TriangleIndices(tris[:0])
		r.drawTriangles(&m.Buffers, tris)
		for i := range m.Covers {
			tris = m.Covers[i].TriangleIndices(tris[:0])
			r.drawTriangles(&m.Covers[i].Buffers, tris)
		}
	}
	return nil
}

// camera is a perspective pinhole camera.
type camera struct {
	eye                   ms3.Vec
	right, up, forward    ms3.Vec
	focal                 float32 // Cotangent of half the vertical field of view.
	halfWidth, halfHeight float32
}

const nearPlane = 1e-3

func (ir *ImageRenderer) camera(meshes []*glmesh.Mesh, w, h int) (camera, error) {
	eye, target := ir.cfg.Eye, ir.cfg.Target
	if eye == target {
		bb := ir.modelBounds(meshes)
		target = bb.Center()
		radius := bb.Diagonal() / 2
		dist := radius/math32.Sin(ir.cfg.FOV/2) + nearPlane
		eye = ms3.Add(target, ms3.Vec{Z: dist})
	}
	forward := ms3.Unit(ms3.Sub(target, eye))
	right := ms3.Cross(forward, ir.cfg.Up)
	if ms3.Norm(right) < 1e-6 {
		return camera{}, errors.New("camera up direction parallel to view direction")
	}
	right = ms3.Unit(right)
	return camera{
		eye:        eye,
		right:      right,
		up:         ms3.Cross(right, forward),
		forward:    forward,
		focal:      1 / math32.Tan(ir.cfg.FOV/2),
		halfWidth:  float32(w) / 2,
		halfHeight: float32(h) / 2,
	}, nil
}

func (ir *ImageRenderer) modelBounds(meshes []*glmesh.Mesh) ms3.Box {
	var bb ms3.Box
	first := true
	add := func(b *glmesh.Buffers) {
		for _, p := range b.Positions {
			p = ir.position(p)
			if first {
				bb = ms3.Box{Min: p, Max: p}
				first = false
				continue
			}
			bb.Min = ms3.MinElem(bb.Min, p)
			bb.Max = ms3.MaxElem(bb.Max, p)
		}
	}
	for _, m := range meshes {
		add(&m.Buffers)
		for i := range m.Covers {
			add(&m.Covers[i].Buffers)
		}
	}
	return bb
}

func (ir *ImageRenderer) position(p ms3.Vec) ms3.Vec {
	if ir.cfg.Model == (ms3.Mat4{}) {
		return p
	}
	return ir.cfg.Model.MulPosition(p)
}

func (ir *ImageRenderer) direction(v ms3.Vec) ms3.Vec {
	if ir.cfg.Model == (ms3.Mat4{}) {
		return v
	}
	return ms3.Sub(ir.cfg.Model.MulPosition(v), ir.cfg.Model.MulPosition(ms3.Vec{}))
}

// project returns the pixel coordinates and view depth of world point p.
func (c *camera) project(p ms3.Vec) (screen ms2.Vec, depth float32) {
	d := ms3.Sub(p, c.eye)
	depth = ms3.Dot(d, c.forward)
	x := ms3.Dot(d, c.right) / depth
	y := ms3.Dot(d, c.up) / depth
	return ms2.Vec{
		X: c.halfWidth + c.focal*x*c.halfHeight,
		Y: c.halfHeight - c.focal*y*c.halfHeight,
	}, depth
}

type raster struct {
	ir     *ImageRenderer
	cam    camera
	img    setImage
	bounds image.Rectangle
}

type rasterVertex struct {
	screen ms2.Vec
	depth  float32
	normal ms3.Vec
	uv     ms2.Vec
}

func (r *raster) drawTriangles(b *glmesh.Buffers, tris [][3]uint32) {
	var v [3]rasterVertex
	for _, tri := range tris {
		clipped := false
		for k, idx := range tri {
			screen, depth := r.cam.project(r.ir.position(b.Positions[idx]))
			if depth < nearPlane {
				clipped = true
				break
			}
			v[k] = rasterVertex{
				screen: screen,
				depth:  depth,
				normal: r.ir.direction(b.Normals[idx]),
				uv:     b.UV[idx],
			}
		}
		if clipped {
			continue
		}
		if r.ir.cfg.Mode == RenderWireframe {
			r.line(v[0].screen, v[1].screen)
			r.line(v[1].screen, v[2].screen)
			r.line(v[2].screen, v[0].screen)
			continue
		}
		r.fill(&v)
	}
}

// drawLineStrip draws line strips in every render mode with the base color.
func (r *raster) drawLineStrip(b *glmesh.Buffers, index []uint32) {
	for i := 1; i < len(index); i++ {
		a, da := r.cam.project(r.ir.position(b.Positions[index[i-1]]))
		c, dc := r.cam.project(r.ir.position(b.Positions[index[i]]))
		if da < nearPlane || dc < nearPlane {
			continue
		}
		r.line(a, c)
	}
}

func edge(a, b, p ms2.Vec) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func (r *raster) fill(v *[3]rasterVertex) {
	s0, s1, s2 := v[0].screen, v[1].screen, v[2].screen
	area := edge(s0, s1, s2)
	if math32.Abs(area) < 1e-12 {
		return
	}
	w, h := r.bounds.Dx(), r.bounds.Dy()
	minX := clampi(int(math32.Floor(min(s0.X, s1.X, s2.X))), 0, w-1)
	maxX := clampi(int(math32.Ceil(max(s0.X, s1.X, s2.X))), 0, w-1)
	minY := clampi(int(math32.Floor(min(s0.Y, s1.Y, s2.Y))), 0, h-1)
	maxY := clampi(int(math32.Ceil(max(s0.Y, s1.Y, s2.Y))), 0, h-1)
	inv := 1 / area
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			p := ms2.Vec{X: float32(px) + 0.5, Y: float32(py) + 0.5}
			w0 := edge(s1, s2, p) * inv
			w1 := edge(s2, s0, p) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			depth := w0*v[0].depth + w1*v[1].depth + w2*v[2].depth
			zi := py*w + px
			if depth >= r.ir.zbuf[zi] {
				continue
			}
			r.ir.zbuf[zi] = depth
			n := ms3.Add(ms3.Add(ms3.Scale(w0, v[0].normal), ms3.Scale(w1, v[1].normal)), ms3.Scale(w2, v[2].normal))
			uv := ms2.Add(ms2.Add(ms2.Scale(w0, v[0].uv), ms2.Scale(w1, v[1].uv)), ms2.Scale(w2, v[2].uv))
			r.img.Set(px+r.bounds.Min.X, py+r.bounds.Min.Y, r.shade(n, uv))
		}
	}
}

func (r *raster) shade(n ms3.Vec, uv ms2.Vec) color.Color {
	if ms3.Norm(n) < 1e-12 {
		n = ms3.Scale(-1, r.cam.forward)
	}
	n = ms3.Unit(n)
	cfg := &r.ir.cfg
	if cfg.Mode == RenderNormal {
		return color.RGBA{
			R: unitToByte(0.5*n.X + 0.5),
			G: unitToByte(0.5*n.Y + 0.5),
			B: unitToByte(0.5*n.Z + 0.5),
			A: 255,
		}
	}
	// Two sided lighting: flip normals facing away from the camera.
	if ms3.Dot(n, r.cam.forward) > 0 {
		n = ms3.Scale(-1, n)
	}
	const ambient = 0.25
	intensity := ambient + (1-ambient)*math32.Max(0, ms3.Dot(n, cfg.Light))
	base := cfg.Color
	if cfg.Texture != nil {
		base = sampleWrap(cfg.Texture, uv)
	}
	cr, cg, cb, _ := base.RGBA()
	return color.RGBA{
		R: unitToByte(intensity * float32(cr) / 0xffff),
		G: unitToByte(intensity * float32(cg) / 0xffff),
		B: unitToByte(intensity * float32(cb) / 0xffff),
		A: 255,
	}
}

// line draws a segment with Bresenham's algorithm, clipping pixels outside the image.
func (r *raster) line(a, b ms2.Vec) {
	x0, y0 := int(math32.Floor(a.X)), int(math32.Floor(a.Y))
	x1, y1 := int(math32.Floor(b.X)), int(math32.Floor(b.Y))
	dx, dy := absi(x1-x0), -absi(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	w, h := r.bounds.Dx(), r.bounds.Dy()
	errAcc := dx + dy
	for {
		if x0 >= 0 && x0 < w && y0 >= 0 && y0 < h {
			r.img.Set(x0+r.bounds.Min.X, y0+r.bounds.Min.Y, r.ir.cfg.Color)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

// sampleWrap returns the texel nearest to uv with repeat wrapping. v grows
// upwards in texture space while image rows grow downwards.
func sampleWrap(tex image.Image, uv ms2.Vec) color.Color {
	bb := tex.Bounds()
	u := uv.X - math32.Floor(uv.X)
	v := uv.Y - math32.Floor(uv.Y)
	x := clampi(int(u*float32(bb.Dx())), 0, bb.Dx()-1)
	y := clampi(int((1-v)*float32(bb.Dy())), 0, bb.Dy()-1)
	return tex.At(bb.Min.X+x, bb.Min.Y+y)
}

func unitToByte(f float32) uint8 {
	if f <= 0 {
		return 0
	} else if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

func absi(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
