// Package meshaux provides helpers to export, preview and view meshes with
// little setup. Applications with specific needs should use packages
// glmesh, glrender and glbuild directly.
package meshaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/soypat/gsweep"
	"github.com/soypat/gsweep/glmesh"
	"github.com/soypat/gsweep/glrender"
	"github.com/soypat/gsweep/scene"
)

type RenderConfig struct {
	STLOutput io.Writer
	OBJOutput io.Writer
	PNGOutput io.Writer
	// PNGWidth and PNGHeight are the preview dimensions. Zero values default to 512.
	PNGWidth, PNGHeight int
	// Image configures the preview camera and shading.
	Image  glrender.ImageConfig
	Silent bool
}

// Render is an auxiliary function to write meshes to the outputs set in cfg.
func Render(cfg RenderConfig, meshes ...*glmesh.Mesh) (err error) {
	if cfg.STLOutput == nil && cfg.OBJOutput == nil && cfg.PNGOutput == nil {
		return errors.New("Render requires output parameter in config")
	} else if len(meshes) == 0 {
		return glmesh.ErrEmptyMesh
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	var nverts int
	for i, m := range meshes {
		if err = m.Validate(); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		nverts += m.VertexCount()
		for j := range m.Covers {
			nverts += m.Covers[j].VertexCount()
		}
	}

	if cfg.STLOutput != nil {
		watch := stopwatch()
		renderer, err := glrender.NewMeshRenderer(meshes...)
		if err != nil {
			return err
		}
		triangles, err := glrender.RenderAll(renderer, nil)
		if err != nil {
			return fmt.Errorf("rendering triangles: %s", err)
		}
		log("rendered", len(triangles), "triangles from", nverts, "vertices in", watch())
		watch = stopwatch()
		_, err = glrender.WriteBinarySTL(cfg.STLOutput, triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		log("wrote", outputName(cfg.STLOutput, "STL"), "in", watch())
	}

	if cfg.OBJOutput != nil {
		watch := stopwatch()
		n, err := glmesh.WriteOBJ(cfg.OBJOutput, meshes...)
		if err != nil {
			return fmt.Errorf("writing OBJ file: %s", err)
		}
		log("wrote", outputName(cfg.OBJOutput, "OBJ"), n, "bytes in", watch())
	}

	if cfg.PNGOutput != nil {
		watch := stopwatch()
		img, err := RenderImage(cfg.Image, cfg.PNGWidth, cfg.PNGHeight, meshes...)
		if err != nil {
			return err
		}
		err = png.Encode(cfg.PNGOutput, img)
		if err != nil {
			return fmt.Errorf("encoding PNG: %s", err)
		}
		log("wrote", outputName(cfg.PNGOutput, "PNG"), "in", watch())
	}
	return nil
}

// RenderImage rasterizes meshes into a new width×height image. Zero
// dimensions default to 512.
func RenderImage(cfg glrender.ImageConfig, width, height int, meshes ...*glmesh.Mesh) (*image.RGBA, error) {
	if width == 0 {
		width = 512
	}
	if height == 0 {
		height = 512
	}
	if width < 0 || height < 0 {
		return nil, errors.New("negative image dimension")
	}
	renderer, err := glrender.NewImageRenderer(cfg)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	err = renderer.Render(img, meshes...)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// RenderPNGFile renders meshes with cfg and saves the result to a PNG file with said filename.
func RenderPNGFile(filename string, cfg glrender.ImageConfig, width, height int, meshes ...*glmesh.Mesh) error {
	img, err := RenderImage(cfg, width, height, meshes...)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	return fp.Sync()
}

type UIConfig struct {
	Width, Height int
	// Context cancels the UI loop when done.
	Context context.Context
	// TextureSize is the side of generated textures. Zero defaults to 256.
	TextureSize int
}

// UI opens a window showing the scene built from props with an orbital
// camera. Drag to orbit, scroll to zoom, T cycles textures, R cycles render
// modes, space toggles rotation and keys 1 through 7 select the shape.
// Requires cgo.
func UI(bld *gsweep.Builder, props scene.Props, cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("UI requires positive window dimensions")
	}
	if cfg.TextureSize == 0 {
		cfg.TextureSize = 256
	}
	s, err := scene.New(bld, props)
	if err != nil {
		return err
	}
	return ui(bld, s, cfg)
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
