//go:build !tinygo && cgo

package meshaux

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gsweep"
	"github.com/soypat/gsweep/glbuild"
	"github.com/soypat/gsweep/glmesh"
	"github.com/soypat/gsweep/scene"
)

// drawCall is a contiguous range of the index buffer drawn with one primitive mode.
type drawCall struct {
	mode       uint32
	count      int32
	offset     int // Byte offset into the index buffer.
	baseVertex int32
}

// gpuMesh holds the buffers of a mesh uploaded to the GPU.
type gpuMesh struct {
	vao, vbo, ebo uint32
	calls         []drawCall
}

func uploadMesh(m *glmesh.Mesh) *gpuMesh {
	var vertices []float32
	var indices []uint32
	var calls []drawCall
	var base int32
	addGroup := func(b *glmesh.Buffers, mode uint32, rowLen, rows int) {
		vertices = glbuild.AppendVertexData(vertices, b)
		for r := 0; r < rows; r++ {
			calls = append(calls, drawCall{
				mode:       mode,
				count:      int32(rowLen),
				offset:     4 * len(indices),
				baseVertex: base,
			})
			indices = append(indices, b.Index[r*rowLen:(r+1)*rowLen]...)
		}
		base += int32(b.VertexCount())
	}
	switch m.Mode {
	case glmesh.TriangleStrip:
		addGroup(&m.Buffers, gl.TRIANGLE_STRIP, m.StripLen(), m.Rows)
	case glmesh.LineStrip:
		addGroup(&m.Buffers, gl.LINE_STRIP, len(m.Index), 1)
	default:
		addGroup(&m.Buffers, gl.TRIANGLE_FAN, len(m.Index), 1)
	}
	for i := range m.Covers {
		c := &m.Covers[i]
		addGroup(&c.Buffers, gl.TRIANGLE_FAN, len(c.Index), 1)
	}

	g := &gpuMesh{calls: calls}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	}
	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	}
	for _, attr := range glbuild.Attributes() {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointer(attr.Location, attr.Components, gl.FLOAT, false, glbuild.VertexStride, gl.PtrOffset(attr.Offset))
	}
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	for _, c := range g.calls {
		gl.DrawElementsBaseVertex(c.mode, c.count, gl.UNSIGNED_INT, gl.PtrOffset(c.offset), c.baseVertex)
	}
}

func (g *gpuMesh) delete() {
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteVertexArrays(1, &g.vao)
}

type uniforms struct {
	model, view, projection, eye, texture int32
}

func compileProgram(p *glbuild.Programmer, cfg glbuild.ShaderConfig) (glgl.Program, uniforms, error) {
	var u uniforms
	err := p.SetConfig(cfg)
	if err != nil {
		return glgl.Program{}, u, err
	}
	vert, frag, err := p.AppendProgram(nil, nil)
	if err != nil {
		return glgl.Program{}, u, err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   string(vert),
		Fragment: string(frag),
	})
	if err != nil {
		return glgl.Program{}, u, fmt.Errorf("%s\n\n%w", frag, err)
	}
	prog.Bind()
	for _, loc := range []struct {
		dst  *int32
		name string
	}{
		{&u.model, glbuild.UniformModel},
		{&u.view, glbuild.UniformView},
		{&u.projection, glbuild.UniformProjection},
		{&u.eye, glbuild.UniformEye},
	} {
		*loc.dst, err = prog.UniformLocation(loc.name + "\x00")
		if err != nil {
			return prog, u, err
		}
	}
	u.texture = -1
	if cfg.Textured {
		u.texture, err = prog.UniformLocation(glbuild.UniformTexture + "\x00")
		if err != nil {
			return prog, u, err
		}
	}
	return prog, u, nil
}

func uploadTexture(img *image.RGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}

func setMat4(loc int32, m ms3.Mat4) {
	cm := glbuild.ColumnMajor(m)
	gl.UniformMatrix4fv(loc, 1, false, &cm[0])
}

func ui(bld *gsweep.Builder, s *scene.Scene, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()

	programmer := glbuild.NewDefaultProgrammer()
	shaderCfg := programmer.Config()
	var (
		prog     glgl.Program
		unif     uniforms
		textures = map[scene.Texture]uint32{}
		mesh     *gpuMesh
	)
	// reload recompiles the program and uploads the mesh after a change of scene properties.
	reload := func(rebuild bool) error {
		if rebuild {
			if err := s.Rebuild(bld); err != nil {
				return err
			}
		}
		if mesh != nil {
			mesh.delete()
		}
		mesh = uploadMesh(s.Mesh())
		shaderCfg.Shading = s.Props.Render.Shading()
		shaderCfg.Textured = s.Props.Texture != scene.TextureNone
		shaderCfg.Color = s.Props.BaseColor()
		if prog.ID() != 0 {
			prog.Delete()
		}
		prog, unif, err = compileProgram(programmer, shaderCfg)
		if err != nil {
			return err
		}
		if shaderCfg.Textured {
			tex, ok := textures[s.Props.Texture]
			if !ok {
				tex = uploadTexture(s.Props.Texture.Image(cfg.TextureSize).(*image.RGBA))
				textures[s.Props.Texture] = tex
			}
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, tex)
			gl.Uniform1i(unif.texture, 0)
		}
		if s.Props.Render == scene.RenderWireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
		return nil
	}
	if err = reload(false); err != nil {
		return err
	}
	var pending struct {
		reload, rebuild bool
	}

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch {
		case key == glfw.KeyEscape:
			w.SetShouldClose(true)
		case key == glfw.KeyT:
			s.NextTexture()
			pending.reload = true
		case key == glfw.KeyR:
			s.NextRender()
			pending.reload = true
		case key == glfw.KeySpace:
			s.Props.Rotate = !s.Props.Rotate
		case key >= glfw.Key1 && key <= glfw.Key7:
			s.Props.Shape = scene.ShapeKind(key - glfw.Key1)
			pending.reload = true
			pending.rebuild = true
		}
	})
	var (
		lastMouseX, lastMouseY float64
		firstMouseMove         = true
		isMousePressed         = false
	)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		s.Camera.Drag(float32(xpos-lastMouseX), float32(ypos-lastMouseY))
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		s.Camera.Zoom(float32(-yoff))
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
		} else if action == glfw.Release {
			isMousePressed = false
			s.Camera.Release()
		}
	})

	gl.Enable(gl.DEPTH_TEST)
	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if pending.reload {
			err = reload(pending.rebuild)
			if err != nil {
				log.Println("reloading scene:", err)
				bld.ClearErrors()
			}
			pending.reload, pending.rebuild = false, false
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		s.Tick()
		prog.Bind()
		aspect := float32(width) / math32.Max(1, float32(height))
		setMat4(unif.projection, scene.Perspective(math32.Pi/4, aspect, 0.1, 1000))
		setMat4(unif.view, s.Camera.View())
		eye := s.Camera.Position()
		gl.Uniform3f(unif.eye, eye.X, eye.Y, eye.Z)
		s.Object.Walk(scene.Compose(), func(o *scene.Object, model ms3.Mat4) {
			if o.Mesh == nil {
				return
			}
			setMat4(unif.model, model)
			mesh.draw()
		})
		window.SwapBuffers()
		glfw.PollEvents()
		time.Sleep(time.Second / 60)
	}
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, "gsweep mesh viewer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
