package scene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep"
	"github.com/soypat/gsweep/glmesh"
)

const (
	// FrameStep is the time advanced by each Tick.
	FrameStep = float32(1) / 60
	// timeWrap resets the scene clock to keep float32 time precise.
	timeWrap = 100
)

// Scene is a single animated object seen by an orbital camera.
type Scene struct {
	Props  Props
	Object *Object
	Camera *Orbital
	T      float32

	mesh glmesh.Mesh
}

// New builds the scene's shape from props. The object is tilted 60 degrees
// about (-1,-1,0).
func New(bld *gsweep.Builder, props Props) (*Scene, error) {
	s := &Scene{
		Props:  props,
		Camera: NewOrbital(ms3.Vec{}, ms3.Vec{}),
	}
	s.Object = NewObject(&s.mesh, props.BaseColor(), Rotate(math32.Pi/3, ms3.Vec{X: -1, Y: -1}))
	if err := s.Rebuild(bld); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild rebuilds the mesh after a change of shape or dimensions.
func (s *Scene) Rebuild(bld *gsweep.Builder) error {
	m, err := s.Props.Build(bld)
	if err != nil {
		return err
	}
	s.mesh = m
	s.Object.Color = s.Props.BaseColor()
	s.Object.Texture = s.Props.Texture
	return nil
}

// Mesh returns the current shape mesh.
func (s *Scene) Mesh() *glmesh.Mesh { return &s.mesh }

// Tick advances the clock one frame, updates the camera and applies the
// enabled animations.
func (s *Scene) Tick() {
	s.Camera.Update()
	s.T += FrameStep
	if s.T >= timeWrap {
		s.T = 0
	}
	Animate(s.Object, s.T, s.Props.Animators()...)
}

// NextTexture cycles the object texture. Textures are shown in smooth render
// mode only so the render mode is reset.
func (s *Scene) NextTexture() {
	s.Props.Texture = s.Props.Texture.Next()
	s.Props.Render = RenderSmooth
	s.Object.Texture = s.Props.Texture
}

// NextRender cycles the render mode and removes the texture.
func (s *Scene) NextRender() {
	s.Props.Render = s.Props.Render.Next()
	s.Props.Texture = TextureNone
	s.Object.Texture = TextureNone
}
