package glbuild_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glbuild"
	"github.com/soypat/gsweep/glmesh"
)

func TestFragmentShading(t *testing.T) {
	for _, test := range []struct {
		cfg     glbuild.ShaderConfig
		want    []string
		notWant []string
	}{
		{
			cfg:     glbuild.ShaderConfig{Shading: glbuild.ShadeSmooth, Light: ms3.Vec{Y: 2}, Color: ms3.Vec{X: 1}},
			want:    []string{"const vec3 lightDir=vec3(0.,1.,0.);", "const vec3 baseColor=vec3(1.,0.,0.);", "col = baseColor"},
			notWant: []string{"sampler2D", "uvScale"},
		},
		{
			cfg:  glbuild.ShaderConfig{Shading: glbuild.ShadeSmooth, Light: ms3.Vec{Z: 1}, Textured: true},
			want: []string{"uniform sampler2D uTexture;", "const vec2 uvScale=vec2(1.,1.);", "texture(uTexture, vUV*uvScale)"},
		},
		{
			cfg:  glbuild.ShaderConfig{Shading: glbuild.ShadeSmooth, Light: ms3.Vec{Z: 1}, Textured: true, TextureScale: ms2.Vec{X: 2, Y: 1}},
			want: []string{"const vec2 uvScale=vec2(2.,1.);"},
		},
		{
			cfg:     glbuild.ShaderConfig{Shading: glbuild.ShadeNormal, Light: ms3.Vec{Z: 1}},
			want:    []string{"n*0.5 + 0.5"},
			notWant: []string{"intensity"},
		},
		{
			cfg:     glbuild.ShaderConfig{Shading: glbuild.ShadeWireframe, Light: ms3.Vec{Z: 1}},
			want:    []string{"fragColor = vec4(baseColor, 1.0);"},
			notWant: []string{"intensity"},
		},
	} {
		p := glbuild.NewDefaultProgrammer()
		if err := p.SetConfig(test.cfg); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		n, err := p.WriteFragmentShader(&buf)
		if err != nil {
			t.Fatal(err)
		} else if n != buf.Len() {
			t.Fatal("written length mismatch")
		}
		src := buf.String()
		if !strings.HasPrefix(src, glbuild.VersionStr) {
			t.Errorf("%s: missing version header", test.cfg.Shading)
		}
		for _, want := range test.want {
			if !strings.Contains(src, want) {
				t.Errorf("%s: missing %q in\n%s", test.cfg.Shading, want, src)
			}
		}
		for _, notWant := range test.notWant {
			if strings.Contains(src, notWant) {
				t.Errorf("%s: unexpected %q in\n%s", test.cfg.Shading, notWant, src)
			}
		}
	}
}

func TestVertexShaderAttributes(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	vert, frag, err := p.AppendProgram(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if vert[len(vert)-1] != 0 || frag[len(frag)-1] != 0 {
		t.Error("sources not NUL terminated")
	}
	src := string(vert)
	for _, attr := range glbuild.Attributes() {
		if !strings.Contains(src, ") in ") || !strings.Contains(src, " "+attr.Name+";") {
			t.Errorf("attribute %s not declared", attr.Name)
		}
	}
	for _, u := range []string{glbuild.UniformModel, glbuild.UniformView, glbuild.UniformProjection} {
		if !strings.Contains(src, "uniform mat4 "+u+";") {
			t.Errorf("uniform %s not declared", u)
		}
	}
}

func TestSetConfigErrors(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	for _, cfg := range []glbuild.ShaderConfig{
		{Shading: 100, Light: ms3.Vec{X: 1}},
		{},
		{Light: ms3.Vec{X: 1}, Ambient: 2},
	} {
		if p.SetConfig(cfg) == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestAppendVertexData(t *testing.T) {
	var b glmesh.Buffers
	b.AppendVertex(glmesh.Vertex{
		P:  ms3.Vec{X: 1, Y: 2, Z: 3},
		N:  ms3.Vec{Z: 1},
		T:  ms3.Vec{X: 1},
		B:  ms3.Vec{Y: 1},
		UV: ms2.Vec{X: 0.25, Y: 0.75},
	})
	got := glbuild.AppendVertexData(nil, &b)
	want := []float32{1, 2, 3, 0, 0, 1, 1, 0, 0, 0, 1, 0, 0.25, 0.75}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	if len(got)*4 != glbuild.VertexStride {
		t.Errorf("vertex stride %d does not match data length %d", glbuild.VertexStride, len(got))
	}
	attrs := glbuild.Attributes()
	last := attrs[len(attrs)-1]
	if last.Offset+4*int(last.Components) != glbuild.VertexStride {
		t.Error("attribute offsets do not span vertex stride")
	}
}

func TestMatrixLayout(t *testing.T) {
	m := ms3.NewMat4([]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	got := glbuild.ColumnMajor(m)
	want := [16]float32{1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15, 4, 8, 12, 16}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	decl := string(glbuild.AppendMat4Decl(nil, "m", m))
	if decl != "mat4 m=mat4(1.,5.,9.,13.,2.,6.,10.,14.,3.,7.,11.,15.,4.,8.,12.,16.);\n" {
		t.Errorf("unexpected declaration %q", decl)
	}
}
