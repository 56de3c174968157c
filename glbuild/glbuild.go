// Package glbuild generates OpenGL shader programs that draw sweep meshes
// and packs mesh buffers into the vertex layout those programs expect.
package glbuild

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsweep/glmesh"
)

const VersionStr = "#version 460\n"

// Shading selects the fragment shader's coloring.
type Shading uint8

const (
	// ShadeSmooth applies diffuse and ambient lighting to the base color or texture.
	ShadeSmooth Shading = iota
	// ShadeNormal colors fragments with their world space normal.
	ShadeNormal
	// ShadeWireframe outputs the flat base color. Meant to be drawn with polygon mode set to lines.
	ShadeWireframe
	numShading
)

func (s Shading) String() string {
	switch s {
	case ShadeSmooth:
		return "SMOOTH"
	case ShadeNormal:
		return "NORMAL"
	case ShadeWireframe:
		return "WIREFRAME"
	}
	return "Shading(" + strconv.Itoa(int(s)) + ")"
}

// Attribute describes a vertex attribute of the interleaved vertex layout.
type Attribute struct {
	Name       string
	Location   uint32
	Components int32
	// Offset of the attribute within a vertex in bytes.
	Offset int
}

// VertexStride is the size in bytes of one interleaved vertex.
const VertexStride = 4 * floatsPerVertex

const floatsPerVertex = 3 + 3 + 3 + 3 + 2

var attributes = [...]Attribute{
	{Name: "aPos", Location: 0, Components: 3, Offset: 0},
	{Name: "aNormal", Location: 1, Components: 3, Offset: 12},
	{Name: "aTangent", Location: 2, Components: 3, Offset: 24},
	{Name: "aBinormal", Location: 3, Components: 3, Offset: 36},
	{Name: "aUV", Location: 4, Components: 2, Offset: 48},
}

// Attributes returns the vertex attributes in the order they are interleaved.
func Attributes() []Attribute { return attributes[:] }

// Uniform names used by the generated programs.
const (
	UniformModel      = "uModel"
	UniformView       = "uView"
	UniformProjection = "uProjection"
	UniformTexture    = "uTexture"
	UniformEye        = "uEye"
)

// ShaderConfig configures the programs generated by a [Programmer].
type ShaderConfig struct {
	Shading Shading
	// Textured samples UniformTexture with the vertex texture coordinates in smooth shading.
	Textured bool
	// TextureScale multiplies texture coordinates before sampling. Zero means (1,1).
	TextureScale ms2.Vec
	// Color is the RGB base color in [0,1].
	Color ms3.Vec
	// Light is the direction towards the light. Need not be normalized.
	Light ms3.Vec
	// Ambient is the light intensity received by surfaces facing away from the light.
	Ambient float32
}

// Programmer implements shader generation for mesh rendering.
type Programmer struct {
	cfg     ShaderConfig
	scratch []byte
}

// NewDefaultProgrammer returns a Programmer for smooth shaded, untextured light gray meshes.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		cfg: ShaderConfig{
			Shading: ShadeSmooth,
			Color:   ms3.Vec{X: 0.8, Y: 0.8, Z: 0.8},
			Light:   ms3.Vec{X: 0.5, Y: 1, Z: 0.75},
			Ambient: 0.25,
		},
		scratch: make([]byte, 0, 2048),
	}
}

// Config returns the current shader configuration.
func (p *Programmer) Config() ShaderConfig { return p.cfg }

// SetConfig sets the configuration used by subsequent Write calls.
func (p *Programmer) SetConfig(cfg ShaderConfig) error {
	if cfg.Shading >= numShading {
		return fmt.Errorf("invalid shading %s", cfg.Shading)
	} else if cfg.Light == (ms3.Vec{}) {
		return errors.New("zero light direction")
	} else if cfg.Ambient < 0 || cfg.Ambient > 1 {
		return errors.New("ambient light must be in [0,1]")
	}
	p.cfg = cfg
	return nil
}

// WriteVertexShader writes the vertex shader source. It transforms positions by
// the model, view and projection uniforms and forwards world space normals,
// tangent frame and texture coordinates.
func (p *Programmer) WriteVertexShader(w io.Writer) (int, error) {
	b := append(p.scratch[:0], VersionStr...)
	for _, attr := range attributes {
		b = append(b, "layout(location = "...)
		b = strconv.AppendUint(b, uint64(attr.Location), 10)
		b = append(b, ") in "...)
		b = appendVecType(b, attr.Components)
		b = append(b, ' ')
		b = append(b, attr.Name...)
		b = append(b, ";\n"...)
	}
	b = append(b, `
uniform mat4 `+UniformModel+`;
uniform mat4 `+UniformView+`;
uniform mat4 `+UniformProjection+`;

out vec3 vPos;
out vec3 vNormal;
out vec3 vTangent;
out vec3 vBinormal;
out vec2 vUV;

void main() {
	vec4 world = `+UniformModel+` * vec4(aPos, 1.0);
	mat3 rot = mat3(`+UniformModel+`);
	vPos = world.xyz;
	vNormal = rot * aNormal;
	vTangent = rot * aTangent;
	vBinormal = rot * aBinormal;
	vUV = aUV;
	gl_Position = `+UniformProjection+` * `+UniformView+` * world;
}
`...)
	p.scratch = b
	return w.Write(b)
}

// WriteFragmentShader writes the fragment shader source for the configured shading.
func (p *Programmer) WriteFragmentShader(w io.Writer) (int, error) {
	cfg := p.cfg
	b := append(p.scratch[:0], VersionStr...)
	b = append(b, `in vec3 vPos;
in vec3 vNormal;
in vec3 vTangent;
in vec3 vBinormal;
in vec2 vUV;
out vec4 fragColor;

uniform vec3 `+UniformEye+`;
`...)
	if cfg.Textured {
		scale := cfg.TextureScale
		if scale == (ms2.Vec{}) {
			scale = ms2.Vec{X: 1, Y: 1}
		}
		b = append(b, "uniform sampler2D "+UniformTexture+";\n"...)
		b = append(b, "const "...)
		b = AppendVec2Decl(b, "uvScale", scale)
	}
	b = append(b, "const "...)
	b = AppendVec3Decl(b, "baseColor", cfg.Color)
	b = append(b, "const "...)
	b = AppendVec3Decl(b, "lightDir", ms3.Unit(cfg.Light))
	b = append(b, "const "...)
	b = AppendFloatDecl(b, "ambient", cfg.Ambient)
	b = append(b, "\nvoid main() {\n\tvec3 n = normalize(vNormal);\n"...)
	switch cfg.Shading {
	case ShadeNormal:
		b = append(b, "\tfragColor = vec4(n*0.5 + 0.5, 1.0);\n"...)
	case ShadeWireframe:
		b = append(b, "\tfragColor = vec4(baseColor, 1.0);\n"...)
	default:
		b = append(b, `	// Two sided lighting.
	if (dot(n, `+UniformEye+` - vPos) < 0.0) {
		n = -n;
	}
	float dif = max(dot(n, lightDir), 0.0);
	float intensity = ambient + (1.0-ambient)*dif;
`...)
		if cfg.Textured {
			b = append(b, "\tvec3 col = texture("+UniformTexture+", vUV*uvScale).rgb;\n"...)
		} else {
			b = append(b, "\tvec3 col = baseColor;\n"...)
		}
		b = append(b, "\tfragColor = vec4(col*intensity, 1.0);\n"...)
	}
	b = append(b, "}\n"...)
	p.scratch = b
	return w.Write(b)
}

// AppendProgram appends NUL terminated vertex and fragment sources, as
// expected by OpenGL bindings.
func (p *Programmer) AppendProgram(vertexDst, fragmentDst []byte) (vertex, fragment []byte, err error) {
	vbuf := bytes.NewBuffer(vertexDst)
	if _, err = p.WriteVertexShader(vbuf); err != nil {
		return nil, nil, err
	}
	fbuf := bytes.NewBuffer(fragmentDst)
	if _, err = p.WriteFragmentShader(fbuf); err != nil {
		return nil, nil, err
	}
	return append(vbuf.Bytes(), 0), append(fbuf.Bytes(), 0), nil
}

// AppendVertexData appends the interleaved vertex data of b to dst following [Attributes].
func AppendVertexData(dst []float32, b *glmesh.Buffers) []float32 {
	n := b.VertexCount()
	dst = grow(dst, n*floatsPerVertex)
	for i := 0; i < n; i++ {
		p, nrm, t, bn, uv := b.Positions[i], b.Normals[i], b.Tangents[i], b.Binormals[i], b.UV[i]
		dst = append(dst,
			p.X, p.Y, p.Z,
			nrm.X, nrm.Y, nrm.Z,
			t.X, t.Y, t.Z,
			bn.X, bn.Y, bn.Z,
			uv.X, uv.Y,
		)
	}
	return dst
}

func grow[T any](s []T, n int) []T {
	if cap(s)-len(s) < n {
		s2 := make([]T, len(s), len(s)+n)
		copy(s2, s)
		s = s2
	}
	return s
}

func appendVecType(b []byte, components int32) []byte {
	if components == 1 {
		return append(b, "float"...)
	}
	b = append(b, "vec"...)
	return strconv.AppendInt(b, int64(components), 10)
}

func AppendVec3Decl(b []byte, vec3Varname string, v ms3.Vec) []byte {
	b = append(b, "vec3 "...)
	b = append(b, vec3Varname...)
	b = append(b, "=vec3("...)
	b = AppendFloats(b, ',', '-', '.', v.X, v.Y, v.Z)
	b = append(b, ')', ';', '\n')
	return b
}

func AppendVec2Decl(b []byte, vec2Varname string, v ms2.Vec) []byte {
	b = append(b, "vec2 "...)
	b = append(b, vec2Varname...)
	b = append(b, "=vec2("...)
	b = AppendFloats(b, ',', '-', '.', v.X, v.Y)
	b = append(b, ')', ';', '\n')
	return b
}

func AppendFloatDecl(b []byte, floatVarname string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, floatVarname...)
	b = append(b, '=')
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

func AppendMat4Decl(b []byte, mat4Varname string, m44 ms3.Mat4) []byte {
	arr := m44.Array()
	return appendMatDecl(b, "mat4", mat4Varname, 4, 4, arr[:])
}

// appendMatDecl expects arr in row major order.
func appendMatDecl(b []byte, typename, name string, row, col int, arr []float32) []byte {
	b = append(b, typename...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, '=')
	b = append(b, typename...)
	b = append(b, '(')
	for j := 0; j < col; j++ {
		for i := 0; i < row; i++ {
			v := arr[i*col+j] // Column major access, as per OpenGL standard.
			b = AppendFloat(b, '-', '.', v)
			last := i == row-1 && j == col-1
			if !last {
				b = append(b, ',')
			}
		}
	}
	b = append(b, ");\n"...)
	return b
}

// ColumnMajor returns m's elements in the column major order OpenGL uniforms expect.
func ColumnMajor(m ms3.Mat4) [16]float32 {
	arr := m.Array()
	var cm [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			cm[j*4+i] = arr[i*4+j]
		}
	}
	return cm
}

const decimalDigits = 9

func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
