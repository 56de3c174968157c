package glmesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/geometry/ms3"
)

// WriteOBJ writes the meshes as a single Wavefront OBJ object with positions,
// normals and texture coordinates. Strips and fans are expanded into
// triangular faces, degenerate triangles are omitted. It returns the number
// of bytes written.
func WriteOBJ(w io.Writer, meshes ...*Mesh) (int, error) {
	bw := bufio.NewWriter(w)
	ow := objWriter{w: bw}
	ow.printf("# gsweep mesh\n")
	var offset int
	for mi, m := range meshes {
		if err := m.Validate(); err != nil {
			return ow.n, fmt.Errorf("mesh %d: %w", mi, err)
		}
		ow.printf("g mesh%d\n", mi)
		ow.writeVertices(&m.Buffers)
		if m.Mode == LineStrip {
			ow.writeLine(m.Index, offset)
		}
		ow.writeFaces(m.Positions, m.TriangleIndices(nil), offset)
		offset += m.VertexCount()
		for ci := range m.Covers {
			c := &m.Covers[ci]
			ow.printf("g mesh%d_cover%d\n", mi, ci)
			ow.writeVertices(&c.Buffers)
			ow.writeFaces(c.Positions, c.TriangleIndices(nil), offset)
			offset += c.VertexCount()
		}
	}
	if ow.err != nil {
		return ow.n, ow.err
	}
	return ow.n, bw.Flush()
}

type objWriter struct {
	w   *bufio.Writer
	buf []byte
	n   int
	err error
}

func (ow *objWriter) printf(format string, args ...any) {
	if ow.err != nil {
		return
	}
	n, err := fmt.Fprintf(ow.w, format, args...)
	ow.n += n
	ow.err = err
}

func (ow *objWriter) write(b []byte) {
	if ow.err != nil {
		return
	}
	n, err := ow.w.Write(b)
	ow.n += n
	ow.err = err
}

func (ow *objWriter) writeVertices(b *Buffers) {
	for _, p := range b.Positions {
		ow.writeVec("v", p.X, p.Y, p.Z)
	}
	for _, n := range b.Normals {
		ow.writeVec("vn", n.X, n.Y, n.Z)
	}
	for _, uv := range b.UV {
		ow.writeVec("vt", uv.X, uv.Y)
	}
}

func (ow *objWriter) writeVec(kind string, v ...float32) {
	b := append(ow.buf[:0], kind...)
	for _, f := range v {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, float64(f), 'g', -1, 32)
	}
	b = append(b, '\n')
	ow.buf = b
	ow.write(b)
}

func (ow *objWriter) writeFaces(pos []ms3.Vec, tris [][3]uint32, offset int) {
	for _, tri := range tris {
		ow.writeFace(pos, offset, tri[0], tri[1], tri[2])
	}
}

func (ow *objWriter) writeLine(index []uint32, offset int) {
	b := append(ow.buf[:0], 'l')
	for _, idx := range index {
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(offset)+int64(idx)+1, 10)
	}
	b = append(b, '\n')
	ow.buf = b
	ow.write(b)
}

func (ow *objWriter) writeFace(pos []ms3.Vec, offset int, a, b, c uint32) {
	if IsDegenerate(ms3.Triangle{pos[a], pos[b], pos[c]}) {
		return
	}
	buf := append(ow.buf[:0], 'f')
	for _, idx := range [3]uint32{a, b, c} {
		// OBJ indices are 1-based and shared across v, vt and vn.
		i := int64(offset) + int64(idx) + 1
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, i, 10)
		buf = append(buf, '/')
		buf = strconv.AppendInt(buf, i, 10)
		buf = append(buf, '/')
		buf = strconv.AppendInt(buf, i, 10)
	}
	buf = append(buf, '\n')
	ow.buf = buf
	ow.write(buf)
}
