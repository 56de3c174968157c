package glrender

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 4*3*4 + 2
)

// WriteBinarySTL writes model as a binary STL file. Facet normals are
// computed from the triangle winding.
func WriteBinarySTL(w io.Writer, model []ms3.Triangle) (int, error) {
	if uint64(len(model)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var header [stlHeaderSize + 4]byte
	copy(header[:], "gsweep binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(len(model)))
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	var buf [stlTriangleSize]byte
	for i := range model {
		t := &model[i]
		normal := ms3.Unit(ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0])))
		putVec(buf[0:], normal)
		putVec(buf[12:], t[0])
		putVec(buf[24:], t[1])
		putVec(buf[36:], t[2])
		// Attribute byte count, unused.
		buf[48], buf[49] = 0, 0
		ngot, err := w.Write(buf[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadBinarySTL reads the triangles of a binary STL file. Stored facet normals are discarded.
func ReadBinarySTL(r io.Reader) ([]ms3.Triangle, error) {
	var header [stlHeaderSize + 4]byte
	_, err := io.ReadFull(r, header[:])
	if err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := binary.LittleEndian.Uint32(header[stlHeaderSize:])
	model := make([]ms3.Triangle, 0, min(int(count), 1<<20))
	var buf [stlTriangleSize]byte
	for i := uint32(0); i < count; i++ {
		_, err = io.ReadFull(r, buf[:])
		if err != nil {
			return model, fmt.Errorf("reading STL triangle %d of %d: %w", i, count, err)
		}
		model = append(model, ms3.Triangle{getVec(buf[12:]), getVec(buf[24:]), getVec(buf[36:])})
	}
	return model, nil
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func getVec(b []byte) ms3.Vec {
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
