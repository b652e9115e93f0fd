package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"npy-depth-mesh/internal/mesh"
)

// WriteSTL writes binary STL: an 80-byte header, a uint32 triangle count,
// then 50-byte records of normal, three vertices and an attribute word, all
// little-endian float32. Quads are split into two triangles.
func WriteSTL(w io.Writer, g *mesh.Geometry, name string) error {
	tris := g.Triangles()
	if uint64(len(tris)) > math.MaxUint32 {
		return fmt.Errorf("meshio: %d triangles exceed STL limit", len(tris))
	}

	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}

	rec := make([]byte, 50)
	for _, t := range tris {
		a, b, c := g.Vertices[t[0]], g.Vertices[t[1]], g.Vertices[t[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()

		putVec3(rec[0:], n[0], n[1], n[2])
		putVec3(rec[12:], a[0], a[1], a[2])
		putVec3(rec[24:], b[0], b[1], b[2])
		putVec3(rec[36:], c[0], c[1], c[2])
		rec[48], rec[49] = 0, 0

		if _, err := bw.Write(rec); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func putVec3(b []byte, x, y, z float64) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(x)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(z)))
}
