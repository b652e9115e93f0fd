package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"npy-depth-mesh/internal/depthgrid"
	"npy-depth-mesh/internal/mesh"
)

func testGeometry() *mesh.Geometry {
	g := &depthgrid.Grid{Rows: 2, Cols: 2, Values: [][]float64{{0, 1}, {2, 3}}}
	return mesh.BuildPlane(g, mesh.DefaultOptions())
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, testGeometry(), "depth"); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "o depth" {
		t.Errorf("expected object line, got %q", lines[0])
	}

	var verts, faces int
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "v "):
			verts++
		case strings.HasPrefix(l, "f "):
			faces++
		}
	}
	if verts != 4 || faces != 1 {
		t.Errorf("expected 4 vertices and 1 face, got %d/%d", verts, faces)
	}

	// OBJ indices are 1-based.
	if lines[len(lines)-1] != "f 1 2 4 3" {
		t.Errorf("unexpected face line %q", lines[len(lines)-1])
	}
}

func TestWriteSTL(t *testing.T) {
	g := testGeometry()
	var buf bytes.Buffer
	if err := WriteSTL(&buf, g, "depth"); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	data := buf.Bytes()

	// 80-byte header + count + 2 triangles × 50 bytes.
	if len(data) != 84+2*50 {
		t.Fatalf("expected %d bytes, got %d", 84+2*50, len(data))
	}
	if !bytes.HasPrefix(data, []byte("depth")) {
		t.Errorf("header does not carry the mesh name")
	}
	if n := binary.LittleEndian.Uint32(data[80:84]); n != 2 {
		t.Errorf("expected 2 triangles, got %d", n)
	}

	// First record: normal then three vertices, little-endian float32.
	rec := data[84 : 84+50]
	readV := func(off int) [3]float64 {
		return [3]float64{
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+8:]))),
		}
	}

	tri := g.Triangles()[0]
	for i, off := range []int{12, 24, 36} {
		want := g.Vertices[tri[i]]
		got := readV(off)
		for k := 0; k < 3; k++ {
			if got[k] != want[k] {
				t.Errorf("triangle vertex %d axis %d: expected %g, got %g", i, k, want[k], got[k])
			}
		}
	}

	n := readV(0)
	length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if math.Abs(length-1) > 1e-6 {
		t.Errorf("normal is not unit length: %v", n)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	g := testGeometry()

	for _, name := range []string{"out.obj", "out.stl"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, g); err != nil {
			t.Fatalf("WriteFile %s failed: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	if err := WriteFile(filepath.Join(dir, "out.ply"), g); err == nil {
		t.Error("expected error for unsupported format")
	}
}
