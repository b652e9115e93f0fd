// Package meshio exports built geometry to interchange formats.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"npy-depth-mesh/internal/mesh"
)

// WriteOBJ writes Wavefront OBJ text. Quads are preserved as 4-index faces;
// indices are 1-based per the format.
func WriteOBJ(w io.Writer, g *mesh.Geometry, name string) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range g.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, q := range g.Quads {
		fmt.Fprintf(bw, "f %d %d %d %d\n", q[0]+1, q[1]+1, q[2]+1, q[3]+1)
	}
	return bw.Flush()
}

// WriteFile writes geometry to path, picking the format from the extension
// (.obj or .stl). The object name is derived from the file base name.
func WriteFile(path string, g *mesh.Geometry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: create %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		err = WriteOBJ(f, g, name)
	case ".stl":
		err = WriteSTL(f, g, name)
	default:
		err = fmt.Errorf("meshio: unknown mesh format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}
