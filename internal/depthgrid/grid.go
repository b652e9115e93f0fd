// Package depthgrid loads NPY/NPZ depth maps into a normalized 2-D grid.
package depthgrid

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"npy-depth-mesh/internal/npy"
	"npy-depth-mesh/internal/npz"
)

// ErrEmptyGrid means the array parsed but has a zero-length dimension.
var ErrEmptyGrid = errors.New("depth grid has no cells")

var zipMagic = []byte("PK\x03\x04")

// Grid is a row-major depth field. Values are always finite after Load;
// Replaced counts the NaN/Inf source values that were zeroed, which callers
// should surface as a warning rather than discard.
type Grid struct {
	Rows     int
	Cols     int
	Values   [][]float64
	Replaced int
}

// Load reads an NPY or NPZ file and returns its first array as a depth grid.
// Dispatch is by extension, falling back to the content signature for
// unrecognized extensions.
func Load(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("depthgrid: read %s: %w", path, err)
	}

	var arr *npy.Array
	if isArchive(path, data) {
		arr, err = npz.ParseFirst(data)
	} else {
		arr, err = npy.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("depthgrid: %s: %w", path, err)
	}

	g, err := FromArray(arr)
	if err != nil {
		return nil, fmt.Errorf("depthgrid: %s: %w", path, err)
	}
	return g, nil
}

// FromArray validates a decoded array and scrubs non-finite values to 0.
func FromArray(arr *npy.Array) (*Grid, error) {
	if arr.Rows < 1 || arr.Cols < 1 {
		return nil, fmt.Errorf("%d×%d array: %w", arr.Rows, arr.Cols, ErrEmptyGrid)
	}

	g := &Grid{Rows: arr.Rows, Cols: arr.Cols, Values: arr.Values}
	for _, row := range g.Values {
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[c] = 0
				g.Replaced++
			}
		}
	}
	return g, nil
}

// MinMax returns the smallest and largest grid values.
func (g *Grid) MinMax() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range g.Values {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

// Normalize rescales all values to [0, 1] in place. A constant grid
// collapses to all zeros.
func (g *Grid) Normalize() {
	min, max := g.MinMax()
	span := max - min
	if span <= 0 {
		for _, row := range g.Values {
			for c := range row {
				row[c] = 0
			}
		}
		return
	}
	for _, row := range g.Values {
		for c := range row {
			row[c] = (row[c] - min) / span
		}
	}
}

func isArchive(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npz":
		return true
	case ".npy":
		return false
	}
	return bytes.HasPrefix(data, zipMagic)
}
