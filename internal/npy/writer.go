package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode writes values as a version 1.0 NPY container with a little-endian
// float64 descr in row-major order. The matrix must be rectangular.
func Encode(w io.Writer, values [][]float64) error {
	rows := len(values)
	cols := 0
	if rows > 0 {
		cols = len(values[0])
	}
	for r, row := range values {
		if len(row) != cols {
			return fmt.Errorf("npy: row %d has %d columns, want %d", r, len(row), cols)
		}
	}

	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)

	// Pad the full preamble (magic + version + length + dict + '\n') to a
	// multiple of 64 so the payload starts aligned, as numpy does.
	preamble := len(Magic) + 2 + 2
	pad := 64 - (preamble+len(dict)+1)%64
	if pad == 64 {
		pad = 0
	}
	hlen := len(dict) + pad + 1
	if hlen > math.MaxUint16 {
		return fmt.Errorf("npy: header too large: %d bytes", hlen)
	}

	buf := make([]byte, 0, preamble+hlen+rows*cols*8)
	buf = append(buf, Magic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(hlen))
	buf = append(buf, dict...)
	for i := 0; i < pad; i++ {
		buf = append(buf, ' ')
	}
	buf = append(buf, '\n')

	for _, row := range values {
		for _, v := range row {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}

	_, err := w.Write(buf)
	return err
}
