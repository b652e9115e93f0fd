// Package npy reads and writes the NPY single-array binary container.
//
// Only real scalar numeric dtypes and 2-D shapes survive Parse; ParseHeader
// is format-level only and accepts any rank, which the inspection tool uses.
package npy

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Magic is the fixed NPY signature at offset 0.
var Magic = []byte("\x93NUMPY")

// Header holds the parsed container metadata.
type Header struct {
	Major        byte
	Minor        byte
	Dtype        Dtype
	Shape        []int
	FortranOrder bool
}

// Array is a decoded 2-D grid in row-major logical order.
type Array struct {
	Rows   int
	Cols   int
	Values [][]float64
}

// ParseHeader validates magic and version and parses the textual header
// dictionary. It returns the header and the raw element payload.
func ParseHeader(data []byte) (*Header, []byte, error) {
	if len(data) < len(Magic)+2 || string(data[:len(Magic)]) != string(Magic) {
		return nil, nil, fmt.Errorf("npy: bad magic at offset 0: %w", ErrBadMagic)
	}

	h := &Header{Major: data[6], Minor: data[7]}
	if h.Major < 1 || h.Major > 3 {
		return nil, nil, fmt.Errorf("npy: version %d.%d: %w", h.Major, h.Minor, ErrUnsupportedVersion)
	}

	// Header length is 2 bytes for version 1, 4 bytes for 2 and 3.
	var hlen, off int
	if h.Major == 1 {
		if len(data) < 10 {
			return nil, nil, fmt.Errorf("npy: truncated at offset 8: %w", ErrBadHeader)
		}
		hlen = int(binary.LittleEndian.Uint16(data[8:10]))
		off = 10
	} else {
		if len(data) < 12 {
			return nil, nil, fmt.Errorf("npy: truncated at offset 8: %w", ErrBadHeader)
		}
		hlen = int(binary.LittleEndian.Uint32(data[8:12]))
		off = 12
	}
	if off+hlen > len(data) {
		return nil, nil, fmt.Errorf("npy: header length %d overruns %d-byte file: %w", hlen, len(data), ErrBadHeader)
	}

	descr, fortran, shape, err := parseHeaderDict(string(data[off : off+hlen]))
	if err != nil {
		return nil, nil, err
	}
	h.FortranOrder = fortran
	h.Shape = shape
	h.Dtype, err = ParseDescr(descr)
	if err != nil {
		return nil, nil, err
	}

	return h, data[off+hlen:], nil
}

// Parse decodes a full NPY container into a 2-D float64 grid.
// Non-2-D shapes are rejected; integer and bool elements widen by value.
func Parse(data []byte) (*Array, error) {
	h, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if len(h.Shape) != 2 {
		return nil, fmt.Errorf("npy: shape has %d dimensions: %w", len(h.Shape), ErrNot2D)
	}
	rows, cols := h.Shape[0], h.Shape[1]

	count := rows * cols
	if want := count * h.Dtype.Size; len(payload) != want {
		return nil, fmt.Errorf("npy: %d payload bytes, want %d (%d × %s): %w",
			len(payload), want, count, h.Dtype, ErrTruncated)
	}

	values := make([][]float64, rows)
	sz := h.Dtype.Size
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			i := storageIndex(r, c, rows, cols, h.FortranOrder) * sz
			row[c] = h.Dtype.widen(payload[i : i+sz])
		}
		values[r] = row
	}

	return &Array{Rows: rows, Cols: cols, Values: values}, nil
}

// storageIndex maps logical (row, col) to the flat element index for the
// stated storage order. This is the only place the order duality lives.
func storageIndex(row, col, rows, cols int, fortran bool) int {
	if fortran {
		return col*rows + row
	}
	return row*cols + col
}

// parseHeaderDict extracts descr, fortran_order and shape from the
// Python-dict-literal header, e.g.
//
//	{'descr': '<f8', 'fortran_order': False, 'shape': (3, 4), }
func parseHeaderDict(s string) (descr string, fortran bool, shape []int, err error) {
	body := strings.TrimSpace(s)
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return "", false, nil, fmt.Errorf("npy: header is not a dict: %w", ErrBadHeader)
	}

	descr, err = dictString(body, "descr")
	if err != nil {
		return "", false, nil, err
	}

	switch v, verr := dictRaw(body, "fortran_order"); {
	case verr != nil:
		return "", false, nil, verr
	case strings.HasPrefix(v, "True"):
		fortran = true
	case strings.HasPrefix(v, "False"):
		fortran = false
	default:
		return "", false, nil, fmt.Errorf("npy: fortran_order %q: %w", v, ErrBadHeader)
	}

	tup, err := dictRaw(body, "shape")
	if err != nil {
		return "", false, nil, err
	}
	shape, err = parseShape(tup)
	if err != nil {
		return "", false, nil, err
	}

	return descr, fortran, shape, nil
}

// dictRaw returns the raw text following `'key':` up to end of dict.
func dictRaw(body, key string) (string, error) {
	q := "'" + key + "'"
	i := strings.Index(body, q)
	if i < 0 {
		q = `"` + key + `"`
		i = strings.Index(body, q)
	}
	if i < 0 {
		return "", fmt.Errorf("npy: header missing %q: %w", key, ErrBadHeader)
	}
	rest := body[i+len(q):]
	j := strings.IndexByte(rest, ':')
	if j < 0 {
		return "", fmt.Errorf("npy: header missing value for %q: %w", key, ErrBadHeader)
	}
	return strings.TrimLeft(rest[j+1:], " \t"), nil
}

// dictString returns a quoted string value. A list value here means a
// structured dtype, which is a validation error, not a header error.
func dictString(body, key string) (string, error) {
	v, err := dictRaw(body, key)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(v, "[") {
		return "", fmt.Errorf("npy: structured descr: %w", ErrUnsupportedDtype)
	}
	if len(v) == 0 || (v[0] != '\'' && v[0] != '"') {
		return "", fmt.Errorf("npy: %q value is not a string: %w", key, ErrBadHeader)
	}
	end := strings.IndexByte(v[1:], v[0])
	if end < 0 {
		return "", fmt.Errorf("npy: unterminated %q value: %w", key, ErrBadHeader)
	}
	return v[1 : 1+end], nil
}

// parseShape parses a Python int tuple such as "(3, 4)", "(5,)" or "()".
func parseShape(v string) ([]int, error) {
	if len(v) == 0 || v[0] != '(' {
		return nil, fmt.Errorf("npy: shape is not a tuple: %w", ErrBadHeader)
	}
	end := strings.IndexByte(v, ')')
	if end < 0 {
		return nil, fmt.Errorf("npy: unterminated shape tuple: %w", ErrBadHeader)
	}

	var dims []int
	for _, part := range strings.Split(v[1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue // trailing comma in 1-tuples
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("npy: shape dimension %q: %w", part, ErrBadHeader)
		}
		dims = append(dims, n)
	}
	return dims, nil
}
