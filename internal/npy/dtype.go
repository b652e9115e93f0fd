package npy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the element-type class of an NPY descr.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindFloat
	KindBool
)

// Dtype describes how one array element is stored.
type Dtype struct {
	Kind      Kind
	Size      int // element size in bytes
	BigEndian bool
}

// ParseDescr parses a numpy dtype string such as "<f8", ">i4" or "|b1".
// Type codes outside real scalar numerics (strings, complex, datetimes,
// structured types) are rejected with ErrUnsupportedDtype.
func ParseDescr(descr string) (Dtype, error) {
	if len(descr) < 3 {
		return Dtype{}, fmt.Errorf("npy: descr %q: %w", descr, ErrUnsupportedDtype)
	}

	var dt Dtype
	switch descr[0] {
	case '<', '|':
		// little-endian, or single-byte where order is moot
	case '=':
		// native order; NPY producers are little-endian in practice
	case '>':
		dt.BigEndian = true
	default:
		return Dtype{}, fmt.Errorf("npy: descr %q: %w", descr, ErrUnsupportedDtype)
	}

	size := 0
	for _, c := range descr[2:] {
		if c < '0' || c > '9' {
			return Dtype{}, fmt.Errorf("npy: descr %q: %w", descr, ErrUnsupportedDtype)
		}
		size = size*10 + int(c-'0')
	}
	dt.Size = size

	switch descr[1] {
	case 'i':
		dt.Kind = KindInt
		if size != 1 && size != 2 && size != 4 && size != 8 {
			return Dtype{}, fmt.Errorf("npy: int size %d: %w", size, ErrUnsupportedDtype)
		}
	case 'u':
		dt.Kind = KindUint
		if size != 1 && size != 2 && size != 4 && size != 8 {
			return Dtype{}, fmt.Errorf("npy: uint size %d: %w", size, ErrUnsupportedDtype)
		}
	case 'f':
		dt.Kind = KindFloat
		if size != 2 && size != 4 && size != 8 {
			return Dtype{}, fmt.Errorf("npy: float size %d: %w", size, ErrUnsupportedDtype)
		}
	case 'b':
		dt.Kind = KindBool
		if size != 1 {
			return Dtype{}, fmt.Errorf("npy: bool size %d: %w", size, ErrUnsupportedDtype)
		}
	default:
		return Dtype{}, fmt.Errorf("npy: descr %q: %w", descr, ErrUnsupportedDtype)
	}

	return dt, nil
}

// String reconstructs the numpy descr form, e.g. "<f8".
func (dt Dtype) String() string {
	order := byte('<')
	if dt.BigEndian {
		order = '>'
	}
	if dt.Size == 1 {
		order = '|'
	}
	code := byte('?')
	switch dt.Kind {
	case KindInt:
		code = 'i'
	case KindUint:
		code = 'u'
	case KindFloat:
		code = 'f'
	case KindBool:
		code = 'b'
	}
	return fmt.Sprintf("%c%c%d", order, code, dt.Size)
}

func (dt Dtype) byteOrder() binary.ByteOrder {
	if dt.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// widen decodes one element from b (len == dt.Size) and widens it to float64.
// Every Kind/Size combination accepted by ParseDescr is covered.
func (dt Dtype) widen(b []byte) float64 {
	bo := dt.byteOrder()
	switch dt.Kind {
	case KindBool:
		if b[0] != 0 {
			return 1
		}
		return 0
	case KindInt:
		switch dt.Size {
		case 1:
			return float64(int8(b[0]))
		case 2:
			return float64(int16(bo.Uint16(b)))
		case 4:
			return float64(int32(bo.Uint32(b)))
		default:
			return float64(int64(bo.Uint64(b)))
		}
	case KindUint:
		switch dt.Size {
		case 1:
			return float64(b[0])
		case 2:
			return float64(bo.Uint16(b))
		case 4:
			return float64(bo.Uint32(b))
		default:
			return float64(bo.Uint64(b))
		}
	default: // KindFloat
		switch dt.Size {
		case 2:
			return float64(halfToFloat32(bo.Uint16(b)))
		case 4:
			return float64(math.Float32frombits(bo.Uint32(b)))
		default:
			return math.Float64frombits(bo.Uint64(b))
		}
	}
}

// halfToFloat32 converts an IEEE 754 binary16 value.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h >> 10 & 0x1f)
	frac := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal: renormalize
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		return math.Float32frombits(sign | e<<23 | frac<<13)
	case 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
	}
}
