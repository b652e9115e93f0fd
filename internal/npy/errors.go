package npy

import "errors"

// Format errors: the byte stream does not conform to the NPY container.
var (
	ErrBadMagic           = errors.New("not an NPY file")
	ErrUnsupportedVersion = errors.New("unsupported NPY version")
	ErrBadHeader          = errors.New("malformed NPY header")
	ErrTruncated          = errors.New("NPY payload size mismatch")
)

// Validation errors: the container parses but the content is unusable here.
var (
	ErrNot2D            = errors.New("array is not 2-D")
	ErrUnsupportedDtype = errors.New("unsupported dtype")
)
