// Package npz reads NPZ archives: ZIP containers whose entries are NPY files.
package npz

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"npy-depth-mesh/internal/npy"
)

var (
	ErrArchiveCorrupt = errors.New("corrupt NPZ archive")
	ErrEmptyArchive   = errors.New("NPZ archive has no entries")
)

// ParseFirst decodes the first array in the archive, where "first" means
// lowest central-directory index, not name order and not stream byte order.
func ParseFirst(data []byte) (*npy.Array, error) {
	name, payload, err := firstEntry(data)
	if err != nil {
		return nil, err
	}

	arr, err := npy.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("npz: entry %q: %w", name, err)
	}
	return arr, nil
}

// EntryNames lists archive entry names in central-directory order.
func EntryNames(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("npz: open archive: %w", ErrArchiveCorrupt)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func firstEntry(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("npz: open archive: %w", ErrArchiveCorrupt)
	}

	var first *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		first = f
		break
	}
	if first == nil {
		return "", nil, fmt.Errorf("npz: %w", ErrEmptyArchive)
	}

	rc, err := first.Open()
	if err != nil {
		return "", nil, fmt.Errorf("npz: entry %q: open: %w", first.Name, ErrArchiveCorrupt)
	}
	defer rc.Close()

	// ReadAll drives inflation; CRC and truncation errors surface here.
	payload, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, fmt.Errorf("npz: entry %q: inflate: %w", first.Name, ErrArchiveCorrupt)
	}
	if uint64(len(payload)) != first.UncompressedSize64 {
		return "", nil, fmt.Errorf("npz: entry %q: inflated to %d bytes, declared %d: %w",
			first.Name, len(payload), first.UncompressedSize64, ErrArchiveCorrupt)
	}

	return first.Name, payload, nil
}
