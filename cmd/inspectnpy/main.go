package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"npy-depth-mesh/internal/npy"
	"npy-depth-mesh/internal/npz"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspectnpy file.npy [file.npz ...]")
		os.Exit(2)
	}

	failed := false
	for _, arg := range os.Args[1:] {
		if err := inspect(arg); err != nil {
			fmt.Fprintf(os.Stderr, "Inspect error %s: %v\n", arg, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s (%d bytes) ===\n", path, len(data))

	if strings.EqualFold(filepath.Ext(path), ".npz") {
		names, err := npz.EntryNames(data)
		if err != nil {
			return err
		}
		fmt.Printf("Archive entries (%d, directory order):\n", len(names))
		for i, n := range names {
			marker := ""
			if i == 0 {
				marker = "  <- first (used)"
			}
			fmt.Printf("  [%d] %s%s\n", i, n, marker)
		}

		arr, err := npz.ParseFirst(data)
		if err != nil {
			return err
		}
		printArray(arr)
		return nil
	}

	h, payload, err := npy.ParseHeader(data)
	if err != nil {
		return err
	}
	fmt.Printf("Version: %d.%d\n", h.Major, h.Minor)
	fmt.Printf("Dtype:   %s\n", h.Dtype)
	fmt.Printf("Shape:   %v\n", h.Shape)
	order := "row-major (C)"
	if h.FortranOrder {
		order = "column-major (Fortran)"
	}
	fmt.Printf("Order:   %s\n", order)
	fmt.Printf("Payload: %d bytes\n", len(payload))

	arr, err := npy.Parse(data)
	if err != nil {
		return err
	}
	printArray(arr)
	return nil
}

func printArray(arr *npy.Array) {
	min, max := math.Inf(1), math.Inf(-1)
	nonFinite := 0
	for _, row := range arr.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				nonFinite++
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	fmt.Printf("Grid:    %d×%d\n", arr.Rows, arr.Cols)
	if min <= max {
		fmt.Printf("Range:   [%g, %g]\n", min, max)
	}
	if nonFinite > 0 {
		fmt.Printf("Non-finite values: %d (replaced with 0 on load)\n", nonFinite)
	}
}
