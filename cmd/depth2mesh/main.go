package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"npy-depth-mesh/internal/batch"
	"npy-depth-mesh/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: current directory)")
	mode := flag.String("mode", "", "Mesh mode: plane or solid (default: plane)")
	format := flag.String("format", "", "Mesh format: obj or stl (default: obj)")
	scaleXY := flag.Float64("scale-xy", 0, "Horizontal spacing between grid cells (default: 1.0)")
	scaleZ := flag.Float64("scale-z", 0, "Vertical exaggeration of depth values (default: 1.0)")
	baseMargin := flag.Float64("base-margin", 0, "Solid-mode base offset below minimum height (default: 0.1)")
	normalize := flag.Bool("normalize", false, "Min-max normalize depth values to [0,1] before scaling")
	previewOn := flag.Bool("preview", false, "Also render a shaded preview image per input")
	previewFormat := flag.String("preview-format", "", "Preview format: webp, png or tga (default: webp)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: depth2mesh [flags] file.npy [file.npz ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:     *outputDir,
		Mode:          *mode,
		Format:        *format,
		ScaleXY:       *scaleXY,
		ScaleZ:        *scaleZ,
		BaseMargin:    *baseMargin,
		Normalize:     *normalize,
		Preview:       *previewOn,
		PreviewFormat: *previewFormat,
		Workers:       *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("NPY Depth Map → %s mesh (%s)\n", cfg.Mode, cfg.Format)
	fmt.Printf("Inputs: %d, Workers: %d\n", len(inputs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(cfg, inputs)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	replaced := 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			replaced += r.Replaced
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", success, len(inputs))
	if replaced > 0 {
		fmt.Printf("Warning: %d non-finite depth values replaced with 0\n", replaced)
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Source, e.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
