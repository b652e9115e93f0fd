// Package batch converts many depth-map files with a worker pool.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"npy-depth-mesh/internal/config"
	"npy-depth-mesh/internal/depthgrid"
	"npy-depth-mesh/internal/mesh"
	"npy-depth-mesh/internal/meshio"
	"npy-depth-mesh/internal/preview"
)

// Result holds the outcome of converting one input file.
type Result struct {
	Source   string
	Mesh     string
	Preview  string
	Rows     int
	Cols     int
	Replaced int
	Success  bool
	Error    string
}

// Run converts all inputs using a worker pool sized by cfg.Workers.
func Run(cfg config.Config, inputs []string) []Result {
	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	inputChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputChan {
				results[idx] = convertFile(cfg, inputs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range inputs {
		inputChan <- i
	}
	close(inputChan)

	wg.Wait()
	close(done)

	return results
}

func convertFile(cfg config.Config, path string) Result {
	res := Result{Source: path}

	grid, err := depthgrid.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Rows, res.Cols, res.Replaced = grid.Rows, grid.Cols, grid.Replaced

	if cfg.Normalize {
		grid.Normalize()
	}

	opts := mesh.Options{ScaleXY: cfg.ScaleXY, ScaleZ: cfg.ScaleZ, BaseMargin: cfg.BaseMargin}
	var geom *mesh.Geometry
	if cfg.Mode == "solid" {
		geom = mesh.BuildSolid(grid, opts)
	} else {
		geom = mesh.BuildPlane(grid, opts)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Mesh = filepath.Join(cfg.OutputDir, stem+"."+cfg.Format)
	if err := meshio.WriteFile(res.Mesh, geom); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Preview {
		res.Preview = filepath.Join(cfg.OutputDir, stem+"."+cfg.PreviewFormat)
		if err := preview.WriteFile(res.Preview, geom, cfg.PreviewSize, cfg.Supersample); err != nil {
			res.Error = fmt.Sprintf("preview: %v", err)
			return res
		}
	}

	res.Success = true
	return res
}
