// Package mesh tessellates a depth grid into quad geometry.
//
// Column index maps to +x, row index to +y, grid value to +z. Faces wind
// counter-clockwise seen from outside the surface, so plane-mode normals
// point up. Both builders are pure: identical grid and options produce
// identical vertex and face sequences.
package mesh

import (
	"npy-depth-mesh/internal/depthgrid"
	"npy-depth-mesh/internal/mathutil"
)

// Options scales the tessellation. ScaleXY spaces columns and rows
// uniformly, ScaleZ exaggerates height, BaseMargin drops the solid-mode
// base below the lowest point (in output units, not multiplied by ScaleZ).
type Options struct {
	ScaleXY    float64
	ScaleZ     float64
	BaseMargin float64
}

// DefaultOptions returns unit scaling with a small positive base margin.
func DefaultOptions() Options {
	return Options{ScaleXY: 1, ScaleZ: 1, BaseMargin: 0.1}
}

// Geometry is an indexed quad mesh. Every face index is < len(Vertices).
type Geometry struct {
	Vertices []mathutil.Vec3
	Quads    [][4]int
}

// Triangles splits each quad [a b c d] into (a b c) and (a c d).
func (g *Geometry) Triangles() [][3]int {
	tris := make([][3]int, 0, len(g.Quads)*2)
	for _, q := range g.Quads {
		tris = append(tris, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	return tris
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (g *Geometry) Bounds() (min, max mathutil.Vec3) {
	if len(g.Vertices) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	min, max = g.Vertices[0], g.Vertices[0]
	for _, v := range g.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	return min, max
}

// BuildPlane emits one vertex per grid cell and one quad per 2×2
// neighborhood. A single-row or single-column grid yields vertices only.
func BuildPlane(grid *depthgrid.Grid, opts Options) *Geometry {
	g := &Geometry{Vertices: surfaceVertices(grid, opts)}
	appendTopQuads(g, grid.Rows, grid.Cols)
	return g
}

// BuildSolid extrudes the height surface down to a flat base at
// min(value)·ScaleZ − BaseMargin and walls the four boundary rings, giving
// a closed manifold for grids of at least 2×2. Degenerate grids (a single
// row or column) cannot enclose a volume and yield vertices only.
func BuildSolid(grid *depthgrid.Grid, opts Options) *Geometry {
	rows, cols := grid.Rows, grid.Cols
	min, _ := grid.MinMax()
	baseZ := min*opts.ScaleZ - opts.BaseMargin

	g := &Geometry{Vertices: surfaceVertices(grid, opts)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Vertices = append(g.Vertices, mathutil.Vec3{
				float64(c) * opts.ScaleXY,
				float64(r) * opts.ScaleXY,
				baseZ,
			})
		}
	}

	if rows < 2 || cols < 2 {
		return g
	}

	top := func(r, c int) int { return r*cols + c }
	bot := func(r, c int) int { return rows*cols + r*cols + c }

	appendTopQuads(g, rows, cols)

	// Bottom, wound for a downward outward normal.
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			g.Quads = append(g.Quads, [4]int{bot(r, c), bot(r+1, c), bot(r+1, c+1), bot(r, c+1)})
		}
	}

	// Walls traverse each shared boundary edge opposite to its top face,
	// keeping the surface orientable. The four rings meet cleanly at the
	// corners because each corner's vertical edge belongs to exactly the
	// two adjacent rings.
	last := rows - 1
	for c := 0; c < cols-1; c++ {
		g.Quads = append(g.Quads, [4]int{top(0, c+1), top(0, c), bot(0, c), bot(0, c+1)})
		g.Quads = append(g.Quads, [4]int{top(last, c), top(last, c+1), bot(last, c+1), bot(last, c)})
	}
	edge := cols - 1
	for r := 0; r < rows-1; r++ {
		g.Quads = append(g.Quads, [4]int{top(r, 0), top(r+1, 0), bot(r+1, 0), bot(r, 0)})
		g.Quads = append(g.Quads, [4]int{top(r+1, edge), top(r, edge), bot(r, edge), bot(r+1, edge)})
	}

	return g
}

func surfaceVertices(grid *depthgrid.Grid, opts Options) []mathutil.Vec3 {
	verts := make([]mathutil.Vec3, 0, grid.Rows*grid.Cols)
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			verts = append(verts, mathutil.Vec3{
				float64(c) * opts.ScaleXY,
				float64(r) * opts.ScaleXY,
				grid.Values[r][c] * opts.ScaleZ,
			})
		}
	}
	return verts
}

// appendTopQuads adds the height-surface quads, CCW seen from +z.
func appendTopQuads(g *Geometry, rows, cols int) {
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			i := r*cols + c
			g.Quads = append(g.Quads, [4]int{i, i + 1, i + cols + 1, i + cols})
		}
	}
}
