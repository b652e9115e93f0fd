package mesh

import (
	"math"
	"reflect"
	"testing"

	"npy-depth-mesh/internal/depthgrid"
)

func grid(values [][]float64) *depthgrid.Grid {
	return &depthgrid.Grid{Rows: len(values), Cols: len(values[0]), Values: values}
}

func grid4x5(t *testing.T) *depthgrid.Grid {
	t.Helper()
	values := make([][]float64, 4)
	for r := range values {
		values[r] = make([]float64, 5)
		for c := range values[r] {
			values[r][c] = float64(r*5+c) * 0.25
		}
	}
	return grid(values)
}

func TestBuildPlaneCounts(t *testing.T) {
	g := BuildPlane(grid4x5(t), DefaultOptions())

	if len(g.Vertices) != 20 {
		t.Errorf("expected 20 vertices, got %d", len(g.Vertices))
	}
	if len(g.Quads) != 12 {
		t.Errorf("expected 12 quad faces, got %d", len(g.Quads))
	}
}

func TestBuildPlaneDegenerate(t *testing.T) {
	g := BuildPlane(grid([][]float64{{1, 2, 3, 4, 5}}), DefaultOptions())
	if len(g.Vertices) != 5 {
		t.Errorf("expected 5 vertices, got %d", len(g.Vertices))
	}
	if len(g.Quads) != 0 {
		t.Errorf("expected 0 faces, got %d", len(g.Quads))
	}

	g = BuildPlane(grid([][]float64{{1}, {2}, {3}}), DefaultOptions())
	if len(g.Vertices) != 3 || len(g.Quads) != 0 {
		t.Errorf("1-column grid: expected 3 vertices and 0 faces, got %d/%d",
			len(g.Vertices), len(g.Quads))
	}
}

func TestBuildPlaneCoordinates(t *testing.T) {
	opts := Options{ScaleXY: 2, ScaleZ: 3, BaseMargin: 0.1}
	g := BuildPlane(grid([][]float64{{1, 2}, {3, 4}}), opts)

	// Vertex order is row-major: (row 0, col 0), (row 0, col 1), ...
	checks := []struct {
		idx     int
		x, y, z float64
	}{
		{0, 0, 0, 3},
		{1, 2, 0, 6},
		{2, 0, 2, 9},
		{3, 2, 2, 12},
	}
	for _, ck := range checks {
		v := g.Vertices[ck.idx]
		if v[0] != ck.x || v[1] != ck.y || v[2] != ck.z {
			t.Errorf("vertex %d: expected (%g %g %g), got %v", ck.idx, ck.x, ck.y, ck.z, v)
		}
	}
}

func TestBuildPlaneWinding(t *testing.T) {
	// A flat grid's quad normal must point up (+z) for CCW-from-above winding.
	g := BuildPlane(grid([][]float64{{0, 0}, {0, 0}}), DefaultOptions())
	if len(g.Quads) != 1 {
		t.Fatalf("expected 1 quad, got %d", len(g.Quads))
	}

	q := g.Quads[0]
	a, b, c := g.Vertices[q[0]], g.Vertices[q[1]], g.Vertices[q[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n[2] <= 0 {
		t.Errorf("expected upward normal, got %v", n)
	}
}

func TestBuildSolidCounts(t *testing.T) {
	g := BuildSolid(grid4x5(t), DefaultOptions())

	if len(g.Vertices) != 40 {
		t.Errorf("expected 40 vertices (top + bottom), got %d", len(g.Vertices))
	}
	// 12 top + 12 bottom + 2*(4-1) + 2*(5-1) walls
	if len(g.Quads) != 38 {
		t.Errorf("expected 38 quad faces, got %d", len(g.Quads))
	}
}

func TestBuildSolidManifold(t *testing.T) {
	grids := map[string]*depthgrid.Grid{
		"2x2":    grid([][]float64{{0, 1}, {2, 3}}),
		"4x5":    grid4x5(t),
		"sloped": grid([][]float64{{-1, 0, 1}, {0, 1, 2}, {1, 2, 3}}),
	}

	for name, dg := range grids {
		t.Run(name, func(t *testing.T) {
			g := BuildSolid(dg, DefaultOptions())

			undirected := map[[2]int]int{}
			directed := map[[2]int]int{}
			for _, q := range g.Quads {
				for i := 0; i < 4; i++ {
					a, b := q[i], q[(i+1)%4]
					if a < 0 || a >= len(g.Vertices) || b < 0 || b >= len(g.Vertices) {
						t.Fatalf("face index out of range: %d", q)
					}
					directed[[2]int{a, b}]++
					if a > b {
						a, b = b, a
					}
					undirected[[2]int{a, b}]++
				}
			}

			for e, n := range undirected {
				if n != 2 {
					t.Errorf("edge %v shared by %d faces, want 2", e, n)
				}
			}
			// Orientability: each directed edge used exactly once.
			for e, n := range directed {
				if n != 1 {
					t.Errorf("directed edge %v used %d times", e, n)
				}
			}
		})
	}
}

func TestBuildSolidBase(t *testing.T) {
	opts := Options{ScaleXY: 1, ScaleZ: 2, BaseMargin: 0.5}
	g := BuildSolid(grid([][]float64{{1, 3}, {2, 5}}), opts)

	wantBase := 1*2.0 - 0.5
	for _, v := range g.Vertices[4:] {
		if v[2] != wantBase {
			t.Errorf("bottom vertex at z=%g, want %g", v[2], wantBase)
		}
	}
	// Top vertices keep their scaled heights.
	if g.Vertices[0][2] != 2 || g.Vertices[3][2] != 10 {
		t.Errorf("top heights disturbed: %v", g.Vertices[:4])
	}
}

func TestBuildSolidDegenerate(t *testing.T) {
	g := BuildSolid(grid([][]float64{{1, 2, 3}}), DefaultOptions())
	if len(g.Vertices) != 6 {
		t.Errorf("expected 6 vertices, got %d", len(g.Vertices))
	}
	if len(g.Quads) != 0 {
		t.Errorf("expected 0 faces for a 1-row solid, got %d", len(g.Quads))
	}
}

func TestBuildDeterminism(t *testing.T) {
	dg := grid4x5(t)
	opts := Options{ScaleXY: 1.5, ScaleZ: 0.75, BaseMargin: 0.25}

	p1, p2 := BuildPlane(dg, opts), BuildPlane(dg, opts)
	if !reflect.DeepEqual(p1, p2) {
		t.Error("BuildPlane is not deterministic")
	}

	s1, s2 := BuildSolid(dg, opts), BuildSolid(dg, opts)
	if !reflect.DeepEqual(s1, s2) {
		t.Error("BuildSolid is not deterministic")
	}
}

func TestTriangles(t *testing.T) {
	g := BuildPlane(grid([][]float64{{0, 0}, {0, 0}}), DefaultOptions())
	tris := g.Triangles()
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	q := g.Quads[0]
	want := [][3]int{{q[0], q[1], q[2]}, {q[0], q[2], q[3]}}
	if !reflect.DeepEqual(tris, want) {
		t.Errorf("expected %v, got %v", want, tris)
	}
}

func TestBounds(t *testing.T) {
	g := BuildSolid(grid([][]float64{{1, 3}, {2, 5}}), DefaultOptions())
	min, max := g.Bounds()
	if min[0] != 0 || min[1] != 0 || max[0] != 1 || max[1] != 1 {
		t.Errorf("xy bounds wrong: %v %v", min, max)
	}
	if min[2] != 1-0.1 {
		t.Errorf("expected min z %g, got %g", 1-0.1, min[2])
	}
	if max[2] != 5 {
		t.Errorf("expected max z 5, got %g", max[2])
	}
	if math.IsNaN(min[2]) || math.IsNaN(max[2]) {
		t.Error("bounds contain NaN")
	}
}
