// Package preview renders built depth meshes to small shaded images so a
// conversion can be eyeballed without opening the mesh in a 3D tool.
package preview

import (
	"image"
	"math"

	"npy-depth-mesh/internal/mathutil"
	"npy-depth-mesh/internal/mesh"
)

// Base surface color before shading.
var baseColor = [3]float64{168, 178, 196}

// Render draws the geometry into a size×size NRGBA image from a fixed
// orthographic three-quarter view, flat-shaded with a single light.
// Supersample > 1 renders larger and lets the caller downsample.
func Render(g *mesh.Geometry, size, supersample int) *image.NRGBA {
	renderSize := size * supersample
	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	if len(g.Vertices) == 0 {
		return img
	}

	// Turntable view: spin 30° around z, then tip 60° toward the camera.
	view := mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(-60)), mathutil.RotZ(mathutil.Deg2Rad(30)))

	min, max := g.Bounds()
	center := min.Add(max).Scale(0.5)

	// Fit the rotated bounding sphere into the image with a margin.
	radius := max.Sub(min).Len() * 0.5
	if radius < 1e-9 {
		radius = 1e-9
	}
	margin := float64(16 * supersample)
	scale := (float64(renderSize)/2 - margin) / radius

	px := make([]float64, len(g.Vertices))
	py := make([]float64, len(g.Vertices))
	pz := make([]float64, len(g.Vertices))
	half := float64(renderSize) / 2
	for i, v := range g.Vertices {
		tv := view.MulVec3(v.Sub(center))
		px[i] = half + tv[0]*scale
		py[i] = half - tv[1]*scale // image y grows downward
		pz[i] = tv[2] * scale
	}

	light := mathutil.Vec3{-0.35, -0.5, 0.8}.Normalize()

	fb := NewFrameBuffer(renderSize, renderSize)
	for _, t := range g.Triangles() {
		fillTriangle(fb, px, py, pz, t, light)
	}

	copy(img.Pix, fb.Color)
	return img
}

// fillTriangle rasterizes one flat-shaded triangle with a z-buffer test.
func fillTriangle(fb *FrameBuffer, px, py, pz []float64, t [3]int, light mathutil.Vec3) {
	x0, y0, z0 := px[t[0]], py[t[0]], pz[t[0]]
	x1, y1, z1 := px[t[1]], py[t[1]], pz[t[1]]
	x2, y2, z2 := px[t[2]], py[t[2]], pz[t[2]]

	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if math.Abs(area) < 1e-9 {
		return
	}

	n := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.
		Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}).
		Normalize()
	shade := 0.35 + 0.65*math.Abs(n.Dot(light))

	var r, g, b uint8
	r = clamp8(baseColor[0] * shade)
	g = clamp8(baseColor[1] * shade)
	b = clamp8(baseColor[2] * shade)

	minX := int(math.Floor(min3(x0, x1, x2)))
	maxX := int(math.Ceil(max3(x0, x1, x2)))
	minY := int(math.Floor(min3(y0, y1, y2)))
	maxY := int(math.Ceil(max3(y0, y1, y2)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}

	invArea := 1.0 / area
	for y := minY; y <= maxY; y++ {
		fy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			fx := float64(x) + 0.5
			w0 := ((x1-fx)*(y2-fy) - (y1-fy)*(x2-fx)) * invArea
			w1 := ((x2-fx)*(y0-fy) - (y2-fy)*(x0-fx)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			idx := y*fb.Width + x
			if z <= fb.ZBuf[idx] {
				continue
			}
			fb.ZBuf[idx] = z

			i := idx * 4
			fb.Color[i] = r
			fb.Color[i+1] = g
			fb.Color[i+2] = b
			fb.Color[i+3] = 255
		}
	}
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
