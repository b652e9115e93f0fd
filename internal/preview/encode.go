package preview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"npy-depth-mesh/internal/mesh"
)

// WriteFile renders geometry and writes the preview image to path, picking
// the codec from the extension: .webp, .png or .tga.
func WriteFile(path string, g *mesh.Geometry, size, supersample int) error {
	img := Render(g, size, supersample)
	if supersample > 1 {
		img = Downsample(img, size)
	}
	return encodeFile(path, img)
}

func encodeFile(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".png":
		err = png.Encode(f, img)
	case ".tga":
		err = tga.Encode(f, img)
	default:
		err = fmt.Errorf("preview: unknown image format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}
