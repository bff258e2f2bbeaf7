// Package imageio decodes grayscale images into [0,1]-valued rasters and
// writes rasters back to disk. JPEG, PNG, BMP and TIFF are recognized by
// content, covering both the photographic formats of typical test data and
// the TIFF stacks electron microscopes emit.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	// Register the remaining decodable formats with image.Decode; png is
	// already registered through the named import above.
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"ctvm/pkg/raster"
)

// Load decodes the image at path into a grayscale raster with entries in
// [0,1]. Color images are reduced to their red channel after the decoder's
// own conversion, matching the grayscale convention of 16-bit medical data.
func Load(path string) (*raster.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out, err := raster.New(height, width)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Convert 16-bit color to float64 in the 0-1 range.
			out.Set(y, x, float64(r)/65535.0)
		}
	}
	return out, nil
}

// Save writes the raster as a 16-bit grayscale PNG. The image is min-max
// normalized into [0,1] first; a constant image carries no contrast and is
// written as all white. The input raster is not modified.
func Save(path string, im *raster.Image) error {
	norm := im.Clone()
	norm.Normalize()

	img := image.NewGray16(image.Rect(0, 0, norm.Cols(), norm.Rows()))
	for y := 0; y < norm.Rows(); y++ {
		for x := 0; x < norm.Cols(); x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(norm.At(y, x) * 65535.0)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	return nil
}
