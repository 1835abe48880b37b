// Package imagemeta reads image pixel dimensions from file content.
//
// Dimensions come from decoding the image header, never from the file
// extension, so a renamed or corrupt file is rejected instead of trusted.
package imagemeta

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Dimensions is one image's pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// ShortestEdge returns the smaller of the two sides.
func (d Dimensions) ShortestEdge() int {
	if d.Width < d.Height {
		return d.Width
	}
	return d.Height
}

// Read decodes the image header at path and returns its dimensions along
// with the detected format (png, jpeg, gif).
func Read(path string) (Dimensions, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, "", err
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, "", fmt.Errorf("decode image header: %w", err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, format, nil
}
