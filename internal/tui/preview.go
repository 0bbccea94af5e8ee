package tui

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/qeesung/image2ascii/convert"

	"github.com/evcraddock/build-your-day/internal/asset"
)

// loadPreview draws the venue's first image as ASCII art.
func loadPreview(images *asset.Resolver, venueName string, width, height int) (art string, err error) {
	list := images.Images(venueName, "")
	if len(list) == 0 {
		return "", nil
	}

	f, err := images.Open(list[0].File)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", list[0].File, cerr)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", list[0].File, err)
	}
	return convertToASCII(img, width, height), nil
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.FitScreen = false
	opts.Colored = true
	opts.Ratio = 0.5 // terminal cells are about twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
