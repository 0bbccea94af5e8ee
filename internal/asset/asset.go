// Package asset locates the photos shipped for each venue.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPerVenue is the number of photos looked up per venue.
const DefaultPerVenue = 2

var nameReplacer = strings.NewReplacer(
	" ", "_",
	"'", "",
	"`", "",
	"’", "",
)

// SanitizeName turns a venue name into the stem used by its image files.
func SanitizeName(name string) string {
	return nameReplacer.Replace(name)
}

// AssetMissingError reports an image that could not be opened. Callers drop
// the image and keep going.
type AssetMissingError struct {
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error {
	return e.Err
}

// Image is one photo of a venue. File is relative to the resolver's dir.
type Image struct {
	File    string `json:"file"`
	Caption string `json:"caption,omitempty"`
}

// Resolver maps venue names to image files under Dir.
type Resolver struct {
	Dir      string
	PerVenue int
}

// NewResolver creates a resolver for the given image directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir, PerVenue: DefaultPerVenue}
}

// Images lists the expected image files for a venue, e.g. Ezra_&_Gil_001.jpg.
// The last image carries the source attribution caption.
func (r *Resolver) Images(venueName, source string) []Image {
	n := r.PerVenue
	if n <= 0 {
		n = DefaultPerVenue
	}
	stem := SanitizeName(venueName)
	images := make([]Image, n)
	for i := range images {
		images[i].File = fmt.Sprintf("%s_%03d.jpg", stem, i+1)
	}
	if source != "" {
		images[n-1].Caption = "Source: " + source
	}
	return images
}

// Available filters images down to the ones present on disk. Missing files
// are returned as *AssetMissingError values alongside.
func (r *Resolver) Available(images []Image) ([]Image, []error) {
	var ok []Image
	var errs []error
	for _, img := range images {
		p := r.Path(img.File)
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, &AssetMissingError{Path: p, Err: err})
			continue
		}
		ok = append(ok, img)
	}
	return ok, errs
}

// Path returns the on-disk path for an image file name.
func (r *Resolver) Path(file string) string {
	return filepath.Join(r.Dir, filepath.Base(file))
}

// Open opens an image file. Any failure is an *AssetMissingError.
func (r *Resolver) Open(file string) (*os.File, error) {
	p := r.Path(file)
	f, err := os.Open(p)
	if err != nil {
		return nil, &AssetMissingError{Path: p, Err: err}
	}
	return f, nil
}

// IsMissing reports whether err is an AssetMissingError for a file that does
// not exist.
func IsMissing(err error) bool {
	var missing *AssetMissingError
	return errors.As(err, &missing) && errors.Is(missing.Err, fs.ErrNotExist)
}
