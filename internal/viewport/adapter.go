// Package viewport supplies rendered pages to the markup editor. The editor
// only ever reads the pixel size of a rendered page; the bitmap is for the
// display layer.
package viewport

import (
	"context"
	"errors"
	"image"
)

var (
	ErrNoDocument     = errors.New("no document loaded")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrTooLarge       = errors.New("document too large")
)

// Page is one rendered page.
type Page struct {
	Number int
	Zoom   float64
	Image  image.Image
	Width  int
	Height int
}

// Adapter decodes documents and renders their pages. Pages are numbered
// from 1.
type Adapter interface {
	LoadDocument(ctx context.Context, data []byte) (pageCount int, err error)
	RenderPage(ctx context.Context, page int, zoom float64) (Page, error)
}
