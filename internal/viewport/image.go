package viewport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sync"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds either dimension of a rendered page and of a source
// image. MaxArea bounds the pixel count of a source image.
const (
	MaxPixels = 16384
	MaxArea   = 1 << 26
)

// ImageDocument is an Adapter for raster documents. Each GIF frame is a
// page; every other supported format (PNG, JPEG, BMP, TIFF, WebP) is a
// single page.
type ImageDocument struct {
	// Scale is the pixel size of a page at zoom 1, relative to the source
	// image. Zero means 1.
	Scale  float64
	Scaler draw.Scaler
	Log    zerolog.Logger

	mu    sync.RWMutex
	pages []image.Image
}

func NewImageDocument(log zerolog.Logger) *ImageDocument {
	return &ImageDocument{
		Scaler: draw.ApproxBiLinear,
		Log:    log.With().Str("component", "viewport").Logger(),
	}
}

func (d *ImageDocument) LoadDocument(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode document: %w", err)
	}
	if cfg.Width > MaxPixels || cfg.Height > MaxPixels || cfg.Width*cfg.Height > MaxArea {
		return 0, fmt.Errorf("%s document is %dx%d pixels: %w", format, cfg.Width, cfg.Height, ErrTooLarge)
	}

	var pages []image.Image
	if format == "gif" {
		pages, err = decodeGIFPages(data)
	} else {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		pages = []image.Image{img}
	}
	if err != nil {
		return 0, fmt.Errorf("decode %s document: %w", format, err)
	}

	d.mu.Lock()
	d.pages = pages
	d.mu.Unlock()

	d.Log.Info().Str("format", format).Int("pages", len(pages)).Msg("document loaded")
	return len(pages), nil
}

// decodeGIFPages composes every frame onto the logical screen so partial
// frames render like they do in an animation.
func decodeGIFPages(data []byte) ([]image.Image, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	screen := image.NewRGBA(bounds)
	pages := make([]image.Image, 0, len(g.Image))
	for _, frame := range g.Image {
		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		page := image.NewRGBA(bounds)
		draw.Draw(page, bounds, screen, bounds.Min, draw.Src)
		pages = append(pages, page)
	}
	return pages, nil
}

func (d *ImageDocument) PageCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.pages)
}

// RenderPage scales page number page by zoom.
func (d *ImageDocument) RenderPage(ctx context.Context, page int, zoom float64) (Page, error) {
	d.mu.RLock()
	pages := d.pages
	d.mu.RUnlock()

	if len(pages) == 0 {
		return Page{}, ErrNoDocument
	}
	if page < 1 || page > len(pages) {
		return Page{}, fmt.Errorf("page %d of %d: %w", page, len(pages), ErrPageOutOfRange)
	}
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return Page{}, fmt.Errorf("invalid zoom %v", zoom)
	}

	scale := d.Scale
	if scale <= 0 {
		scale = 1
	}
	src := pages[page-1]
	sb := src.Bounds()
	w := int(math.Round(float64(sb.Dx()) * zoom * scale))
	h := int(math.Round(float64(sb.Dy()) * zoom * scale))
	if w < 1 || h < 1 || w > MaxPixels || h > MaxPixels {
		return Page{}, fmt.Errorf("page %d at zoom %.2f is %dx%d pixels", page, zoom, w, h)
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler := d.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)

	d.Log.Debug().Int("page", page).Float64("zoom", zoom).Int("width", w).Int("height", h).Msg("page rendered")
	return Page{Number: page, Zoom: zoom, Image: dst, Width: w, Height: h}, nil
}
