package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// FillImage rasterizes the Fill primitives of prims onto a transparent
// w×h image, in order, with alpha blending. Canvases that draw strokes
// and text natively but lack polygon fills overlay the result.
func FillImage(prims []Primitive, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return dst
	}
	z := vector.NewRasterizer(w, h)
	for _, p := range prims {
		f, ok := p.(Fill)
		if !ok || len(f.Polygon) < 3 {
			continue
		}
		z.Reset(w, h)
		z.DrawOp = draw.Over
		z.MoveTo(float32(f.Polygon[0].X), float32(f.Polygon[0].Y))
		for _, v := range f.Polygon[1:] {
			z.LineTo(float32(v.X), float32(v.Y))
		}
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), image.NewUniform(f.Color), image.Point{})
	}
	return dst
}
