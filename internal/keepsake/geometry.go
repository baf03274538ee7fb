package keepsake

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Geometry describes the physical page in millimetres.
type Geometry struct {
	PageWidthMM    float64
	PageHeightMM   float64
	MarginTopMM    float64
	MarginBottomMM float64
	MarginSideMM   float64
}

// A4 is portrait A4 with the margins used for raster pages.
func A4() Geometry {
	return Geometry{
		PageWidthMM:    210,
		PageHeightMM:   297,
		MarginTopMM:    12,
		MarginBottomMM: 12,
		MarginSideMM:   10,
	}
}

func (g Geometry) ContentWidthMM() float64 {
	return g.PageWidthMM - 2*g.MarginSideMM
}

func (g Geometry) ContentHeightMM() float64 {
	return g.PageHeightMM - g.MarginTopMM - g.MarginBottomMM
}

// PixelsPerPage is the number of source rows that fit in one page's content
// area when the image is scaled to the content width.
func (g Geometry) PixelsPerPage(widthPx int) int {
	if widthPx <= 0 {
		return 0
	}
	px := int(math.Floor(g.ContentHeightMM() * float64(widthPx) / g.ContentWidthMM()))
	if px < 1 {
		px = 1
	}
	return px
}

// PageCount is how many pages an image of the given size spans.
func (g Geometry) PageCount(widthPx, heightPx int) int {
	per := g.PixelsPerPage(widthPx)
	if per == 0 || heightPx <= 0 {
		return 0
	}
	return (heightPx + per - 1) / per
}

// SliceRaster cuts src into page height strips. Every strip has the full
// page height; rows past the end of src are filled with bg.
func SliceRaster(src image.Image, g Geometry, bg color.Color) []*image.RGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	per := g.PixelsPerPage(width)
	count := g.PageCount(width, height)

	strips := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		strip := image.NewRGBA(image.Rect(0, 0, width, per))
		draw.Draw(strip, strip.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

		top := bounds.Min.Y + i*per
		rows := per
		if remaining := bounds.Max.Y - top; remaining < rows {
			rows = remaining
		}
		draw.Draw(strip, image.Rect(0, 0, width, rows), src, image.Pt(bounds.Min.X, top), draw.Over)
		strips = append(strips, strip)
	}
	return strips
}
