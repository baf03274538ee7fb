package keepsake

import (
	"image/color"

	"keepsake-backend/internal/models"
)

type RGB struct {
	R, G, B int
}

func (c RGB) Color() color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

type Palette struct {
	Background RGB
	Band       RGB
	BandSoft   RGB
	Accent     RGB
	Ink        RGB
	Muted      RGB
}

func DefaultPalette() Palette {
	return Palette{
		Background: RGB{253, 248, 240},
		Band:       RGB{244, 196, 178},
		BandSoft:   RGB{250, 226, 214},
		Accent:     RGB{214, 92, 92},
		Ink:        RGB{51, 43, 40},
		Muted:      RGB{128, 112, 104},
	}
}

// bandFor tints the cover bands per occasion so keepsakes are easy to tell
// apart on a shelf.
func (p Palette) bandFor(o models.Occasion) RGB {
	switch o {
	case models.OccasionBaby:
		return RGB{190, 220, 236}
	case models.OccasionGraduation:
		return RGB{196, 204, 238}
	case models.OccasionSympathy:
		return RGB{206, 214, 204}
	case models.OccasionRetirement, models.OccasionFarewell:
		return RGB{240, 214, 160}
	default:
		return p.Band
	}
}
