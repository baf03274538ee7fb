package keepsake

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"go.uber.org/zap"
	"keepsake-backend/internal/apperr"
)

// Capturer renders HTML and returns a single full-height PNG.
type Capturer interface {
	Capture(ctx context.Context, html string) ([]byte, error)
}

type Document struct {
	Filename string
	Bytes    []byte
}

type Config struct {
	Brand    string
	Geometry Geometry
	Palette  Palette
	Clock    func() time.Time
	Logger   *zap.Logger
}

type Exporter struct {
	capturer Capturer
	cfg      Config
}

func NewExporter(capturer Capturer, cfg Config) *Exporter {
	if cfg.Brand == "" {
		cfg.Brand = "Keepsake"
	}
	if cfg.Geometry.PageWidthMM == 0 {
		cfg.Geometry = A4()
	}
	if cfg.Palette == (Palette{}) {
		cfg.Palette = DefaultPalette()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Exporter{capturer: capturer, cfg: cfg}
}

// Export builds the keepsake PDF: vector cover, the captured grid sliced into
// pages, vector back page. Nothing is returned unless every step succeeded.
func (e *Exporter) Export(ctx context.Context, meta PageMeta, gridHTML string) (*Document, error) {
	if meta.Brand == "" {
		meta.Brand = e.cfg.Brand
	}
	log := e.cfg.Logger.With(zap.String("recipient", meta.RecipientName))
	start := time.Now()

	raw, err := e.capturer.Capture(ctx, gridHTML)
	if err != nil {
		return nil, apperr.E(apperr.KindCapture, "failed to capture keepsake", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperr.E(apperr.KindCapture, "failed to decode keepsake capture", err)
	}

	doc := newDocument(e.cfg.Geometry, e.cfg.Palette, fmt.Sprintf("%s for %s", meta.Occasion.Label(), meta.RecipientName))
	doc.cover(meta)

	strips := SliceRaster(img, e.cfg.Geometry, e.cfg.Palette.Background.Color())
	for i, strip := range strips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := doc.raster(fmt.Sprintf("strip-%d", i), strip); err != nil {
			return nil, apperr.E(apperr.KindCapture, "failed to place keepsake page", err)
		}
	}

	doc.back(meta)

	out, err := doc.bytes()
	if err != nil {
		return nil, apperr.E(apperr.KindInternal, "failed to write keepsake document", err)
	}

	log.Info("keepsake exported",
		zap.Int("raster_pages", len(strips)),
		zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Document{
		Filename: Filename(meta.Brand, meta.RecipientName, e.cfg.Clock()),
		Bytes:    out,
	}, nil
}
