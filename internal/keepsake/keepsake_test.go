package keepsake

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
)

type fakeCapturer struct {
	png  []byte
	err  error
	html string
}

func (f *fakeCapturer) Capture(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.png, f.err
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"O'Brien & Sons!": "OBrien_Sons",
		"Zoë Saldaña":     "Zoe_Saldana",
		"  Ana   María ":  "Ana_Maria",
		"!!!":             "Recipient",
		"":                "Recipient",
		"Team 42":         "Team_42",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), "input %q", in)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "Keepsake_OBrien_Sons_20260305.pdf", Filename("Keepsake", "O'Brien & Sons!", at))
	assert.Equal(t, "Keepsake_Recipient_20260305.pdf", Filename("Keepsake", "", at))
}

func TestGeometry(t *testing.T) {
	g := A4()
	assert.Equal(t, 190.0, g.ContentWidthMM())
	assert.Equal(t, 273.0, g.ContentHeightMM())

	// 273 * 1588 / 190 = 2281.7
	assert.Equal(t, 2281, g.PixelsPerPage(1588))
	assert.Equal(t, 3, g.PageCount(1588, 5000))
	assert.Equal(t, 1, g.PageCount(1588, 2281))
	assert.Equal(t, 2, g.PageCount(1588, 2282))

	assert.Equal(t, 0, g.PixelsPerPage(0))
	assert.Equal(t, 0, g.PageCount(1588, 0))
}

func TestSliceRasterPadsLastStrip(t *testing.T) {
	g := A4()
	red := color.RGBA{R: 255, A: 255}
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	src := image.NewRGBA(image.Rect(0, 0, 10, 30))
	draw.Draw(src, src.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)

	// 273 * 10 / 190 = 14.4 rows per page
	strips := SliceRaster(src, g, bg)
	require.Len(t, strips, 3)
	for _, s := range strips {
		assert.Equal(t, image.Rect(0, 0, 10, 14), s.Bounds())
	}

	last := strips[2]
	assert.Equal(t, red, last.RGBAAt(5, 0))
	assert.Equal(t, red, last.RGBAAt(5, 1))
	assert.Equal(t, bg, last.RGBAAt(5, 2))
	assert.Equal(t, bg, last.RGBAAt(5, 13))
}

func TestSliceRasterEmptyImage(t *testing.T) {
	assert.Empty(t, SliceRaster(image.NewRGBA(image.Rect(0, 0, 10, 0)), A4(), color.White))
}

func TestNewPageMetaCountsDistinctPeople(t *testing.T) {
	page := models.Page{RecipientName: "Maya", TemplateType: models.OccasionBirthday}
	contributions := []models.Contribution{
		{ID: uuid.New(), ContributorName: "Sam"},
		{ID: uuid.New(), ContributorName: "sam "},
		{ID: uuid.New(), ContributorName: "Alex"},
	}
	meta := NewPageMeta("Keepsake", page, contributions)
	assert.Equal(t, 3, meta.ContributionCount)
	assert.Equal(t, 2, meta.ContributorCount)
	assert.Equal(t, "3 messages from 2 people", meta.CountLine())

	single := NewPageMeta("Keepsake", page, contributions[:1])
	assert.Equal(t, "1 message from 1 person", single.CountLine())
}

func TestExportProducesDocument(t *testing.T) {
	capturer := &fakeCapturer{png: solidPNG(t, 200, 700, color.RGBA{R: 240, G: 240, B: 250, A: 255})}
	exporter := NewExporter(capturer, Config{
		Clock: func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) },
	})

	meta := PageMeta{
		RecipientName:     "Zoë O'Brien",
		Occasion:          models.OccasionFarewell,
		CreatedAt:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ContributionCount: 4,
		ContributorCount:  3,
	}
	doc, err := exporter.Export(context.Background(), meta, "<html></html>")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Keepsake_Zoe_OBrien_20261001.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
	assert.Equal(t, "<html></html>", capturer.html)
}

func TestExportRecipientNames(t *testing.T) {
	names := []string{
		"Maya",
		"José",
		"D’Arcy",
		"李小龙",
		"Zoë " + strings.Repeat("Wolfeschlegelsteinhausen ", 3),
		strings.Repeat("Ä", 80),
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			capturer := &fakeCapturer{png: solidPNG(t, 100, 300, color.White)}
			doc, err := NewExporter(capturer, Config{}).Export(context.Background(), PageMeta{
				RecipientName: name,
				Occasion:      models.OccasionBirthday,
			}, "<html></html>")
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
		})
	}
}

func TestFitClampsLongText(t *testing.T) {
	d := newDocument(A4(), DefaultPalette(), "fit")
	d.pdf.AddPage()
	width := 150.0

	size, lines := d.fit("José D’Arcy", "B", width, []float64{34, 28}, 3)
	assert.Equal(t, 34.0, size)
	assert.Equal(t, []string{"José D’Arcy"}, lines)

	long := strings.Repeat("Bartholomew ", 20)
	size, lines = d.fit(long, "B", width, []float64{34, 28, 22}, 3)
	assert.Equal(t, 22.0, size)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[2], "…"))
	for _, line := range lines {
		assert.LessOrEqual(t, d.pdf.GetStringWidth(d.tr(line)), width)
	}
	require.NoError(t, d.pdf.Error())
}

func TestExportCaptureFailureReturnsNoDocument(t *testing.T) {
	exporter := NewExporter(&fakeCapturer{err: errors.New("browser crashed")}, Config{})

	doc, err := exporter.Export(context.Background(), PageMeta{RecipientName: "Maya"}, "<html></html>")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, apperr.KindCapture, apperr.KindOf(err))
}

func TestExportUndecodableCapture(t *testing.T) {
	exporter := NewExporter(&fakeCapturer{png: []byte("not a png")}, Config{})

	doc, err := exporter.Export(context.Background(), PageMeta{RecipientName: "Maya"}, "")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, apperr.KindCapture, apperr.KindOf(err))
}
