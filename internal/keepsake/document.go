package keepsake

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"keepsake-backend/internal/models"
)

// PageMeta is what the cover and back pages print about the keepsake.
type PageMeta struct {
	Brand             string
	RecipientName     string
	Occasion          models.Occasion
	CreatedAt         time.Time
	ContributionCount int
	ContributorCount  int
}

// NewPageMeta summarises a page and its contributions for the cover.
func NewPageMeta(brand string, page models.Page, contributions []models.Contribution) PageMeta {
	people := make(map[string]struct{}, len(contributions))
	for _, c := range contributions {
		people[strings.ToLower(strings.TrimSpace(c.ContributorName))] = struct{}{}
	}
	return PageMeta{
		Brand:             brand,
		RecipientName:     page.RecipientName,
		Occasion:          page.TemplateType,
		CreatedAt:         page.CreatedAt,
		ContributionCount: len(contributions),
		ContributorCount:  len(people),
	}
}

// CountLine is the summary printed under the cover date.
func (m PageMeta) CountLine() string {
	messages := plural(m.ContributionCount, "message", "messages")
	if m.ContributorCount == 0 {
		return messages
	}
	return fmt.Sprintf("%s from %s", messages, plural(m.ContributorCount, "person", "people"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

type document struct {
	pdf     *fpdf.Fpdf
	geom    Geometry
	palette Palette
	tr      func(string) string
}

func newDocument(g Geometry, p Palette, title string) *document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.PageWidthMM, Ht: g.PageHeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("keepsake", true)

	return &document{
		pdf:     pdf,
		geom:    g,
		palette: p,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *document) fill(c RGB) {
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

func (d *document) text(c RGB) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *document) background() {
	d.fill(d.palette.Background)
	d.pdf.Rect(0, 0, d.geom.PageWidthMM, d.geom.PageHeightMM, "F")
}

func (d *document) centered(y, h float64, s string) {
	d.pdf.SetXY(0, y)
	d.pdf.CellFormat(d.geom.PageWidthMM, h, d.tr(s), "", 0, "C", false, 0, "")
}

// wrap breaks s into lines no wider than width in the current font. Widths
// are measured on the code page text, lines are returned as UTF-8.
func (d *document) wrap(s string, width float64) []string {
	fits := func(line string) bool {
		return d.pdf.GetStringWidth(d.tr(line)) <= width
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if fits(candidate) {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = ""
		for _, r := range word {
			if line != "" && !fits(line+string(r)) {
				lines = append(lines, line)
				line = ""
			}
			line += string(r)
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// fit picks the largest font size at which s wraps into at most maxLines.
// When none does, the smallest size is used and the text is cut with an
// ellipsis.
func (d *document) fit(s, style string, width float64, sizes []float64, maxLines int) (float64, []string) {
	var lines []string
	var size float64
	for _, size = range sizes {
		d.pdf.SetFont("Helvetica", style, size)
		lines = d.wrap(s, width)
		if len(lines) <= maxLines {
			return size, lines
		}
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	for len(last) > 0 && d.pdf.GetStringWidth(d.tr(string(last)+"…")) > width {
		last = last[:len(last)-1]
	}
	lines[maxLines-1] = strings.TrimSpace(string(last)) + "…"
	return size, lines
}

func (d *document) cover(meta PageMeta) {
	pdf := d.pdf
	w := d.geom.PageWidthMM
	h := d.geom.PageHeightMM
	band := d.palette.bandFor(meta.Occasion)

	pdf.AddPage()
	d.background()

	d.fill(band)
	pdf.Rect(0, 0, w, 72, "F")
	d.fill(d.palette.BandSoft)
	pdf.Rect(0, 72, w, 6, "F")
	pdf.Rect(0, h-34, w, 34, "F")

	d.glyph(meta.Occasion, w/2, 98, 15)

	d.text(d.palette.Muted)
	pdf.SetFont("Helvetica", "", 13)
	d.centered(122, 8, "A keepsake for")

	d.text(d.palette.Ink)
	size, lines := d.fit(meta.RecipientName, "B", w-2*(d.geom.MarginSideMM+10), []float64{34, 28, 22}, 3)
	lineH := size * 0.42
	y := 134.0
	for _, line := range lines {
		d.centered(y, lineH, line)
		y += lineH
	}

	d.text(d.palette.Accent)
	pdf.SetFont("Helvetica", "I", 17)
	d.centered(y+6, 10, meta.Occasion.Label())

	d.text(d.palette.Muted)
	pdf.SetFont("Helvetica", "", 11)
	d.centered(h-58, 6, "Created "+meta.CreatedAt.Format("2 January 2006"))
	d.centered(h-51, 6, meta.CountLine())

	d.text(d.palette.Ink)
	pdf.SetFont("Helvetica", "B", 12)
	d.centered(h-20, 6, meta.Brand)
}

func (d *document) back(meta PageMeta) {
	pdf := d.pdf
	w := d.geom.PageWidthMM
	h := d.geom.PageHeightMM

	pdf.AddPage()
	d.background()

	d.fill(d.palette.BandSoft)
	pdf.Rect(0, h/2-40, w, 80, "F")

	d.text(d.palette.Ink)
	pdf.SetFont("Helvetica", "B", 22)
	d.centered(h/2-16, 10, "Thank you")
	size, lines := d.fit("to everyone who shared a memory for "+meta.RecipientName+".", "", w-40, []float64{13, 11}, 3)
	y := h/2 - 2
	for _, line := range lines {
		d.centered(y, size*0.5, line)
		y += size * 0.5
	}

	d.fill(d.palette.Accent)
	heart(pdf, w/2, h-42, 5)
	d.text(d.palette.Muted)
	pdf.SetFont("Helvetica", "", 10)
	d.centered(h-32, 6, "Made with love on "+meta.Brand)
}

// raster places one pre-sliced strip inside the content area of a new page.
func (d *document) raster(name string, strip *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, strip); err != nil {
		return fmt.Errorf("failed to encode page strip: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)

	bounds := strip.Bounds()
	contentW := d.geom.ContentWidthMM()
	stripH := float64(bounds.Dy()) * contentW / float64(bounds.Dx())

	d.pdf.AddPage()
	d.background()
	d.pdf.ImageOptions(name, d.geom.MarginSideMM, d.geom.MarginTopMM, contentW, stripH, false, opts, 0, "")
	return d.pdf.Error()
}

func (d *document) glyph(o models.Occasion, cx, cy, r float64) {
	pdf := d.pdf
	d.fill(d.palette.Accent)
	pdf.SetDrawColor(d.palette.Accent.R, d.palette.Accent.G, d.palette.Accent.B)

	switch o {
	case models.OccasionWedding, models.OccasionAnniversary:
		pdf.SetLineWidth(2)
		pdf.Circle(cx-r*0.35, cy, r*0.6, "D")
		pdf.Circle(cx+r*0.35, cy, r*0.6, "D")
	case models.OccasionBaby, models.OccasionThankYou:
		heart(pdf, cx, cy, r)
	case models.OccasionGraduation:
		pdf.Polygon([]fpdf.PointType{
			{X: cx - r, Y: cy}, {X: cx, Y: cy - r*0.5}, {X: cx + r, Y: cy}, {X: cx, Y: cy + r*0.5},
		}, "F")
		pdf.Rect(cx-r*0.45, cy+r*0.1, r*0.9, r*0.55, "F")
	case models.OccasionRetirement:
		pdf.Circle(cx, cy, r*0.5, "F")
		pdf.SetLineWidth(1.2)
		for i := 0; i < 12; i++ {
			a := float64(i) * math.Pi / 6
			pdf.Line(cx+math.Cos(a)*r*0.7, cy+math.Sin(a)*r*0.7, cx+math.Cos(a)*r, cy+math.Sin(a)*r)
		}
	case models.OccasionSympathy:
		pdf.Ellipse(cx, cy, r*0.4, r, 35, "F")
	default:
		star(pdf, cx, cy, r)
	}
}

func star(pdf *fpdf.Fpdf, cx, cy, r float64) {
	points := make([]fpdf.PointType, 0, 10)
	for i := 0; i < 10; i++ {
		radius := r
		if i%2 == 1 {
			radius = r * 0.45
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		points = append(points, fpdf.PointType{X: cx + math.Cos(a)*radius, Y: cy + math.Sin(a)*radius})
	}
	pdf.Polygon(points, "F")
}

func heart(pdf *fpdf.Fpdf, cx, cy, r float64) {
	lobe := r * 0.5
	pdf.Circle(cx-lobe, cy-lobe*0.4, lobe, "F")
	pdf.Circle(cx+lobe, cy-lobe*0.4, lobe, "F")
	pdf.Polygon([]fpdf.PointType{
		{X: cx - r*0.98, Y: cy - lobe*0.1},
		{X: cx + r*0.98, Y: cy - lobe*0.1},
		{X: cx, Y: cy + r},
	}, "F")
}

func (d *document) bytes() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
