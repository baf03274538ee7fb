// Package view renders the keepsake grid and the paginated print view.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/layout"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/reactions"
)

//go:embed templates/*.html
var templateFS embed.FS

type GridOptions struct {
	Slug string
	// Interactive includes the reaction picker, reply form and delete
	// controls. Captures render with Interactive set to false.
	Interactive bool
	IsCreator   bool
	CanReply    bool
}

type card struct {
	ID        uuid.UUID
	Author    string
	Message   string
	VisualURL string
	Reply     string
	Reactions []reactions.Count
}

type gridData struct {
	GridOptions
	Meta  keepsake.PageMeta
	Cards []card
	Emoji []string
}

type printPage struct {
	Number int
	Kind   layout.Kind
	Weight float64
	Cards  []card
}

type printData struct {
	Meta  keepsake.PageMeta
	Pages []printPage
}

type Renderer struct {
	grid  *template.Template
	print *template.Template
}

func NewRenderer() (*Renderer, error) {
	grid, err := template.ParseFS(templateFS, "templates/grid.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid template: %w", err)
	}
	printTmpl, err := template.ParseFS(templateFS, "templates/print.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse print template: %w", err)
	}
	return &Renderer{grid: grid, print: printTmpl}, nil
}

func toCard(c models.Contribution, counts map[uuid.UUID][]reactions.Count) card {
	return card{
		ID:        c.ID,
		Author:    c.ContributorName,
		Message:   c.Message(),
		VisualURL: c.VisualURL(),
		Reply:     c.RecipientReply.String,
		Reactions: counts[c.ID],
	}
}

// Grid renders contributions in canonical order as a two column card grid.
func (r *Renderer) Grid(meta keepsake.PageMeta, contributions []models.Contribution, counts map[uuid.UUID][]reactions.Count, opts GridOptions) (string, error) {
	data := gridData{GridOptions: opts, Meta: meta, Emoji: reactions.Allowed}
	for _, c := range contributions {
		data.Cards = append(data.Cards, toCard(c, counts))
	}

	var buf bytes.Buffer
	if err := r.grid.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render grid: %w", err)
	}
	return buf.String(), nil
}

// Print renders one A4 frame per page descriptor.
func (r *Renderer) Print(meta keepsake.PageMeta, pages []layout.PageDescriptor) (string, error) {
	data := printData{Meta: meta}
	for _, p := range pages {
		pp := printPage{Number: p.Number, Kind: p.Kind, Weight: p.Weight}
		for _, c := range p.Contributions {
			pp.Cards = append(pp.Cards, toCard(c, nil))
		}
		data.Pages = append(data.Pages, pp)
	}

	var buf bytes.Buffer
	if err := r.print.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render print view: %w", err)
	}
	return buf.String(), nil
}
