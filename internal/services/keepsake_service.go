package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/layout"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/reactions"
	"keepsake-backend/internal/view"
)

type KeepsakeService struct {
	pages         PageStore
	contributions ContributionStore
	reactions     ReactionStore
	renderer      *view.Renderer
	exporter      Exporter
	layout        layout.Config
	brand         string
	logger        *zap.Logger
}

type KeepsakeServiceConfig struct {
	Pages         PageStore
	Contributions ContributionStore
	Reactions     ReactionStore
	Renderer      *view.Renderer
	Exporter      Exporter
	Layout        layout.Config
	Brand         string
	Logger        *zap.Logger
}

func NewKeepsakeService(cfg KeepsakeServiceConfig) *KeepsakeService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Layout == (layout.Config{}) {
		cfg.Layout = layout.DefaultConfig()
	}
	return &KeepsakeService{
		pages:         cfg.Pages,
		contributions: cfg.Contributions,
		reactions:     cfg.Reactions,
		renderer:      cfg.Renderer,
		exporter:      cfg.Exporter,
		layout:        cfg.Layout,
		brand:         cfg.Brand,
		logger:        cfg.Logger,
	}
}

// Viewer identifies who is looking at a keepsake.
type Viewer struct {
	UserID    uuid.UUID
	VisitorID string
}

type snapshot struct {
	page          *models.Page
	contributions []models.Contribution
	meta          keepsake.PageMeta
}

func (s *KeepsakeService) snapshot(ctx context.Context, slug string) (*snapshot, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributions.ListContributions(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	return &snapshot{
		page:          page,
		contributions: contributions,
		meta:          keepsake.NewPageMeta(s.brand, *page, contributions),
	}, nil
}

func (s *KeepsakeService) counts(ctx context.Context, contributions []models.Contribution, visitorID string) (map[uuid.UUID][]reactions.Count, error) {
	ids := make([]uuid.UUID, len(contributions))
	for i, c := range contributions {
		ids[i] = c.ID
	}
	rows, err := s.reactions.List(ctx, ids)
	if err != nil {
		return nil, err
	}
	return reactions.Aggregate(rows, visitorID), nil
}

type PrintLayout struct {
	Page   *models.Page
	Meta   keepsake.PageMeta
	Result layout.Result
	Pages  []layout.PageDescriptor
}

// PrintLayout paginates the current contributions. It is available in every
// status and computed fresh on each call.
func (s *KeepsakeService) PrintLayout(ctx context.Context, slug string) (*PrintLayout, error) {
	snap, err := s.snapshot(ctx, slug)
	if err != nil {
		return nil, err
	}
	result := layout.Paginate(snap.contributions, s.layout)
	return &PrintLayout{
		Page:   snap.page,
		Meta:   snap.meta,
		Result: result,
		Pages:  layout.Describe(result),
	}, nil
}

func (s *KeepsakeService) PrintHTML(ctx context.Context, slug string) (string, error) {
	pl, err := s.PrintLayout(ctx, slug)
	if err != nil {
		return "", err
	}
	return s.renderer.Print(pl.Meta, pl.Pages)
}

// KeepsakeHTML renders the interactive grid. Non-creators only see it once the
// page is revealed.
func (s *KeepsakeService) KeepsakeHTML(ctx context.Context, slug string, viewer Viewer) (string, error) {
	snap, err := s.snapshot(ctx, slug)
	if err != nil {
		return "", err
	}
	isCreator := viewer.UserID != uuid.Nil && viewer.UserID == snap.page.CreatorID
	if !lifecycle.CanViewKeepsake(snap.page.Status, isCreator) {
		return "", apperr.Forbidden("the keepsake has not been revealed yet")
	}

	counts, err := s.counts(ctx, snap.contributions, viewer.VisitorID)
	if err != nil {
		return "", err
	}
	return s.renderer.Grid(snap.meta, snap.contributions, counts, view.GridOptions{
		Slug:        slug,
		Interactive: true,
		IsCreator:   isCreator,
		CanReply:    lifecycle.CanReply(snap.page.Status),
	})
}

type ExportOptions struct {
	// Force skips the download gate. Used by the operator CLI.
	Force bool
}

// ExportPDF captures the grid and assembles the keepsake document.
func (s *KeepsakeService) ExportPDF(ctx context.Context, slug string, opts ExportOptions) (*keepsake.Document, error) {
	if s.exporter == nil {
		return nil, apperr.E(apperr.KindCapture, "keepsake export is not available", nil)
	}
	snap, err := s.snapshot(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !opts.Force && !lifecycle.CanDownloadKeepsake(snap.page.Status) {
		return nil, apperr.Forbidden("the keepsake can be downloaded once the recipient has said thank you")
	}

	counts, err := s.counts(ctx, snap.contributions, "")
	if err != nil {
		return nil, err
	}
	grid, err := s.renderer.Grid(snap.meta, snap.contributions, counts, view.GridOptions{Slug: slug})
	if err != nil {
		return nil, err
	}

	doc, err := s.exporter.Export(ctx, snap.meta, grid)
	if err != nil {
		s.logger.Error("keepsake export failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return doc, nil
}
