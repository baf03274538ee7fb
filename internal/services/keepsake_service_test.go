package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/layout"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/view"
)

func newKeepsakeFixture(t *testing.T, status models.PageStatus) (*fakeStore, *models.Page, *fakeExporter, *KeepsakeService) {
	t.Helper()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	store := newFakeStore()
	page := store.addPage(status)
	store.addContribution(page.ID, "Ana", "Happy birthday")
	store.addContribution(page.ID, "Ben", "Have a great day")
	exporter := &fakeExporter{}

	svc := NewKeepsakeService(KeepsakeServiceConfig{
		Pages:         store,
		Contributions: store,
		Reactions:     &fakeReactions{},
		Renderer:      renderer,
		Exporter:      exporter,
		Brand:         "Keepsake",
	})
	return store, page, exporter, svc
}

func TestPrintLayoutIsAvailableInAnyStatus(t *testing.T) {
	_, page, _, svc := newKeepsakeFixture(t, models.StatusCollecting)

	pl, err := svc.PrintLayout(context.Background(), page.Slug)
	require.NoError(t, err)
	require.NotEmpty(t, pl.Pages)
	assert.Equal(t, layout.KindCover, pl.Pages[0].Kind)
	assert.Equal(t, layout.KindBack, pl.Pages[len(pl.Pages)-1].Kind)
	assert.Equal(t, 2, pl.Meta.ContributionCount)

	html, err := svc.PrintHTML(context.Background(), page.Slug)
	require.NoError(t, err)
	assert.Contains(t, html, "Have a great day")
}

func TestKeepsakeHTMLGating(t *testing.T) {
	_, page, _, svc := newKeepsakeFixture(t, models.StatusActive)

	_, err := svc.KeepsakeHTML(context.Background(), page.Slug, Viewer{VisitorID: "v1"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	html, err := svc.KeepsakeHTML(context.Background(), page.Slug, Viewer{UserID: page.CreatorID})
	require.NoError(t, err)
	assert.Contains(t, html, "Happy birthday")
}

func TestExportPDFGate(t *testing.T) {
	_, page, exporter, svc := newKeepsakeFixture(t, models.StatusRevealed)

	_, err := svc.ExportPDF(context.Background(), page.Slug, ExportOptions{})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Empty(t, exporter.html)

	doc, err := svc.ExportPDF(context.Background(), page.Slug, ExportOptions{Force: true})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Bytes)
	assert.NotContains(t, exporter.html, "data-ui-only")
}

func TestExportPDFThanked(t *testing.T) {
	_, page, exporter, svc := newKeepsakeFixture(t, models.StatusThanked)

	doc, err := svc.ExportPDF(context.Background(), page.Slug, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Keepsake_Zoe_20261018.pdf", doc.Filename)
	assert.Equal(t, "Zoë", exporter.meta.RecipientName)
	assert.Equal(t, 2, exporter.meta.ContributorCount)
}

func TestExportPDFCaptureFailure(t *testing.T) {
	_, page, exporter, svc := newKeepsakeFixture(t, models.StatusComplete)
	exporter.err = apperr.E(apperr.KindCapture, "capture failed", nil)

	doc, err := svc.ExportPDF(context.Background(), page.Slug, ExportOptions{})
	assert.Nil(t, doc)
	assert.Equal(t, apperr.KindCapture, apperr.KindOf(err))
}

func TestAIServiceSticker(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusCollecting)
	blobs := newFakeBlobs()
	gen := &fakeGenerator{sticker: []byte("png"), suggestions: []string{"a", "b"}}
	svc := NewAIService(store, gen, blobs, nil)

	res, err := svc.Sticker(context.Background(), page.Slug, models.StickerRequest{Prompt: "a balloon"})
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), blobs.uploaded[res.AIStickerPath])
	assert.Equal(t, "https://cdn.test/"+res.AIStickerPath, res.AIStickerURL)

	suggestions, err := svc.Suggest(context.Background(), page.Slug, models.SuggestRequest{ContributorName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, suggestions)
	assert.Equal(t, models.OccasionBirthday, gen.lastInput.Occasion)
}

func TestAIServiceRequiresCollectingPage(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusRevealed)
	svc := NewAIService(store, &fakeGenerator{}, newFakeBlobs(), nil)

	_, err := svc.Sticker(context.Background(), page.Slug, models.StickerRequest{Prompt: "cake"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = NewAIService(store, nil, nil, nil).Suggest(context.Background(), "missing", models.SuggestRequest{})
	assert.Equal(t, apperr.KindTransient, apperr.KindOf(err))
}
