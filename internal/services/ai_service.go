package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"keepsake-backend/internal/ai"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/supabase"
)

type AIService struct {
	pages     PageStore
	generator Generator
	blobs     BlobStore
	logger    *zap.Logger
}

func NewAIService(pages PageStore, generator Generator, blobs BlobStore, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{pages: pages, generator: generator, blobs: blobs, logger: logger}
}

func (s *AIService) collectingPage(ctx context.Context, slug string) (*models.Page, error) {
	if s.generator == nil {
		return nil, apperr.E(apperr.KindTransient, "AI features are not enabled", nil)
	}
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !lifecycle.AcceptsContributions(page.Status) {
		return nil, apperr.Conflict("this page is no longer accepting messages")
	}
	return page, nil
}

func (s *AIService) Suggest(ctx context.Context, slug string, req models.SuggestRequest) ([]string, error) {
	page, err := s.collectingPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	hint, err := optionalText("hint", req.Hint, MaxStickerPromptLen)
	if err != nil {
		return nil, err
	}
	return s.generator.SuggestMessages(ctx, ai.SuggestInput{
		RecipientName:   page.RecipientName,
		Occasion:        page.TemplateType,
		ContributorName: strings.TrimSpace(req.ContributorName),
		Hint:            hint,
	})
}

// Sticker generates a sticker and stores it under the page. The returned path
// is later passed back when the contribution is submitted.
func (s *AIService) Sticker(ctx context.Context, slug string, req models.StickerRequest) (*models.StickerResponse, error) {
	page, err := s.collectingPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	prompt, err := requiredText("prompt", req.Prompt, MaxStickerPromptLen)
	if err != nil {
		return nil, err
	}

	png, err := s.generator.GenerateSticker(ctx, prompt)
	if err != nil {
		return nil, err
	}

	path := supabase.StickerPath(page.ID)
	url, err := s.blobs.Upload(path, "image/png", png)
	if err != nil {
		return nil, apperr.E(apperr.KindTransient, "failed to store sticker", err)
	}
	s.logger.Info("sticker generated", zap.String("slug", slug), zap.String("path", path))
	return &models.StickerResponse{AIStickerURL: url, AIStickerPath: path}, nil
}
