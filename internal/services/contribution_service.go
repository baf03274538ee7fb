package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/notify"
	"keepsake-backend/internal/reactions"
	"keepsake-backend/internal/supabase"
)

type ContributionService struct {
	pages         PageStore
	contributions ContributionStore
	reactions     ReactionStore
	blobs         BlobStore
	broadcaster   Broadcaster
	mailer        notify.Mailer
	appURL        string
	logger        *zap.Logger
}

type ContributionServiceConfig struct {
	Pages         PageStore
	Contributions ContributionStore
	Reactions     ReactionStore
	Blobs         BlobStore
	Broadcaster   Broadcaster
	Mailer        notify.Mailer
	AppURL        string
	Logger        *zap.Logger
}

func NewContributionService(cfg ContributionServiceConfig) *ContributionService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Mailer == nil {
		cfg.Mailer = notify.Noop{}
	}
	return &ContributionService{
		pages:         cfg.Pages,
		contributions: cfg.Contributions,
		reactions:     cfg.Reactions,
		blobs:         cfg.Blobs,
		broadcaster:   cfg.Broadcaster,
		mailer:        cfg.Mailer,
		appURL:        cfg.AppURL,
		logger:        cfg.Logger,
	}
}

type Photo struct {
	ContentType string
	Data        []byte
}

type NewContribution struct {
	ContributorName string
	Message         string
	Email           string
	Photo           *Photo
	// AIStickerPath references a sticker generated earlier for this page.
	AIStickerPath string
}

// Board is a page's contributions in canonical order with the visitor's
// reaction counts.
type Board struct {
	Page          *models.Page
	Contributions []models.Contribution
	Reactions     map[uuid.UUID][]reactions.Count
}

func (s *ContributionService) List(ctx context.Context, slug, visitorID string) (*Board, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	contributions, err := s.contributions.ListContributions(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts(ctx, contributions, visitorID)
	if err != nil {
		return nil, err
	}
	return &Board{Page: page, Contributions: contributions, Reactions: counts}, nil
}

func (s *ContributionService) counts(ctx context.Context, contributions []models.Contribution, visitorID string) (map[uuid.UUID][]reactions.Count, error) {
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

func (s *ContributionService) Create(ctx context.Context, slug string, in NewContribution) (*models.Contribution, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !lifecycle.AcceptsContributions(page.Status) {
		return nil, apperr.Conflict("this page is no longer accepting messages")
	}

	name, err := requiredText("contributor_name", in.ContributorName, MaxContributorNameLen)
	if err != nil {
		return nil, err
	}
	message, err := optionalText("message_text", in.Message, MaxMessageLen)
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(in.Email)
	if err != nil {
		return nil, err
	}
	sticker, err := stickerPath(page.ID, in.AIStickerPath)
	if err != nil {
		return nil, err
	}
	if message == "" && in.Photo == nil && sticker == "" {
		return nil, apperr.Validation("add a message, a photo or a sticker")
	}

	c := &models.Contribution{
		ID:               uuid.New(),
		PageID:           page.ID,
		ContributorName:  name,
		MessageText:      nullString(message),
		ContributorEmail: nullString(email),
	}
	if sticker != "" {
		c.AIStickerPath = nullString(sticker)
		c.AIStickerURL = nullString(s.blobs.GetPublicURL(sticker))
	}

	if in.Photo != nil {
		ext, err := photoExtension(in.Photo.ContentType, len(in.Photo.Data))
		if err != nil {
			return nil, err
		}
		path := supabase.PhotoPath(page.ID, ext)
		url, err := s.blobs.Upload(path, in.Photo.ContentType, in.Photo.Data)
		if err != nil {
			return nil, apperr.E(apperr.KindTransient, "failed to upload photo", err)
		}
		c.PhotoPath = nullString(path)
		c.PhotoURL = nullString(url)
	}

	if err := s.contributions.CreateContribution(ctx, c); err != nil {
		if c.PhotoPath.Valid {
			if delErr := s.blobs.DeleteFiles(ctx, []string{c.PhotoPath.String}); delErr != nil {
				s.logger.Warn("failed to clean up photo", zap.String("path", c.PhotoPath.String), zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.logger.Info("contribution added", zap.String("slug", slug), zap.String("contribution_id", c.ID.String()))
	s.broadcaster.PublishPageEvent(ctx, slug, supabase.EventContributionAdded, supabase.ContributionAddedPayload(*c))
	return c, nil
}

// Delete removes a contribution and its blobs. Only the creator may delete.
func (s *ContributionService) Delete(ctx context.Context, slug string, creatorID, id uuid.UUID) error {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if page.CreatorID != creatorID {
		return apperr.Forbidden("only the page creator can delete messages")
	}
	c, err := s.contributions.GetContribution(ctx, page.ID, id)
	if err != nil {
		return err
	}
	if err := s.contributions.DeleteContribution(ctx, page.ID, id); err != nil {
		return err
	}

	if paths := c.BlobPaths(); len(paths) > 0 {
		if err := s.blobs.DeleteFiles(ctx, paths); err != nil {
			s.logger.Warn("failed to delete contribution blobs",
				zap.String("contribution_id", id.String()),
				zap.Strings("paths", paths),
				zap.Error(err),
			)
		}
	}

	s.broadcaster.PublishPageEvent(ctx, slug, supabase.EventContributionDeleted, supabase.ContributionDeletedPayload(id))
	return nil
}

// Reply stores the recipient's one-time reply and notifies the contributor.
func (s *ContributionService) Reply(ctx context.Context, slug string, id uuid.UUID, reply string) (*models.Contribution, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanReply(page.Status) {
		return nil, apperr.Conflict("replies open once the keepsake is revealed")
	}
	reply, err = requiredText("reply", reply, MaxReplyLen)
	if err != nil {
		return nil, err
	}
	if _, err := s.contributions.GetContribution(ctx, page.ID, id); err != nil {
		return nil, err
	}
	if err := s.contributions.SetRecipientReply(ctx, id, reply); err != nil {
		return nil, err
	}

	c, err := s.contributions.GetContribution(ctx, page.ID, id)
	if err != nil {
		return nil, err
	}
	s.broadcaster.PublishPageEvent(ctx, slug, supabase.EventReplyAdded, supabase.ReplyAddedPayload(id))

	if c.ContributorEmail.Valid {
		if err := s.mailer.SendReplyNotice(ctx, c.ContributorEmail.String, *page, *c, PageLink(s.appURL, slug)); err != nil {
			s.logger.Warn("reply email failed", zap.String("contribution_id", id.String()), zap.Error(err))
		}
	}
	return c, nil
}

// SetEmail lets a contributor leave an address for reply notices once.
func (s *ContributionService) SetEmail(ctx context.Context, slug string, id uuid.UUID, email string) error {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return err
	}
	email, err = optionalEmail(email)
	if err != nil {
		return err
	}
	if email == "" {
		return apperr.Validation("email is required")
	}
	if _, err := s.contributions.GetContribution(ctx, page.ID, id); err != nil {
		return err
	}
	return s.contributions.SetContributorEmail(ctx, id, email)
}

type ToggleResult struct {
	Toggle *reactions.Toggle
	Counts []reactions.Count
}

// ToggleReaction flips the visitor's emoji. The flip is applied to a local
// board first, persisted, and then confirmed; a failed write reverts it and
// the result carries the restored counts alongside the error.
func (s *ContributionService) ToggleReaction(ctx context.Context, slug string, id uuid.UUID, visitorID, emoji string) (*ToggleResult, error) {
	if err := reactions.ValidateEmoji(emoji); err != nil {
		return nil, err
	}
	if visitorID == "" {
		return nil, apperr.Validation("visitor id is required")
	}
	if utf8.RuneCountInString(visitorID) > MaxVisitorIDLen {
		return nil, apperr.Validation(fmt.Sprintf("visitor id must be at most %d characters", MaxVisitorIDLen))
	}
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if _, err := s.contributions.GetContribution(ctx, page.ID, id); err != nil {
		return nil, err
	}

	rows, err := s.reactions.List(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	board := reactions.NewBoard(reactions.Aggregate(rows, visitorID))
	toggle := board.Apply(id, emoji)

	if toggle.Adding {
		err = s.reactions.Add(ctx, id, visitorID, emoji)
	} else {
		err = s.reactions.Remove(ctx, id, visitorID, emoji)
	}
	if err != nil {
		_ = board.Revert(toggle)
		s.logger.Warn("reaction write failed, reverted",
			zap.String("contribution_id", id.String()),
			zap.String("emoji", emoji),
			zap.Error(err),
		)
		return &ToggleResult{Toggle: toggle, Counts: board.Counts(id)},
			apperr.E(apperr.KindTransient, "could not save your reaction", err)
	}
	_ = board.Confirm(toggle)

	s.broadcaster.PublishPageEvent(ctx, slug, supabase.EventReactionToggled, supabase.ReactionToggledPayload(id, emoji, toggle.Adding))
	return &ToggleResult{Toggle: toggle, Counts: board.Counts(id)}, nil
}
