package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/notify"
	"keepsake-backend/internal/supabase"
)

const slugAttempts = 5

type PageService struct {
	pages       PageStore
	broadcaster Broadcaster
	mailer      notify.Mailer
	appURL      string
	logger      *zap.Logger
}

func NewPageService(pages PageStore, broadcaster Broadcaster, mailer notify.Mailer, appURL string, logger *zap.Logger) *PageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = notify.Noop{}
	}
	return &PageService{
		pages:       pages,
		broadcaster: broadcaster,
		mailer:      mailer,
		appURL:      strings.TrimRight(appURL, "/"),
		logger:      logger,
	}
}

// PageLink is the public URL of a page in the web app.
func PageLink(appURL, slug string) string {
	return strings.TrimRight(appURL, "/") + "/p/" + slug
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PageService) Create(ctx context.Context, creatorID uuid.UUID, req models.CreatePageRequest) (*models.Page, error) {
	recipient, err := requiredText("recipient_name", req.RecipientName, MaxRecipientNameLen)
	if err != nil {
		return nil, err
	}
	occasion := models.Occasion(strings.TrimSpace(req.TemplateType))
	if !occasion.Valid() {
		return nil, apperr.Validation("template_type is not a known occasion")
	}
	creatorMessage, err := optionalText("creator_message", req.CreatorMessage, MaxMessageLen)
	if err != nil {
		return nil, err
	}
	creatorName, err := optionalText("creator_name", req.CreatorName, MaxRecipientNameLen)
	if err != nil {
		return nil, err
	}
	email, err := optionalEmail(req.RecipientEmail)
	if err != nil {
		return nil, err
	}

	var eventDate sql.NullTime
	if d := strings.TrimSpace(req.EventDate); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, apperr.Validation("event_date must be formatted as YYYY-MM-DD")
		}
		eventDate = sql.NullTime{Time: t, Valid: true}
	}

	page := &models.Page{
		ID:             uuid.New(),
		CreatorID:      creatorID,
		RecipientName:  recipient,
		TemplateType:   occasion,
		CreatorMessage: nullString(creatorMessage),
		CreatorName:    nullString(creatorName),
		HeroImageURL:   nullString(strings.TrimSpace(req.HeroImageURL)),
		EventDate:      eventDate,
		Status:         models.StatusCollecting,
		RecipientEmail: nullString(email),
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		page.Slug = NewSlug(recipient)
		err = s.pages.CreatePage(ctx, page)
		if apperr.KindOf(err) != apperr.KindConflict {
			break
		}
		s.logger.Debug("slug collision, retrying", zap.String("slug", page.Slug))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("page created", zap.String("slug", page.Slug), zap.String("creator_id", creatorID.String()))
	return page, nil
}

func (s *PageService) Get(ctx context.Context, slug string) (*models.Page, error) {
	return s.pages.GetPageBySlug(ctx, slug)
}

func (s *PageService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Page, error) {
	return s.pages.ListPagesByCreator(ctx, creatorID)
}

// ChangeStatus is the creator's control over the lifecycle.
func (s *PageService) ChangeStatus(ctx context.Context, slug string, creatorID uuid.UUID, to models.PageStatus) (*models.Page, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page.CreatorID != creatorID {
		return nil, apperr.Forbidden("only the page creator can change its status")
	}
	return s.transition(ctx, page, to)
}

// ThankYou is the recipient closing the loop on a revealed page.
func (s *PageService) ThankYou(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, page, models.StatusThanked)
}

func (s *PageService) transition(ctx context.Context, page *models.Page, to models.PageStatus) (*models.Page, error) {
	from := page.Status
	if err := lifecycle.Transition(page, to); err != nil {
		return nil, err
	}
	if err := s.pages.UpdatePageStatus(ctx, page.ID, from, to); err != nil {
		return nil, err
	}

	s.logger.Info("page status changed",
		zap.String("slug", page.Slug),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	s.broadcaster.PublishPageEvent(ctx, page.Slug, supabase.EventPageStatusChanged, supabase.PageStatusChangedPayload(from, to))

	if to == models.StatusRevealed && page.RecipientEmail.Valid {
		if err := s.mailer.SendReveal(ctx, page.RecipientEmail.String, *page, PageLink(s.appURL, page.Slug)); err != nil {
			s.logger.Warn("reveal email failed", zap.String("slug", page.Slug), zap.Error(err))
		}
	}
	return page, nil
}
