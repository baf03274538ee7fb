package services

import (
	"context"

	"github.com/google/uuid"
	"keepsake-backend/internal/ai"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/models"
)

type PageStore interface {
	CreatePage(ctx context.Context, p *models.Page) error
	GetPageBySlug(ctx context.Context, slug string) (*models.Page, error)
	ListPagesByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Page, error)
	UpdatePageStatus(ctx context.Context, pageID uuid.UUID, from, to models.PageStatus) error
}

type ContributionStore interface {
	CreateContribution(ctx context.Context, c *models.Contribution) error
	ListContributions(ctx context.Context, pageID uuid.UUID) ([]models.Contribution, error)
	GetContribution(ctx context.Context, pageID, id uuid.UUID) (*models.Contribution, error)
	DeleteContribution(ctx context.Context, pageID, id uuid.UUID) error
	SetRecipientReply(ctx context.Context, id uuid.UUID, reply string) error
	SetContributorEmail(ctx context.Context, id uuid.UUID, email string) error
}

type ReactionStore interface {
	List(ctx context.Context, contributionIDs []uuid.UUID) ([]models.Reaction, error)
	Add(ctx context.Context, contributionID uuid.UUID, reactorName, emoji string) error
	Remove(ctx context.Context, contributionID uuid.UUID, reactorName, emoji string) error
}

type BlobStore interface {
	Upload(storagePath, contentType string, data []byte) (string, error)
	GetPublicURL(storagePath string) string
	DeleteFiles(ctx context.Context, paths []string) error
}

// Broadcaster publishes best effort live updates for a page.
type Broadcaster interface {
	PublishPageEvent(ctx context.Context, slug, event string, payload map[string]interface{})
}

type Generator interface {
	SuggestMessages(ctx context.Context, in ai.SuggestInput) ([]string, error)
	GenerateSticker(ctx context.Context, prompt string) ([]byte, error)
}

type Exporter interface {
	Export(ctx context.Context, meta keepsake.PageMeta, gridHTML string) (*keepsake.Document, error)
}
