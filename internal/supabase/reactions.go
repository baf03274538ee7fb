package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"keepsake-backend/internal/models"
)

const reactionsTable = "reactions"

// ReactionStore reads and writes reaction rows through PostgREST.
type ReactionStore struct {
	client *Client
}

func NewReactionStore(client *Client) *ReactionStore {
	return &ReactionStore{client: client}
}

type reactionRow struct {
	ContributionID uuid.UUID `json:"contribution_id"`
	ReactorName    string    `json:"reactor_name"`
	Emoji          string    `json:"emoji"`
}

// List returns every reaction on the given contributions, oldest first.
func (s *ReactionStore) List(ctx context.Context, contributionIDs []uuid.UUID) ([]models.Reaction, error) {
	if len(contributionIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(contributionIDs))
	for i, id := range contributionIDs {
		ids[i] = id.String()
	}

	var rows []models.Reaction
	_, err := s.client.Supabase.From(reactionsTable).
		Select("contribution_id,reactor_name,emoji,created_at", "", false).
		In("contribution_id", ids).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteToWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return rows, nil
}

// Add records a reaction. Adding a reaction that already exists is a no-op
// thanks to the upsert on the unique index.
func (s *ReactionStore) Add(ctx context.Context, contributionID uuid.UUID, reactorName, emoji string) error {
	row := reactionRow{ContributionID: contributionID, ReactorName: reactorName, Emoji: emoji}
	_, _, err := s.client.Supabase.From(reactionsTable).
		Insert(row, true, "contribution_id,reactor_name,emoji", "minimal", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

func (s *ReactionStore) Remove(ctx context.Context, contributionID uuid.UUID, reactorName, emoji string) error {
	_, _, err := s.client.Supabase.From(reactionsTable).
		Delete("minimal", "").
		Eq("contribution_id", contributionID.String()).
		Eq("reactor_name", reactorName).
		Eq("emoji", emoji).
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	return nil
}
