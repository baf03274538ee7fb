package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"keepsake-backend/internal/models"
)

const (
	EventContributionAdded   = "contribution_added"
	EventContributionDeleted = "contribution_deleted"
	EventReactionToggled     = "reaction_toggled"
	EventReplyAdded          = "reply_added"
	EventPageStatusChanged   = "page_status_changed"
)

// RealtimeClient publishes broadcast messages through the Realtime REST
// endpoint. supabase-go has no publish API, so this talks HTTP directly.
type RealtimeClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

func NewRealtimeClient(supabaseURL, apiKey string, logger *zap.Logger) *RealtimeClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeClient{
		endpoint: strings.TrimRight(supabaseURL, "/") + "/realtime/v1/api/broadcast",
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

type broadcastMessage struct {
	Topic   string                 `json:"topic"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

func (r *RealtimeClient) PublishEvent(ctx context.Context, topic, event string, payload map[string]interface{}) error {
	body, err := json.Marshal(map[string][]broadcastMessage{
		"messages": {{Topic: topic, Event: event, Payload: payload}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode broadcast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("broadcast rejected with status %d", resp.StatusCode)
	}
	return nil
}

// PublishPageEvent broadcasts on page:{slug}. Failures are logged only; live
// updates are best effort.
func (r *RealtimeClient) PublishPageEvent(ctx context.Context, slug, event string, payload map[string]interface{}) {
	if err := r.PublishEvent(ctx, "page:"+slug, event, payload); err != nil {
		r.logger.Warn("realtime broadcast failed",
			zap.String("slug", slug),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

// Event payloads
func ContributionAddedPayload(c models.Contribution) map[string]interface{} {
	return map[string]interface{}{
		"contribution_id":  c.ID.String(),
		"contributor_name": c.ContributorName,
		"has_visual":       c.HasVisual(),
		"created_at":       c.CreatedAt,
	}
}

func ContributionDeletedPayload(contributionID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"contribution_id": contributionID.String(),
	}
}

func ReactionToggledPayload(contributionID uuid.UUID, emoji string, added bool) map[string]interface{} {
	return map[string]interface{}{
		"contribution_id": contributionID.String(),
		"emoji":           emoji,
		"added":           added,
	}
}

func ReplyAddedPayload(contributionID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"contribution_id": contributionID.String(),
	}
}

func PageStatusChangedPayload(from, to models.PageStatus) map[string]interface{} {
	return map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	}
}
