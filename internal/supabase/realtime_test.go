package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/supabase"
)

func TestRealtimeClient_PublishEvent(t *testing.T) {
	var body struct {
		Messages []struct {
			Topic   string                 `json:"topic"`
			Event   string                 `json:"event"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"messages"`
	}
	var apiKey string
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL+"/", "service-key", zap.NewNop())
	err := client.PublishEvent(context.Background(), "page:maya-x1", supabase.EventPageStatusChanged,
		supabase.PageStatusChangedPayload(models.StatusCollecting, models.StatusRevealed))
	require.NoError(t, err)

	assert.Equal(t, "/realtime/v1/api/broadcast", path)
	assert.Equal(t, "service-key", apiKey)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "page:maya-x1", body.Messages[0].Topic)
	assert.Equal(t, "page_status_changed", body.Messages[0].Event)
	assert.Equal(t, "revealed", body.Messages[0].Payload["to"])
}

func TestRealtimeClient_PublishEventRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "bad", nil)
	err := client.PublishEvent(context.Background(), "page:x", supabase.EventReactionToggled,
		supabase.ReactionToggledPayload(uuid.New(), "🎉", true))
	assert.Error(t, err)

	// PublishPageEvent swallows the failure.
	client.PublishPageEvent(context.Background(), "x", supabase.EventReactionToggled, nil)
}
