package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
	"keepsake-backend/internal/supabase"
)

func TestNewSlug(t *testing.T) {
	slug := NewSlug("Zoë O'Brien")
	assert.True(t, strings.HasPrefix(slug, "zoe-obrien-"), slug)
	assert.Len(t, slug, len("zoe-obrien-")+slugSuffixLen)
	assert.NotEqual(t, slug, NewSlug("Zoë O'Brien"))
}

func TestPageServiceCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewPageService(store, &fakeBroadcaster{}, nil, "https://app.test", nil)
	creator := uuid.New()

	page, err := svc.Create(context.Background(), creator, models.CreatePageRequest{
		RecipientName: "  Zoë  ",
		TemplateType:  "birthday",
		EventDate:     "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Zoë", page.RecipientName)
	assert.Equal(t, models.StatusCollecting, page.Status)
	assert.Equal(t, creator, page.CreatorID)
	assert.True(t, page.EventDate.Valid)
	assert.True(t, strings.HasPrefix(page.Slug, "zoe-"))
}

func TestPageServiceCreateRetriesSlugConflicts(t *testing.T) {
	store := newFakeStore()
	store.conflicts = 2
	svc := NewPageService(store, &fakeBroadcaster{}, nil, "", nil)

	page, err := svc.Create(context.Background(), uuid.New(), models.CreatePageRequest{RecipientName: "Sam", TemplateType: "farewell"})
	require.NoError(t, err)
	_, err = store.GetPageBySlug(context.Background(), page.Slug)
	assert.NoError(t, err)
}

func TestPageServiceCreateGivesUpAfterConflicts(t *testing.T) {
	store := newFakeStore()
	store.conflicts = slugAttempts
	svc := NewPageService(store, &fakeBroadcaster{}, nil, "", nil)

	_, err := svc.Create(context.Background(), uuid.New(), models.CreatePageRequest{RecipientName: "Sam", TemplateType: "farewell"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPageServiceCreateValidation(t *testing.T) {
	svc := NewPageService(newFakeStore(), &fakeBroadcaster{}, nil, "", nil)
	tests := []struct {
		name string
		req  models.CreatePageRequest
	}{
		{"blank recipient", models.CreatePageRequest{RecipientName: "  ", TemplateType: "birthday"}},
		{"unknown occasion", models.CreatePageRequest{RecipientName: "Sam", TemplateType: "party"}},
		{"bad date", models.CreatePageRequest{RecipientName: "Sam", TemplateType: "birthday", EventDate: "01/10/2026"}},
		{"bad email", models.CreatePageRequest{RecipientName: "Sam", TemplateType: "birthday", RecipientEmail: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tt.req)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestChangeStatusRevealSendsEmail(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusCollecting)
	page.RecipientEmail = nullString("zoe@example.com")
	broadcaster := &fakeBroadcaster{}
	mailer := &fakeMailer{}
	svc := NewPageService(store, broadcaster, mailer, "https://app.test/", nil)

	updated, err := svc.ChangeStatus(context.Background(), page.Slug, page.CreatorID, models.StatusRevealed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevealed, updated.Status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{kind: "reveal", to: "zoe@example.com", link: "https://app.test/p/" + page.Slug}, mailer.sent[0])
	assert.Equal(t, []event{{slug: page.Slug, name: supabase.EventPageStatusChanged}}, broadcaster.events)
}

func TestChangeStatusEmailFailureDoesNotFail(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusActive)
	page.RecipientEmail = nullString("zoe@example.com")
	svc := NewPageService(store, &fakeBroadcaster{}, &fakeMailer{err: errStore}, "", nil)

	_, err := svc.ChangeStatus(context.Background(), page.Slug, page.CreatorID, models.StatusRevealed)
	assert.NoError(t, err)
}

func TestChangeStatusRules(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusRevealed)
	svc := NewPageService(store, &fakeBroadcaster{}, nil, "", nil)

	_, err := svc.ChangeStatus(context.Background(), page.Slug, uuid.New(), models.StatusThanked)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.ChangeStatus(context.Background(), page.Slug, page.CreatorID, models.StatusCollecting)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestThankYou(t *testing.T) {
	store := newFakeStore()
	page := store.addPage(models.StatusRevealed)
	svc := NewPageService(store, &fakeBroadcaster{}, nil, "", nil)

	updated, err := svc.ThankYou(context.Background(), page.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.StatusThanked, updated.Status)

	_, err = svc.ThankYou(context.Background(), page.Slug)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
