package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"keepsake-backend/internal/ai"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/keepsake"
	"keepsake-backend/internal/models"
)

var errStore = errors.New("store unavailable")

type fakeStore struct {
	mu            sync.Mutex
	pages         map[string]*models.Page
	contributions map[uuid.UUID]*models.Contribution
	order         []uuid.UUID
	// conflicts is the number of CreatePage calls that fail with a slug
	// conflict before one succeeds.
	conflicts int
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:         map[string]*models.Page{},
		contributions: map[uuid.UUID]*models.Contribution{},
	}
}

func (f *fakeStore) addPage(status models.PageStatus) *models.Page {
	p := &models.Page{
		ID:            uuid.New(),
		Slug:          "zoe-abc123",
		CreatorID:     uuid.New(),
		RecipientName: "Zoë",
		TemplateType:  models.OccasionBirthday,
		Status:        status,
	}
	f.pages[p.Slug] = p
	return p
}

func (f *fakeStore) addContribution(pageID uuid.UUID, name, message string) *models.Contribution {
	c := &models.Contribution{
		ID:              uuid.New(),
		PageID:          pageID,
		ContributorName: name,
		MessageText:     nullString(message),
	}
	f.contributions[c.ID] = c
	f.order = append(f.order, c.ID)
	return c
}

func (f *fakeStore) CreatePage(_ context.Context, p *models.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return apperr.Conflict("slug already taken")
	}
	cp := *p
	f.pages[p.Slug] = &cp
	return nil
}

func (f *fakeStore) GetPageBySlug(_ context.Context, slug string) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pages[slug]
	if !ok {
		return nil, apperr.NotFound("page not found", nil)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListPagesByCreator(_ context.Context, creatorID uuid.UUID) ([]models.Page, error) {
	var out []models.Page
	for _, p := range f.pages {
		if p.CreatorID == creatorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdatePageStatus(_ context.Context, pageID uuid.UUID, from, to models.PageStatus) error {
	for _, p := range f.pages {
		if p.ID == pageID {
			if p.Status != from {
				return apperr.Conflict("page status changed concurrently")
			}
			p.Status = to
			return nil
		}
	}
	return apperr.NotFound("page not found", nil)
}

func (f *fakeStore) CreateContribution(_ context.Context, c *models.Contribution) error {
	if f.failCreate {
		return errStore
	}
	cp := *c
	f.contributions[c.ID] = &cp
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeStore) ListContributions(_ context.Context, pageID uuid.UUID) ([]models.Contribution, error) {
	var out []models.Contribution
	for _, id := range f.order {
		if c, ok := f.contributions[id]; ok && c.PageID == pageID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetContribution(_ context.Context, pageID, id uuid.UUID) (*models.Contribution, error) {
	c, ok := f.contributions[id]
	if !ok || c.PageID != pageID {
		return nil, apperr.NotFound("contribution not found", nil)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) DeleteContribution(_ context.Context, pageID, id uuid.UUID) error {
	if _, err := f.GetContribution(context.Background(), pageID, id); err != nil {
		return err
	}
	delete(f.contributions, id)
	return nil
}

func (f *fakeStore) SetRecipientReply(_ context.Context, id uuid.UUID, reply string) error {
	c := f.contributions[id]
	if c.RecipientReply.Valid {
		return apperr.Conflict("recipient_reply is already set")
	}
	c.RecipientReply = nullString(reply)
	return nil
}

func (f *fakeStore) SetContributorEmail(_ context.Context, id uuid.UUID, email string) error {
	c := f.contributions[id]
	if c.ContributorEmail.Valid {
		return apperr.Conflict("contributor_email is already set")
	}
	c.ContributorEmail = nullString(email)
	return nil
}

type fakeReactions struct {
	rows    []models.Reaction
	failErr error
}

func (f *fakeReactions) List(ctx context.Context, ids []uuid.UUID) ([]models.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Reaction
	for _, r := range f.rows {
		if want[r.ContributionID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReactions) Add(ctx context.Context, id uuid.UUID, reactor, emoji string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.rows = append(f.rows, models.Reaction{ContributionID: id, ReactorName: reactor, Emoji: emoji})
	return nil
}

func (f *fakeReactions) Remove(ctx context.Context, id uuid.UUID, reactor, emoji string) error {
	if f.failErr != nil {
		return f.failErr
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.ContributionID == id && r.ReactorName == reactor && r.Emoji == emoji {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

type fakeBlobs struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{uploaded: map[string][]byte{}}
}

func (f *fakeBlobs) Upload(path, _ string, data []byte) (string, error) {
	f.uploaded[path] = data
	return f.GetPublicURL(path), nil
}

func (f *fakeBlobs) GetPublicURL(path string) string {
	return "https://cdn.test/" + path
}

func (f *fakeBlobs) DeleteFiles(_ context.Context, paths []string) error {
	f.deleted = append(f.deleted, paths...)
	return nil
}

type event struct {
	slug, name string
}

type fakeBroadcaster struct {
	events []event
}

func (f *fakeBroadcaster) PublishPageEvent(_ context.Context, slug, name string, _ map[string]interface{}) {
	f.events = append(f.events, event{slug: slug, name: name})
}

type sentMail struct {
	kind, to, link string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendReveal(_ context.Context, to string, _ models.Page, link string) error {
	f.sent = append(f.sent, sentMail{kind: "reveal", to: to, link: link})
	return f.err
}

func (f *fakeMailer) SendReplyNotice(_ context.Context, to string, _ models.Page, _ models.Contribution, link string) error {
	f.sent = append(f.sent, sentMail{kind: "reply", to: to, link: link})
	return f.err
}

type fakeGenerator struct {
	suggestions []string
	sticker     []byte
	lastInput   ai.SuggestInput
}

func (f *fakeGenerator) SuggestMessages(_ context.Context, in ai.SuggestInput) ([]string, error) {
	f.lastInput = in
	return f.suggestions, nil
}

func (f *fakeGenerator) GenerateSticker(_ context.Context, _ string) ([]byte, error) {
	return f.sticker, nil
}

type fakeExporter struct {
	meta keepsake.PageMeta
	html string
	err  error
}

func (f *fakeExporter) Export(_ context.Context, meta keepsake.PageMeta, gridHTML string) (*keepsake.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.meta = meta
	f.html = gridHTML
	return &keepsake.Document{Filename: "Keepsake_Zoe_20261018.pdf", Bytes: []byte("%PDF-1.3")}, nil
}
