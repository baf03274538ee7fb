package models

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Contribution struct {
	ID               uuid.UUID
	PageID           uuid.UUID
	ContributorName  string
	MessageText      sql.NullString
	PhotoURL         sql.NullString
	PhotoPath        sql.NullString
	AIStickerURL     sql.NullString
	AIStickerPath    sql.NullString
	RecipientReply   sql.NullString
	ContributorEmail sql.NullString
	CreatedAt        time.Time
}

// Message returns the message text or "" when none was left.
func (c Contribution) Message() string {
	if !c.MessageText.Valid {
		return ""
	}
	return c.MessageText.String
}

// WordCount counts whitespace separated words of the message.
func (c Contribution) WordCount() int {
	return len(strings.Fields(c.Message()))
}

// HasVisual reports whether the contribution carries a photo or a sticker.
func (c Contribution) HasVisual() bool {
	return c.VisualURL() != ""
}

// VisualURL is the image shown for the contribution. A sticker takes
// precedence over a photo when both exist.
func (c Contribution) VisualURL() string {
	if c.AIStickerURL.Valid && c.AIStickerURL.String != "" {
		return c.AIStickerURL.String
	}
	if c.PhotoURL.Valid && c.PhotoURL.String != "" {
		return c.PhotoURL.String
	}
	return ""
}

// BlobPaths lists the storage objects owned by the contribution.
func (c Contribution) BlobPaths() []string {
	var paths []string
	if c.PhotoPath.Valid && c.PhotoPath.String != "" {
		paths = append(paths, c.PhotoPath.String)
	}
	if c.AIStickerPath.Valid && c.AIStickerPath.String != "" {
		paths = append(paths, c.AIStickerPath.String)
	}
	return paths
}

type Reaction struct {
	ContributionID uuid.UUID `json:"contribution_id"`
	ReactorName    string    `json:"reactor_name"`
	Emoji          string    `json:"emoji"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}
