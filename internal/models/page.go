package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PageStatus string

const (
	StatusCollecting PageStatus = "collecting"
	StatusActive     PageStatus = "active"
	StatusRevealed   PageStatus = "revealed"
	StatusThanked    PageStatus = "thanked"
	StatusComplete   PageStatus = "complete"
)

type Occasion string

const (
	OccasionBirthday    Occasion = "birthday"
	OccasionFarewell    Occasion = "farewell"
	OccasionWedding     Occasion = "wedding"
	OccasionBaby        Occasion = "baby"
	OccasionGraduation  Occasion = "graduation"
	OccasionRetirement  Occasion = "retirement"
	OccasionThankYou    Occasion = "thank_you"
	OccasionAnniversary Occasion = "anniversary"
	OccasionSympathy    Occasion = "sympathy"
	OccasionOther       Occasion = "other"
)

var occasionLabels = map[Occasion]string{
	OccasionBirthday:    "Happy Birthday",
	OccasionFarewell:    "Farewell",
	OccasionWedding:     "Congratulations on your Wedding",
	OccasionBaby:        "Welcome, Little One",
	OccasionGraduation:  "Happy Graduation",
	OccasionRetirement:  "Happy Retirement",
	OccasionThankYou:    "Thank You",
	OccasionAnniversary: "Happy Anniversary",
	OccasionSympathy:    "With Sympathy",
	OccasionOther:       "A Celebration",
}

// Valid reports whether o is one of the known occasions.
func (o Occasion) Valid() bool {
	_, ok := occasionLabels[o]
	return ok
}

// Label is the human readable heading used on covers and emails.
func (o Occasion) Label() string {
	if label, ok := occasionLabels[o]; ok {
		return label
	}
	return occasionLabels[OccasionOther]
}

type Page struct {
	ID             uuid.UUID
	Slug           string
	CreatorID      uuid.UUID
	RecipientName  string
	TemplateType   Occasion
	CreatorMessage sql.NullString
	CreatorName    sql.NullString
	HeroImageURL   sql.NullString
	EventDate      sql.NullTime
	Status         PageStatus
	RecipientEmail sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
