// Package reactions groups raw reaction rows into per contribution counts and
// tracks optimistic toggles until the store confirms them.
package reactions

import (
	"fmt"

	"github.com/google/uuid"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
)

// Allowed is the fixed emoji palette offered to visitors.
var Allowed = []string{"❤️", "😂", "🥹", "🎉", "👏", "🙌"}

type Count struct {
	Emoji   string `json:"emoji"`
	Count   int    `json:"count"`
	Reacted bool   `json:"reacted"`
}

func ValidateEmoji(emoji string) error {
	for _, e := range Allowed {
		if e == emoji {
			return nil
		}
	}
	return apperr.Validation(fmt.Sprintf("emoji %q is not supported", emoji))
}

// Aggregate groups rows by contribution and then by emoji. Emoji keep the
// order of their first row. Reacted is true when visitorID has a row for that
// emoji on that contribution.
func Aggregate(rows []models.Reaction, visitorID string) map[uuid.UUID][]Count {
	out := make(map[uuid.UUID][]Count)
	index := make(map[uuid.UUID]map[string]int)

	for _, row := range rows {
		positions, ok := index[row.ContributionID]
		if !ok {
			positions = make(map[string]int)
			index[row.ContributionID] = positions
		}

		pos, seen := positions[row.Emoji]
		if !seen {
			pos = len(out[row.ContributionID])
			positions[row.Emoji] = pos
			out[row.ContributionID] = append(out[row.ContributionID], Count{Emoji: row.Emoji})
		}

		counts := out[row.ContributionID]
		counts[pos].Count++
		if visitorID != "" && row.ReactorName == visitorID {
			counts[pos].Reacted = true
		}
	}

	return out
}
