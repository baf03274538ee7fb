// Package lifecycle holds the page status state machine and the gates the
// keepsake views consult.
package lifecycle

import (
	"fmt"

	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/models"
)

var rank = map[models.PageStatus]int{
	models.StatusCollecting: 0,
	models.StatusActive:     1,
	models.StatusRevealed:   2,
	models.StatusThanked:    3,
	models.StatusComplete:   4,
}

var transitions = map[models.PageStatus][]models.PageStatus{
	models.StatusCollecting: {models.StatusActive, models.StatusRevealed},
	models.StatusActive:     {models.StatusRevealed},
	models.StatusRevealed:   {models.StatusThanked},
	models.StatusThanked:    {models.StatusComplete},
}

func Parse(s string) (models.PageStatus, error) {
	status := models.PageStatus(s)
	if _, ok := rank[status]; !ok {
		return "", apperr.Validation(fmt.Sprintf("unknown status %q", s))
	}
	return status, nil
}

func CanTransition(from, to models.PageStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the page to status to, or returns a conflict error when the
// move is not a legal forward step.
func Transition(page *models.Page, to models.PageStatus) error {
	if !CanTransition(page.Status, to) {
		return apperr.Conflict(fmt.Sprintf("cannot move page from %s to %s", page.Status, to))
	}
	page.Status = to
	return nil
}

// AtLeast reports whether status has reached min in the lifecycle order.
func AtLeast(status, min models.PageStatus) bool {
	r, ok := rank[status]
	if !ok {
		return false
	}
	return r >= rank[min]
}

func AcceptsContributions(status models.PageStatus) bool {
	return status == models.StatusCollecting
}

// CanViewKeepsake gates the interactive keepsake. collecting and active are
// hold states for everyone but the creator.
func CanViewKeepsake(status models.PageStatus, isCreator bool) bool {
	if isCreator {
		return true
	}
	return AtLeast(status, models.StatusRevealed)
}

func CanDownloadKeepsake(status models.PageStatus) bool {
	return status == models.StatusThanked || status == models.StatusComplete
}

func CanReply(status models.PageStatus) bool {
	return AtLeast(status, models.StatusRevealed)
}
