package reactions

import (
	"errors"

	"github.com/google/uuid"
)

type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateReverted  State = "reverted"
)

var ErrNotPending = errors.New("toggle is not pending")

// Toggle is one optimistic flip of a visitor's emoji on a contribution.
type Toggle struct {
	ContributionID uuid.UUID
	Emoji          string
	// Adding is true when the flip adds the visitor's reaction.
	Adding bool
	State  State

	before []Count
}

// Board is one visitor's local view of reaction counts. It is not safe for
// concurrent use; each request owns its own board.
type Board struct {
	counts map[uuid.UUID][]Count
}

func NewBoard(counts map[uuid.UUID][]Count) *Board {
	copied := make(map[uuid.UUID][]Count, len(counts))
	for id, cs := range counts {
		copied[id] = append([]Count(nil), cs...)
	}
	return &Board{counts: copied}
}

func (b *Board) Counts(contributionID uuid.UUID) []Count {
	return append([]Count(nil), b.counts[contributionID]...)
}

// Apply flips the visitor's reaction immediately and returns the pending
// toggle that must later be confirmed or reverted.
func (b *Board) Apply(contributionID uuid.UUID, emoji string) *Toggle {
	current := b.counts[contributionID]
	t := &Toggle{
		ContributionID: contributionID,
		Emoji:          emoji,
		Adding:         true,
		State:          StatePending,
		before:         append([]Count(nil), current...),
	}

	next := append([]Count(nil), current...)
	found := false
	for i := range next {
		if next[i].Emoji != emoji {
			continue
		}
		found = true
		if next[i].Reacted {
			t.Adding = false
			next[i].Count--
			next[i].Reacted = false
		} else {
			next[i].Count++
			next[i].Reacted = true
		}
		if next[i].Count <= 0 {
			next = append(next[:i], next[i+1:]...)
		}
		break
	}
	if !found {
		next = append(next, Count{Emoji: emoji, Count: 1, Reacted: true})
	}

	b.counts[contributionID] = next
	return t
}

func (b *Board) Confirm(t *Toggle) error {
	if t.State != StatePending {
		return ErrNotPending
	}
	t.State = StateConfirmed
	return nil
}

// Revert restores the counts seen before Apply.
func (b *Board) Revert(t *Toggle) error {
	if t.State != StatePending {
		return ErrNotPending
	}
	b.counts[t.ContributionID] = t.before
	t.State = StateReverted
	return nil
}
