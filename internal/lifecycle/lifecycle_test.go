package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/apperr"
	"keepsake-backend/internal/lifecycle"
	"keepsake-backend/internal/models"
)

func TestTransition_Forward(t *testing.T) {
	page := &models.Page{Status: models.StatusCollecting}

	require.NoError(t, lifecycle.Transition(page, models.StatusRevealed))
	require.NoError(t, lifecycle.Transition(page, models.StatusThanked))
	require.NoError(t, lifecycle.Transition(page, models.StatusComplete))
	assert.Equal(t, models.StatusComplete, page.Status)
}

func TestTransition_Backward(t *testing.T) {
	page := &models.Page{Status: models.StatusThanked}

	err := lifecycle.Transition(page, models.StatusRevealed)

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, models.StatusThanked, page.Status)
}

func TestTransition_NoSkippingThankYou(t *testing.T) {
	assert.False(t, lifecycle.CanTransition(models.StatusRevealed, models.StatusComplete))
	assert.False(t, lifecycle.CanTransition(models.StatusCollecting, models.StatusThanked))
}

func TestCanDownloadKeepsake(t *testing.T) {
	assert.False(t, lifecycle.CanDownloadKeepsake(models.StatusCollecting))
	assert.False(t, lifecycle.CanDownloadKeepsake(models.StatusActive))
	assert.False(t, lifecycle.CanDownloadKeepsake(models.StatusRevealed))
	assert.True(t, lifecycle.CanDownloadKeepsake(models.StatusThanked))
	assert.True(t, lifecycle.CanDownloadKeepsake(models.StatusComplete))
}

func TestCanViewKeepsake(t *testing.T) {
	assert.False(t, lifecycle.CanViewKeepsake(models.StatusActive, false))
	assert.True(t, lifecycle.CanViewKeepsake(models.StatusActive, true))
	assert.True(t, lifecycle.CanViewKeepsake(models.StatusRevealed, false))
}

func TestParse(t *testing.T) {
	status, err := lifecycle.Parse("thanked")
	require.NoError(t, err)
	assert.Equal(t, models.StatusThanked, status)

	_, err = lifecycle.Parse("archived")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
