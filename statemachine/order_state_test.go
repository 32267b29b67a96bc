package statemachine

import (
	"testing"

	"bakery-assistant-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// the finalize transaction confirms its own pending order
	assert.NoError(t, CanTransition(models.StatusPending, models.StatusConfirmed, "system"))

	// staff drive the rest of the lifecycle
	assert.NoError(t, CanTransition(models.StatusConfirmed, models.StatusCompleted, "staff"))
	assert.NoError(t, CanTransition(models.StatusConfirmed, models.StatusCancelled, "staff"))
	assert.NoError(t, CanTransition(models.StatusPending, models.StatusCancelled, "customer"))
}

func TestInvalidTransitionsRejected(t *testing.T) {
	// only the system confirms
	assert.Error(t, CanTransition(models.StatusPending, models.StatusConfirmed, "staff"))

	// no skipping straight to completed
	assert.Error(t, CanTransition(models.StatusPending, models.StatusCompleted, "staff"))

	// terminal states stay terminal
	assert.Error(t, CanTransition(models.StatusCompleted, models.StatusConfirmed, "staff"))
	assert.Error(t, CanTransition(models.StatusCancelled, models.StatusPending, "staff"))
}

func TestValidTransitionsFrom(t *testing.T) {
	next := ValidTransitionsFrom(models.StatusPending)
	assert.ElementsMatch(t, []models.OrderStatus{models.StatusConfirmed, models.StatusCancelled}, next)

	assert.Empty(t, ValidTransitionsFrom(models.StatusCompleted))
}
