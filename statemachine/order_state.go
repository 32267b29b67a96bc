package statemachine

import (
	"errors"

	"bakery-assistant-api/models"
)

// Transition defines a valid order status change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "system", "staff", "customer"
}

// validTransitions is the authoritative state machine definition.
// Finalize moves pending → confirmed inside its transaction; everything
// after that is driven by staff through the admin endpoints.
var validTransitions = []Transition{
	// The finalize transaction confirms the order it just created
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: "system"},
	// A pending order can be abandoned by either side
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "staff"},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "customer"},
	// Staff hand the order over (pickup or delivery done)
	{From: models.StatusConfirmed, To: models.StatusCompleted, Actor: "staff"},
	// Staff can still cancel a confirmed order before handover
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: "staff"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
