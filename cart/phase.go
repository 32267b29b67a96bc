package cart

// Phase is the dialogue stage derived from the cart. State is never
// stored separately: the phase flags plus the item count are the
// authoritative encoding, and the derivation is deterministic, so
// recomputing it every turn is idempotent.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollectingItems
	PhaseAwaitingFulfillment
	PhaseAwaitingDetails
	PhaseAwaitingConfirmation
)

// Phase derives the current stage. If several flags are set at once
// (possible through odd turn orderings), precedence is canonical:
// fulfillment, then details, then confirmation.
func (c *Cart) Phase() Phase {
	switch {
	case c.AwaitingFulfillment:
		return PhaseAwaitingFulfillment
	case c.AwaitingDetails:
		return PhaseAwaitingDetails
	case c.AwaitingConfirmation:
		return PhaseAwaitingConfirmation
	case len(c.Items) > 0:
		return PhaseCollectingItems
	default:
		return PhaseIdle
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseCollectingItems:
		return "collecting_items"
	case PhaseAwaitingFulfillment:
		return "awaiting_fulfillment"
	case PhaseAwaitingDetails:
		return "awaiting_details"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "idle"
	}
}

// InOrderContext reports whether an order flow is underway, used to
// decide between clarifying and carrying on with the existing cart.
func (c *Cart) InOrderContext() bool {
	return len(c.Items) > 0 || c.AwaitingFulfillment || c.AwaitingDetails || c.AwaitingConfirmation
}
