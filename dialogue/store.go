package dialogue

import (
	"sync"

	"bakery-assistant-api/cart"
)

// CartStore maps session ids to carts with single-writer-per-key
// access: Acquire hands out the cart together with that session's lock
// held, so two concurrent turns for the same session serialize instead
// of racing on the same cart.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*cartEntry
}

type cartEntry struct {
	mu   sync.Mutex
	cart *cart.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*cartEntry)}
}

// Acquire returns the session's cart (creating it on first use) with
// its per-session lock held. The caller must call release when the turn
// is done.
func (s *CartStore) Acquire(sessionID string) (c *cart.Cart, release func()) {
	s.mu.Lock()
	e, ok := s.carts[sessionID]
	if !ok {
		e = &cartEntry{cart: cart.New()}
		s.carts[sessionID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.cart, e.mu.Unlock
}

// State is a read-only snapshot of a session's cart phase.
type State struct {
	HasCart              bool   `json:"has_cart"`
	AwaitingFulfillment  bool   `json:"awaiting_fulfillment"`
	AwaitingDetails      bool   `json:"awaiting_details"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
	CartItems            int    `json:"cart_items"`
	Phase                string `json:"phase"`
}

// Snapshot reports the cart state without mutating anything.
func (s *CartStore) Snapshot(sessionID string) State {
	s.mu.Lock()
	e, ok := s.carts[sessionID]
	s.mu.Unlock()
	if !ok {
		return State{Phase: cart.PhaseIdle.String()}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.cart
	return State{
		HasCart:              len(c.Items) > 0,
		AwaitingFulfillment:  c.AwaitingFulfillment,
		AwaitingDetails:      c.AwaitingDetails,
		AwaitingConfirmation: c.AwaitingConfirmation,
		CartItems:            len(c.Items),
		Phase:                c.Phase().String(),
	}
}
