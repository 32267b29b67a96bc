package dialogue

import "fmt"

// Outcome is the structured result of one turn. Each variant carries
// exactly the facts its intent needs; the transport layer serializes
// Facts verbatim so callers can tell a question from a preview from a
// final receipt.
type Outcome interface {
	Intent() string
	Facts() map[string]any
}

// Clarifying outcomes additionally carry the question to put back to
// the user.
type Clarifying interface {
	Outcome
	ClarificationQuestion() string
}

// EmptyCart: the user tried to check out or confirm with no items.
type EmptyCart struct{}

func (EmptyCart) Intent() string { return "order" }
func (EmptyCart) Facts() map[string]any {
	return map[string]any{
		"order_placed": false,
		"cart_empty":   true,
		"needs_items":  true,
		"note":         "Your cart is empty. Please add some items before confirming.",
	}
}

// UnknownItem: the turn ordered something, but nothing in the catalog
// matched. Distinct from the stock-error path.
type UnknownItem struct{}

func (UnknownItem) Intent() string { return "order" }
func (UnknownItem) Facts() map[string]any {
	return map[string]any{"needs_clarification": true}
}
func (UnknownItem) ClarificationQuestion() string {
	return "What item would you like to order?"
}

// NeedsQuantity: a recognized product came with a zero or unparsable
// quantity; never silently default it.
type NeedsQuantity struct {
	ProductName string
}

func (NeedsQuantity) Intent() string { return "order" }
func (o NeedsQuantity) Facts() map[string]any {
	return map[string]any{"needs_clarification": true, "product_name": o.ProductName}
}
func (o NeedsQuantity) ClarificationQuestion() string {
	return fmt.Sprintf("How many %s would you like?", o.ProductName)
}

// StockShortage: requested quantity exceeds current stock, at add time
// or at finalize. The cart is left unchanged either way.
type StockShortage struct {
	ProductName  string
	Available    int
	AtFinalize   bool
	Alternatives []string
}

func (StockShortage) Intent() string { return "order" }
func (o StockShortage) Facts() map[string]any {
	return map[string]any{
		"order_placed":       false,
		"reason":             "insufficient_stock",
		"product_name":       o.ProductName,
		"available_quantity": o.Available,
		"at_finalize":        o.AtFinalize,
		"alternatives":       o.Alternatives,
		"note":               fmt.Sprintf("We only have %d %s(s) available.", o.Available, o.ProductName),
	}
}

// NeedsFulfillment: items are in the cart and pickup/delivery is unset.
type NeedsFulfillment struct {
	AddedSummary string
	CartSummary  string
	CartItems    int
	Upsells      []string
}

func (NeedsFulfillment) Intent() string { return "checkout_fulfillment" }
func (o NeedsFulfillment) Facts() map[string]any {
	f := map[string]any{
		"needs_fulfillment_type": true,
		"cart_summary":           o.CartSummary,
		"cart_items":             o.CartItems,
	}
	if o.AddedSummary != "" {
		f["items_just_added"] = o.AddedSummary
	}
	if len(o.Upsells) > 0 {
		f["upsell_suggestions"] = o.Upsells
	}
	return f
}
func (o NeedsFulfillment) ClarificationQuestion() string {
	if o.AddedSummary != "" {
		return fmt.Sprintf("Added %s to your cart. Would you like delivery or pickup?", o.AddedSummary)
	}
	return "Would you like delivery or pickup?"
}

// NeedsSlot: at least one required detail is outstanding; Prompt asks
// for the first one.
type NeedsSlot struct {
	Slot     Slot
	Missing  []Slot
	Prompt   string
	Branches []string
	Upsells  []string
}

func (NeedsSlot) Intent() string { return "checkout_missing_details" }
func (o NeedsSlot) Facts() map[string]any {
	missing := make([]string, 0, len(o.Missing))
	for _, s := range o.Missing {
		missing = append(missing, string(s))
	}
	f := map[string]any{
		"missing_details":  missing,
		"asking_for":       string(o.Slot),
		"in_order_context": true,
	}
	if len(o.Branches) > 0 {
		f["branches"] = o.Branches
	}
	if len(o.Upsells) > 0 {
		f["upsell_suggestions"] = o.Upsells
	}
	return f
}
func (o NeedsSlot) ClarificationQuestion() string { return o.Prompt }

// TimeRejected: the stated time was out of hours or unparsable; the
// slot stays unfilled.
type TimeRejected struct {
	Slot    Slot
	Window  string
	Invalid bool // unparsable rather than out of hours
}

func (TimeRejected) Intent() string { return "checkout_missing_details" }
func (o TimeRejected) Facts() map[string]any {
	reason := "outside_business_hours"
	if o.Invalid {
		reason = "invalid_time"
	}
	return map[string]any{
		"asking_for":       string(o.Slot),
		"reason":           reason,
		"in_order_context": true,
	}
}
func (o TimeRejected) ClarificationQuestion() string {
	if o.Invalid {
		return fmt.Sprintf("I couldn't make out that time. Our window is %s — what time works for you?", o.Window)
	}
	return fmt.Sprintf("Our window is %s. What time works for you within that window?", o.Window)
}

// Preview: all slots filled; a preview receipt awaits confirmation.
type Preview struct {
	Receipt string
	Upsells []string
}

func (Preview) Intent() string { return "confirm_order" }
func (o Preview) Facts() map[string]any {
	f := map[string]any{
		"ready_to_confirm":     true,
		"preview_receipt_text": o.Receipt,
		"in_order_context":     true,
	}
	if len(o.Upsells) > 0 {
		f["upsell_suggestions"] = o.Upsells
	}
	return f
}

// ModifyPrompt: a change was requested while awaiting confirmation but
// no concrete field update was found in the turn.
type ModifyPrompt struct {
	Receipt string
}

func (ModifyPrompt) Intent() string { return "confirm_order" }
func (o ModifyPrompt) Facts() map[string]any {
	return map[string]any{
		"ready_to_confirm":     true,
		"awaiting_changes":     true,
		"preview_receipt_text": o.Receipt,
		"in_order_context":     true,
	}
}
func (ModifyPrompt) ClarificationQuestion() string {
	return "What would you like to change — items, time, address, payment, branch, or your details?"
}

// Finalized: the order was committed.
type Finalized struct {
	OrderID uint
	Receipt string
}

func (Finalized) Intent() string { return "order_confirmed" }
func (o Finalized) Facts() map[string]any {
	return map[string]any{
		"order_placed": true,
		"order_id":     o.OrderID,
		"receipt_text": o.Receipt,
		"note":         fmt.Sprintf("Order #%d confirmed successfully!", o.OrderID),
	}
}

// NothingToConfirm: a confirmation arrived with no pending order.
type NothingToConfirm struct {
	CartItems int
}

func (NothingToConfirm) Intent() string { return "confirm_order" }
func (o NothingToConfirm) Facts() map[string]any {
	return map[string]any{
		"in_order_context": o.CartItems > 0,
		"cart_items":       o.CartItems,
		"note":             "I don't see an order awaiting confirmation. Would you like me to start a new order or review your cart?",
	}
}

// Cancelled: the order flow was abandoned and the cart cleared.
type Cancelled struct{}

func (Cancelled) Intent() string { return "cancel_order" }
func (Cancelled) Facts() map[string]any {
	return map[string]any{"order_cancelled": true, "cart_cleared": true}
}

// CartCleared: explicit clear-cart command.
type CartCleared struct{}

func (CartCleared) Intent() string { return "clear_cart" }
func (CartCleared) Facts() map[string]any {
	return map[string]any{"cart_cleared": true}
}

// Summary: read-only cart summary; phase is untouched.
type Summary struct {
	Text      string
	CartItems int
}

func (Summary) Intent() string { return "cart_summary" }
func (o Summary) Facts() map[string]any {
	return map[string]any{"cart_summary": o.Text, "cart_items": o.CartItems}
}

// ReceiptRecall: the last finalized receipt for the session, if any.
type ReceiptRecall struct {
	Receipt   string
	Available bool
}

func (ReceiptRecall) Intent() string { return "order_receipt" }
func (o ReceiptRecall) Facts() map[string]any {
	if !o.Available {
		return map[string]any{"receipt_available": false, "in_order_context": true}
	}
	return map[string]any{"receipt_available": true, "receipt_text": o.Receipt}
}

// PersistenceFailure: the finalize transaction failed for a reason other
// than stock; the cart is preserved so the user can retry.
type PersistenceFailure struct{}

func (PersistenceFailure) Intent() string { return "order" }
func (PersistenceFailure) Facts() map[string]any {
	return map[string]any{
		"order_placed": false,
		"error":        "commit_failed",
		"note":         "Sorry, there was an error processing your order. Please try again.",
	}
}
