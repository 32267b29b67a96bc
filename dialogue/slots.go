package dialogue

import (
	"fmt"

	"bakery-assistant-api/cart"
	"bakery-assistant-api/models"
)

// Slot is one required order attribute tracked as filled/unfilled.
type Slot string

const (
	SlotItems        Slot = "items"
	SlotName         Slot = "name"
	SlotBranch       Slot = "branch"
	SlotPhoneNumber  Slot = "phone_number"
	SlotPickupTime   Slot = "pickup_time"
	SlotAddress      Slot = "address"
	SlotDeliveryTime Slot = "delivery_time"
	SlotPayment      Slot = "payment_method"
)

// MissingSlots recomputes the outstanding required details from the
// current cart state. Nothing is cached: a filled slot disappears from
// the result and is never re-asked. The pickup-only and delivery-only
// slots are gated on the fulfillment type.
func MissingSlots(c *cart.Cart) []Slot {
	if len(c.Items) == 0 {
		return []Slot{SlotItems}
	}
	var missing []Slot
	if c.CustomerInfo.Name == "" {
		missing = append(missing, SlotName)
	}
	if c.BranchName == "" {
		missing = append(missing, SlotBranch)
	}
	if c.FulfillmentType == models.FulfillmentPickup {
		if c.CustomerInfo.PhoneNumber == "" {
			missing = append(missing, SlotPhoneNumber)
		}
		if c.PickupInfo.PickupTime.IsZero() {
			missing = append(missing, SlotPickupTime)
		}
	}
	if c.FulfillmentType == models.FulfillmentDelivery {
		if c.DeliveryInfo.Address == "" {
			missing = append(missing, SlotAddress)
		}
		if c.DeliveryInfo.DeliveryTime.IsZero() {
			missing = append(missing, SlotDeliveryTime)
		}
	}
	if c.PaymentMethod == "" {
		missing = append(missing, SlotPayment)
	}
	return missing
}

// askFor builds the prompt for the first missing slot.
func (ct *Controller) askFor(c *cart.Cart, missing []Slot) Outcome {
	if len(missing) == 0 {
		return NeedsSlot{Slot: "", Missing: nil, Prompt: "I need a few more details to place your order."}
	}
	slot := missing[0]
	name := c.CustomerInfo.Name

	out := NeedsSlot{Slot: slot, Missing: missing}
	switch slot {
	case SlotItems:
		return EmptyCart{}
	case SlotName:
		out.Prompt = "Got it! What's the name for the order?"
	case SlotBranch:
		out.Branches = ct.cfg.BranchNames()
		out.Prompt = "Which branch should we use for your order? (Downtown, Westside, or Mall)"
	case SlotPhoneNumber:
		out.Prompt = fmt.Sprintf("Thanks %s! For pickup, what's the best phone number to reach you?", name)
	case SlotPickupTime:
		window := ct.cfg.HoursFor(c.BranchName).Window()
		branch := c.BranchName
		if branch == "" {
			branch = "branch"
		}
		out.Prompt = fmt.Sprintf("Perfect! What pickup time works for you, %s? Our %s window is %s.", name, branch, window)
	case SlotAddress:
		out.Prompt = fmt.Sprintf("Thanks %s! What's the full delivery address?", name)
	case SlotDeliveryTime:
		out.Prompt = fmt.Sprintf("Great! What delivery time works for you, %s?", name)
	case SlotPayment:
		out.Prompt = fmt.Sprintf("Almost done, %s! How would you like to pay? (cash, card, or UPI)", name)
	default:
		out.Prompt = "I need a few more details to place your order."
	}
	return out
}
