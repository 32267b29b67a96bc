// Package cart holds the per-session shopping cart aggregate: selected
// line items, the order details collected so far, and the phase flags
// the dialogue derives its state from.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-assistant-api/models"
)

// ErrInvalidQuantity rejects AddItem calls with a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Line is one cart entry. Product is a snapshot of the catalog row,
// refreshed from the catalog each turn so totals track current prices.
type Line struct {
	Product  models.Product
	Quantity int
}

type CustomerInfo struct {
	Name        string
	PhoneNumber string
}

type PickupInfo struct {
	PickupTime time.Time
}

type DeliveryInfo struct {
	Address      string
	DeliveryTime time.Time
}

type Cart struct {
	Items           []Line
	CustomerInfo    CustomerInfo
	PickupInfo      PickupInfo
	DeliveryInfo    DeliveryInfo
	FulfillmentType models.FulfillmentType // empty until chosen
	PaymentMethod   string                 // "cash", "card" or "upi"
	BranchName      string

	AwaitingFulfillment  bool
	AwaitingDetails      bool
	AwaitingConfirmation bool
}

func New() *Cart {
	return &Cart{}
}

// AddItem adds a product to the cart or bumps the quantity of the
// existing line for the same product.
func (c *Cart) AddItem(p models.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity += quantity
			c.Items[i].Product = p
			return nil
		}
	}
	c.Items = append(c.Items, Line{Product: p, Quantity: quantity})
	return nil
}

// RemoveItem drops the line for the given product, if present.
func (c *Cart) RemoveItem(productID uint) {
	kept := c.Items[:0]
	for _, line := range c.Items {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	c.Items = kept
}

// Clear resets every field to its initial value, phase flags included.
func (c *Cart) Clear() {
	*c = Cart{}
}

// RefreshProducts swaps line product snapshots for current catalog rows
// so Total and Summary reflect the latest prices.
func (c *Cart) RefreshProducts(fresh map[uint]models.Product) {
	for i := range c.Items {
		if p, ok := fresh[c.Items[i].Product.ID]; ok {
			c.Items[i].Product = p
		}
	}
}

// Total sums quantity × unit price over all lines.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.Items {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Summary renders the per-line breakdown plus total, in insertion order.
func (c *Cart) Summary() string {
	var lines []string
	for _, line := range c.Items {
		lines = append(lines, fmt.Sprintf("- %dx %s: $%.2f",
			line.Quantity, line.Product.Name, line.Product.Price*float64(line.Quantity)))
	}
	lines = append(lines, "", fmt.Sprintf("Total: $%.2f", c.Total()))
	return strings.Join(lines, "\n")
}

// ReceiptConfig carries the policy values a receipt needs; nothing in
// the rendering is hard-coded so tests can run with alternate rates.
type ReceiptConfig struct {
	BakeryName string
	TaxRate    float64
	Now        func() time.Time
}

// BuildReceipt renders the canonical receipt. An orderID of zero means
// a preview: the order number line is omitted.
func (c *Cart) BuildReceipt(orderID uint, cfg ReceiptConfig) string {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	header := now().Format("2006-01-02 15:04")
	if orderID != 0 {
		header += fmt.Sprintf("  •  Order #%d", orderID)
	}

	var lines []string
	lines = append(lines, cfg.BakeryName+" — Order Receipt", header, "", "Items:")

	subtotal := 0.0
	for _, line := range c.Items {
		lineTotal := line.Product.Price * float64(line.Quantity)
		subtotal += lineTotal
		lines = append(lines, fmt.Sprintf("- %d x %s — $%.2f ea  = $%.2f",
			line.Quantity, line.Product.Name, line.Product.Price, lineTotal))
	}

	tax := subtotal * cfg.TaxRate
	lines = append(lines, "",
		fmt.Sprintf("Subtotal: $%.2f", subtotal),
		fmt.Sprintf("Tax (%.2f%%): $%.2f", cfg.TaxRate*100, tax),
		fmt.Sprintf("Total: $%.2f", subtotal+tax),
		"")

	switch c.FulfillmentType {
	case models.FulfillmentPickup:
		lines = append(lines, "Fulfillment: Pickup")
		if !c.PickupInfo.PickupTime.IsZero() {
			lines = append(lines, "Pickup Time: "+c.PickupInfo.PickupTime.Format("2006-01-02 15:04"))
		}
	case models.FulfillmentDelivery:
		lines = append(lines, "Fulfillment: Delivery")
		if c.DeliveryInfo.Address != "" {
			lines = append(lines, "Address: "+c.DeliveryInfo.Address)
		}
		if !c.DeliveryInfo.DeliveryTime.IsZero() {
			lines = append(lines, "Delivery Time: "+c.DeliveryInfo.DeliveryTime.Format("2006-01-02 15:04"))
		}
	}
	if c.BranchName != "" {
		lines = append(lines, "Branch: "+c.BranchName)
	}
	if c.CustomerInfo.Name != "" {
		lines = append(lines, "Customer: "+c.CustomerInfo.Name)
	}
	if c.CustomerInfo.PhoneNumber != "" {
		lines = append(lines, "Phone: "+c.CustomerInfo.PhoneNumber)
	}
	if c.PaymentMethod != "" {
		lines = append(lines, "Payment: "+capitalize(c.PaymentMethod))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
