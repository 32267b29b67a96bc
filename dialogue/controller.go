// Package dialogue implements the order dialogue state machine: one
// synchronous Handle call per user turn, which merges extracted
// entities into the session's cart, applies the stock/hours/
// completeness guards, and either advances the phase, asks a clarifying
// question, or finalizes the order.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bakery-assistant-api/cart"
	"bakery-assistant-api/catalog"
	"bakery-assistant-api/config"
	"bakery-assistant-api/models"
	"bakery-assistant-api/nlu"
	"bakery-assistant-api/orders"
	"bakery-assistant-api/session"

	"gorm.io/gorm"
)

type Controller struct {
	cfg      *config.Config
	db       *gorm.DB
	catalog  *catalog.Catalog
	extract  *nlu.Extractor
	carts    *CartStore
	sessions session.Store
	log      *slog.Logger
	now      func() time.Time
}

func NewController(cfg *config.Config, db *gorm.DB, sessions session.Store, logger *slog.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		db:       db,
		catalog:  catalog.New(db),
		extract:  nlu.NewExtractor(),
		carts:    NewCartStore(),
		sessions: sessions,
		log:      logger.With("component", "dialogue"),
		now:      time.Now,
	}
}

// CartState reports the session's current phase without mutating it.
func (ct *Controller) CartState(sessionID string) State {
	return ct.carts.Snapshot(sessionID)
}

// Handle processes one user turn to completion. The session's cart is
// exclusively owned for the duration of the call; concurrent turns for
// the same session serialize on the per-session lock.
func (ct *Controller) Handle(ctx context.Context, sessionID, query string) Outcome {
	c, release := ct.carts.Acquire(sessionID)
	defer release()

	if err := ct.refreshPrices(c); err != nil {
		ct.log.Error("price refresh failed", "session_id", sessionID, "error", err)
		return PersistenceFailure{}
	}

	ents := ct.extract.Extract(query)
	mentions, err := ct.catalog.Scan(query)
	if err != nil {
		ct.log.Error("catalog scan failed", "session_id", sessionID, "error", err)
		return PersistenceFailure{}
	}

	// A fulfillment signal may arrive in any turn; take it the moment
	// it appears so the flow moves toward details collection.
	if ents.Fulfillment != "" && c.FulfillmentType == "" {
		c.FulfillmentType = ents.Fulfillment
		c.AwaitingFulfillment = false
		if len(c.Items) > 0 && len(MissingSlots(c)) > 0 {
			c.AwaitingDetails = true
		}
	}

	rejected, changed := ct.absorb(c, ents)
	if rejected != nil {
		return rejected
	}

	kind := nlu.Classify(query, nlu.TurnContext{
		AwaitingConfirmation: c.AwaitingConfirmation,
		MentionsProduct:      len(mentions) > 0,
	})
	ct.log.Info("turn classified",
		"session_id", sessionID, "kind", kind.String(), "phase", c.Phase().String())

	switch kind {
	case nlu.TurnClearCart:
		c.Clear()
		return CartCleared{}

	case nlu.TurnReceipt:
		receipt, ok, err := ct.sessions.LastReceipt(ctx, sessionID)
		if err != nil {
			ct.log.Warn("receipt lookup failed", "session_id", sessionID, "error", err)
		}
		return ReceiptRecall{Receipt: receipt, Available: ok}

	case nlu.TurnSummary:
		return Summary{Text: c.Summary(), CartItems: len(c.Items)}

	case nlu.TurnCancel:
		c.Clear()
		return Cancelled{}

	case nlu.TurnConfirm:
		if !c.AwaitingConfirmation {
			return NothingToConfirm{CartItems: len(c.Items)}
		}
		if len(c.Items) == 0 {
			c.AwaitingConfirmation = false
			return EmptyCart{}
		}
		return ct.finalize(ctx, sessionID, c)

	case nlu.TurnAddItem:
		return ct.addItems(c, mentions)

	case nlu.TurnCheckout:
		if len(c.Items) == 0 {
			return EmptyCart{}
		}
		return ct.progress(c, "", nil)

	case nlu.TurnModify:
		// Phase-1-first policy: while awaiting confirmation every
		// non-confirm turn is a change request, never an unrelated
		// clarification. A targeted update regenerates the preview;
		// otherwise ask which field to change. Either way the cart
		// stays in confirmation.
		c.AwaitingConfirmation = true
		if changed {
			return Preview{Receipt: ct.previewReceipt(c)}
		}
		return ModifyPrompt{Receipt: ct.previewReceipt(c)}

	default: // TurnSlotFill
		if !c.InOrderContext() {
			return UnknownItem{}
		}
		return ct.progress(c, "", nil)
	}
}

// absorb merges extracted entities into outstanding cart slots. It
// returns a non-nil outcome only when a stated time must be rejected;
// changed reports whether any slot was updated this turn.
func (ct *Controller) absorb(c *cart.Cart, ents nlu.Entities) (Outcome, bool) {
	changed := false

	// An explicit "my name is X" may correct a previously collected
	// name; the bare-name fallback only ever fills an empty slot.
	if ents.Name != "" && !ct.isProductName(ents.Name) &&
		(c.CustomerInfo.Name == "" || ents.NameExplicit) &&
		ents.Name != c.CustomerInfo.Name {
		c.CustomerInfo.Name = ents.Name
		changed = true
	}
	if ents.PhoneNumber != "" && ents.PhoneNumber != c.CustomerInfo.PhoneNumber {
		c.CustomerInfo.PhoneNumber = ents.PhoneNumber
		changed = true
	}
	if ents.PaymentMethod != "" && ents.PaymentMethod != c.PaymentMethod {
		c.PaymentMethod = ents.PaymentMethod
		changed = true
	}
	if ents.Branch != "" {
		if b := ct.cfg.FindBranch(ents.Branch); b != nil && c.BranchName != b.Name {
			c.BranchName = b.Name
			changed = true
		}
	}
	if ents.Address != "" && ents.Address != c.DeliveryInfo.Address {
		c.DeliveryInfo.Address = ents.Address
		changed = true
	}

	// Times only land once the fulfillment type decides which slot they
	// fill; a rejected time leaves the slot unfilled.
	if c.FulfillmentType != "" && (ents.TimeSet || ents.TimeInvalid) {
		slot := SlotPickupTime
		if c.FulfillmentType == models.FulfillmentDelivery {
			slot = SlotDeliveryTime
		}
		hours := ct.cfg.HoursFor(c.BranchName)
		if ents.TimeInvalid {
			return TimeRejected{Slot: slot, Window: hours.Window(), Invalid: true}, changed
		}
		if !hours.Contains(ents.Time) {
			return TimeRejected{Slot: slot, Window: hours.Window()}, changed
		}
		if c.FulfillmentType == models.FulfillmentPickup {
			c.PickupInfo.PickupTime = ents.Time
		} else {
			c.DeliveryInfo.DeliveryTime = ents.Time
		}
		changed = true
	}

	return nil, changed
}

// addItems stock-checks every mentioned product against current catalog
// stock and adds them all, or rejects the whole turn leaving the cart
// unchanged. Stock is not decremented here; that only happens at
// finalize.
func (ct *Controller) addItems(c *cart.Cart, mentions []catalog.Mention) Outcome {
	for _, m := range mentions {
		if m.Invalid {
			return NeedsQuantity{ProductName: m.Product.Name}
		}
	}

	for _, m := range mentions {
		stock, err := ct.catalog.Stock(m.Product.ID)
		if err != nil {
			ct.log.Error("stock check failed", "product", m.Product.Name, "error", err)
			return PersistenceFailure{}
		}
		if stock < m.Quantity {
			alts, err := ct.catalog.Alternatives(m.Product.Category, 3)
			if err != nil {
				ct.log.Warn("alternatives lookup failed", "error", err)
			}
			names := make([]string, 0, len(alts))
			for _, a := range alts {
				if a.ID != m.Product.ID {
					names = append(names, a.Name)
				}
			}
			return StockShortage{ProductName: m.Product.Name, Available: stock, Alternatives: names}
		}
	}

	var added []string
	for _, m := range mentions {
		if err := c.AddItem(m.Product, m.Quantity); err != nil {
			return NeedsQuantity{ProductName: m.Product.Name}
		}
		added = append(added, fmt.Sprintf("%dx %s", m.Quantity, m.Product.Name))
	}

	exclude := make([]uint, 0, len(c.Items))
	for _, line := range c.Items {
		exclude = append(exclude, line.Product.ID)
	}
	upsells, err := ct.catalog.Upsells(exclude, 2)
	if err != nil {
		ct.log.Warn("upsell lookup failed", "error", err)
	}

	return ct.progress(c, strings.Join(added, ", "), upsells)
}

// progress advances the flow from wherever the cart stands: fulfillment
// first, then the outstanding details, then the confirmation preview.
func (ct *Controller) progress(c *cart.Cart, addedSummary string, upsells []string) Outcome {
	if len(c.Items) == 0 {
		return EmptyCart{}
	}

	if c.FulfillmentType == "" {
		c.AwaitingFulfillment = true
		return NeedsFulfillment{
			AddedSummary: addedSummary,
			CartSummary:  c.Summary(),
			CartItems:    len(c.Items),
			Upsells:      upsells,
		}
	}
	c.AwaitingFulfillment = false

	missing := MissingSlots(c)
	if len(missing) > 0 {
		c.AwaitingDetails = true
		out := ct.askFor(c, missing)
		if ns, ok := out.(NeedsSlot); ok && len(upsells) > 0 {
			ns.Upsells = upsells
			return ns
		}
		return out
	}

	c.AwaitingDetails = false
	c.AwaitingConfirmation = true
	return Preview{Receipt: ct.previewReceipt(c), Upsells: upsells}
}

func (ct *Controller) finalize(ctx context.Context, sessionID string, c *cart.Cart) Outcome {
	res, err := orders.Finalize(ctx, ct.db, c, ct.receiptConfig(), sessionID)
	if err != nil {
		ct.log.Error("finalize failed", "session_id", sessionID, "error", err)
		return PersistenceFailure{}
	}
	if !res.OrderPlaced {
		switch res.Reason {
		case orders.ReasonInsufficientStock:
			// cart untouched, still awaiting confirmation: the user can
			// adjust quantities and confirm again
			return StockShortage{ProductName: res.ProductName, Available: res.Available, AtFinalize: true}
		case orders.ReasonCartEmpty:
			c.AwaitingConfirmation = false
			return EmptyCart{}
		default:
			return PersistenceFailure{}
		}
	}

	if err := ct.sessions.SetLastReceipt(ctx, sessionID, res.ReceiptText); err != nil {
		ct.log.Warn("receipt store failed", "session_id", sessionID, "error", err)
	}
	c.Clear()
	ct.log.Info("order placed", "session_id", sessionID, "order_id", res.OrderID)
	return Finalized{OrderID: res.OrderID, Receipt: res.ReceiptText}
}

// refreshPrices swaps cart product snapshots for current catalog rows
// so totals never trail a price change.
func (ct *Controller) refreshPrices(c *cart.Cart) error {
	if len(c.Items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(c.Items))
	for _, line := range c.Items {
		ids = append(ids, line.Product.ID)
	}
	var products []models.Product
	if err := ct.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}
	fresh := make(map[uint]models.Product, len(products))
	for _, p := range products {
		fresh[p.ID] = p
	}
	c.RefreshProducts(fresh)
	return nil
}

func (ct *Controller) previewReceipt(c *cart.Cart) string {
	return c.BuildReceipt(0, ct.receiptConfig())
}

func (ct *Controller) receiptConfig() cart.ReceiptConfig {
	return cart.ReceiptConfig{
		BakeryName: ct.cfg.BakeryName,
		TaxRate:    ct.cfg.TaxRate,
		Now:        ct.now,
	}
}

// isProductName keeps product names out of the customer-name slot
// ("Almond Croissant" is not somebody's name).
func (ct *Controller) isProductName(name string) bool {
	products, err := ct.catalog.All()
	if err != nil {
		return false
	}
	lower := strings.ToLower(name)
	for _, p := range products {
		pn := strings.ToLower(p.Name)
		if pn == lower || strings.Contains(pn, lower) {
			return true
		}
	}
	return false
}
