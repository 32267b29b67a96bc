// Package orders owns the commit path: the one atomic transaction that
// turns a completed cart into persisted Order/OrderItem rows and
// decrements stock.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-assistant-api/cart"
	"bakery-assistant-api/models"

	"gorm.io/gorm"
)

// Failure reasons surfaced to the dialogue.
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonCartEmpty         = "cart_empty"
)

const thankYouLine = "\n\nThank you! Your order has been placed successfully. We hope you enjoy your treats!"

// Result reports what finalize did. On any failure the caller's cart is
// left intact so the user can adjust and retry.
type Result struct {
	OrderPlaced bool
	OrderID     uint
	ReceiptText string

	Reason      string // set when OrderPlaced is false
	ProductName string // offending product for insufficient_stock
	Available   int    // its current stock
}

// errStockShort aborts the transaction without being reported as a
// persistence error.
var errStockShort = errors.New("insufficient stock")

// Finalize commits the cart inside one transaction: fresh product
// reads, stock guard, find-or-create customer, order + item rows with
// commit-time price snapshots, guarded stock decrement, confirmed_at
// stamp. Any failure rolls back every write.
func Finalize(ctx context.Context, db *gorm.DB, c *cart.Cart, rcfg cart.ReceiptConfig, sessionID string) (Result, error) {
	if len(c.Items) == 0 {
		return Result{Reason: ReasonCartEmpty}, nil
	}

	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-fetch every line fresh; cached references may trail
		// concurrent orders.
		fresh := make(map[uint]models.Product, len(c.Items))
		for _, line := range c.Items {
			var p models.Product
			if err := tx.First(&p, line.Product.ID).Error; err != nil {
				return fmt.Errorf("fetch product %d: %w", line.Product.ID, err)
			}
			if p.QuantityInStock < line.Quantity {
				res.Reason = ReasonInsufficientStock
				res.ProductName = p.Name
				res.Available = p.QuantityInStock
				return errStockShort
			}
			fresh[p.ID] = p
		}

		customer, err := findOrCreateCustomer(tx, sessionID, c.CustomerInfo.Name, c.CustomerInfo.PhoneNumber)
		if err != nil {
			return fmt.Errorf("find or create customer: %w", err)
		}

		total := 0.0
		for _, line := range c.Items {
			total += fresh[line.Product.ID].Price * float64(line.Quantity)
		}

		order := models.Order{
			CustomerID:       customer.ID,
			Status:           models.StatusPending,
			PickupOrDelivery: c.FulfillmentType,
			TotalAmount:      total,
		}
		if t := fulfillmentTime(c); !t.IsZero() {
			order.PickupDeliveryTime = &t
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range c.Items {
			item := models.OrderItem{
				OrderID:            order.ID,
				ProductID:          line.Product.ID,
				Quantity:           line.Quantity,
				PriceAtTimeOfOrder: fresh[line.Product.ID].Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create order item: %w", err)
			}

			// Guarded decrement: the stock condition rides in the
			// UPDATE itself, so two racing finalizations cannot both
			// win the same inventory.
			dec := tx.Model(&models.Product{}).
				Where("id = ? AND quantity_in_stock >= ?", line.Product.ID, line.Quantity).
				UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", line.Quantity))
			if dec.Error != nil {
				return fmt.Errorf("decrement stock: %w", dec.Error)
			}
			if dec.RowsAffected == 0 {
				var p models.Product
				if err := tx.First(&p, line.Product.ID).Error; err == nil {
					res.ProductName = p.Name
					res.Available = p.QuantityInStock
				}
				res.Reason = ReasonInsufficientStock
				return errStockShort
			}
		}

		now := time.Now()
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]any{"status": models.StatusConfirmed, "confirmed_at": now}).Error; err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}

		// Receipt prices are the commit-time snapshots, not whatever
		// the cart was showing at add time.
		receiptCart := *c
		receiptCart.Items = append([]cart.Line(nil), c.Items...)
		receiptCart.RefreshProducts(fresh)

		res.OrderPlaced = true
		res.OrderID = order.ID
		res.ReceiptText = receiptCart.BuildReceipt(order.ID, rcfg) + thankYouLine
		return nil
	})

	if errors.Is(err, errStockShort) {
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// findOrCreateCustomer looks a customer up by phone first, then by
// name, and creates one when neither matches. A unique-phone conflict
// is retried with a NULL phone rather than failing the order.
func findOrCreateCustomer(tx *gorm.DB, sessionID, name, phone string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if name == "" {
		if sessionID != "" {
			name = "customer_" + sessionID
		} else {
			name = "default_customer"
		}
	}

	var customer models.Customer
	if phone != "" {
		if err := tx.Where("phone_number = ?", phone).First(&customer).Error; err == nil {
			return &customer, nil
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if err := tx.Where("name = ?", name).First(&customer).Error; err == nil {
		return &customer, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	customer = models.Customer{Name: name}
	if phone != "" {
		customer.PhoneNumber = &phone
	}
	if err := tx.Create(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			customer = models.Customer{Name: name}
			if err := tx.Create(&customer).Error; err != nil {
				return nil, err
			}
			return &customer, nil
		}
		return nil, err
	}
	return &customer, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToUpper(err.Error()), "UNIQUE")
}

func fulfillmentTime(c *cart.Cart) time.Time {
	if c.FulfillmentType == models.FulfillmentPickup {
		return c.PickupInfo.PickupTime
	}
	return c.DeliveryInfo.DeliveryTime
}
