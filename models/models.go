package models

import "time"

// FulfillmentType says how the customer receives the order
type FulfillmentType string

const (
	FulfillmentPickup   FulfillmentType = "pickup"
	FulfillmentDelivery FulfillmentType = "delivery"
)

// OrderStatus represents all possible states of a bakery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type Product struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name" gorm:"uniqueIndex;not null"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" gorm:"not null"`
	Category        string  `json:"category"`
	QuantityInStock int     `json:"quantity_in_stock" gorm:"not null;default:0"`
}

// Customer is looked up (or created) by the finalize path; phone may be
// unknown, so the unique index has to tolerate NULLs.
type Customer struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	PhoneNumber *string `json:"phone_number" gorm:"uniqueIndex"`
	Orders      []Order `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
}

type Order struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	CustomerID         uint            `json:"customer_id" gorm:"not null"`
	Customer           Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	OrderDate          time.Time       `json:"order_date" gorm:"autoCreateTime"`
	Status             OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	PickupOrDelivery   FulfillmentType `json:"pickup_or_delivery" gorm:"not null"`
	TotalAmount        float64         `json:"total_amount"`
	PickupDeliveryTime *time.Time      `json:"pickup_delivery_time"`
	ConfirmedAt        *time.Time      `json:"confirmed_at"`
	Items              []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID                 uint    `json:"id" gorm:"primaryKey"`
	OrderID            uint    `json:"order_id" gorm:"not null"`
	ProductID          uint    `json:"product_id" gorm:"not null"`
	Product            Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity           int     `json:"quantity" gorm:"not null"`
	PriceAtTimeOfOrder float64 `json:"price_at_time_of_order" gorm:"not null"` // price snapshot at commit time
}
