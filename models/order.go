package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order types
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
	OrderTypeBarOnly  = "bar_only"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Orders are never hard-deleted, so there is no DeletedAt column.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`
	OrderType   string    `gorm:"type:varchar(20);not null"`
	TableNumber *int

	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedByUserID uuid.UUID  `gorm:"type:uuid;index;not null"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);default:0.0"`
	ServiceCharge  float64 `gorm:"type:decimal(10,2);default:0.0"`
	VATAmount      float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount    float64 `gorm:"type:decimal(10,2);not null"`

	Status string `gorm:"type:varchar(20);default:'pending'"`
	Notes  string

	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
	Customer *Customer   `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem snapshots the menu item at the time of sale. MenuItemID is
// nullable so the row survives the menu item being removed later.
type OrderItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	MenuItemID *uuid.UUID `gorm:"type:uuid;index"`

	ItemName   string  `gorm:"not null"`
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);not null"`
	TotalPrice float64 `gorm:"type:decimal(10,2);not null"`
	Notes      string

	CreatedAt time.Time
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
)

// Multiple payments per order are allowed (split payment).
type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null"`

	PaymentMethod string  `gorm:"type:varchar(20);not null"`
	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	Reference     string
	Status        string `gorm:"type:varchar(20);default:'completed'"`

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
