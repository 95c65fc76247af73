package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock movement types
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeAdjustment = "adjustment"
)

type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Name          string    `gorm:"not null"`
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	IsActive      bool `gorm:"default:true"`

	Items []InventoryItem `gorm:"foreignKey:SupplierID"`

	gorm.Model
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// InventoryItem tracks a stocked ingredient or good. CurrentStock is only
// mutated through stock movement recording, never written directly.
type InventoryItem struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"not null"`
	Unit string    `gorm:"type:varchar(20);default:'pcs'"`

	CurrentStock decimal.Decimal `gorm:"type:decimal(12,3);default:0"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(12,3);default:0"`
	CostPerUnit  float64         `gorm:"type:decimal(10,2);default:0.0"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive   bool       `gorm:"default:true"`

	Supplier  *Supplier       `gorm:"foreignKey:SupplierID"`
	Movements []StockMovement `gorm:"foreignKey:InventoryItemID"`

	gorm.Model
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// StockMovement is an append-only audit row. Invariant:
// new_stock = previous_stock + quantity (in), previous_stock - quantity
// clamped at 0 (out), or the explicit target with quantity = |delta|
// (adjustment). Rows are never updated or deleted.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;index;not null"`

	MovementType  string          `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PreviousStock decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	Reference string
	Notes     string

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`

	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt       time.Time
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
