package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Description string
	Price       float64   `gorm:"type:decimal(10,2);not null"`
	CostPrice   float64   `gorm:"type:decimal(10,2);default:0.0"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null"`

	// When TrackInventory is set, every sale of this item deducts stock from
	// the linked inventory item.
	InventoryItemID *uuid.UUID `gorm:"type:uuid;index"`
	TrackInventory  bool       `gorm:"default:false"`

	IsActive    bool `gorm:"default:true"`
	IsAvailable bool `gorm:"default:true"`
	ImageURL    string

	Category      *Category      `gorm:"foreignKey:CategoryID"`
	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`

	gorm.Model
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
