package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant holds the back-office settings. A single row is created on first
// registration and updated through the profile endpoints.
type Restaurant struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Address  string
	Phone    string
	Currency string `gorm:"type:varchar(10);default:'USD'"`

	ServiceChargeRate float64 `gorm:"type:decimal(5,2);default:0.0"` // percent
	VATRate           float64 `gorm:"type:decimal(5,2);default:0.0"` // percent

	OpeningHours JSONB `gorm:"type:jsonb;default:'{}'"`

	LowStockAlerts        bool `gorm:"default:true"`
	SMSNotifications      bool `gorm:"default:false"`
	WhatsAppNotifications bool `gorm:"default:false"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
