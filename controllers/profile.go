package controllers

import (
	"errors"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name              *string       `json:"name"`
	Address           *string       `json:"address"`
	Phone             *string       `json:"phone"`
	Currency          *string       `json:"currency"`
	ServiceChargeRate *float64      `json:"service_charge_rate"`
	VATRate           *float64      `json:"vat_rate"`
	OpeningHours      *models.JSONB `json:"opening_hours"`

	LowStockAlerts        *bool `json:"low_stock_alerts"`
	SMSNotifications      *bool `json:"sms_notifications"`
	WhatsAppNotifications *bool `json:"whatsapp_notifications"`
}

// GetProfile returns the restaurant settings
func GetProfile(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Restaurant profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

// UpdateProfile updates the restaurant settings
func UpdateProfile(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Restaurant profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}
	if input.Phone != nil {
		restaurant.Phone = *input.Phone
	}
	if input.Currency != nil {
		restaurant.Currency = *input.Currency
	}
	if input.ServiceChargeRate != nil {
		if *input.ServiceChargeRate < 0 || *input.ServiceChargeRate > 100 {
			utils.RespondWithError(c, http.StatusBadRequest, "Service charge rate must be between 0 and 100")
			return
		}
		restaurant.ServiceChargeRate = *input.ServiceChargeRate
	}
	if input.VATRate != nil {
		if *input.VATRate < 0 || *input.VATRate > 100 {
			utils.RespondWithError(c, http.StatusBadRequest, "VAT rate must be between 0 and 100")
			return
		}
		restaurant.VATRate = *input.VATRate
	}
	if input.OpeningHours != nil {
		restaurant.OpeningHours = *input.OpeningHours
	}
	if input.LowStockAlerts != nil {
		restaurant.LowStockAlerts = *input.LowStockAlerts
	}
	if input.SMSNotifications != nil {
		restaurant.SMSNotifications = *input.SMSNotifications
	}
	if input.WhatsAppNotifications != nil {
		restaurant.WhatsAppNotifications = *input.WhatsAppNotifications
	}

	if err := config.DB.Save(&restaurant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update restaurant profile")
		return
	}

	c.JSON(http.StatusOK, restaurant)
}
