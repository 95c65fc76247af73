package controllers

import (
	"errors"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/services"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryItemInput struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	CostPerUnit  float64         `json:"cost_per_unit"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
}

type UpdateInventoryItemInput struct {
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	CostPerUnit  *float64         `json:"cost_per_unit"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	IsActive     *bool            `json:"is_active"`
}

// GetInventoryItems lists inventory items, optionally filtered to low stock
func GetInventoryItems(c *gin.Context) {
	query := config.DB.Model(&models.InventoryItem{}).Preload("Supplier")

	if c.Query("low_stock") == "true" {
		query = query.Where("current_stock <= minimum_stock")
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var items []models.InventoryItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve inventory items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetLowStockItems lists active items at or below their minimum stock level
func GetLowStockItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := config.DB.Preload("Supplier").
		Where("current_stock <= minimum_stock AND is_active = ?", true).
		Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve low stock items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetInventoryItem retrieves a single inventory item with its recent movements
func GetInventoryItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var item models.InventoryItem
	if err := config.DB.Preload("Supplier").Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var movements []models.StockMovement
	config.DB.Where("inventory_item_id = ?", itemUUID).
		Order("created_at DESC").Limit(20).Find(&movements)

	c.JSON(http.StatusOK, gin.H{
		"item":             item,
		"recent_movements": movements,
	})
}

// CreateInventoryItem creates a new inventory item
func CreateInventoryItem(c *gin.Context) {
	var input InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CurrentStock.IsNegative() || input.MinimumStock.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Stock levels cannot be negative")
		return
	}

	item := models.InventoryItem{
		Name:         input.Name,
		Unit:         input.Unit,
		CurrentStock: input.CurrentStock,
		MinimumStock: input.MinimumStock,
		CostPerUnit:  input.CostPerUnit,
		SupplierID:   input.SupplierID,
		IsActive:     true,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem updates item metadata. Stock levels change only through
// movements, never through this endpoint.
func UpdateInventoryItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var item models.InventoryItem
	if err := config.DB.Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateInventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.MinimumStock != nil {
		if input.MinimumStock.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Minimum stock cannot be negative")
			return
		}
		item.MinimumStock = *input.MinimumStock
	}
	if input.CostPerUnit != nil {
		item.CostPerUnit = *input.CostPerUnit
	}
	if input.SupplierID != nil {
		item.SupplierID = input.SupplierID
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update inventory item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteInventoryItem deactivates an item. Movement history stays intact.
func DeleteInventoryItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result := config.DB.Model(&models.InventoryItem{}).Where("id = ?", itemUUID).Update("is_active", false)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deactivated"})
}

// RecordStockMovement records a manual stock movement (in, out or adjustment)
// and updates the item's stock level
func RecordStockMovement(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input services.RecordMovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	movement, err := services.NewStockService(config.DB).RecordMovement(input, userUUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMovementType),
			errors.Is(err, services.ErrInvalidQuantity),
			errors.Is(err, services.ErrMissingTargetStock),
			errors.Is(err, services.ErrNegativeTargetStock):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Inventory item not found")
		case errors.Is(err, services.ErrStockConflict):
			utils.RespondWithError(c, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stock movement")
		}
		return
	}

	c.JSON(http.StatusCreated, movement)
}

// GetStockMovements lists stock movements, optionally filtered by item
func GetStockMovements(c *gin.Context) {
	query := config.DB.Model(&models.StockMovement{}).Preload("InventoryItem")

	if itemID := c.Query("inventory_item_id"); itemID != "" {
		itemUUID, err := uuid.Parse(itemID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
			return
		}
		query = query.Where("inventory_item_id = ?", itemUUID)
	}
	if movementType := c.Query("movement_type"); movementType != "" {
		query = query.Where("movement_type = ?", movementType)
	}

	var movements []models.StockMovement
	if err := query.Order("created_at DESC").Limit(200).Find(&movements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}
