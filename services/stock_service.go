// services/stock_service.go
package services

import (
	"errors"
	"fmt"
	"restopos-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrInvalidMovementType is returned for movement types outside in/out/adjustment.
	ErrInvalidMovementType = errors.New("invalid movement type")
	// ErrInvalidQuantity is returned when an in/out movement carries a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrMissingTargetStock is returned when an adjustment does not carry the target stock level.
	ErrMissingTargetStock = errors.New("new_stock is required for adjustment movements")
	// ErrNegativeTargetStock is returned when an adjustment targets a level below zero.
	ErrNegativeTargetStock = errors.New("new_stock cannot be negative")
	// ErrStockConflict is returned when the stock level changed between read and write.
	ErrStockConflict = errors.New("stock level changed concurrently, please retry")
)

// InsufficientStockError carries the item name and the required/available
// amounts for the aggregated pre-flight check.
type InsufficientStockError struct {
	ItemName  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %s, available %s",
		e.ItemName, e.Required.String(), e.Available.String())
}

type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

type RecordMovementInput struct {
	InventoryItemID uuid.UUID        `json:"inventory_item_id" binding:"required"`
	MovementType    string           `json:"movement_type" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	NewStock        *decimal.Decimal `json:"new_stock"`
	Reference       string           `json:"reference"`
	Notes           string           `json:"notes"`
}

// RecordMovement applies a manual stock movement (in, out or adjustment) and
// appends the audit row, as one transaction.
func (s *StockService) RecordMovement(input RecordMovementInput, userID uuid.UUID) (*models.StockMovement, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var item models.InventoryItem
	if err := tx.Where("id = ?", input.InventoryItemID).First(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	movement, err := applyMovement(tx, &item, input.MovementType, input.Quantity,
		input.NewStock, input.Reference, input.Notes, userID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return movement, nil
}

// applyMovement computes the new stock level for the movement type, persists
// it with an optimistic check on the previous value, and appends the
// StockMovement row. Shared by manual movements and order-driven deductions.
func applyMovement(tx *gorm.DB, item *models.InventoryItem, movementType string,
	quantity decimal.Decimal, targetStock *decimal.Decimal,
	reference, notes string, userID uuid.UUID) (*models.StockMovement, error) {

	previous := item.CurrentStock
	var newStock decimal.Decimal

	switch movementType {
	case models.MovementTypeIn:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
		newStock = previous.Add(quantity)
	case models.MovementTypeOut:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
		newStock = previous.Sub(quantity)
		if newStock.IsNegative() {
			newStock = decimal.Zero
		}
	case models.MovementTypeAdjustment:
		if targetStock == nil {
			return nil, ErrMissingTargetStock
		}
		if targetStock.IsNegative() {
			return nil, ErrNegativeTargetStock
		}
		newStock = *targetStock
		quantity = newStock.Sub(previous).Abs()
	default:
		return nil, ErrInvalidMovementType
	}

	// Conditional update on the previous-stock snapshot; zero affected rows
	// means a concurrent writer got there first.
	result := tx.Model(&models.InventoryItem{}).
		Where("id = ? AND current_stock = ?", item.ID, previous).
		Update("current_stock", newStock)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrStockConflict
	}
	item.CurrentStock = newStock

	movement := models.StockMovement{
		InventoryItemID: item.ID,
		MovementType:    movementType,
		Quantity:        quantity,
		PreviousStock:   previous,
		NewStock:        newStock,
		Reference:       reference,
		Notes:           notes,
		CreatedByUserID: userID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &movement, nil
}
