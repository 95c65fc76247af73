package services

import (
	"fmt"
	"strings"
	"testing"

	"restopos-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Customer{},
		&models.Category{},
		&models.MenuItem{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))

	return db
}

func seedInventoryItem(t *testing.T, db *gorm.DB, name string, stock int64) *models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		Name:         name,
		Unit:         "pcs",
		CurrentStock: decimal.NewFromInt(stock),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func TestRecordMovementIn(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Coffee Beans", 10)

	movement, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeIn,
		Quantity:        decimal.NewFromInt(5),
		Reference:       "PO-1234",
	}, uuid.New())
	require.NoError(t, err)

	require.Equal(t, models.MovementTypeIn, movement.MovementType)
	require.True(t, movement.PreviousStock.Equal(decimal.NewFromInt(10)))
	require.True(t, movement.NewStock.Equal(decimal.NewFromInt(15)))
	require.Equal(t, "PO-1234", movement.Reference)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(15)))
}

func TestRecordMovementOutClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Milk", 3)

	movement, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeOut,
		Quantity:        decimal.NewFromInt(10),
	}, uuid.New())
	require.NoError(t, err)

	// The level floors at zero but the movement keeps the requested quantity.
	require.True(t, movement.NewStock.Equal(decimal.Zero))
	require.True(t, movement.Quantity.Equal(decimal.NewFromInt(10)))

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.Zero))
}

func TestRecordMovementAdjustment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Flour", 20)

	target := decimal.NewFromInt(12)
	movement, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeAdjustment,
		NewStock:        &target,
		Notes:           "monthly stocktake",
	}, uuid.New())
	require.NoError(t, err)

	require.True(t, movement.NewStock.Equal(target))
	require.True(t, movement.Quantity.Equal(decimal.NewFromInt(8)), "quantity records the absolute delta")
	require.Equal(t, "monthly stocktake", movement.Notes)
}

func TestRecordMovementAdjustmentRejectsNegativeTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Olive Oil", 20)

	target := decimal.NewFromInt(-5)
	_, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeAdjustment,
		NewStock:        &target,
	}, uuid.New())
	require.ErrorIs(t, err, ErrNegativeTargetStock)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(20)), "stock must stay untouched")
}

func TestRecordMovementAdjustmentRequiresTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Sugar", 5)

	_, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeAdjustment,
	}, uuid.New())
	require.ErrorIs(t, err, ErrMissingTargetStock)
}

func TestRecordMovementRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	item := seedInventoryItem(t, db, "Butter", 5)
	userID := uuid.New()

	_, err := svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    "transfer",
		Quantity:        decimal.NewFromInt(1),
	}, userID)
	require.ErrorIs(t, err, ErrInvalidMovementType)

	_, err = svc.RecordMovement(RecordMovementInput{
		InventoryItemID: item.ID,
		MovementType:    models.MovementTypeIn,
		Quantity:        decimal.Zero,
	}, userID)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.RecordMovement(RecordMovementInput{
		InventoryItemID: uuid.New(),
		MovementType:    models.MovementTypeIn,
		Quantity:        decimal.NewFromInt(1),
	}, userID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Failed movements must not leave audit rows behind
	var count int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&count).Error)
	require.Zero(t, count)
}
