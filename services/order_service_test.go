package services

import (
	"fmt"
	"testing"
	"time"

	"restopos-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func seedMenuItem(t *testing.T, db *gorm.DB, category *models.Category, name string,
	price float64, inventory *models.InventoryItem) *models.MenuItem {
	t.Helper()

	item := models.MenuItem{
		Name:        name,
		Price:       price,
		CategoryID:  category.ID,
		IsActive:    true,
		IsAvailable: true,
	}
	if inventory != nil {
		item.InventoryItemID = &inventory.ID
		item.TrackInventory = true
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func orderLine(item *models.MenuItem, quantity int) OrderLineInput {
	return OrderLineInput{
		MenuItemID: item.ID,
		ItemName:   item.Name,
		Quantity:   quantity,
		UnitPrice:  item.Price,
	}
}

func TestCreateOrderTotalsAndNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	burger := seedMenuItem(t, db, category, "Burger", 1000, nil)
	fries := seedMenuItem(t, db, category, "Fries", 250, nil)

	order, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items: []OrderLineInput{
			orderLine(burger, 2),
			orderLine(fries, 2),
		},
		Payment: PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)

	require.Equal(t, 2500.0, order.Subtotal)
	require.Equal(t, 2500.0, order.TotalAmount)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	expectedNumber := fmt.Sprintf("ORD-%s-0001", time.Now().Format("060102"))
	require.Equal(t, expectedNumber, order.OrderNumber)

	// Payment defaults to the order total when no explicit amount is given
	require.Len(t, order.Payments, 1)
	require.Equal(t, 2500.0, order.Payments[0].Amount)

	second, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeTakeaway,
		Items:     []OrderLineInput{orderLine(burger, 1)},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCard},
	}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("ORD-%s-0002", time.Now().Format("060102")), second.OrderNumber)
}

func TestCreateOrderRejectsInvalidLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	burger := seedMenuItem(t, db, category, "Burger", 1000, nil)

	// A negative quantity must never reach the money arithmetic
	negative := orderLine(burger, 1)
	negative.Quantity = -5
	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{orderLine(burger, 1), negative},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.ErrorIs(t, err, ErrInvalidLineQuantity)

	zero := orderLine(burger, 1)
	zero.Quantity = 0
	_, err = svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{zero},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.ErrorIs(t, err, ErrInvalidLineQuantity)

	priced := orderLine(burger, 1)
	priced.UnitPrice = -100
	_, err = svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{priced},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.ErrorIs(t, err, ErrInvalidUnitPrice)

	badAmount := -250.0
	_, err = svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{orderLine(burger, 1)},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash, Amount: &badAmount},
	}, uuid.New())
	require.ErrorIs(t, err, ErrInvalidPaymentAmount)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount, "rejected carts must not persist anything")
}

func TestCreateOrderPropagatesProfileLookupError(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	burger := seedMenuItem(t, db, category, "Burger", 1000, nil)

	// A broken settings table is a real error, not "no profile yet"
	require.NoError(t, db.Migrator().DropTable(&models.Restaurant{}))

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{orderLine(burger, 1)},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.Error(t, err)
	require.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrderAppliesVATAndClampsTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	burger := seedMenuItem(t, db, category, "Burger", 1000, nil)

	require.NoError(t, db.Create(&models.Restaurant{Name: "Testaurant", VATRate: 10}).Error)

	order, err := svc.CreateOrder(CreateOrderInput{
		OrderType:     models.OrderTypeDineIn,
		Items:         []OrderLineInput{orderLine(burger, 1)},
		ServiceCharge: 50,
		Payment:       PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 100.0, order.VATAmount)
	require.Equal(t, 1150.0, order.TotalAmount)

	// A discount larger than everything else floors the total at zero
	clamped, err := svc.CreateOrder(CreateOrderInput{
		OrderType:      models.OrderTypeDineIn,
		Items:          []OrderLineInput{orderLine(burger, 1)},
		DiscountAmount: 5000,
		Payment:        PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 0.0, clamped.TotalAmount)
}

func TestCreateOrderDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	beans := seedInventoryItem(t, db, "Coffee Beans", 10)
	espresso := seedMenuItem(t, db, category, "Espresso", 300, beans)

	order, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeBarOnly,
		Items:     []OrderLineInput{orderLine(espresso, 3)},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", beans.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(7)))

	var movements []models.StockMovement
	require.NoError(t, db.Where("inventory_item_id = ?", beans.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.Equal(t, models.MovementTypeOut, movements[0].MovementType)
	require.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(3)))
	require.Equal(t, order.OrderNumber, movements[0].Reference)
}

func TestCreateOrderAggregatesSharedInventory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	beans := seedInventoryItem(t, db, "Coffee Beans", 10)
	espresso := seedMenuItem(t, db, category, "Espresso", 300, beans)
	doppio := seedMenuItem(t, db, category, "Doppio", 450, beans)

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeBarOnly,
		Items: []OrderLineInput{
			orderLine(espresso, 4),
			orderLine(doppio, 4),
		},
		Payment: PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)

	// Both lines draw from one inventory item, so there is one combined movement
	var movements []models.StockMovement
	require.NoError(t, db.Where("inventory_item_id = ?", beans.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(8)))

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", beans.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(2)))
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	beans := seedInventoryItem(t, db, "Coffee Beans", 5)
	espresso := seedMenuItem(t, db, category, "Espresso", 300, beans)
	doppio := seedMenuItem(t, db, category, "Doppio", 450, beans)

	// Each line alone fits in stock; the aggregated requirement does not
	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeBarOnly,
		Items: []OrderLineInput{
			orderLine(espresso, 3),
			orderLine(doppio, 3),
		},
		Payment: PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Coffee Beans", stockErr.ItemName)
	require.True(t, stockErr.Required.Equal(decimal.NewFromInt(6)))
	require.True(t, stockErr.Available.Equal(decimal.NewFromInt(5)))

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, "id = ?", beans.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(5)), "stock must be untouched")

	var orderCount, movementCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&movementCount).Error)
	require.Zero(t, orderCount)
	require.Zero(t, movementCount)
}

func TestCreateOrderUntrackedItemSkipsInventory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	salad := seedMenuItem(t, db, category, "Side Salad", 400, nil)

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items:     []OrderLineInput{orderLine(salad, 2)},
		Payment:   PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)

	var movementCount int64
	require.NoError(t, db.Model(&models.StockMovement{}).Count(&movementCount).Error)
	require.Zero(t, movementCount)
}

func TestCreateOrderUpdatesCustomerStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	category := seedCategory(t, db)
	burger := seedMenuItem(t, db, category, "Burger", 1000, nil)
	userID := uuid.New()

	customer := models.Customer{
		CreatedByUserID: userID,
		Name:            "Ada",
		Phone:           "+15550001111",
		IsActive:        true,
	}
	require.NoError(t, db.Create(&customer).Error)

	_, err := svc.CreateOrder(CreateOrderInput{
		OrderType:  models.OrderTypeDineIn,
		CustomerID: &customer.ID,
		Items:      []OrderLineInput{orderLine(burger, 1)},
		Payment:    PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, userID)
	require.NoError(t, err)

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", customer.ID).Error)
	require.Equal(t, 1, reloaded.TotalVisits)
	require.Equal(t, 1000.0, reloaded.TotalSpent)
	require.Equal(t, 10, reloaded.LoyaltyPoints)
	require.NotNil(t, reloaded.LastVisit)

	unknown := uuid.New()
	_, err = svc.CreateOrder(CreateOrderInput{
		OrderType:  models.OrderTypeDineIn,
		CustomerID: &unknown,
		Items:      []OrderLineInput{orderLine(burger, 1)},
		Payment:    PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, userID)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateOrderKeepsLineForMissingMenuItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		OrderType: models.OrderTypeTakeaway,
		Items: []OrderLineInput{{
			MenuItemID: uuid.New(),
			ItemName:   "Off-menu special",
			Quantity:   1,
			UnitPrice:  750,
		}},
		Payment: PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, uuid.New())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	require.Equal(t, "Off-menu special", order.Items[0].ItemName)
	require.Nil(t, order.Items[0].MenuItemID)
}
