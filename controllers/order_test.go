package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/services"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	T      *testing.T
	Router *gin.Engine
	DB     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

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
	config.DB = db

	r := gin.New()
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	api.POST("/orders", CreateOrder)
	api.GET("/orders", GetOrders)
	api.GET("/orders/:id", GetOrder)
	api.PATCH("/orders/:id/status", UpdateOrderStatus)
	api.POST("/orders/:id/payments", AddPayment)
	api.GET("/queues/kitchen", GetKitchenQueue)
	api.GET("/queues/bar", GetBarQueue)
	api.POST("/inventory/movements",
		utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer),
		RecordStockMovement)

	return &testEnv{T: t, Router: r, DB: db}
}

func (env *testEnv) do(method, path, role string, payload interface{}) *httptest.ResponseRecorder {
	env.T.Helper()

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewBuffer(data)
	}

	token, err := utils.GenerateToken(uuid.NewString(), role)
	require.NoError(env.T, err)

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedMenuItemWithStock(name string, price float64, stock int64) *models.MenuItem {
	env.T.Helper()

	category := models.Category{Name: name + " category", IsActive: true}
	require.NoError(env.T, env.DB.Create(&category).Error)

	inv := models.InventoryItem{
		Name:         name + " stock",
		Unit:         "pcs",
		CurrentStock: decimal.NewFromInt(stock),
		IsActive:     true,
	}
	require.NoError(env.T, env.DB.Create(&inv).Error)

	item := models.MenuItem{
		Name:            name,
		Price:           price,
		CategoryID:      category.ID,
		InventoryItemID: &inv.ID,
		TrackInventory:  true,
		IsActive:        true,
		IsAvailable:     true,
	}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return &item
}

func orderPayload(item *models.MenuItem, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"order_type": models.OrderTypeDineIn,
		"items": []map[string]interface{}{{
			"menu_item_id": item.ID,
			"item_name":    item.Name,
			"quantity":     quantity,
			"unit_price":   item.Price,
		}},
		"payment": map[string]interface{}{"payment_method": models.PaymentMethodCash},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	burger := env.seedMenuItemWithStock("Burger", 1000, 10)

	rec := env.do(http.MethodPost, "/api/orders", models.RoleCashier, orderPayload(burger, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.OrderNumber, "ORD-"))
	require.Equal(t, 2000.0, created.TotalAmount)
	require.Len(t, created.Items, 1)
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	burger := env.seedMenuItemWithStock("Burger", 1000, 3)

	// Empty cart
	rec := env.do(http.MethodPost, "/api/orders", models.RoleCashier, map[string]interface{}{
		"order_type": models.OrderTypeDineIn,
		"items":      []map[string]interface{}{},
		"payment":    map[string]interface{}{"payment_method": models.PaymentMethodCash},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Negative quantity alongside a valid line
	rec = env.do(http.MethodPost, "/api/orders", models.RoleCashier, map[string]interface{}{
		"order_type": models.OrderTypeDineIn,
		"items": []map[string]interface{}{
			{"menu_item_id": burger.ID, "item_name": burger.Name, "quantity": 1, "unit_price": burger.Price},
			{"menu_item_id": burger.ID, "item_name": burger.Name, "quantity": -5, "unit_price": burger.Price},
		},
		"payment": map[string]interface{}{"payment_method": models.PaymentMethodCash},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Negative explicit payment amount
	rec = env.do(http.MethodPost, "/api/orders", models.RoleCashier, map[string]interface{}{
		"order_type": models.OrderTypeDineIn,
		"items": []map[string]interface{}{
			{"menu_item_id": burger.ID, "item_name": burger.Name, "quantity": 1, "unit_price": burger.Price},
		},
		"payment": map[string]interface{}{"payment_method": models.PaymentMethodCash, "amount": -50.0},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// More than the available stock
	rec = env.do(http.MethodPost, "/api/orders", models.RoleCashier, orderPayload(burger, 5))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient stock")

	// Stock and order list must be untouched after the rejection
	var inv models.InventoryItem
	require.NoError(t, env.DB.First(&inv, "id = ?", burger.InventoryItemID).Error)
	require.True(t, inv.CurrentStock.Equal(decimal.NewFromInt(3)))

	var orderCount int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	burger := env.seedMenuItemWithStock("Burger", 1000, 10)

	rec := env.do(http.MethodPost, "/api/orders", models.RoleWaiter, orderPayload(burger, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(http.MethodPatch, "/api/orders/"+created.ID.String()+"/status",
		models.RoleKitchenStaff, map[string]string{"status": models.OrderStatusPreparing})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPatch, "/api/orders/"+created.ID.String()+"/status",
		models.RoleKitchenStaff, map[string]string{"status": "vaporized"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/api/orders/"+uuid.NewString()+"/status",
		models.RoleKitchenStaff, map[string]string{"status": models.OrderStatusReady})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueueEndpointsSplitByOrderType(t *testing.T) {
	env := newTestEnv(t)
	svc := services.NewOrderService(env.DB)
	burger := env.seedMenuItemWithStock("Burger", 1000, 10)
	mojito := env.seedMenuItemWithStock("Mojito", 800, 10)
	userID := uuid.New()

	dineIn, err := svc.CreateOrder(services.CreateOrderInput{
		OrderType: models.OrderTypeDineIn,
		Items: []services.OrderLineInput{{
			MenuItemID: burger.ID, ItemName: burger.Name, Quantity: 1, UnitPrice: burger.Price,
		}},
		Payment: services.PaymentInput{PaymentMethod: models.PaymentMethodCash},
	}, userID)
	require.NoError(t, err)

	barOnly, err := svc.CreateOrder(services.CreateOrderInput{
		OrderType: models.OrderTypeBarOnly,
		Items: []services.OrderLineInput{{
			MenuItemID: mojito.ID, ItemName: mojito.Name, Quantity: 1, UnitPrice: mojito.Price,
		}},
		Payment: services.PaymentInput{PaymentMethod: models.PaymentMethodCard},
	}, userID)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/queues/kitchen", models.RoleKitchenStaff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), dineIn.OrderNumber)
	require.NotContains(t, rec.Body.String(), barOnly.OrderNumber)

	rec = env.do(http.MethodGet, "/api/queues/bar", models.RoleBartender, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), barOnly.OrderNumber)
	require.NotContains(t, rec.Body.String(), dineIn.OrderNumber)

	// Completed orders leave the queue
	rec = env.do(http.MethodPatch, "/api/orders/"+dineIn.ID.String()+"/status",
		models.RoleManager, map[string]string{"status": models.OrderStatusCompleted})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/queues/kitchen", models.RoleKitchenStaff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), dineIn.OrderNumber)
}

func TestAddPaymentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	burger := env.seedMenuItemWithStock("Burger", 1000, 10)

	rec := env.do(http.MethodPost, "/api/orders", models.RoleCashier, orderPayload(burger, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(http.MethodPost, "/api/orders/"+created.ID.String()+"/payments",
		models.RoleCashier, map[string]interface{}{
			"payment_method": models.PaymentMethodCard,
			"amount":         250.0,
			"reference":      "terminal-7",
		})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payments []models.Payment
	require.NoError(t, env.DB.Where("order_id = ?", created.ID).Find(&payments).Error)
	require.Len(t, payments, 2)
}

func TestRecordStockMovementEndpointRoleGate(t *testing.T) {
	env := newTestEnv(t)

	inv := models.InventoryItem{
		Name:         "Rice",
		Unit:         "kg",
		CurrentStock: decimal.NewFromInt(40),
		IsActive:     true,
	}
	require.NoError(t, env.DB.Create(&inv).Error)

	payload := map[string]interface{}{
		"inventory_item_id": inv.ID,
		"movement_type":     models.MovementTypeIn,
		"quantity":          "10",
		"reference":         "PO-88",
	}

	rec := env.do(http.MethodPost, "/api/inventory/movements", models.RoleCashier, payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/inventory/movements", models.RoleInventoryOfficer, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	var reloaded models.InventoryItem
	require.NoError(t, env.DB.First(&reloaded, "id = ?", inv.ID).Error)
	require.True(t, reloaded.CurrentStock.Equal(decimal.NewFromInt(50)))
}
