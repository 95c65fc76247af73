package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/services"
	"restopos-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Queue responses are polled every ~10s by the POS clients, so they are
// cached briefly in Redis when a client is configured.
const (
	kitchenQueueCacheKey = "orders:queue:kitchen"
	barQueueCacheKey     = "orders:queue:bar"
	queueCacheTTL        = 10 * time.Second
)

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending preparing ready completed cancelled"`
}

type AddPaymentInput struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Reference     string  `json:"reference"`
}

// CreateOrder runs the checkout flow: totals, stock validation and deduction,
// order/item/payment persistence, all in one transaction.
func CreateOrder(c *gin.Context) {
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

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).CreateOrder(input, userUUID)
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrInvalidLineQuantity),
			errors.Is(err, services.ErrInvalidUnitPrice),
			errors.Is(err, services.ErrInvalidPaymentAmount),
			errors.Is(err, services.ErrCustomerNotFound):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &stockErr):
			utils.RespondWithError(c, http.StatusConflict, stockErr.Error())
		case errors.Is(err, services.ErrStockConflict):
			utils.RespondWithError(c, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	invalidateQueueCaches(c)

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders, newest first, with optional status/type/date filters
func GetOrders(c *gin.Context) {
	query := config.DB.Model(&models.Order{}).Preload("Items").Preload("Payments")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		query = query.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a specific order by ID
func GetOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Preload("Payments").Preload("Customer").
		Where("id = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus overwrites the order status. Any known status may replace
// any other; no transition graph is enforced.
func UpdateOrderStatus(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Where("id = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	order.Status = input.Status
	if err := config.DB.Save(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	invalidateQueueCaches(c)

	c.JSON(http.StatusOK, order)
}

// AddPayment records an additional payment against an order (split payment)
func AddPayment(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input AddPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Where("id = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	payment := models.Payment{
		OrderID:       order.ID,
		PaymentMethod: input.PaymentMethod,
		Amount:        input.Amount,
		Reference:     input.Reference,
		Status:        "completed",
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetKitchenQueue returns pending/preparing orders for the kitchen (every
// order type except bar_only)
func GetKitchenQueue(c *gin.Context) {
	serveQueue(c, kitchenQueueCacheKey, func(q *gorm.DB) *gorm.DB {
		return q.Where("order_type <> ?", models.OrderTypeBarOnly)
	})
}

// GetBarQueue returns pending/preparing bar_only orders
func GetBarQueue(c *gin.Context) {
	serveQueue(c, barQueueCacheKey, func(q *gorm.DB) *gorm.DB {
		return q.Where("order_type = ?", models.OrderTypeBarOnly)
	})
}

func serveQueue(c *gin.Context, cacheKey string, filter func(*gorm.DB) *gorm.DB) {
	if config.RDB != nil {
		if cached, err := config.RDB.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	query := config.DB.Model(&models.Order{}).Preload("Items").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusPreparing})

	var orders []models.Order
	if err := filter(query).Order("created_at ASC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve queue")
		return
	}

	payload, err := json.Marshal(orders)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to encode queue")
		return
	}

	if config.RDB != nil {
		config.RDB.Set(c.Request.Context(), cacheKey, payload, queueCacheTTL)
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func invalidateQueueCaches(c *gin.Context) {
	if config.RDB == nil {
		return
	}
	config.RDB.Del(c.Request.Context(), kitchenQueueCacheKey, barQueueCacheKey)
}
