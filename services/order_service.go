// services/order_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"restopos-backend/models"
	"restopos-backend/utils"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrEmptyOrder is returned when the cart has no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrCustomerNotFound is returned when the attached customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidLineQuantity is returned when a line quantity is below 1.
	ErrInvalidLineQuantity = errors.New("line quantity must be at least 1")
	// ErrInvalidUnitPrice is returned when a line carries a negative unit price.
	ErrInvalidUnitPrice = errors.New("unit price cannot be negative")
	// ErrInvalidPaymentAmount is returned when an explicit payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than 0")
)

// Loyalty points accrue at one point per 100 spent.
const loyaltyPointsPer = 100.0

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

type OrderLineInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	ItemName   string    `json:"item_name" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	UnitPrice  float64   `json:"unit_price" binding:"min=0"`
	Notes      string    `json:"notes"`
}

type PaymentInput struct {
	PaymentMethod string   `json:"payment_method" binding:"required"`
	Amount        *float64 `json:"amount" binding:"omitempty,gt=0"`
	Reference     string   `json:"reference"`
}

type CreateOrderInput struct {
	OrderType      string           `json:"order_type" binding:"required,oneof=dine_in takeaway delivery bar_only"`
	TableNumber    *int             `json:"table_number"`
	CustomerID     *uuid.UUID       `json:"customer_id"`
	Notes          string           `json:"notes"`
	Items          []OrderLineInput `json:"items" binding:"omitempty,dive"`
	DiscountAmount float64          `json:"discount_amount" binding:"min=0"`
	ServiceCharge  float64          `json:"service_charge" binding:"min=0"`
	Payment        PaymentInput     `json:"payment" binding:"required"`
}

// CreateOrder persists an order with its item snapshots and payment, and
// deducts stock for every line whose menu item tracks inventory, as a single
// all-or-nothing unit. Lines sharing one inventory item are validated against
// their aggregated requirement before any write happens.
func (s *OrderService) CreateOrder(input CreateOrderInput, userID uuid.UUID) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var subtotal float64
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidLineQuantity
		}
		if line.UnitPrice < 0 {
			return nil, ErrInvalidUnitPrice
		}
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	if input.Payment.Amount != nil && *input.Payment.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	vatAmount := 0.0
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if restaurant.VATRate > 0 {
		vatAmount = subtotal * restaurant.VATRate / 100
	}

	total := subtotal - input.DiscountAmount + input.ServiceCharge + vatAmount
	total = math.Max(0, total)

	if input.CustomerID != nil {
		var customer models.Customer
		if err := s.db.Where("id = ?", *input.CustomerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	orderNumber, err := nextOrderNumber(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Resolve menu items up front. A missing menu row does not fail the order;
	// the line is stored as a plain snapshot without the menu reference.
	menuItems := make(map[uuid.UUID]*models.MenuItem, len(input.Items))
	for _, line := range input.Items {
		if _, seen := menuItems[line.MenuItemID]; seen {
			continue
		}
		var item models.MenuItem
		if err := tx.Where("id = ?", line.MenuItemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				menuItems[line.MenuItemID] = nil
				continue
			}
			tx.Rollback()
			return nil, err
		}
		menuItems[line.MenuItemID] = &item
	}

	// Pre-flight stock validation, aggregated per distinct inventory item so
	// menu items sharing one ingredient are checked together. No writes have
	// happened yet when this aborts.
	required := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range input.Items {
		menuItem := menuItems[line.MenuItemID]
		if menuItem == nil || !menuItem.TrackInventory || menuItem.InventoryItemID == nil {
			continue
		}
		invID := *menuItem.InventoryItemID
		required[invID] = required[invID].Add(decimal.NewFromInt(int64(line.Quantity)))
	}

	stockItems := make(map[uuid.UUID]*models.InventoryItem, len(required))
	for invID, need := range required {
		var item models.InventoryItem
		if err := tx.Where("id = ?", invID).First(&item).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if need.GreaterThan(item.CurrentStock) {
			tx.Rollback()
			return nil, &InsufficientStockError{
				ItemName:  item.Name,
				Required:  need,
				Available: item.CurrentStock,
			}
		}
		stockItems[invID] = &item
	}

	order := models.Order{
		OrderNumber:     orderNumber,
		OrderType:       input.OrderType,
		TableNumber:     input.TableNumber,
		CustomerID:      input.CustomerID,
		CreatedByUserID: userID,
		Subtotal:        subtotal,
		DiscountAmount:  input.DiscountAmount,
		ServiceCharge:   input.ServiceCharge,
		VATAmount:       vatAmount,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		Notes:           input.Notes,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, line := range input.Items {
		orderItem := models.OrderItem{
			OrderID:    order.ID,
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.UnitPrice * float64(line.Quantity),
			Notes:      line.Notes,
		}
		if menuItems[line.MenuItemID] != nil {
			id := line.MenuItemID
			orderItem.MenuItemID = &id
		}

		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// One "out" movement per affected inventory item, referencing the order.
	for invID, need := range required {
		if _, err := applyMovement(tx, stockItems[invID], models.MovementTypeOut,
			need, nil, orderNumber, "", userID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	payment := models.Payment{
		OrderID:       order.ID,
		PaymentMethod: input.Payment.PaymentMethod,
		Amount:        total,
		Reference:     input.Payment.Reference,
		Status:        "completed",
	}
	if input.Payment.Amount != nil {
		payment.Amount = *input.Payment.Amount
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if input.CustomerID != nil {
		now := time.Now()
		if err := tx.Model(&models.Customer{}).Where("id = ?", *input.CustomerID).
			Updates(map[string]interface{}{
				"total_visits":   gorm.Expr("total_visits + ?", 1),
				"total_spent":    gorm.Expr("total_spent + ?", total),
				"loyalty_points": gorm.Expr("loyalty_points + ?", int(total/loyaltyPointsPer)),
				"last_visit":     now,
			}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("Payments").
		Where("id = ?", order.ID).First(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// nextOrderNumber mints ORD-YYMMDD-NNNN from the count of orders created
// today. It runs inside the caller's transaction and the unique index on
// order_number turns a concurrent duplicate into a rollback instead of a
// duplicated number.
func nextOrderNumber(tx *gorm.DB) (string, error) {
	now := time.Now()
	start := utils.BeginningOfDay(now)

	var count int64
	if err := tx.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%04d", now.Format("060102"), count+1), nil
}
