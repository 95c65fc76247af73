package controllers

import (
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// DashboardSummary represents the data shown on the POS home screen
type DashboardSummary struct {
	TodayRevenue    float64        `json:"todayRevenue"`
	TodayOrders     int            `json:"todayOrders"`
	PendingOrders   int            `json:"pendingOrders"`
	PreparingOrders int            `json:"preparingOrders"`
	LowStockItems   int            `json:"lowStockItems"`
	RecentOrders    []models.Order `json:"recentOrders"`
}

// GetDashboard returns today's headline numbers and the latest orders
func GetDashboard(c *gin.Context) {
	today := utils.BeginningOfDay(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	var summary DashboardSummary

	if err := config.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?",
			models.OrderStatusCompleted, today, tomorrow).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&summary.TodayRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get today's revenue")
		return
	}

	var todayOrders int64
	if err := config.DB.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&todayOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count today's orders")
		return
	}
	summary.TodayOrders = int(todayOrders)

	var pending int64
	if err := config.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count pending orders")
		return
	}
	summary.PendingOrders = int(pending)

	var preparing int64
	if err := config.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPreparing).
		Count(&preparing).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count preparing orders")
		return
	}
	summary.PreparingOrders = int(preparing)

	var lowStock int64
	if err := config.DB.Model(&models.InventoryItem{}).
		Where("current_stock <= minimum_stock AND is_active = ?", true).
		Count(&lowStock).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count low stock items")
		return
	}
	summary.LowStockItems = int(lowStock)

	if err := config.DB.Preload("Items").
		Order("created_at DESC").Limit(5).
		Find(&summary.RecentOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get recent orders")
		return
	}

	c.JSON(http.StatusOK, summary)
}
