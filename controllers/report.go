package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopItems              []MenuItemSummary `json:"topItems"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type MenuItemSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CustomerSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
	AvgDailyOrders float64 `json:"avgDailyOrders"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthRevenue, err := rc.getRevenue(firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getRevenue(
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}

	lastQuarterRevenue, err := rc.getRevenue(
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	lastYearRevenue, err := rc.getRevenue(
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	topItems, err := rc.getTopItems(firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top menu items")
		return
	}

	topCustomers, err := rc.getTopCustomers(firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	quickStats, err := rc.getQuickStatistics()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue),
		TopItems:              topItems,
		TopCustomers:          topCustomers,
		QuickStats:            quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// ExportSales streams completed orders in a date range as CSV
func (rc *ReportController) ExportSales(c *gin.Context) {
	start, end, err := rc.parseRange(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var orders []models.Order
	if err := config.DB.
		Where("status = ? AND created_at >= ? AND created_at < ?",
			models.OrderStatusCompleted, start, end.AddDate(0, 0, 1)).
		Order("created_at ASC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	filename := fmt.Sprintf("sales_%s_%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{"order_number", "date", "order_type", "subtotal", "vat", "service_charge", "discount", "total"})
	for _, order := range orders {
		writer.Write([]string{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.OrderType,
			fmt.Sprintf("%.2f", order.Subtotal),
			fmt.Sprintf("%.2f", order.VATAmount),
			fmt.Sprintf("%.2f", order.ServiceCharge),
			fmt.Sprintf("%.2f", order.DiscountAmount),
			fmt.Sprintf("%.2f", order.TotalAmount),
		})
	}
	writer.Flush()
}

func (rc *ReportController) parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := utils.BeginningOfDay(now).AddDate(0, -1, 0)
	end := utils.BeginningOfDay(now)

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, fmt.Errorf("invalid 'from' date, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, fmt.Errorf("invalid 'to' date, expected YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("'to' date must not be before 'from' date")
	}
	return start, end, nil
}

// Helper functions for reports

func (rc *ReportController) getRevenue(start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Order{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", models.OrderStatusCompleted, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopItems(start, end time.Time, limit int) ([]MenuItemSummary, error) {
	var items []MenuItemSummary

	err := config.DB.Table("order_items").
		Select("order_items.item_name as name, SUM(order_items.quantity) as count, SUM(order_items.total_price) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.created_at BETWEEN ? AND ?",
			models.OrderStatusCompleted, start, end).
		Group("order_items.item_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&items).Error

	return items, err
}

func (rc *ReportController) getTopCustomers(start, end time.Time, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := config.DB.Table("orders").
		Select("customers.name, COUNT(orders.id) as visits, SUM(orders.total_amount) as spent").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.status = ? AND orders.created_at BETWEEN ? AND ? AND customers.deleted_at IS NULL",
			models.OrderStatusCompleted, start, end).
		Group("customers.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}

func (rc *ReportController) getQuickStatistics() (QuickStatistics, error) {
	var stats QuickStatistics

	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("deleted_at IS NULL").
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	var totalOrders int64
	if err := config.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Count(&totalOrders).Error; err != nil {
		return stats, err
	}
	stats.TotalOrders = int(totalOrders)

	var avgOrders float64
	err := config.DB.Raw(`
		SELECT COALESCE(AVG(daily), 0) FROM (
			SELECT COUNT(*) as daily
			FROM orders
			WHERE status = ?
			GROUP BY DATE(created_at)
		) daily_orders
	`, models.OrderStatusCompleted).Scan(&avgOrders).Error
	if err != nil {
		return stats, err
	}
	stats.AvgDailyOrders = avgOrders

	var totalRevenue float64
	if err := config.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}

	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = totalRevenue / float64(stats.TotalOrders)
	}

	return stats, nil
}
