// services/alert_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"restopos-backend/models"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type AlertService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewAlertService(db *gorm.DB) *AlertService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &AlertService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *AlertService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.RunDailyAlerts()
	})

	c.Start()
	log.Println("Alert scheduler started")
}

func (s *AlertService) RunDailyAlerts() {
	log.Println("Starting daily alert processing...")

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant).Error; err != nil {
		log.Printf("No restaurant profile configured, skipping alerts: %v", err)
		return
	}

	if restaurant.LowStockAlerts {
		s.sendLowStockAlerts(restaurant)
	}
	s.sendBirthdayMessages(restaurant)

	log.Println("Daily alert processing completed")
}

func (s *AlertService) sendLowStockAlerts(restaurant models.Restaurant) {
	var items []models.InventoryItem
	if err := s.db.Where("current_stock <= minimum_stock AND is_active = ?", true).
		Find(&items).Error; err != nil {
		log.Printf("Failed to fetch low stock items: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %s %s left (min %s)",
			item.Name, item.CurrentStock.String(), item.Unit, item.MinimumStock.String()))
	}
	message := fmt.Sprintf("%s low stock alert:\n%s", restaurant.Name, strings.Join(lines, "\n"))

	var managers []models.User
	if err := s.db.Where("role IN ? AND is_active = ? AND phone <> ''",
		[]string{models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer}, true).
		Find(&managers).Error; err != nil {
		log.Printf("Failed to fetch managers: %v", err)
		return
	}

	for _, manager := range managers {
		s.sendMessage(restaurant, "low_stock", manager.Phone, message)
	}
}

func (s *AlertService) sendBirthdayMessages(restaurant models.Restaurant) {
	today := time.Now()

	var customers []models.Customer
	err := s.db.Raw(`
		SELECT * FROM customers
		WHERE is_active = true
		AND deleted_at IS NULL
		AND birthday IS NOT NULL
		AND EXTRACT(MONTH FROM birthday) = ?
		AND EXTRACT(DAY FROM birthday) = ?
	`, int(today.Month()), today.Day()).Scan(&customers).Error
	if err != nil {
		log.Printf("Failed to fetch birthday customers: %v", err)
		return
	}

	for _, customer := range customers {
		message := fmt.Sprintf("Hi %s, %s wishes you a very happy birthday! Show this message on your next visit for a treat on the house.",
			customer.Name, restaurant.Name)
		s.sendMessage(restaurant, "birthday", customer.Phone, message)
	}
}

func (s *AlertService) sendMessage(restaurant models.Restaurant, alertType, phone, message string) {
	// WhatsApp when enabled and the number is E.164, otherwise SMS
	channel := "sms"
	to := phone
	if restaurant.WhatsAppNotifications && strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	} else if !restaurant.SMSNotifications && channel == "sms" {
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send message to %s: %v", phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", phone)
	}

	entry := models.NotificationLog{
		Type:         alertType,
		Recipient:    phone,
		Channel:      channel,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for %s: %v", phone, err)
	}
}
