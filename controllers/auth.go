package controllers

import (
	"errors"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email          string       `json:"email" binding:"required,email"`
	Phone          string       `json:"phone" binding:"required"`
	Name           string       `json:"name" binding:"required"`
	Password       string       `json:"password" binding:"required,min=8"`
	RestaurantName string       `json:"restaurantName"`
	Address        string       `json:"address"`
	OpeningHours   models.JSONB `json:"openingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates a staff account. The first account becomes the super admin
// and bootstraps the restaurant profile; later accounts start as cashiers
// until a manager assigns a role.
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)

	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var userCount int64
	if err := config.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	role := models.RoleCashier
	if userCount == 0 {
		role = models.RoleSuperAdmin
	}

	newUser := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // Will be hashed in BeforeCreate hook
		Role:     role,
		IsActive: true,
	}

	if err := config.DB.Create(&newUser).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	// The first registration also creates the restaurant profile
	if userCount == 0 {
		restaurantName := input.RestaurantName
		if restaurantName == "" {
			restaurantName = input.Name + "'s Restaurant"
		}

		openingHours := input.OpeningHours
		if openingHours == nil {
			openingHours = models.JSONB{
				"monday":    map[string]interface{}{"open": "10:00", "close": "22:00", "closed": false},
				"tuesday":   map[string]interface{}{"open": "10:00", "close": "22:00", "closed": false},
				"wednesday": map[string]interface{}{"open": "10:00", "close": "22:00", "closed": false},
				"thursday":  map[string]interface{}{"open": "10:00", "close": "22:00", "closed": false},
				"friday":    map[string]interface{}{"open": "10:00", "close": "23:00", "closed": false},
				"saturday":  map[string]interface{}{"open": "10:00", "close": "23:00", "closed": false},
				"sunday":    map[string]interface{}{"open": "11:00", "close": "21:00", "closed": false},
			}
		}

		restaurant := models.Restaurant{
			Name:         restaurantName,
			Address:      input.Address,
			Phone:        input.Phone,
			OpeningHours: openingHours,
		}
		if err := config.DB.Create(&restaurant).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create restaurant profile")
			return
		}
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":    newUser.ID,
			"email": newUser.Email,
			"phone": newUser.Phone,
			"name":  newUser.Name,
			"role":  newUser.Role,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"phone": user.Phone,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}
