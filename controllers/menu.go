package controllers

import (
	"errors"
	"net/http"
	"restopos-backend/config"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type MenuItemInput struct {
	Name            string     `json:"name" binding:"required"`
	Description     string     `json:"description"`
	Price           float64    `json:"price" binding:"required,gt=0"`
	CostPrice       float64    `json:"cost_price"`
	CategoryID      uuid.UUID  `json:"category_id" binding:"required"`
	InventoryItemID *uuid.UUID `json:"inventory_item_id"`
	TrackInventory  bool       `json:"track_inventory"`
	ImageURL        string     `json:"image_url"`
}

type UpdateMenuItemInput struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Price           *float64   `json:"price"`
	CostPrice       *float64   `json:"cost_price"`
	CategoryID      *uuid.UUID `json:"category_id"`
	InventoryItemID *uuid.UUID `json:"inventory_item_id"`
	TrackInventory  *bool      `json:"track_inventory"`
	IsActive        *bool      `json:"is_active"`
	IsAvailable     *bool      `json:"is_available"`
	ImageURL        *string    `json:"image_url"`
}

// GetCategories lists menu categories ordered by display position
func GetCategories(c *gin.Context) {
	query := config.DB.Model(&models.Category{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a new menu category
func CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Category
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Category with this name already exists")
		return
	}

	category := models.Category{
		Name:         input.Name,
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}

	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a menu category
func UpdateCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var category models.Category
	if err := config.DB.Where("id = ?", categoryUUID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		DisplayOrder *int    `json:"display_order"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deactivates a category so its items stop showing on the menu
func DeleteCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	result := config.DB.Model(&models.Category{}).Where("id = ?", categoryUUID).Update("is_active", false)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deactivated"})
}

// GetMenuItems lists menu items with their category, optionally filtered
func GetMenuItems(c *gin.Context) {
	query := config.DB.Model(&models.MenuItem{}).Preload("Category").Preload("InventoryItem")

	if categoryID := c.Query("category_id"); categoryID != "" {
		categoryUUID, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		query = query.Where("category_id = ?", categoryUUID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if c.Query("available_only") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetMenuItem retrieves a single menu item
func GetMenuItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var item models.MenuItem
	if err := config.DB.Preload("Category").Preload("InventoryItem").
		Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Menu item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateMenuItem creates a new menu item
func CreateMenuItem(c *gin.Context) {
	var input MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
		return
	}

	if input.TrackInventory && input.InventoryItemID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Inventory item is required when inventory tracking is enabled")
		return
	}
	if input.InventoryItemID != nil {
		var invItem models.InventoryItem
		if err := config.DB.Where("id = ?", *input.InventoryItemID).First(&invItem).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Inventory item not found")
			return
		}
	}

	item := models.MenuItem{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		CostPrice:       input.CostPrice,
		CategoryID:      input.CategoryID,
		InventoryItemID: input.InventoryItemID,
		TrackInventory:  input.TrackInventory,
		IsActive:        true,
		IsAvailable:     true,
		ImageURL:        input.ImageURL,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create menu item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem updates a menu item
func UpdateMenuItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var item models.MenuItem
	if err := config.DB.Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Menu item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Price must be greater than zero")
			return
		}
		item.Price = *input.Price
	}
	if input.CostPrice != nil {
		item.CostPrice = *input.CostPrice
	}
	if input.CategoryID != nil {
		var category models.Category
		if err := config.DB.Where("id = ?", *input.CategoryID).First(&category).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
			return
		}
		item.CategoryID = *input.CategoryID
	}
	if input.InventoryItemID != nil {
		item.InventoryItemID = input.InventoryItemID
	}
	if input.TrackInventory != nil {
		item.TrackInventory = *input.TrackInventory
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem soft-deletes a menu item. Past order lines keep their name
// and price snapshots.
func DeleteMenuItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result := config.DB.Where("id = ?", itemUUID).Delete(&models.MenuItem{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Menu item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
