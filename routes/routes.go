package routes

import (
	"restopos-backend/config"
	"restopos-backend/controllers"
	"restopos-backend/models"
	"restopos-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", utils.RateLimit("10-M"), controllers.Register)
		auth.POST("/login", utils.RateLimit("20-M"), controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	api.Use(utils.RateLimit("300-M"))
	{
		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id/status", controllers.UpdateOrderStatus)
			orders.POST("/:id/payments", controllers.AddPayment)
		}

		// Preparation queues
		api.GET("/queues/kitchen", controllers.GetKitchenQueue)
		api.GET("/queues/bar", controllers.GetBarQueue)

		// Menu routes
		categories := api.Group("/categories")
		{
			categories.GET("", controllers.GetCategories)
			categories.POST("", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.CreateCategory)
			categories.PUT("/:id", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.UpdateCategory)
			categories.DELETE("/:id", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.DeleteCategory)
		}

		menu := api.Group("/menu-items")
		{
			menu.GET("", controllers.GetMenuItems)
			menu.GET("/:id", controllers.GetMenuItem)
			menu.POST("", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.CreateMenuItem)
			menu.PUT("/:id", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.UpdateMenuItem)
			menu.DELETE("/:id", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.DeleteMenuItem)
		}

		// Inventory routes
		inventory := api.Group("/inventory")
		{
			inventory.GET("/items", controllers.GetInventoryItems)
			inventory.GET("/items/:id", controllers.GetInventoryItem)
			inventory.GET("/low-stock", controllers.GetLowStockItems)
			inventory.POST("/items",
				utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer),
				controllers.CreateInventoryItem)
			inventory.PUT("/items/:id",
				utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer),
				controllers.UpdateInventoryItem)
			inventory.DELETE("/items/:id",
				utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer),
				controllers.DeleteInventoryItem)

			inventory.GET("/movements", controllers.GetStockMovements)
			inventory.POST("/movements",
				utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer),
				controllers.RecordStockMovement)
		}

		// Supplier routes
		suppliers := api.Group("/suppliers")
		suppliers.Use(utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager, models.RoleInventoryOfficer))
		{
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
			suppliers.DELETE("/:id", controllers.DeleteSupplier)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.DeleteCustomer)
		}

		// Staff routes
		staff := api.Group("/staff")
		staff.Use(utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager))
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.CreateStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), reportController.GetReportAnalytics)
		api.GET("/reports/export", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), reportController.ExportSales)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboard)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", utils.RequireRoles(models.RoleSuperAdmin, models.RoleManager), controllers.UpdateProfile)
		}
	}

	return r
}
