// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/inventory-copilot/internal/config"
	"github.com/your-org/inventory-copilot/internal/interfaces/http/handlers"
	"github.com/your-org/inventory-copilot/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	setupAuthRoutes(rg, db, cfg)
	setupCommandRoutes(rg, db, redisClient, cfg)
	setupViewRoutes(rg, db, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// setupCommandRoutes sets up the natural-language command endpoint.
// Authentication is optional: anonymous commands run with no actor attached
// to their audit records.
func setupCommandRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	commandHandler := handlers.NewCommandHandler(db, redisClient, cfg)

	commands := rg.Group("/commands")
	commands.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		commands.POST("", commandHandler.Execute)
	}
}

// setupViewRoutes sets up the read-only projection endpoints
func setupViewRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	viewHandler := handlers.NewViewHandler(db, cfg)

	rg.GET("/products", viewHandler.GetProducts)
	rg.GET("/warehouses", viewHandler.GetWarehouses)
	rg.GET("/warehouses/:id/products", viewHandler.GetWarehouseProducts)
	rg.GET("/suppliers", viewHandler.GetSuppliers)
	rg.GET("/orders", viewHandler.GetOrders)
	rg.GET("/stock", viewHandler.GetStock)
	rg.GET("/transactions", viewHandler.GetTransactions)
}
