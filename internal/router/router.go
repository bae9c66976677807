package router

import (
	"database/sql"

	"tiffin_backend/internal/handlers"
	"tiffin_backend/internal/repositories"
	"tiffin_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	orderRepo := repositories.NewOrderRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	dishRepo := repositories.NewDishRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)
	taxRepo := repositories.NewTaxRepository(db)

	// Initialize Services
	orderService := services.NewOrderService(orderRepo, menuRepo, customerRepo, db)
	menuService := services.NewMenuService(menuRepo, dishRepo, db)
	dishService := services.NewDishService(dishRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	promotionService := services.NewPromotionService(promotionRepo, db)
	taxService := services.NewTaxService(taxRepo, db)

	// Initialize Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	menuHandler := handlers.NewMenuHandler(menuService)
	dishHandler := handlers.NewDishHandler(dishService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	taxHandler := handlers.NewTaxHandler(taxService)

	SetupOrderRoutes(engine, orderHandler)
	SetupMenuRoutes(engine, menuHandler)
	SetupDishRoutes(engine, dishHandler)
	SetupCustomerRoutes(engine, customerHandler)
	SetupPromotionRoutes(engine, promotionHandler)
	SetupTaxRoutes(engine, taxHandler)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
