package router

import (
	"tiffin_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the order and order-item routes.
func SetupOrderRoutes(engine *gin.Engine, orderHandler *handlers.OrderHandler) {
	orderRoutes := engine.Group("/orders")
	{
		orderRoutes.POST("/add", orderHandler.CreateOrder)
		orderRoutes.GET("/all", orderHandler.GetAllOrders)
		orderRoutes.GET("/:order_id", orderHandler.GetOrderByID)
		orderRoutes.GET("/customer/:customer_id", orderHandler.GetOrdersByCustomer)
		orderRoutes.PUT("/update/:order_id", orderHandler.UpdateOrder)
		orderRoutes.PUT("/update_details/:order_id", orderHandler.UpdateOrderDetails)
		orderRoutes.DELETE("/delete/:order_id", orderHandler.DeleteOrder)
	}

	itemRoutes := engine.Group("/orditem")
	{
		itemRoutes.PUT("/update/:item_id", orderHandler.UpdateOrderItem)
	}
}

// SetupMenuRoutes sets up the weekly menu routes.
func SetupMenuRoutes(engine *gin.Engine, menuHandler *handlers.MenuHandler) {
	menuRoutes := engine.Group("/menu")
	{
		menuRoutes.POST("/add", menuHandler.CreateMenu)
		menuRoutes.GET("/fetch_all", menuHandler.GetMenus)
		menuRoutes.GET("/:menu_id", menuHandler.GetMenuByID)
		menuRoutes.PUT("/update/:menu_id", menuHandler.UpdateMenu)
		menuRoutes.DELETE("/delete/:menu_id", menuHandler.DeleteMenu)
	}
}

// SetupDishRoutes sets up the dish catalog routes.
func SetupDishRoutes(engine *gin.Engine, dishHandler *handlers.DishHandler) {
	dishRoutes := engine.Group("/dishes")
	{
		dishRoutes.POST("/add", dishHandler.CreateDish)
		dishRoutes.GET("/fetch_all", dishHandler.GetDishes)
		dishRoutes.PUT("/update/:dish_id", dishHandler.UpdateDish)
		dishRoutes.DELETE("/delete/:dish_id", dishHandler.DeleteDish)
	}
}

// SetupCustomerRoutes sets up the customer directory routes.
func SetupCustomerRoutes(engine *gin.Engine, customerHandler *handlers.CustomerHandler) {
	customerRoutes := engine.Group("/customer")
	{
		customerRoutes.POST("/add", customerHandler.CreateCustomer)
		customerRoutes.GET("/fetch_all", customerHandler.GetCustomers)
		customerRoutes.GET("/:customer_id", customerHandler.GetCustomerByID)
		customerRoutes.PUT("/update/:customer_id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/delete/:customer_id", customerHandler.DeleteCustomer)
	}
}

// SetupPromotionRoutes sets up the promotion routes.
func SetupPromotionRoutes(engine *gin.Engine, promotionHandler *handlers.PromotionHandler) {
	promotionRoutes := engine.Group("/promotion")
	{
		promotionRoutes.POST("/add", promotionHandler.CreatePromotion)
		promotionRoutes.GET("/all", promotionHandler.GetPromotions)
		promotionRoutes.PUT("/update/:promo_id", promotionHandler.UpdatePromotion)
		promotionRoutes.DELETE("/delete/:promo_id", promotionHandler.DeletePromotion)
	}
}

// SetupTaxRoutes sets up the tax routes.
func SetupTaxRoutes(engine *gin.Engine, taxHandler *handlers.TaxHandler) {
	taxRoutes := engine.Group("/taxes")
	{
		taxRoutes.POST("/add", taxHandler.CreateTax)
		taxRoutes.GET("/all", taxHandler.GetTaxes)
		taxRoutes.PUT("/update/:tax_id", taxHandler.UpdateTax)
		taxRoutes.DELETE("/delete/:tax_id", taxHandler.DeleteTax)
	}
}
