package routes

import (
	"bakery-assistant-api/handlers"
	"bakery-assistant-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, chat *handlers.ChatHandler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/login", handlers.StaffLogin)

		// Catalog & branches (no auth needed)
		public.GET("/products", handlers.ListProducts)
		public.GET("/products/:id", handlers.GetProduct)
		public.GET("/branches", handlers.ListBranches)

		// Ordering assistant
		public.POST("/chat", chat.Chat)
		public.GET("/sessions/:id/history", chat.History)
		public.GET("/sessions/:id/cart", chat.CartState)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Staff routes ───────────────────────────────────────────────
	staff := r.Group("/api/staff")
	staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
	{
		staff.GET("/orders", handlers.StaffListOrders)
		staff.GET("/orders/:id", handlers.StaffGetOrder)
		staff.PUT("/orders/:id/status", handlers.StaffUpdateOrderStatus)

		staff.POST("/products", handlers.StaffCreateProduct)
		staff.PUT("/products/:id", handlers.StaffUpdateProduct)
	}
}
