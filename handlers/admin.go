package handlers

import (
	"net/http"

	"bakery-assistant-api/config"
	"bakery-assistant-api/models"
	"bakery-assistant-api/statemachine"

	"github.com/gin-gonic/gin"
)

// StaffListOrders returns all orders with a status summary — staff only
func StaffListOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items.Product").Preload("Customer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if fulfillment := c.Query("fulfillment"); fulfillment != "" {
		query = query.Where("pickup_or_delivery = ?", fulfillment)
	}

	query.Order("order_date desc").Find(&orders)

	// Dashboard aggregates: count per status, revenue over completed
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusCompleted {
			totalRevenue += o.TotalAmount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// StaffGetOrder returns a single order with full detail — staff only
func StaffGetOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.Preload("Items.Product").Preload("Customer").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// StaffUpdateOrderStatus moves an order through the lifecycle — staff only
func StaffUpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, "staff"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	prevStatus := order.Status
	if err := config.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// StaffCreateProduct adds a catalog item — staff only
func StaffCreateProduct(c *gin.Context) {
	var req struct {
		Name            string  `json:"name" binding:"required"`
		Description     string  `json:"description"`
		Price           float64 `json:"price" binding:"required,gt=0"`
		Category        string  `json:"category" binding:"required"`
		QuantityInStock int     `json:"quantity_in_stock" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		QuantityInStock: req.QuantityInStock,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Product already exists or could not be created"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// StaffUpdateProduct adjusts price or stock for a catalog item — staff only
func StaffUpdateProduct(c *gin.Context) {
	var req struct {
		Price           *float64 `json:"price"`
		QuantityInStock *int     `json:"quantity_in_stock"`
		Description     *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		updates["price"] = *req.Price
	}
	if req.QuantityInStock != nil {
		if *req.QuantityInStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
			return
		}
		updates["quantity_in_stock"] = *req.QuantityInStock
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	config.DB.Model(&product).Updates(updates)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}
