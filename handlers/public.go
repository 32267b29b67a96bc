package handlers

import (
	"net/http"
	"strconv"

	"bakery-assistant-api/config"
	"bakery-assistant-api/models"
	"bakery-assistant-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the catalog (public)
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if inStock := c.Query("in_stock"); inStock == "true" {
		query = query.Where("quantity_in_stock > 0")
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if p, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", p)
		}
	}

	query.Order("category, name").Find(&products)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetProduct returns a single product
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListBranches returns the bakery branches with their hours (public)
func ListBranches(c *gin.Context) {
	branches := make([]gin.H, 0, len(config.C.Branches))
	for _, b := range config.C.Branches {
		hours := config.C.HoursFor(b.Name)
		branches = append(branches, gin.H{
			"name":  b.Name,
			"hours": hours.Window(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"bakery":   config.C.BakeryName,
		"count":    len(branches),
		"branches": branches,
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{string(models.StatusCompleted), string(models.StatusCancelled)},
		"description":     "Bakery Order Lifecycle State Machine",
	})
}
