package config

import (
	"log"

	"bakery-assistant-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *Config) {
	var err error
	DB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := SeedCatalog(DB); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}

// SeedCatalog populates the product catalog on first run. An already
// populated catalog is left untouched.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	products := []models.Product{
		{Name: "Chocolate Fudge Cake", Description: "Rich layered chocolate cake with fudge frosting", Price: 25.00, Category: "cakes", QuantityInStock: 10},
		{Name: "Cheesecake", Description: "Classic New York style cheesecake", Price: 20.00, Category: "cakes", QuantityInStock: 10},
		{Name: "Red Velvet Cake", Description: "Red velvet with cream cheese frosting", Price: 28.00, Category: "cakes", QuantityInStock: 6},
		{Name: "Almond Croissant", Description: "Buttery croissant filled with almond cream", Price: 4.50, Category: "pastries", QuantityInStock: 24},
		{Name: "Croissant", Description: "Classic butter croissant", Price: 3.50, Category: "pastries", QuantityInStock: 30},
		{Name: "Strawberry Danish", Description: "Flaky danish with strawberry filling", Price: 4.00, Category: "pastries", QuantityInStock: 18},
		{Name: "Blueberry Muffin", Description: "Muffin loaded with fresh blueberries", Price: 3.00, Category: "muffins", QuantityInStock: 20},
		{Name: "Sourdough Bread", Description: "Slow-fermented sourdough loaf", Price: 6.00, Category: "bread", QuantityInStock: 12},
		{Name: "Chocolate Chip Cookie", Description: "Chewy cookie with dark chocolate chips", Price: 2.50, Category: "cookies", QuantityInStock: 40},
	}
	return db.Create(&products).Error
}
