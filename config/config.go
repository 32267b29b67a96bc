package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Branch is a bakery location. Open/Close override the global business
// hours when set (format "15:04").
type Branch struct {
	Name  string `yaml:"name" json:"name"`
	Open  string `yaml:"open,omitempty" json:"open,omitempty"`
	Close string `yaml:"close,omitempty" json:"close,omitempty"`
}

type Config struct {
	Port   string `yaml:"port"`
	DBPath string `yaml:"db_path"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	JWTSecretKey  string `yaml:"jwt_secret"`
	StaffUsername string `yaml:"staff_username"`
	StaffPassword string `yaml:"staff_password"`

	BakeryName string  `yaml:"bakery_name"`
	TaxRate    float64 `yaml:"tax_rate"`
	OpenTime   string  `yaml:"open_time"`
	CloseTime  string  `yaml:"close_time"`

	Branches []Branch `yaml:"branches"`

	SessionTTL time.Duration `yaml:"session_ttl"`
}

// C is the loaded configuration, set by Load
var C *Config

// JWTSecret used to sign staff tokens — set by Load
var JWTSecret []byte

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		DBPath:        "bakery.db",
		RedisAddr:     "localhost:6379",
		RedisDB:       0,
		JWTSecretKey:  "sunrise_bakery_super_secret_2024",
		StaffUsername: "staff",
		StaffPassword: "staff123",
		BakeryName:    "Sunrise Bakery",
		TaxRate:       0.0825,
		OpenTime:      "08:00",
		CloseTime:     "18:00",
		Branches: []Branch{
			{Name: "Downtown Location"},
			{Name: "Westside Location"},
			{Name: "Mall Location"},
		},
		SessionTTL: 24 * time.Hour,
	}
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_FILE or ./config.yaml), and environment variable overrides.
func Load() *Config {
	cfg := defaults()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatal("Failed to parse config file:", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	cfg.JWTSecretKey = getEnv("JWT_SECRET", cfg.JWTSecretKey)
	cfg.StaffUsername = getEnv("STAFF_USERNAME", cfg.StaffUsername)
	cfg.StaffPassword = getEnv("STAFF_PASSWORD", cfg.StaffPassword)
	cfg.BakeryName = getEnv("BAKERY_NAME", cfg.BakeryName)
	if v := os.Getenv("TAX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TaxRate = f
		}
	}

	if _, err := ParseBusinessHours(cfg.OpenTime, cfg.CloseTime); err != nil {
		log.Fatal("Invalid business hours in config:", err)
	}

	C = cfg
	JWTSecret = []byte(cfg.JWTSecretKey)
	return cfg
}

// Hours returns the global business-hours window.
func (c *Config) Hours() BusinessHours {
	h, _ := ParseBusinessHours(c.OpenTime, c.CloseTime)
	return h
}

// HoursFor returns the business-hours window for a branch, falling back
// to the global window when the branch is unknown or carries no
// override. Branch matching is a case-insensitive prefix match, so
// "Downtown" resolves to "Downtown Location".
func (c *Config) HoursFor(branchName string) BusinessHours {
	if b := c.FindBranch(branchName); b != nil && b.Open != "" && b.Close != "" {
		if h, err := ParseBusinessHours(b.Open, b.Close); err == nil {
			return h
		}
	}
	return c.Hours()
}

// FindBranch resolves a branch by case-insensitive prefix match.
func (c *Config) FindBranch(name string) *Branch {
	if name == "" {
		return nil
	}
	for i := range c.Branches {
		if strings.HasPrefix(strings.ToLower(c.Branches[i].Name), strings.ToLower(name)) {
			return &c.Branches[i]
		}
	}
	return nil
}

// BranchNames lists the configured branch names in order.
func (c *Config) BranchNames() []string {
	names := make([]string, 0, len(c.Branches))
	for _, b := range c.Branches {
		names = append(names, b.Name)
	}
	return names
}
