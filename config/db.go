package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"restaurante-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "restaurante_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase creates the singleton restaurant settings row when missing.
// Capacity configs are not seeded: the hardcoded default table covers any
// date with no override.
func SeedDatabase() {
	var count int64
	DB.Model(&models.RestaurantSetting{}).Count(&count)
	if count == 0 {
		setting := models.RestaurantSetting{
			Name:  envOrDefault("RESTAURANT_NAME", "Restaurante"),
			Email: envOrDefault("RESTAURANT_EMAIL", ""),
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed restaurant settings: %v", err)
		} else {
			log.Println("Restaurant settings seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.RestaurantSetting{},
		&models.CapacityConfig{},
		&models.Reservation{},
		&models.ContactMessage{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
