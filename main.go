package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"restaurante-backend/config"
	"restaurante-backend/controllers"
	"restaurante-backend/hooks"
	"restaurante-backend/routes"
	"restaurante-backend/services"
)

func setupLogging() {
	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found or couldn't load it; continuing with environment variables")
	}
	setupLogging()

	if err := config.ConnectDatabase(); err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	if db == nil {
		logrus.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logrus.Info("database connection established and migrations applied")

	// Write-boundary validation for reservations
	if err := hooks.Register(db); err != nil {
		logrus.WithError(err).Fatal("failed to register reservation hooks")
	}

	// Initialize services
	reservationService := services.NewReservationService(db)
	contactService := services.NewContactService(db)
	configService := services.NewCapacityConfigService(db)

	// Initialize controllers
	availabilityController := controllers.NewAvailabilityController(db)
	reservationController := controllers.NewReservationController(reservationService)
	contactController := controllers.NewContactController(contactService)
	configController := controllers.NewCapacityConfigController(configService)

	router := routes.SetupRouter(
		availabilityController,
		reservationController,
		contactController,
		configController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("ListenAndServe()")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server stopped gracefully")
}
