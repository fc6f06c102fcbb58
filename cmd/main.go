package main

import (
	"grow-service/internal/handler"
	mid "grow-service/internal/middleware"
	"grow-service/pkg/config"
	"grow-service/pkg/database"
	"grow-service/pkg/jwtutil"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is optional, env vars win)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting grow-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Strain API routes
	strainAPI := e.Group("/api/strains", mid.AuthMiddleware)
	strainAPI.GET("", handler.ListStrains)
	strainAPI.GET("/:id", handler.GetStrain)
	strainAPI.POST("", handler.CreateStrain)
	strainAPI.PUT("/:id", handler.UpdateStrain)
	strainAPI.GET("/:id/calendar", handler.StrainCalendar)

	// Zone API routes
	zoneAPI := e.Group("/api/zones", mid.AuthMiddleware)
	zoneAPI.GET("", handler.ListZones)
	zoneAPI.POST("", handler.CreateZone)

	// Charge API routes
	chargeAPI := e.Group("/api/charges", mid.AuthMiddleware)
	chargeAPI.GET("", handler.ListCharges)
	chargeAPI.GET("/:id", handler.GetCharge)
	chargeAPI.POST("", handler.CreateCharge)
	chargeAPI.PUT("/:id", handler.UpdateCharge)
	chargeAPI.DELETE("/:id", handler.DeleteCharge)
	chargeAPI.POST("/:id/status", handler.TransitionCharge)
	chargeAPI.POST("/:id/harvest", handler.FinalizeHarvest)
	chargeAPI.GET("/:id/calendar", handler.ChargeCalendar)
	chargeAPI.GET("/:id/plant-status", handler.ChargePlantStatus)
	chargeAPI.POST("/:id/diary", handler.AppendChargeDiary)

	// Plant API routes
	plantAPI := e.Group("/api/plants", mid.AuthMiddleware)
	plantAPI.GET("", handler.ListPlants)
	plantAPI.GET("/:id", handler.GetPlant)
	plantAPI.POST("", handler.CreatePlant)
	plantAPI.PUT("/:id", handler.UpdatePlant)
	plantAPI.DELETE("/:id", handler.DeletePlant)
	plantAPI.POST("/:id/status", handler.TransitionPlant)
	plantAPI.GET("/:id/calendar", handler.PlantCalendar)
	plantAPI.POST("/:id/diary", handler.AppendPlantDiary)

	// Harvest API routes
	harvestAPI := e.Group("/api/harvests", mid.AuthMiddleware)
	harvestAPI.GET("", handler.ListHarvests)
	harvestAPI.GET("/:id", handler.GetHarvest)
	harvestAPI.PUT("/:id", handler.UpdateHarvest)
	harvestAPI.POST("/:id/diary", handler.AppendHarvestDiary)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
