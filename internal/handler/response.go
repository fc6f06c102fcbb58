package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"grow-service/internal/model"
	"grow-service/pkg/database"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mutating endpoints answer with a success flag, a human-readable message
// and the fully refreshed collections they touched, so the dashboard can
// replace its tables wholesale instead of patching deltas.

// respondError maps a domain error to its HTTP status. Every failure is a
// single dismissible message; nothing is swallowed or retried.
func respondError(c echo.Context, log *zap.Logger, entity string, err error) error {
	var (
		validationErr *model.ValidationError
		lockedErr     *model.LockedEntityError
		notFoundErr   *model.NotFoundError
		transitionErr *model.TransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn("Validation failed", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	case errors.As(err, &lockedErr):
		log.Warn("Mutation rejected on harvested record", zap.String("entity", entity), zap.Error(err))
		prometheus.RecordLockedMutation(lockedErr.Entity)
		return c.JSON(http.StatusLocked, echo.Map{"success": false, "message": err.Error()})
	case errors.As(err, &notFoundErr):
		log.Warn("Record not found", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": err.Error()})
	case errors.As(err, &transitionErr):
		log.Warn("Transition rejected", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
	default:
		log.Error("Operation failed", zap.String("entity", entity), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

// respondBindError reports a request body that could not be bound or failed
// struct validation
func respondBindError(c echo.Context, log *zap.Logger, err error) error {
	log.Warn("Invalid request data", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request data: " + err.Error()})
}

func allStrains(db *gorm.DB) ([]model.Strain, error) {
	defer prometheus.TrackDBOperation("list_strains")(time.Now())
	var strains []model.Strain
	err := db.Order("id").Find(&strains).Error
	return strains, err
}

func allZones(db *gorm.DB) ([]model.Zone, error) {
	defer prometheus.TrackDBOperation("list_zones")(time.Now())
	var zones []model.Zone
	err := db.Order("id").Find(&zones).Error
	return zones, err
}

func allCharges(db *gorm.DB) ([]model.Charge, error) {
	defer prometheus.TrackDBOperation("list_charges")(time.Now())
	var charges []model.Charge
	err := db.Preload("Plants").Preload("Diary").Order("id").Find(&charges).Error
	return charges, err
}

func allPlants(db *gorm.DB) ([]model.Plant, error) {
	defer prometheus.TrackDBOperation("list_plants")(time.Now())
	var plants []model.Plant
	err := db.Preload("Diary").Order("id").Find(&plants).Error
	return plants, err
}

func allHarvests(db *gorm.DB) ([]model.Harvest, error) {
	defer prometheus.TrackDBOperation("list_harvests")(time.Now())
	var harvests []model.Harvest
	err := db.Preload("Diary").Order("id").Find(&harvests).Error
	return harvests, err
}

// refreshPlantStatusGauge re-counts tracked plants per lifecycle status
func refreshPlantStatusGauge(db *gorm.DB) {
	type statusCount struct {
		Status model.Status
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&model.Plant{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return
	}
	for _, s := range model.Statuses {
		prometheus.PlantsByStatusGauge.WithLabelValues(string(s)).Set(0)
	}
	prometheus.PlantsByStatusGauge.WithLabelValues("").Set(0)
	for _, sc := range counts {
		prometheus.PlantsByStatusGauge.WithLabelValues(string(sc.Status)).Set(float64(sc.Count))
	}
}

// db is shorthand for the active store connection
func db() *gorm.DB {
	return database.GetDB()
}

// uintLabel formats an id for use as a metric label
func uintLabel(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// pathID parses the :id path parameter
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
