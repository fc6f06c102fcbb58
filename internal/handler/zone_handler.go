package handler

import (
	"net/http"

	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ZoneRequest defines the structure for zone creation requests
type ZoneRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Environment string `json:"environment"`
}

// ListZones handles retrieving all zones
func ListZones(c echo.Context) error {
	log := logger.FromContext(c)

	zones, err := allZones(db())
	if err != nil {
		return respondError(c, log, "zone", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "zones": zones})
}

// CreateZone handles creating a new growing zone. The response carries the
// full refreshed zone collection.
func CreateZone(c echo.Context) error {
	log := logger.FromContext(c)

	var req ZoneRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	zone := model.Zone{
		Name:        req.Name,
		Description: req.Description,
		Environment: req.Environment,
	}
	if result := db().Create(&zone); result.Error != nil {
		return respondError(c, log, "zone", result.Error)
	}
	prometheus.RecordOperation("zone", "create")

	log.Info("Zone created",
		zap.Uint("zone_id", zone.ID),
		zap.String("name", zone.Name))

	zones, err := allZones(db())
	if err != nil {
		return respondError(c, log, "zone", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "zone created",
		"zones":   zones,
	})
}
