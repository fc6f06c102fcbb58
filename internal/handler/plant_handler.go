package handler

import (
	"net/http"

	"grow-service/internal/calendar"
	"grow-service/internal/grow"
	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlantCreateRequest defines the structure for plant creation requests. A
// plant may stand alone or attach to an existing charge.
type PlantCreateRequest struct {
	Name          string   `json:"name"`
	StrainID      uint     `json:"strain_id" validate:"required"`
	ChargeID      *uint    `json:"charge_id"`
	ZoneID        *uint    `json:"zone_id"`
	Status        string   `json:"status"`
	IsParent      bool     `json:"is_parent"`
	Substrate     *string  `json:"substrate"`
	Fertilizer    *string  `json:"fertilizer"`
	ExpectedYield *float64 `json:"expected_yield"`
	model.StageDates
}

// PlantUpdateRequest merges set fields onto a plant. Setting charge_id to 0
// detaches the plant; overrides set here stay sticky against later charge
// edits.
type PlantUpdateRequest struct {
	Name          *string  `json:"name"`
	ChargeID      *uint    `json:"charge_id"`
	ZoneID        *uint    `json:"zone_id"`
	IsParent      *bool    `json:"is_parent"`
	Substrate     *string  `json:"substrate"`
	Fertilizer    *string  `json:"fertilizer"`
	ExpectedYield *float64 `json:"expected_yield"`
	model.StageDates
}

// ListPlants handles retrieving all plants, optionally filtered by charge
func ListPlants(c echo.Context) error {
	log := logger.FromContext(c)

	query := db().Preload("Diary").Order("id")
	if chargeID := c.QueryParam("charge_id"); chargeID != "" {
		query = query.Where("charge_id = ?", chargeID)
		log.Info("Filtering plants by charge", zap.String("charge_id", chargeID))
	}

	var plants []model.Plant
	if result := query.Find(&plants); result.Error != nil {
		return respondError(c, log, "plant", result.Error)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "plants": plants})
}

// GetPlant handles retrieving a single plant by ID
func GetPlant(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	plant, err := grow.GetPlant(db(), id)
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "plant": plant})
}

// CreatePlant handles creating a standalone or attached plant. The response
// carries the refreshed plant and charge collections.
func CreatePlant(c echo.Context) error {
	log := logger.FromContext(c)

	var req PlantCreateRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	plant, err := grow.CreatePlant(db(), grow.CreatePlantInput{
		Name:          req.Name,
		StrainID:      req.StrainID,
		ChargeID:      req.ChargeID,
		ZoneID:        req.ZoneID,
		Status:        model.Status(req.Status),
		IsParent:      req.IsParent,
		Substrate:     req.Substrate,
		Fertilizer:    req.Fertilizer,
		ExpectedYield: req.ExpectedYield,
		StageDates:    req.StageDates,
	})
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	prometheus.RecordOperation("plant", "create")
	refreshPlantStatusGauge(db())

	log.Info("Plant created",
		zap.Uint("plant_id", plant.ID),
		zap.String("name", plant.Name))

	return respondPlantCollections(c, log, http.StatusCreated, "plant created")
}

// UpdatePlant handles merging fields onto a plant. Harvested plants are
// locked.
func UpdatePlant(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req PlantUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}

	plant, err := grow.UpdatePlant(db(), id, grow.UpdatePlantInput{
		Name:          req.Name,
		ChargeID:      req.ChargeID,
		ZoneID:        req.ZoneID,
		IsParent:      req.IsParent,
		Substrate:     req.Substrate,
		Fertilizer:    req.Fertilizer,
		ExpectedYield: req.ExpectedYield,
		StageDates:    req.StageDates,
	})
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	prometheus.RecordOperation("plant", "update")

	log.Info("Plant updated", zap.Uint("plant_id", plant.ID))

	return respondPlantCollections(c, log, http.StatusOK, "plant updated")
}

// DeletePlant handles deleting a plant that has not been harvested
func DeletePlant(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	if err := grow.DeletePlant(db(), id); err != nil {
		return respondError(c, log, "plant", err)
	}
	prometheus.RecordOperation("plant", "delete")
	refreshPlantStatusGauge(db())

	log.Info("Plant deleted", zap.Uint("plant_id", id))

	return respondPlantCollections(c, log, http.StatusOK, "plant deleted")
}

// TransitionPlant handles a lifecycle status move on a plant
func TransitionPlant(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	plant, err := grow.TransitionPlant(db(), id, model.Status(req.Status))
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	prometheus.RecordOperation("plant", "transition")
	refreshPlantStatusGauge(db())

	log.Info("Plant status changed",
		zap.Uint("plant_id", plant.ID),
		zap.String("status", string(plant.Status)))

	return respondPlantCollections(c, log, http.StatusOK, "plant status updated")
}

// PlantCalendar renders the realized timeline of a plant from its recorded
// stage dates
func PlantCalendar(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	plant, err := grow.GetPlant(db(), id)
	if err != nil {
		return respondError(c, log, "plant", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"plant_id": plant.ID,
		"actual":   calendar.Actual(plant.Points()),
	})
}

// respondPlantCollections answers with the refreshed plant and charge
// collections shared by every plant mutation
func respondPlantCollections(c echo.Context, log *zap.Logger, status int, message string) error {
	plants, err := allPlants(db())
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	charges, err := allCharges(db())
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"plants":  plants,
		"charges": charges,
	})
}
