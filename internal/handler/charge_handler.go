package handler

import (
	"net/http"
	"time"

	"grow-service/internal/calendar"
	"grow-service/internal/grow"
	"grow-service/internal/middleware"
	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ChargeCreateRequest defines the structure for charge creation requests.
// The spawned plants copy these fields; there are no per-plant overrides at
// creation time.
type ChargeCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	StrainID    uint   `json:"strain_id" validate:"required"`
	ZoneID      *uint  `json:"zone_id"`
	PlantAmount int    `json:"plant_amount" validate:"required,gte=1"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Substrate   string `json:"substrate"`
	Fertilizer  string `json:"fertilizer"`
	model.StageDates
}

// ChargeUpdateRequest merges set fields onto a charge; absent fields stay
// untouched. Status moves only through the transition endpoint.
type ChargeUpdateRequest struct {
	Name        *string `json:"name"`
	ZoneID      *uint   `json:"zone_id"`
	Description *string `json:"description"`
	Substrate   *string `json:"substrate"`
	Fertilizer  *string `json:"fertilizer"`
	model.StageDates
}

// TransitionRequest carries the requested lifecycle status
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListCharges handles retrieving all charges with their plants
func ListCharges(c echo.Context) error {
	log := logger.FromContext(c)

	charges, err := allCharges(db())
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "charges": charges})
}

// GetCharge handles retrieving a single charge by ID
func GetCharge(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	charge, err := grow.GetCharge(db(), id)
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "charge": charge})
}

// CreateCharge handles creating a charge and its initial plants atomically.
// The response carries the refreshed charge and plant collections.
func CreateCharge(c echo.Context) error {
	log := logger.FromContext(c)

	var req ChargeCreateRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	charge, plants, err := grow.CreateCharge(db(), grow.CreateChargeInput{
		Name:        req.Name,
		StrainID:    req.StrainID,
		ZoneID:      req.ZoneID,
		PlantAmount: req.PlantAmount,
		Status:      model.Status(req.Status),
		Description: req.Description,
		Substrate:   req.Substrate,
		Fertilizer:  req.Fertilizer,
		StageDates:  req.StageDates,
	})
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	prometheus.RecordOperation("charge", "create")
	refreshPlantStatusGauge(db())

	log.Info("Charge created",
		zap.Uint("charge_id", charge.ID),
		zap.String("name", charge.Name),
		zap.Int("plant_amount", len(plants)))

	return respondChargeCollections(c, log, http.StatusCreated, "charge created")
}

// UpdateCharge handles merging fields onto a charge. Harvested charges are
// locked; existing plants keep their own copies of the defaults.
func UpdateCharge(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req ChargeUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}

	charge, err := grow.UpdateCharge(db(), id, grow.UpdateChargeInput{
		Name:        req.Name,
		ZoneID:      req.ZoneID,
		Description: req.Description,
		Substrate:   req.Substrate,
		Fertilizer:  req.Fertilizer,
		StageDates:  req.StageDates,
	})
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	prometheus.RecordOperation("charge", "update")

	log.Info("Charge updated", zap.Uint("charge_id", charge.ID))

	return respondChargeCollections(c, log, http.StatusOK, "charge updated")
}

// DeleteCharge handles deleting a charge. Its plants are orphaned rather
// than deleted.
func DeleteCharge(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	if err := grow.DeleteCharge(db(), id); err != nil {
		return respondError(c, log, "charge", err)
	}
	prometheus.RecordOperation("charge", "delete")

	log.Info("Charge deleted, plants orphaned", zap.Uint("charge_id", id))

	return respondChargeCollections(c, log, http.StatusOK, "charge deleted")
}

// TransitionCharge handles a lifecycle status move on a charge
func TransitionCharge(c echo.Context) error {
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

	charge, err := grow.TransitionCharge(db(), id, model.Status(req.Status))
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	prometheus.RecordOperation("charge", "transition")

	log.Info("Charge status changed",
		zap.Uint("charge_id", charge.ID),
		zap.String("status", string(charge.Status)))

	return respondChargeCollections(c, log, http.StatusOK, "charge status updated")
}

// FinalizeHarvest handles the one-way finalization of a charge into a
// harvest. The response carries the refreshed harvest, charge and plant
// collections.
func FinalizeHarvest(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req HarvestFinalizeRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}

	memberID := req.MemberID
	if memberID == 0 {
		if acting, ok := middleware.GetMemberIDFromContext(c); ok {
			memberID = acting
		}
	}

	harvest, err := grow.FinalizeHarvest(db(), id, grow.FinalizeHarvestInput{
		Name:        req.Name,
		Status:      model.HarvestStatus(req.Status),
		MemberID:    memberID,
		WetWeight:   req.WetWeight,
		WasteWeight: req.WasteWeight,
		DryWeight:   req.DryWeight,
		THCPercent:  req.THCPercent,
		CBDPercent:  req.CBDPercent,
		Tags:        req.Tags,
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	prometheus.HarvestFinalizedCounter.Inc()
	prometheus.HarvestWetWeightGauge.
		WithLabelValues(uintLabel(harvest.ID), uintLabel(harvest.ChargeID)).
		Set(harvest.WetWeight)

	log.Info("Harvest finalized",
		zap.Uint("harvest_id", harvest.ID),
		zap.Uint("charge_id", harvest.ChargeID),
		zap.Int("plants", len(harvest.PlantIDs)),
		zap.Float64("wet_weight", harvest.WetWeight))

	harvests, err := allHarvests(db())
	if err != nil {
		return respondError(c, log, "harvest", err)
	}
	charges, err := allCharges(db())
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	plants, err := allPlants(db())
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"message":  "harvest finalized",
		"harvests": harvests,
		"charges":  charges,
		"plants":   plants,
	})
}

// ChargeCalendar renders the realized timeline of a charge next to the
// template projected from its strain
func ChargeCalendar(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	charge, err := grow.GetCharge(db(), id)
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	strain, err := findStrain(charge.StrainID)
	if err != nil {
		return respondError(c, log, "strain", err)
	}

	template := calendar.Template(time.Now(), strain.StageDurations())
	actual := calendar.Actual(charge.Points())
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"charge_id":  charge.ID,
		"template":   template,
		"actual":     actual,
		"total_days": calendar.TotalDays(template),
	})
}

// ChargePlantStatus renders the aggregated plant-status tally used for the
// charge progress visualization
func ChargePlantStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	charge, err := grow.GetCharge(db(), id)
	if err != nil {
		return respondError(c, log, "charge", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"charge_id":    charge.ID,
		"is_harvested": charge.IsHarvested,
		"tally":        charge.StatusTally(),
	})
}

// respondChargeCollections answers with the refreshed charge and plant
// collections shared by every charge mutation
func respondChargeCollections(c echo.Context, log *zap.Logger, status int, message string) error {
	charges, err := allCharges(db())
	if err != nil {
		return respondError(c, log, "charge", err)
	}
	plants, err := allPlants(db())
	if err != nil {
		return respondError(c, log, "plant", err)
	}
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"charges": charges,
		"plants":  plants,
	})
}
