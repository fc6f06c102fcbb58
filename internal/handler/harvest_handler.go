package handler

import (
	"net/http"

	"grow-service/internal/grow"
	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HarvestFinalizeRequest defines the structure for finalizing a charge into
// a harvest. When member_id is absent the acting member is recorded as
// responsible.
type HarvestFinalizeRequest struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	MemberID    uint     `json:"member_id"`
	WetWeight   float64  `json:"wet_weight"`
	WasteWeight float64  `json:"waste_weight"`
	DryWeight   float64  `json:"dry_weight"`
	THCPercent  float64  `json:"thc_percent"`
	CBDPercent  float64  `json:"cbd_percent"`
	Tags        []string `json:"tags"`
	Note        string   `json:"note"`
}

// HarvestUpdateRequest merges set fields onto a harvest; only the harvest's
// own post-creation fields are editable
type HarvestUpdateRequest struct {
	Name        *string  `json:"name"`
	Status      *string  `json:"status"`
	WetWeight   *float64 `json:"wet_weight"`
	WasteWeight *float64 `json:"waste_weight"`
	DryWeight   *float64 `json:"dry_weight"`
	THCPercent  *float64 `json:"thc_percent"`
	CBDPercent  *float64 `json:"cbd_percent"`
	Tags        []string `json:"tags"`
	Note        *string  `json:"note"`
}

// ListHarvests handles retrieving all harvests
func ListHarvests(c echo.Context) error {
	log := logger.FromContext(c)

	harvests, err := allHarvests(db())
	if err != nil {
		return respondError(c, log, "harvest", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "harvests": harvests})
}

// GetHarvest handles retrieving a single harvest by ID
func GetHarvest(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	harvest, err := grow.GetHarvest(db(), id)
	if err != nil {
		return respondError(c, log, "harvest", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "harvest": harvest})
}

// UpdateHarvest handles editing a harvest's processing fields. The plant
// snapshot and source charge stay frozen.
func UpdateHarvest(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req HarvestUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}

	var status *model.HarvestStatus
	if req.Status != nil {
		s := model.HarvestStatus(*req.Status)
		status = &s
	}

	harvest, err := grow.UpdateHarvest(db(), id, grow.UpdateHarvestInput{
		Name:        req.Name,
		Status:      status,
		WetWeight:   req.WetWeight,
		WasteWeight: req.WasteWeight,
		DryWeight:   req.DryWeight,
		THCPercent:  req.THCPercent,
		CBDPercent:  req.CBDPercent,
		Tags:        req.Tags,
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, log, "harvest", err)
	}
	prometheus.RecordOperation("harvest", "update")

	log.Info("Harvest updated",
		zap.Uint("harvest_id", harvest.ID),
		zap.String("status", string(harvest.Status)))

	harvests, err := allHarvests(db())
	if err != nil {
		return respondError(c, log, "harvest", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "harvest updated",
		"harvests": harvests,
	})
}
