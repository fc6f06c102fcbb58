package handler

import (
	"net/http"

	"grow-service/internal/grow"
	"grow-service/internal/middleware"
	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DiaryRequest defines the structure for diary append requests. Attachments
// are opaque references to files living in the dashboard's upload service.
type DiaryRequest struct {
	Content     string   `json:"content" validate:"required"`
	Attachments []string `json:"attachments"`
}

// AppendChargeDiary appends a diary entry to a charge. Works on harvested
// charges too.
func AppendChargeDiary(c echo.Context) error {
	return appendDiary(c, model.OwnerTypeCharge)
}

// AppendPlantDiary appends a diary entry to a plant
func AppendPlantDiary(c echo.Context) error {
	return appendDiary(c, model.OwnerTypePlant)
}

// AppendHarvestDiary appends a diary entry to a harvest
func AppendHarvestDiary(c echo.Context) error {
	return appendDiary(c, model.OwnerTypeHarvest)
}

// appendDiary appends an entry and answers with the refreshed owner record
// and the collection it belongs to, since diary mutation is modeled as a
// full-entity update
func appendDiary(c echo.Context, ownerType string) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req DiaryRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	authorID, _ := middleware.GetMemberIDFromContext(c)

	entry, err := grow.AppendDiary(db(), ownerType, id, authorID, req.Content, req.Attachments)
	if err != nil {
		return respondError(c, log, ownerType, err)
	}
	prometheus.RecordDiaryEntry(ownerType)

	log.Info("Diary entry appended",
		zap.String("owner_type", ownerType),
		zap.Uint("owner_id", id),
		zap.Uint("entry_id", entry.ID),
		zap.Uint("author_id", authorID))

	response := echo.Map{
		"success": true,
		"message": "diary entry added",
		"entry":   entry,
	}

	switch ownerType {
	case model.OwnerTypeCharge:
		owner, err := grow.GetCharge(db(), id)
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		charges, err := allCharges(db())
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		response["charge"] = owner
		response["charges"] = charges
	case model.OwnerTypePlant:
		owner, err := grow.GetPlant(db(), id)
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		plants, err := allPlants(db())
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		response["plant"] = owner
		response["plants"] = plants
	case model.OwnerTypeHarvest:
		owner, err := grow.GetHarvest(db(), id)
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		harvests, err := allHarvests(db())
		if err != nil {
			return respondError(c, log, ownerType, err)
		}
		response["harvest"] = owner
		response["harvests"] = harvests
	}

	return c.JSON(http.StatusCreated, response)
}
