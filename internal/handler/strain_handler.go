package handler

import (
	"errors"
	"net/http"
	"time"

	"grow-service/internal/calendar"
	"grow-service/internal/model"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StrainRequest defines the structure for strain creation/update requests
type StrainRequest struct {
	Name          string  `json:"name" validate:"required"`
	IndicaRatio   int     `json:"indica_ratio" validate:"gte=0,lte=100"`
	THCPercent    float64 `json:"thc_percent" validate:"gte=0"`
	CBDPercent    float64 `json:"cbd_percent" validate:"gte=0"`
	ExpectedYield float64 `json:"expected_yield" validate:"gte=0"`

	GerminationDays int `json:"germination_days" validate:"gte=0"`
	CuttingDays     int `json:"cutting_days" validate:"gte=0"`
	VegetativeDays  int `json:"vegetative_days" validate:"gte=0"`
	FloweringDays   int `json:"flowering_days" validate:"gte=0"`
	CuringDays      int `json:"curing_days" validate:"gte=0"`
}

func (r *StrainRequest) apply(strain *model.Strain) {
	strain.Name = r.Name
	strain.IndicaRatio = r.IndicaRatio
	strain.THCPercent = r.THCPercent
	strain.CBDPercent = r.CBDPercent
	strain.ExpectedYield = r.ExpectedYield
	strain.GerminationDays = r.GerminationDays
	strain.CuttingDays = r.CuttingDays
	strain.VegetativeDays = r.VegetativeDays
	strain.FloweringDays = r.FloweringDays
	strain.CuringDays = r.CuringDays
}

// findStrain loads a strain, keeping "does not exist" distinct from a
// failing store
func findStrain(id uint) (*model.Strain, error) {
	var strain model.Strain
	if err := db().First(&strain, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Entity: "strain", ID: id}
		}
		return nil, err
	}
	return &strain, nil
}

// ListStrains handles retrieving all strains
func ListStrains(c echo.Context) error {
	log := logger.FromContext(c)

	strains, err := allStrains(db())
	if err != nil {
		return respondError(c, log, "strain", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "strains": strains})
}

// GetStrain handles retrieving a single strain by ID
func GetStrain(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	strain, err := findStrain(id)
	if err != nil {
		return respondError(c, log, "strain", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "strain": strain})
}

// CreateStrain handles creating a new genetic template. The response
// carries the full refreshed strain collection.
func CreateStrain(c echo.Context) error {
	log := logger.FromContext(c)

	var req StrainRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	var strain model.Strain
	req.apply(&strain)
	if result := db().Create(&strain); result.Error != nil {
		return respondError(c, log, "strain", result.Error)
	}
	prometheus.RecordOperation("strain", "create")

	log.Info("Strain created",
		zap.Uint("strain_id", strain.ID),
		zap.String("name", strain.Name))

	strains, err := allStrains(db())
	if err != nil {
		return respondError(c, log, "strain", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "strain created",
		"strains": strains,
	})
}

// UpdateStrain handles re-saving a strain. There is no versioning: the edit
// changes future calendar renders only, records that copied the old
// defaults keep them.
func UpdateStrain(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	var req StrainRequest
	if err := c.Bind(&req); err != nil {
		return respondBindError(c, log, err)
	}
	if err := c.Validate(&req); err != nil {
		return respondBindError(c, log, err)
	}

	strain, err := findStrain(id)
	if err != nil {
		return respondError(c, log, "strain", err)
	}

	req.apply(strain)
	if result := db().Save(strain); result.Error != nil {
		return respondError(c, log, "strain", result.Error)
	}
	prometheus.RecordOperation("strain", "update")

	log.Info("Strain re-saved", zap.Uint("strain_id", strain.ID))

	strains, err := allStrains(db())
	if err != nil {
		return respondError(c, log, "strain", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "strain updated",
		"strains": strains,
	})
}

// StrainCalendar renders the template calendar projected from the strain's
// stage duration estimates, anchored at tomorrow
func StrainCalendar(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return respondBindError(c, log, err)
	}

	strain, err := findStrain(id)
	if err != nil {
		return respondError(c, log, "strain", err)
	}

	template := calendar.Template(time.Now(), strain.StageDurations())
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"strain_id":  strain.ID,
		"template":   template,
		"total_days": calendar.TotalDays(template),
	})
}
