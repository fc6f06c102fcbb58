package model

import (
	"time"

	"grow-service/internal/calendar"
)

// Strain is a genetic template. It carries the per-stage duration estimates
// and expected yield used as defaults when charges and plants are created,
// and feeds the template calendar projection. Re-saving a strain changes
// future calendar renders only; records that already copied its defaults
// keep them.
type Strain struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	IndicaRatio int     `json:"indica_ratio" gorm:"default:0"`
	THCPercent  float64 `json:"thc_percent"`
	CBDPercent  float64 `json:"cbd_percent"`
	// ExpectedYield is grams per plant
	ExpectedYield float64 `json:"expected_yield"`

	// Stage duration estimates in days; 0 means undefined
	GerminationDays int `json:"germination_days"`
	CuttingDays     int `json:"cutting_days"`
	VegetativeDays  int `json:"vegetative_days"`
	FloweringDays   int `json:"flowering_days"`
	CuringDays      int `json:"curing_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageDurations returns the strain's growth plan in stage order for the
// template calendar projection
func (s *Strain) StageDurations() []calendar.StageDuration {
	return []calendar.StageDuration{
		{Label: "germination", Days: s.GerminationDays},
		{Label: "cutting", Days: s.CuttingDays},
		{Label: "vegetative", Days: s.VegetativeDays},
		{Label: "flowering", Days: s.FloweringDays},
		{Label: "curing", Days: s.CuringDays},
	}
}
