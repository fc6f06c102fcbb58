package model

import (
	"time"

	"grow-service/internal/calendar"
)

// StageDates holds the recorded stage-transition dates shared by Charge and
// Plant. Every date is optional and set independently of the lifecycle
// status; the actual calendar projection is derived from whichever dates
// have been recorded.
type StageDates struct {
	SowingAt      *time.Time `json:"sowing_at"`
	GerminationAt *time.Time `json:"germination_at"`
	CuttingAt     *time.Time `json:"cutting_at"`
	GrowingAt     *time.Time `json:"growing_at"`
	FloweringAt   *time.Time `json:"flowering_at"`
	HarvestAt     *time.Time `json:"harvest_at"`
	DestructionAt *time.Time `json:"destruction_at"`
}

// Points returns the recorded dates in stage order for the actual calendar
// projection
func (d *StageDates) Points() []calendar.StagePoint {
	return []calendar.StagePoint{
		{Label: "sowing", At: d.SowingAt},
		{Label: "germination", At: d.GerminationAt},
		{Label: "cutting", At: d.CuttingAt},
		{Label: "growing", At: d.GrowingAt},
		{Label: "flowering", At: d.FloweringAt},
		{Label: "harvest", At: d.HarvestAt},
		{Label: "destruction", At: d.DestructionAt},
	}
}

// Merge copies every recorded date from other onto d, leaving dates absent
// in other untouched
func (d *StageDates) Merge(other StageDates) {
	if other.SowingAt != nil {
		d.SowingAt = other.SowingAt
	}
	if other.GerminationAt != nil {
		d.GerminationAt = other.GerminationAt
	}
	if other.CuttingAt != nil {
		d.CuttingAt = other.CuttingAt
	}
	if other.GrowingAt != nil {
		d.GrowingAt = other.GrowingAt
	}
	if other.FloweringAt != nil {
		d.FloweringAt = other.FloweringAt
	}
	if other.HarvestAt != nil {
		d.HarvestAt = other.HarvestAt
	}
	if other.DestructionAt != nil {
		d.DestructionAt = other.DestructionAt
	}
}
