package model

import (
	"fmt"
	"time"
)

// Plant is an individual cultivation unit. It may live inside a Charge or
// stand alone. Overridable fields are pointers: nil inherits from the owning
// charge (or strain) at read time, a non-nil value is a sticky explicit
// override that later charge edits never clobber.
type Plant struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Name     string `json:"name" gorm:"type:varchar(255)"`
	StrainID uint   `json:"strain_id" gorm:"index;not null"`
	ChargeID *uint  `json:"charge_id" gorm:"index"`
	ZoneID   *uint  `json:"zone_id" gorm:"index"`
	Status   Status `json:"status" gorm:"type:varchar(32);default:''"`
	// IsParent marks the plant as eligible to serve as a mother plant
	IsParent bool `json:"is_parent" gorm:"default:false"`

	StageDates `gorm:"embedded"`

	Substrate  *string  `json:"substrate" gorm:"type:varchar(255)"`
	Fertilizer *string  `json:"fertilizer" gorm:"type:varchar(255)"`
	// ExpectedYield is grams for this plant, overriding the strain estimate
	ExpectedYield *float64 `json:"expected_yield"`

	IsHarvested bool `json:"is_harvested" gorm:"default:false;index"`

	Diary []DiaryEntry `json:"diary,omitempty" gorm:"polymorphic:Owner;polymorphicValue:plant"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPlantName derives the display name for a spawned plant
func DefaultPlantName(strainName string, chargeID uint, ordinal int) string {
	return fmt.Sprintf("%s #%d-%d", strainName, chargeID, ordinal)
}

// EffectiveSubstrate resolves the substrate, falling back to the owning
// charge when no override is set
func (p *Plant) EffectiveSubstrate(charge *Charge) string {
	if p.Substrate != nil {
		return *p.Substrate
	}
	if charge != nil {
		return charge.Substrate
	}
	return ""
}

// EffectiveFertilizer resolves the fertilizer, falling back to the owning
// charge when no override is set
func (p *Plant) EffectiveFertilizer(charge *Charge) string {
	if p.Fertilizer != nil {
		return *p.Fertilizer
	}
	if charge != nil {
		return charge.Fertilizer
	}
	return ""
}

// EffectiveZoneID resolves the zone, falling back to the owning charge when
// the plant has none of its own
func (p *Plant) EffectiveZoneID(charge *Charge) *uint {
	if p.ZoneID != nil {
		return p.ZoneID
	}
	if charge != nil {
		return charge.ZoneID
	}
	return nil
}

// EffectiveYield resolves the expected yield, falling back to the strain
// estimate when no per-plant override is set
func (p *Plant) EffectiveYield(strain *Strain) float64 {
	if p.ExpectedYield != nil {
		return *p.ExpectedYield
	}
	if strain != nil {
		return strain.ExpectedYield
	}
	return 0
}
