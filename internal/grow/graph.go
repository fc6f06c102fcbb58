// Package grow implements the cultivation lifecycle core: the
// charge/plant/harvest entity graph, the status transition rules, the
// one-way harvest finalization and the append-only diary. Every operation
// is a single atomic unit against the store; on failure nothing is written.
package grow

import (
	"errors"

	"grow-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateChargeInput carries the initial fields for a new charge. All spawned
// plants copy these defaults; bulk creation has no per-plant overrides.
type CreateChargeInput struct {
	Name        string
	StrainID    uint
	ZoneID      *uint
	PlantAmount int
	Status      model.Status
	Description string
	Substrate   string
	Fertilizer  string
	StageDates  model.StageDates
}

// UpdateChargeInput merges set fields onto an existing charge. Nil fields
// are left untouched; status is only changed through Transition.
type UpdateChargeInput struct {
	Name        *string
	ZoneID      *uint
	Description *string
	Substrate   *string
	Fertilizer  *string
	StageDates  model.StageDates
}

// CreateCharge validates the input and atomically creates the charge plus
// PlantAmount identical plants inheriting its defaults.
func CreateCharge(db *gorm.DB, in CreateChargeInput) (*model.Charge, []model.Plant, error) {
	if in.Name == "" {
		return nil, nil, model.NewValidationError("name", "name must not be empty")
	}
	if in.PlantAmount < 1 {
		return nil, nil, model.NewValidationError("plant_amount", "a charge needs at least one plant")
	}
	if in.Status != model.StatusUnset && !in.Status.Valid() {
		return nil, nil, model.NewValidationError("status", "unknown status "+string(in.Status))
	}

	var strain model.Strain
	if err := db.First(&strain, in.StrainID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, model.NewValidationError("strain_id", "strain does not exist")
		}
		return nil, nil, err
	}
	if in.ZoneID != nil {
		if err := resolveZone(db, *in.ZoneID); err != nil {
			return nil, nil, err
		}
	}

	charge := model.Charge{
		Name:        in.Name,
		StrainID:    in.StrainID,
		ZoneID:      in.ZoneID,
		Status:      in.Status,
		Description: in.Description,
		Substrate:   in.Substrate,
		Fertilizer:  in.Fertilizer,
		StageDates:  in.StageDates,
		PlantAmount: in.PlantAmount,
	}

	var plants []model.Plant
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&charge).Error; err != nil {
			return err
		}
		plants = spawnPlants(&charge, &strain)
		return tx.Create(&plants).Error
	})
	if err != nil {
		return nil, nil, err
	}
	charge.Plants = plants
	return &charge, plants, nil
}

// spawnPlants materializes the charge's initial plants. Substrate and
// fertilizer are copied as explicit values so that later charge edits do
// not cascade into plants that existed at spawn time; the zone stays an
// inherit-at-read reference.
func spawnPlants(charge *model.Charge, strain *model.Strain) []model.Plant {
	plants := make([]model.Plant, charge.PlantAmount)
	for i := range plants {
		plant := model.Plant{
			Name:       model.DefaultPlantName(strain.Name, charge.ID, i+1),
			StrainID:   charge.StrainID,
			ChargeID:   &charge.ID,
			Status:     charge.Status,
			StageDates: charge.StageDates,
		}
		if charge.Substrate != "" {
			substrate := charge.Substrate
			plant.Substrate = &substrate
		}
		if charge.Fertilizer != "" {
			fertilizer := charge.Fertilizer
			plant.Fertilizer = &fertilizer
		}
		plants[i] = plant
	}
	return plants
}

// UpdateCharge merges the set fields onto the charge. Harvested charges
// reject the update; plants that already exist are never touched.
func UpdateCharge(db *gorm.DB, chargeID uint, in UpdateChargeInput) (*model.Charge, error) {
	charge, err := GetCharge(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.IsHarvested {
		return nil, &model.LockedEntityError{Entity: "charge", ID: chargeID}
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, model.NewValidationError("name", "name must not be empty")
		}
		charge.Name = *in.Name
	}
	if in.ZoneID != nil {
		if err := resolveZone(db, *in.ZoneID); err != nil {
			return nil, err
		}
		charge.ZoneID = in.ZoneID
	}
	if in.Description != nil {
		charge.Description = *in.Description
	}
	if in.Substrate != nil {
		charge.Substrate = *in.Substrate
	}
	if in.Fertilizer != nil {
		charge.Fertilizer = *in.Fertilizer
	}
	charge.StageDates.Merge(in.StageDates)

	if err := db.Omit(clause.Associations).Save(charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

// DeleteCharge removes the charge after detaching its plants. Plants are
// orphaned, never deleted, so no cultivation history is lost.
func DeleteCharge(db *gorm.DB, chargeID uint) error {
	charge, err := GetCharge(db, chargeID)
	if err != nil {
		return err
	}
	if charge.IsHarvested {
		return &model.LockedEntityError{Entity: "charge", ID: chargeID}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Plant{}).
			Where("charge_id = ?", chargeID).
			Update("charge_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Charge{}, chargeID).Error
	})
}

// GetCharge loads a charge with its plants
func GetCharge(db *gorm.DB, chargeID uint) (*model.Charge, error) {
	var charge model.Charge
	if err := db.Preload("Plants").Preload("Diary").First(&charge, chargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Entity: "charge", ID: chargeID}
		}
		return nil, err
	}
	return &charge, nil
}

func resolveZone(db *gorm.DB, zoneID uint) error {
	var count int64
	if err := db.Model(&model.Zone{}).Where("id = ?", zoneID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return model.NewValidationError("zone_id", "zone does not exist")
	}
	return nil
}
