package grow

import (
	"errors"

	"grow-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePlantInput carries the fields for a standalone or attached plant
type CreatePlantInput struct {
	Name          string
	StrainID      uint
	ChargeID      *uint
	ZoneID        *uint
	Status        model.Status
	IsParent      bool
	Substrate     *string
	Fertilizer    *string
	ExpectedYield *float64
	StageDates    model.StageDates
}

// UpdatePlantInput merges set fields onto an existing plant. A ChargeID of 0
// detaches the plant from its charge.
type UpdatePlantInput struct {
	Name          *string
	ChargeID      *uint
	ZoneID        *uint
	IsParent      *bool
	Substrate     *string
	Fertilizer    *string
	ExpectedYield *float64
	StageDates    model.StageDates
}

// CreatePlant creates a single plant. The strain is required; charge and
// zone are optional references.
func CreatePlant(db *gorm.DB, in CreatePlantInput) (*model.Plant, error) {
	if in.Status != model.StatusUnset && !in.Status.Valid() {
		return nil, model.NewValidationError("status", "unknown status "+string(in.Status))
	}

	var strain model.Strain
	if err := db.First(&strain, in.StrainID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NewValidationError("strain_id", "strain does not exist")
		}
		return nil, err
	}
	if in.ZoneID != nil {
		if err := resolveZone(db, *in.ZoneID); err != nil {
			return nil, err
		}
	}

	plant := model.Plant{
		Name:          in.Name,
		StrainID:      in.StrainID,
		ZoneID:        in.ZoneID,
		Status:        in.Status,
		IsParent:      in.IsParent,
		Substrate:     in.Substrate,
		Fertilizer:    in.Fertilizer,
		ExpectedYield: in.ExpectedYield,
		StageDates:    in.StageDates,
	}

	if in.ChargeID != nil {
		charge, err := GetCharge(db, *in.ChargeID)
		if err != nil {
			return nil, err
		}
		// A harvested charge's plant list is frozen
		if charge.IsHarvested {
			return nil, &model.LockedEntityError{Entity: "charge", ID: charge.ID}
		}
		plant.ChargeID = in.ChargeID
		if plant.Name == "" {
			plant.Name = model.DefaultPlantName(strain.Name, charge.ID, len(charge.Plants)+1)
		}
	}
	if plant.Name == "" {
		plant.Name = strain.Name
	}

	if err := db.Create(&plant).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

// UpdatePlant merges the set fields onto the plant. Harvested plants reject
// the update. Attaching the plant to a charge never clobbers overrides the
// plant already carries; the attach only sets the reference.
func UpdatePlant(db *gorm.DB, plantID uint, in UpdatePlantInput) (*model.Plant, error) {
	plant, err := GetPlant(db, plantID)
	if err != nil {
		return nil, err
	}
	if plant.IsHarvested {
		return nil, &model.LockedEntityError{Entity: "plant", ID: plantID}
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, model.NewValidationError("name", "name must not be empty")
		}
		plant.Name = *in.Name
	}
	if in.ChargeID != nil {
		if *in.ChargeID == 0 {
			plant.ChargeID = nil
		} else {
			charge, err := GetCharge(db, *in.ChargeID)
			if err != nil {
				return nil, err
			}
			if charge.IsHarvested {
				return nil, &model.LockedEntityError{Entity: "charge", ID: charge.ID}
			}
			plant.ChargeID = in.ChargeID
		}
	}
	if in.ZoneID != nil {
		if err := resolveZone(db, *in.ZoneID); err != nil {
			return nil, err
		}
		plant.ZoneID = in.ZoneID
	}
	if in.IsParent != nil {
		plant.IsParent = *in.IsParent
	}
	if in.Substrate != nil {
		plant.Substrate = in.Substrate
	}
	if in.Fertilizer != nil {
		plant.Fertilizer = in.Fertilizer
	}
	if in.ExpectedYield != nil {
		plant.ExpectedYield = in.ExpectedYield
	}
	plant.StageDates.Merge(in.StageDates)

	if err := db.Omit(clause.Associations).Save(plant).Error; err != nil {
		return nil, err
	}
	return plant, nil
}

// DeletePlant removes a plant that has not been harvested
func DeletePlant(db *gorm.DB, plantID uint) error {
	plant, err := GetPlant(db, plantID)
	if err != nil {
		return err
	}
	if plant.IsHarvested {
		return &model.LockedEntityError{Entity: "plant", ID: plantID}
	}
	return db.Delete(&model.Plant{}, plantID).Error
}

// GetPlant loads a plant with its diary
func GetPlant(db *gorm.DB, plantID uint) (*model.Plant, error) {
	var plant model.Plant
	if err := db.Preload("Diary").First(&plant, plantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Entity: "plant", ID: plantID}
		}
		return nil, err
	}
	return &plant, nil
}
