package grow

import (
	"errors"

	"grow-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinalizeHarvestInput carries the caller-set fields for a new harvest.
// Status is settable, not derived; weights and potency may be recorded
// immediately or filled in later through UpdateHarvest.
type FinalizeHarvestInput struct {
	Name        string
	Status      model.HarvestStatus
	MemberID    uint
	WetWeight   float64
	WasteWeight float64
	DryWeight   float64
	THCPercent  float64
	CBDPercent  float64
	Tags        []string
	Note        string
}

// UpdateHarvestInput merges set fields onto a harvest. Only the harvest's
// own post-creation fields are editable; the snapshot and source charge
// reference are not.
type UpdateHarvestInput struct {
	Name        *string
	Status      *model.HarvestStatus
	WetWeight   *float64
	WasteWeight *float64
	DryWeight   *float64
	THCPercent  *float64
	CBDPercent  *float64
	Tags        []string
	Note        *string
}

// FinalizeHarvest is the one-way commit point of the lifecycle. In a single
// transaction it creates the harvest with a snapshot of the charge's plant
// ids and flips IsHarvested on the charge and every snapshotted plant,
// freezing them for chain-of-custody.
func FinalizeHarvest(db *gorm.DB, chargeID uint, in FinalizeHarvestInput) (*model.Harvest, error) {
	charge, err := GetCharge(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.IsHarvested {
		return nil, &model.LockedEntityError{Entity: "charge", ID: chargeID}
	}

	status := in.Status
	if status == "" {
		status = model.HarvestStatusDrying
	}
	if !status.Valid() {
		return nil, model.NewValidationError("status", "unknown harvest status "+string(in.Status))
	}

	name := in.Name
	if name == "" {
		name = charge.Name + " harvest"
	}

	plantIDs := make([]uint, len(charge.Plants))
	for i, p := range charge.Plants {
		plantIDs[i] = p.ID
	}

	harvest := model.Harvest{
		Name:        name,
		ChargeID:    charge.ID,
		PlantIDs:    plantIDs,
		Status:      status,
		MemberID:    in.MemberID,
		WetWeight:   in.WetWeight,
		WasteWeight: in.WasteWeight,
		DryWeight:   in.DryWeight,
		THCPercent:  in.THCPercent,
		CBDPercent:  in.CBDPercent,
		Tags:        model.NormalizeTags(in.Tags),
		Note:        in.Note,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&harvest).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Charge{}).
			Where("id = ?", charge.ID).
			Update("is_harvested", true).Error; err != nil {
			return err
		}
		if len(plantIDs) == 0 {
			return nil
		}
		return tx.Model(&model.Plant{}).
			Where("id IN ?", plantIDs).
			Update("is_harvested", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &harvest, nil
}

// UpdateHarvest merges the set fields onto the harvest. A destroyed harvest
// is terminal and accepts no further status change.
func UpdateHarvest(db *gorm.DB, harvestID uint, in UpdateHarvestInput) (*model.Harvest, error) {
	harvest, err := GetHarvest(db, harvestID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != harvest.Status {
		if !in.Status.Valid() {
			return nil, model.NewValidationError("status", "unknown harvest status "+string(*in.Status))
		}
		if harvest.Status == model.HarvestStatusDestroyed {
			return nil, &model.TransitionError{Entity: "harvest", From: model.Status(harvest.Status), To: model.Status(*in.Status)}
		}
		harvest.Status = *in.Status
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, model.NewValidationError("name", "name must not be empty")
		}
		harvest.Name = *in.Name
	}
	if in.WetWeight != nil {
		harvest.WetWeight = *in.WetWeight
	}
	if in.WasteWeight != nil {
		harvest.WasteWeight = *in.WasteWeight
	}
	if in.DryWeight != nil {
		harvest.DryWeight = *in.DryWeight
	}
	if in.THCPercent != nil {
		harvest.THCPercent = *in.THCPercent
	}
	if in.CBDPercent != nil {
		harvest.CBDPercent = *in.CBDPercent
	}
	if in.Tags != nil {
		harvest.Tags = model.NormalizeTags(in.Tags)
	}
	if in.Note != nil {
		harvest.Note = *in.Note
	}

	if err := db.Omit(clause.Associations).Save(harvest).Error; err != nil {
		return nil, err
	}
	return harvest, nil
}

// GetHarvest loads a harvest with its diary
func GetHarvest(db *gorm.DB, harvestID uint) (*model.Harvest, error) {
	var harvest model.Harvest
	if err := db.Preload("Diary").First(&harvest, harvestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &model.NotFoundError{Entity: "harvest", ID: harvestID}
		}
		return nil, err
	}
	return &harvest, nil
}
