package grow

import (
	"grow-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transitionTable lists the allowed next statuses per current status. A
// missing entry means any known status is accepted, which matches the
// dashboard's free status selection and keeps manual corrections possible.
// An empty entry makes the status terminal. Tightening a rule is a table
// change, not a code change.
var transitionTable = map[model.Status][]model.Status{
	model.StatusDestroyed: {},
}

// CanTransition reports whether the table permits moving from one status
// to another
func CanTransition(from, to model.Status) bool {
	allowed, constrained := transitionTable[from]
	if !constrained {
		return true
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionCharge applies a status transition to a charge. Harvested
// charges accept no transition at all.
func TransitionCharge(db *gorm.DB, chargeID uint, next model.Status) (*model.Charge, error) {
	charge, err := GetCharge(db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.IsHarvested {
		return nil, &model.LockedEntityError{Entity: "charge", ID: chargeID}
	}
	if !next.Valid() {
		return nil, model.NewValidationError("status", "unknown status "+string(next))
	}
	if !CanTransition(charge.Status, next) {
		return nil, &model.TransitionError{Entity: "charge", From: charge.Status, To: next}
	}

	charge.Status = next
	if err := db.Omit(clause.Associations).Save(charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

// TransitionPlant applies a status transition to a plant under the same
// rules as TransitionCharge
func TransitionPlant(db *gorm.DB, plantID uint, next model.Status) (*model.Plant, error) {
	plant, err := GetPlant(db, plantID)
	if err != nil {
		return nil, err
	}
	if plant.IsHarvested {
		return nil, &model.LockedEntityError{Entity: "plant", ID: plantID}
	}
	if !next.Valid() {
		return nil, model.NewValidationError("status", "unknown status "+string(next))
	}
	if !CanTransition(plant.Status, next) {
		return nil, &model.TransitionError{Entity: "plant", From: plant.Status, To: next}
	}

	plant.Status = next
	if err := db.Omit(clause.Associations).Save(plant).Error; err != nil {
		return nil, err
	}
	return plant, nil
}
