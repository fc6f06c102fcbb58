package model

import "time"

// Harvest is the record produced by finalizing a Charge. Creating one flips
// IsHarvested on the source charge and every snapshotted plant; afterwards
// only the harvest's own processing fields (status, weights, measured
// potency, tags, note) remain editable.
type Harvest struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Name     string `json:"name" gorm:"type:varchar(255)"`
	ChargeID uint   `json:"charge_id" gorm:"uniqueIndex;not null"`
	// PlantIDs is the denormalized snapshot of the charge's plant list at
	// finalization time, kept for chain-of-custody
	PlantIDs []uint        `json:"plant_ids" gorm:"serializer:json"`
	Status   HarvestStatus `json:"status" gorm:"type:varchar(32)"`
	// MemberID references the responsible club member
	MemberID uint `json:"member_id" gorm:"index"`

	WetWeight   float64 `json:"wet_weight"`
	WasteWeight float64 `json:"waste_weight"`
	DryWeight   float64 `json:"dry_weight"`
	THCPercent  float64 `json:"thc_percent"`
	CBDPercent  float64 `json:"cbd_percent"`

	Tags []string `json:"tags" gorm:"serializer:json"`
	Note string   `json:"note" gorm:"type:text"`

	Diary []DiaryEntry `json:"diary,omitempty" gorm:"polymorphic:Owner;polymorphicValue:harvest"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeTags drops empty strings and case-sensitive duplicates while
// preserving first-seen order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
