package model

import "time"

// Charge is a named batch of plants grown under shared conditions. Its
// plants are materialized atomically with the charge itself and keep their
// own copies of the charge defaults, so later charge edits never cascade.
// Once a harvest has been finalized against the charge, IsHarvested locks
// every mutation except diary appends.
type Charge struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	StrainID    uint   `json:"strain_id" gorm:"index;not null"`
	ZoneID      *uint  `json:"zone_id" gorm:"index"`
	Status      Status `json:"status" gorm:"type:varchar(32);default:''"`
	Description string `json:"description" gorm:"type:text"`
	Substrate   string `json:"substrate" gorm:"type:varchar(255)"`
	Fertilizer  string `json:"fertilizer" gorm:"type:varchar(255)"`

	StageDates `gorm:"embedded"`

	// PlantAmount is the spawn count recorded at creation. It is never
	// reduced; the live plant list may grow past it.
	PlantAmount int  `json:"plant_amount" gorm:"not null"`
	IsHarvested bool `json:"is_harvested" gorm:"default:false;index"`

	Plants []Plant      `json:"plants,omitempty" gorm:"foreignKey:ChargeID"`
	Diary  []DiaryEntry `json:"diary,omitempty" gorm:"polymorphic:Owner;polymorphicValue:charge"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusTally counts the charge's plants per lifecycle status for the
// progress visualization
func (c *Charge) StatusTally() map[Status]int {
	tally := make(map[Status]int, len(Statuses))
	for _, p := range c.Plants {
		tally[p.Status]++
	}
	return tally
}
