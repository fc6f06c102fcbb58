package model

import "time"

// Zone is a growing location. It has no behavior of its own; charges and
// plants reference it.
type Zone struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Environment string    `json:"environment" gorm:"type:varchar(100)"` // indoor|outdoor|greenhouse
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
