package model

import "time"

// Diary owner kinds
const (
	OwnerTypeCharge  = "charge"
	OwnerTypePlant   = "plant"
	OwnerTypeHarvest = "harvest"
)

// DiaryEntry is one append-only journal note attached to a Charge, Plant or
// Harvest. Entries are never edited or deleted, and appending stays allowed
// after the owner has been harvested.
type DiaryEntry struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	OwnerType string `json:"owner_type" gorm:"type:varchar(16);index:idx_diary_owner;not null"`
	OwnerID   uint   `json:"owner_id" gorm:"index:idx_diary_owner;not null"`
	// AuthorID references the club member who wrote the entry
	AuthorID uint   `json:"author_id" gorm:"index"`
	Content  string `json:"content" gorm:"type:text;not null"`
	// Attachments holds opaque references to uploaded images or documents;
	// upload and storage live outside this service
	Attachments []string `json:"attachments,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
}
