package grow

import (
	"grow-service/internal/model"

	"gorm.io/gorm"
)

// AppendDiary appends a journal entry to a charge, plant or harvest. The
// harvest lock does not apply: post-harvest notes stay possible, which is
// the only mutation a frozen record accepts.
func AppendDiary(db *gorm.DB, ownerType string, ownerID, authorID uint, content string, attachments []string) (*model.DiaryEntry, error) {
	if content == "" {
		return nil, model.NewValidationError("content", "content must not be empty")
	}

	switch ownerType {
	case model.OwnerTypeCharge:
		if _, err := GetCharge(db, ownerID); err != nil {
			return nil, err
		}
	case model.OwnerTypePlant:
		if _, err := GetPlant(db, ownerID); err != nil {
			return nil, err
		}
	case model.OwnerTypeHarvest:
		if _, err := GetHarvest(db, ownerID); err != nil {
			return nil, err
		}
	default:
		return nil, model.NewValidationError("owner_type", "unknown diary owner "+ownerType)
	}

	entry := model.DiaryEntry{
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		AuthorID:    authorID,
		Content:     content,
		Attachments: attachments,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
