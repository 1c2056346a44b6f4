package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowUpLog records one attempt to send a follow-up SMS for an interaction.
type FollowUpLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	InteractionLogID uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Status           string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage     string    `gorm:"type:text"`
	SentAt           time.Time
}

func (f *FollowUpLog) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
