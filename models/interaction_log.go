package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advisor actions recorded on an interaction
var ValidActions = []string{"consult", "try", "purchase", "return", "recommendation"}

type InteractionLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	AdvisorID uuid.UUID `gorm:"type:uuid;index;not null" json:"advisorId"`

	Action       string `gorm:"type:varchar(20)" json:"action"`
	ProductSKU   string `json:"productSku"`
	ProductName  string `json:"productName"`
	ProductBrand string `json:"productBrand"`
	ProductPhoto string `json:"productPhoto"`

	Files []InteractionFile `gorm:"foreignKey:InteractionLogID" json:"files"`

	Notes           string     `gorm:"type:text;not null" json:"notes"`
	Location        string     `json:"location"`
	DurationMinutes int        `json:"durationMinutes"`
	FollowUp        bool       `gorm:"default:false" json:"followUp"`
	FollowUpDate    *time.Time `json:"followUpDate"`
	FollowUpNotes   string     `json:"followUpNotes"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (i *InteractionLog) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InteractionFile is one stored attachment. Files have no lifecycle of their
// own: they are created with their interaction and removed with it.
type InteractionFile struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InteractionLogID uuid.UUID `gorm:"type:uuid;index;not null" json:"interactionLogId"`
	FileName         string    `gorm:"not null" json:"fileName"`
	Path             string    `gorm:"not null" json:"path"`
	MimeType         string    `json:"mimeType"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (f *InteractionFile) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
