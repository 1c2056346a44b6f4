package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allowed answers to the would-return question
var ValidWouldReturn = []string{"Sí", "No", "Tal vez"}

// WouldReturnYes is the affirmative answer counted by the KPI aggregates.
const WouldReturnYes = "Sí"

type SatisfactionSurvey struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SurveyID string    `gorm:"uniqueIndex;not null" json:"surveyId"`

	ClientID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	AdvisorID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"advisorId"`
	InteractionID *uuid.UUID `gorm:"type:uuid;index" json:"interactionId"`

	Date time.Time `gorm:"index;not null" json:"date"`

	OverallScore          int    `gorm:"not null" json:"overallScore"`
	Friendliness          int    `gorm:"not null" json:"friendliness"`
	ProductKnowledge      int    `gorm:"not null" json:"productKnowledge"`
	UsefulRecommendations int    `gorm:"not null" json:"usefulRecommendations"`
	WouldReturn           string `gorm:"type:varchar(10);not null" json:"wouldReturn"`

	Comments string `gorm:"type:text" json:"comments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *SatisfactionSurvey) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SurveyID == "" {
		s.SurveyID = uuid.NewString()
	}
	if s.Date.IsZero() {
		s.Date = time.Now()
	}
	return
}
