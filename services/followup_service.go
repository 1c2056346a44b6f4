// services/followup_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"beautycrm-backend/models"
	"beautycrm-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// FollowUpService sends the SMS reminders for interactions an advisor flagged
// for follow-up.
type FollowUpService struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewFollowUpService(db *gorm.DB) *FollowUpService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &FollowUpService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

func (s *FollowUpService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDueFollowUps()
	})

	c.Start()
	log.Println("Follow-up scheduler started")
}

// SendDueFollowUps processes every flagged interaction whose follow-up date
// has arrived and that has not already been reminded.
func (s *FollowUpService) SendDueFollowUps() {
	log.Println("Starting follow-up processing...")

	due, err := s.dueInteractions()
	if err != nil {
		log.Printf("Failed to fetch due follow-ups: %v", err)
		return
	}

	for _, interaction := range due {
		s.sendFollowUp(interaction)
	}

	log.Println("Follow-up processing completed")
}

func (s *FollowUpService) dueInteractions() ([]models.InteractionLog, error) {
	cutoff := utils.EndOfDay(time.Now())

	var interactions []models.InteractionLog
	err := s.db.
		Where("follow_up = ? AND follow_up_date IS NOT NULL AND follow_up_date <= ?", true, cutoff).
		Where("id NOT IN (?)", s.db.Model(&models.FollowUpLog{}).
			Select("interaction_log_id").
			Where("status = ?", "sent")).
		Find(&interactions).Error
	return interactions, err
}

func (s *FollowUpService) sendFollowUp(interaction models.InteractionLog) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", interaction.ClientID).Error; err != nil {
		log.Printf("Interaction %s: client lookup failed: %v", interaction.ID, err)
		return
	}

	message := fmt.Sprintf("Hola %s, te esperamos en tienda para dar seguimiento a tu última visita.", client.FirstName)
	if interaction.FollowUpNotes != "" {
		message = interaction.FollowUpNotes
	}

	entry := models.FollowUpLog{
		InteractionLogID: interaction.ID,
		ClientID:         client.ID,
		Status:           "sent",
		SentAt:           time.Now(),
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(client.PhoneNumber)
	params.SetFrom(s.from)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Printf("Interaction %s: SMS send failed: %v", interaction.ID, err)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Interaction %s: failed to record follow-up log: %v", interaction.ID, err)
	}
}
