package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"beautycrm-backend/models"
	"beautycrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientController struct {
	DB *gorm.DB
}

// ClientInput covers both create and update; pointers distinguish absent
// fields from zero values so updates keep merge semantics.
type ClientInput struct {
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	Gender        *string    `json:"gender"`
	Language      *string    `json:"language"`
	Birthday      *time.Time `json:"birthday"`
	PhoneNumber   *string    `json:"phoneNumber"`
	AgeRange      *string    `json:"ageRange"`
	Email         *string    `json:"email"`
	TermsAccepted *bool      `json:"termsAccepted"`
	ConsentGiven  *bool      `json:"consentGiven"`
	ConsentDate   *time.Time `json:"consentDate"`
	SkinType      *string    `json:"skinType"`
	SkinConcerns  *[]string  `json:"skinConcerns"`
	CurrentBrands *[]string  `json:"currentBrands"`
	Interests     *[]string  `json:"interests"`
	EventTypes    *[]string  `json:"eventTypes"`
	Preferences   *[]string  `json:"preferences"`
}

// missingRequiredFields reports the required fields the input does not carry.
// termsAccepted counts as missing when false, matching the API contract.
func missingRequiredFields(input *ClientInput) []string {
	missing := []string{}
	if input.FirstName == nil || *input.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if input.PhoneNumber == nil || *input.PhoneNumber == "" {
		missing = append(missing, "phoneNumber")
	}
	if input.Language == nil || *input.Language == "" {
		missing = append(missing, "language")
	}
	if input.TermsAccepted == nil || !*input.TermsAccepted {
		missing = append(missing, "termsAccepted")
	}
	return missing
}

// validateVocabularyLists checks every supplied list field against its
// vocabulary and responds with the offending values under the field-specific
// response key. Returns false if a response was written.
func (cc *ClientController) validateVocabularyLists(c *gin.Context, input *ClientInput) bool {
	checks := []struct {
		values     *[]string
		vocabulary []string
		message    string
		key        string
	}{
		{input.SkinConcerns, models.ValidSkinConcerns, "Invalid skin concerns provided", "invalidConcerns"},
		{input.CurrentBrands, models.ValidBrands, "Invalid brands provided", "invalidBrands"},
		{input.Interests, models.ValidInterests, "Invalid interests provided", "invalidInterests"},
		{input.EventTypes, models.ValidEventTypes, "Invalid event types provided", "invalidEventTypes"},
	}

	for _, check := range checks {
		if check.values == nil {
			continue
		}
		if invalid := models.InvalidValues(*check.values, check.vocabulary); len(invalid) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": check.message,
				check.key: invalid,
			})
			return false
		}
	}
	return true
}

// applyClientInput merges present fields into the record.
func applyClientInput(client *models.Client, input *ClientInput) {
	if input.FirstName != nil {
		client.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		client.LastName = *input.LastName
	}
	if input.Gender != nil {
		client.Gender = *input.Gender
	}
	if input.Language != nil {
		client.Language = *input.Language
	}
	if input.Birthday != nil {
		client.Birthday = input.Birthday
	}
	if input.PhoneNumber != nil {
		client.PhoneNumber = *input.PhoneNumber
	}
	if input.AgeRange != nil {
		client.AgeRange = *input.AgeRange
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			// Stored as NULL so the unique index never collides on absent emails
			client.Email = nil
		} else {
			client.Email = &email
		}
	}
	if input.TermsAccepted != nil {
		client.TermsAccepted = *input.TermsAccepted
	}
	if input.ConsentGiven != nil {
		client.ConsentGiven = *input.ConsentGiven
	}
	if input.ConsentDate != nil {
		client.ConsentDate = input.ConsentDate
	}
	if input.SkinType != nil {
		client.SkinType = *input.SkinType
	}
	if input.SkinConcerns != nil {
		client.SkinConcerns = *input.SkinConcerns
	}
	if input.CurrentBrands != nil {
		client.CurrentBrands = *input.CurrentBrands
	}
	if input.Interests != nil {
		client.Interests = *input.Interests
	}
	if input.EventTypes != nil {
		client.EventTypes = *input.EventTypes
	}
	if input.Preferences != nil {
		client.Preferences = *input.Preferences
	}
}

// emailTaken reports whether another client already owns this email.
func (cc *ClientController) emailTaken(email string, exclude uuid.UUID) (bool, error) {
	var existing models.Client
	err := cc.DB.Where("email = ? AND id <> ?", email, exclude).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CreateClient registers a new client profile
func (cc *ClientController) CreateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if missing := missingRequiredFields(&input); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields",
			"fields":  missing,
		})
		return
	}

	if !cc.validateVocabularyLists(c, &input) {
		return
	}

	client := models.Client{Tier: models.TierNew}
	applyClientInput(&client, &input)

	if fieldErrs := models.ValidateClient(&client); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	if client.Email != nil && *client.Email != "" {
		taken, err := cc.emailTaken(*client.Email, uuid.Nil)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if taken {
			utils.RespondWithError(c, http.StatusBadRequest, "Duplicate field value entered")
			return
		}
	}

	if err := cc.DB.Create(&client).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error creating client", err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients returns every client profile
func (cc *ClientController) GetClients(c *gin.Context) {
	var clients []models.Client
	if err := cc.DB.Find(&clients).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching clients", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient returns a single client by id
func (cc *ClientController) GetClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching client", err)
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient merges the supplied fields into the profile
func (cc *ClientController) UpdateClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Supplied required fields must not be cleared
	if input.TermsAccepted != nil && !*input.TermsAccepted {
		utils.RespondWithError(c, http.StatusBadRequest, "Terms and conditions must be accepted")
		return
	}

	if !cc.validateVocabularyLists(c, &input) {
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching client", err)
		}
		return
	}

	applyClientInput(&client, &input)

	if fieldErrs := models.ValidateClient(&client); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	if input.Email != nil && client.Email != nil && *client.Email != "" {
		taken, err := cc.emailTaken(*client.Email, client.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if taken {
			utils.RespondWithError(c, http.StatusBadRequest, "Duplicate field value entered")
			return
		}
	}

	if err := cc.DB.Save(&client).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error updating client", err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes the client and cascades to interactions, their stored
// files, and surveys. Cascade steps are sequential with no rollback; the
// response reports what was actually removed.
func (cc *ClientController) DeleteClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching client", err)
		}
		return
	}

	var interactions []models.InteractionLog
	if err := cc.DB.Preload("Files").Where("client_id = ?", clientID).Find(&interactions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interactions", err)
		return
	}

	deletedFiles := 0
	for _, interaction := range interactions {
		if interaction.ProductPhoto != "" {
			utils.RemoveFile(interaction.ProductPhoto)
			deletedFiles++
		}
		for _, file := range interaction.Files {
			utils.RemoveFile(file.Path)
			deletedFiles++
		}
		if err := cc.DB.Where("interaction_log_id = ?", interaction.ID).Delete(&models.InteractionFile{}).Error; err != nil {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting interaction files", err)
			return
		}
	}

	interactionResult := cc.DB.Where("client_id = ?", clientID).Delete(&models.InteractionLog{})
	if interactionResult.Error != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting interactions", interactionResult.Error)
		return
	}

	surveyResult := cc.DB.Where("client_id = ?", clientID).Delete(&models.SatisfactionSurvey{})
	if surveyResult.Error != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting surveys", surveyResult.Error)
		return
	}

	if err := cc.DB.Delete(&client).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting client", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Client deleted successfully",
		"deletedInteractions": interactionResult.RowsAffected,
		"deletedFiles":        deletedFiles,
		"deletedSurveys":      surveyResult.RowsAffected,
	})
}

// AnonymizeClient overwrites PII with fixed placeholders while keeping the
// record's primary key and shape. Irreversible, and idempotent.
func (cc *ClientController) AnonymizeClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching client", err)
		}
		return
	}

	placeholderBirthday := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

	client.FirstName = "Anonymous"
	client.LastName = "Client"
	client.Gender = "N/A"
	client.PhoneNumber = "0000000000"
	client.Email = nil
	client.Preferences = models.StringArray{}
	client.Birthday = &placeholderBirthday
	client.ConsentGiven = false
	client.ConsentDate = nil
	client.TermsAccepted = false
	client.SkinType = ""
	client.SkinConcerns = models.StringArray{}
	client.CurrentBrands = models.StringArray{}
	client.Interests = models.StringArray{}
	client.EventTypes = models.StringArray{}

	// Save bypasses validation on purpose: the placeholder state is not a
	// valid registration, but it is the contract for anonymized records.
	if err := cc.DB.Save(&client).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error anonymizing client data", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client data anonymized successfully",
		"client": gin.H{
			"id":            client.ID,
			"firstName":     client.FirstName,
			"lastName":      client.LastName,
			"gender":        client.Gender,
			"phoneNumber":   client.PhoneNumber,
			"email":         client.Email,
			"preferences":   client.Preferences,
			"birthday":      client.Birthday,
			"consentGiven":  client.ConsentGiven,
			"consentDate":   client.ConsentDate,
			"termsAccepted": client.TermsAccepted,
			"skinType":      client.SkinType,
			"skinConcerns":  client.SkinConcerns,
			"currentBrands": client.CurrentBrands,
			"interests":     client.Interests,
			"eventTypes":    client.EventTypes,
		},
	})
}
