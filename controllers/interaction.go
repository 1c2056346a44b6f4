package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"beautycrm-backend/config"
	"beautycrm-backend/models"
	"beautycrm-backend/services"
	"beautycrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionController struct {
	DB *gorm.DB
}

// interactionForm reads the scalar multipart fields; presence flags keep
// merge semantics on update.
type interactionForm struct {
	clientID      *uuid.UUID
	advisorID     *uuid.UUID
	action        *string
	productSKU    *string
	productName   *string
	productBrand  *string
	notes         *string
	location      *string
	duration      *int
	followUp      *bool
	followUpDate  *time.Time
	followUpNotes *string
}

func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func parseInteractionForm(c *gin.Context) (*interactionForm, error) {
	form := &interactionForm{
		action:        formString(c, "action"),
		productSKU:    formString(c, "productSku"),
		productName:   formString(c, "productName"),
		productBrand:  formString(c, "productBrand"),
		notes:         formString(c, "notes"),
		location:      formString(c, "location"),
		followUpNotes: formString(c, "followUpNotes"),
	}

	if v, ok := c.GetPostForm("clientId"); ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("Invalid client ID format")
		}
		form.clientID = &id
	}
	if v, ok := c.GetPostForm("advisorId"); ok {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("Invalid advisor ID format")
		}
		form.advisorID = &id
	}
	if v, ok := c.GetPostForm("durationMinutes"); ok {
		d, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("Invalid duration value")
		}
		form.duration = &d
	}
	if v, ok := c.GetPostForm("followUp"); ok {
		f, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("Invalid follow-up value")
		}
		form.followUp = &f
	}
	if v, ok := c.GetPostForm("followUpDate"); ok {
		t, err := utils.ParseDateParam(v)
		if err != nil {
			return nil, errors.New("Invalid follow-up date")
		}
		form.followUpDate = &t
	}

	return form, nil
}

func applyInteractionForm(interaction *models.InteractionLog, form *interactionForm) {
	if form.clientID != nil {
		interaction.ClientID = *form.clientID
	}
	if form.advisorID != nil {
		interaction.AdvisorID = *form.advisorID
	}
	if form.action != nil {
		interaction.Action = *form.action
	}
	if form.productSKU != nil {
		interaction.ProductSKU = *form.productSKU
	}
	if form.productName != nil {
		interaction.ProductName = *form.productName
	}
	if form.productBrand != nil {
		interaction.ProductBrand = *form.productBrand
	}
	if form.notes != nil {
		interaction.Notes = *form.notes
	}
	if form.location != nil {
		interaction.Location = *form.location
	}
	if form.duration != nil {
		interaction.DurationMinutes = *form.duration
	}
	if form.followUp != nil {
		interaction.FollowUp = *form.followUp
	}
	if form.followUpDate != nil {
		interaction.FollowUpDate = form.followUpDate
	}
	if form.followUpNotes != nil {
		interaction.FollowUpNotes = *form.followUpNotes
	}
}

// uploadedFiles validates the product photo and attachments before anything
// touches disk, so a rejected upload never leaves stray files.
func uploadedFiles(c *gin.Context) (photo *multipart.FileHeader, attachments []*multipart.FileHeader, err error) {
	form, formErr := c.MultipartForm()
	if formErr != nil {
		// No multipart body at all is fine; fields may arrive urlencoded
		return nil, nil, nil
	}

	if photos := form.File["productPhoto"]; len(photos) > 0 {
		if len(photos) > 1 {
			return nil, nil, &utils.UploadError{Message: "Only one product photo is allowed"}
		}
		photo = photos[0]
		if err := utils.ValidateProductPhoto(photo); err != nil {
			return nil, nil, err
		}
	}

	attachments = form.File["files"]
	if len(attachments) > config.MaxFilesPerUpload {
		return nil, nil, &utils.UploadError{Message: "A maximum of 5 files can be attached"}
	}
	for _, file := range attachments {
		if err := utils.ValidateAttachment(file); err != nil {
			return nil, nil, err
		}
	}

	return photo, attachments, nil
}

func (ic *InteractionController) advisorFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := userID.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CreateInteraction records one advisor-client touchpoint, with an optional
// product photo and up to five attachments. Files already written for a
// request that later fails validation are removed before the error returns.
func (ic *InteractionController) CreateInteraction(c *gin.Context) {
	form, err := parseInteractionForm(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo, attachments, err := uploadedFiles(c)
	if err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "File upload error", err)
		return
	}

	interaction := models.InteractionLog{}
	applyInteractionForm(&interaction, form)

	if interaction.AdvisorID == uuid.Nil {
		if advisorID, ok := ic.advisorFromContext(c); ok {
			interaction.AdvisorID = advisorID
		}
	}

	// Store uploads, then validate; cleanup removes them on any failure
	saved := []string{}
	cleanup := func() { utils.RemoveFiles(saved) }

	if photo != nil {
		path, err := utils.SaveUploadedFile(c, photo)
		if err != nil {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Failed to store product photo", err)
			return
		}
		saved = append(saved, path)
		interaction.ProductPhoto = path
	}
	for _, file := range attachments {
		path, err := utils.SaveUploadedFile(c, file)
		if err != nil {
			cleanup()
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Failed to store file", err)
			return
		}
		saved = append(saved, path)
		interaction.Files = append(interaction.Files, models.InteractionFile{
			FileName: file.Filename,
			Path:     path,
			MimeType: file.Header.Get("Content-Type"),
			Size:     file.Size,
		})
	}

	if interaction.ClientID == uuid.Nil {
		cleanup()
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields",
			"fields":  []string{"clientId"},
		})
		return
	}

	var client models.Client
	if err := ic.DB.First(&client, "id = ?", interaction.ClientID).Error; err != nil {
		cleanup()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Database error", err)
		}
		return
	}

	if fieldErrs := models.ValidateInteraction(&interaction); len(fieldErrs) > 0 {
		cleanup()
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	if err := ic.DB.Create(&interaction).Error; err != nil {
		cleanup()
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error creating interaction log", err)
		return
	}

	// Explicit post-write side effect: the owning client's tier follows its
	// interaction count.
	if _, err := services.RecomputeClientTier(ic.DB, interaction.ClientID); err != nil {
		log.Printf("Failed to recompute tier for client %s: %v", interaction.ClientID, err)
	}

	c.JSON(http.StatusCreated, interaction)
}

// GetInteractions returns every interaction log
func (ic *InteractionController) GetInteractions(c *gin.Context) {
	var interactions []models.InteractionLog
	if err := ic.DB.Preload("Files").Order("created_at DESC").Find(&interactions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interactions", err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

// GetClientInteractions returns the interactions for one client
func (ic *InteractionController) GetClientInteractions(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var interactions []models.InteractionLog
	if err := ic.DB.Preload("Files").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&interactions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interactions", err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

// GetAdvisorInteractions returns the interactions logged by one advisor
func (ic *InteractionController) GetAdvisorInteractions(c *gin.Context) {
	advisorID, err := uuid.Parse(c.Param("advisorId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var interactions []models.InteractionLog
	if err := ic.DB.Preload("Files").
		Where("advisor_id = ?", advisorID).
		Order("created_at DESC").
		Find(&interactions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interactions", err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

// GetInteraction returns a single interaction log
func (ic *InteractionController) GetInteraction(c *gin.Context) {
	interactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var interaction models.InteractionLog
	if err := ic.DB.Preload("Files").First(&interaction, "id = ?", interactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Interaction not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interaction", err)
		}
		return
	}

	c.JSON(http.StatusOK, interaction)
}

// UpdateInteraction replaces any subset of fields. A new product photo
// replaces and deletes the prior one; any new attachments replace and delete
// all prior attachments.
func (ic *InteractionController) UpdateInteraction(c *gin.Context) {
	interactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var interaction models.InteractionLog
	if err := ic.DB.Preload("Files").First(&interaction, "id = ?", interactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Interaction not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interaction", err)
		}
		return
	}

	form, err := parseInteractionForm(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo, attachments, err := uploadedFiles(c)
	if err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "File upload error", err)
		return
	}

	oldPhoto := interaction.ProductPhoto
	oldFiles := interaction.Files

	merged := interaction
	applyInteractionForm(&merged, form)

	if form.clientID != nil && *form.clientID != interaction.ClientID {
		var client models.Client
		if err := ic.DB.First(&client, "id = ?", *form.clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			} else {
				utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Database error", err)
			}
			return
		}
	}

	if fieldErrs := models.ValidateInteraction(&merged); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	// Validation passed; now store replacements
	saved := []string{}
	cleanup := func() { utils.RemoveFiles(saved) }

	if photo != nil {
		path, err := utils.SaveUploadedFile(c, photo)
		if err != nil {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Failed to store product photo", err)
			return
		}
		saved = append(saved, path)
		merged.ProductPhoto = path
	}

	var newFiles []models.InteractionFile
	for _, file := range attachments {
		path, err := utils.SaveUploadedFile(c, file)
		if err != nil {
			cleanup()
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Failed to store file", err)
			return
		}
		saved = append(saved, path)
		newFiles = append(newFiles, models.InteractionFile{
			InteractionLogID: interaction.ID,
			FileName:         file.Filename,
			Path:             path,
			MimeType:         file.Header.Get("Content-Type"),
			Size:             file.Size,
		})
	}

	merged.Files = nil
	if err := ic.DB.Omit("Files").Save(&merged).Error; err != nil {
		cleanup()
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error updating interaction log", err)
		return
	}

	if len(newFiles) > 0 {
		if err := ic.DB.Where("interaction_log_id = ?", interaction.ID).Delete(&models.InteractionFile{}).Error; err != nil {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error replacing files", err)
			return
		}
		if err := ic.DB.Create(&newFiles).Error; err != nil {
			cleanup()
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error storing files", err)
			return
		}
		for _, old := range oldFiles {
			utils.RemoveFile(old.Path)
		}
		merged.Files = newFiles
	} else {
		merged.Files = oldFiles
	}

	if photo != nil && oldPhoto != "" {
		utils.RemoveFile(oldPhoto)
	}

	c.JSON(http.StatusOK, merged)
}

// DeleteInteraction removes the record and every file it owns
func (ic *InteractionController) DeleteInteraction(c *gin.Context) {
	interactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var interaction models.InteractionLog
	if err := ic.DB.Preload("Files").First(&interaction, "id = ?", interactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Interaction not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching interaction", err)
		}
		return
	}

	utils.RemoveFile(interaction.ProductPhoto)
	for _, file := range interaction.Files {
		utils.RemoveFile(file.Path)
	}

	if err := ic.DB.Where("interaction_log_id = ?", interaction.ID).Delete(&models.InteractionFile{}).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting interaction files", err)
		return
	}
	if err := ic.DB.Delete(&interaction).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting interaction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interaction deleted successfully"})
}
