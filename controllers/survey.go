package controllers

import (
	"errors"
	"net/http"
	"time"

	"beautycrm-backend/models"
	"beautycrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SurveyController struct {
	DB *gorm.DB
}

// SurveyResponses is the structured response set every survey carries.
type SurveyResponses struct {
	Friendliness          *int    `json:"friendliness"`
	ProductKnowledge      *int    `json:"productKnowledge"`
	UsefulRecommendations *int    `json:"usefulRecommendations"`
	WouldReturn           *string `json:"wouldReturn"`
}

type SurveyInput struct {
	ClientID      *uuid.UUID       `json:"clientId"`
	InteractionID *uuid.UUID       `json:"interactionId"`
	OverallScore  *int             `json:"overallScore"`
	Responses     *SurveyResponses `json:"responses"`
	Comments      *string          `json:"comments"`
}

func missingResponses(r *SurveyResponses) []string {
	missing := []string{}
	if r.Friendliness == nil {
		missing = append(missing, "friendliness")
	}
	if r.ProductKnowledge == nil {
		missing = append(missing, "productKnowledge")
	}
	if r.UsefulRecommendations == nil {
		missing = append(missing, "usefulRecommendations")
	}
	if r.WouldReturn == nil {
		missing = append(missing, "wouldReturn")
	}
	return missing
}

func applySurveyResponses(survey *models.SatisfactionSurvey, r *SurveyResponses) {
	if r.Friendliness != nil {
		survey.Friendliness = *r.Friendliness
	}
	if r.ProductKnowledge != nil {
		survey.ProductKnowledge = *r.ProductKnowledge
	}
	if r.UsefulRecommendations != nil {
		survey.UsefulRecommendations = *r.UsefulRecommendations
	}
	if r.WouldReturn != nil {
		survey.WouldReturn = *r.WouldReturn
	}
}

// CreateSurvey records a post-interaction rating. The authenticated advisor
// is stamped as the author.
func (sc *SurveyController) CreateSurvey(c *gin.Context) {
	var input SurveyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	missing := []string{}
	if input.ClientID == nil {
		missing = append(missing, "clientId")
	}
	if input.OverallScore == nil {
		missing = append(missing, "overallScore")
	}
	if input.Responses == nil {
		missing = append(missing, "responses")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields",
			"fields":  missing,
		})
		return
	}

	if missingResp := missingResponses(input.Responses); len(missingResp) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required responses",
			"fields":  missingResp,
		})
		return
	}

	var client models.Client
	if err := sc.DB.First(&client, "id = ?", *input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Database error", err)
		}
		return
	}

	survey := models.SatisfactionSurvey{
		ClientID:      *input.ClientID,
		InteractionID: input.InteractionID,
		OverallScore:  *input.OverallScore,
		Date:          time.Now(),
	}
	applySurveyResponses(&survey, input.Responses)
	if input.Comments != nil {
		survey.Comments = *input.Comments
	}

	if userID, exists := c.Get("userId"); exists {
		if str, ok := userID.(string); ok {
			if advisorID, err := uuid.Parse(str); err == nil {
				survey.AdvisorID = advisorID
			}
		}
	}

	if fieldErrs := models.ValidateSurvey(&survey); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	if err := sc.DB.Create(&survey).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error creating satisfaction survey", err)
		return
	}

	c.JSON(http.StatusCreated, survey)
}

// GetSurveys returns every survey
func (sc *SurveyController) GetSurveys(c *gin.Context) {
	var surveys []models.SatisfactionSurvey
	if err := sc.DB.Order("date DESC").Find(&surveys).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction surveys", err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

// GetClientSurveys returns the surveys for one client
func (sc *SurveyController) GetClientSurveys(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var surveys []models.SatisfactionSurvey
	if err := sc.DB.Where("client_id = ?", clientID).Order("date DESC").Find(&surveys).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching client satisfaction surveys", err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

// GetSurvey returns a single survey by id
func (sc *SurveyController) GetSurvey(c *gin.Context) {
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var survey models.SatisfactionSurvey
	if err := sc.DB.First(&survey, "id = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Satisfaction survey not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction survey", err)
		}
		return
	}

	c.JSON(http.StatusOK, survey)
}

// GetSurveyByInteraction returns the survey attached to an interaction
func (sc *SurveyController) GetSurveyByInteraction(c *gin.Context) {
	interactionID, err := uuid.Parse(c.Param("interactionId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var survey models.SatisfactionSurvey
	if err := sc.DB.First(&survey, "interaction_id = ?", interactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Satisfaction survey not found for this interaction")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction survey", err)
		}
		return
	}

	c.JSON(http.StatusOK, survey)
}

// UpdateSurvey re-validates the structured responses if supplied
func (sc *SurveyController) UpdateSurvey(c *gin.Context) {
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var input SurveyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Responses != nil {
		if missingResp := missingResponses(input.Responses); len(missingResp) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Missing required responses",
				"fields":  missingResp,
			})
			return
		}
	}

	var survey models.SatisfactionSurvey
	if err := sc.DB.First(&survey, "id = ?", surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Satisfaction survey not found")
		} else {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction survey", err)
		}
		return
	}

	if input.OverallScore != nil {
		survey.OverallScore = *input.OverallScore
	}
	if input.Responses != nil {
		applySurveyResponses(&survey, input.Responses)
	}
	if input.Comments != nil {
		survey.Comments = *input.Comments
	}

	if fieldErrs := models.ValidateSurvey(&survey); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error",
			"errors":  fieldErrs,
		})
		return
	}

	if err := sc.DB.Save(&survey).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusBadRequest, "Error updating satisfaction survey", err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// DeleteSurvey removes a survey. Never cascades.
func (sc *SurveyController) DeleteSurvey(c *gin.Context) {
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	result := sc.DB.Where("id = ?", surveyID).Delete(&models.SatisfactionSurvey{})
	if result.Error != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error deleting satisfaction survey", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Satisfaction survey not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Satisfaction survey deleted successfully"})
}

// GetSurveyStats aggregates survey scores with optional date range and
// advisor filters
func (sc *SurveyController) GetSurveyStats(c *gin.Context) {
	filters, ok := parseKPIFilters(c)
	if !ok {
		return
	}
	query := filters.apply(sc.DB.Model(&models.SatisfactionSurvey{}), "date")

	var stats struct {
		AverageOverallScore          float64 `json:"averageOverallScore"`
		AverageFriendliness          float64 `json:"averageFriendliness"`
		AverageProductKnowledge      float64 `json:"averageProductKnowledge"`
		AverageUsefulRecommendations float64 `json:"averageUsefulRecommendations"`
		WouldReturnCount             int64   `json:"wouldReturnCount"`
		TotalSurveys                 int64   `json:"totalSurveys"`
	}

	err := query.Select(
		"COALESCE(AVG(overall_score), 0) as average_overall_score, "+
			"COALESCE(AVG(friendliness), 0) as average_friendliness, "+
			"COALESCE(AVG(product_knowledge), 0) as average_product_knowledge, "+
			"COALESCE(AVG(useful_recommendations), 0) as average_useful_recommendations, "+
			"COALESCE(SUM(CASE WHEN would_return = ? THEN 1 ELSE 0 END), 0) as would_return_count, "+
			"COUNT(*) as total_surveys", models.WouldReturnYes).
		Scan(&stats).Error
	if err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching survey statistics", err)
		return
	}

	wouldReturnPercentage := 0.0
	if stats.TotalSurveys > 0 {
		wouldReturnPercentage = float64(stats.WouldReturnCount) / float64(stats.TotalSurveys) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"averageOverallScore":          stats.AverageOverallScore,
		"averageFriendliness":          stats.AverageFriendliness,
		"averageProductKnowledge":      stats.AverageProductKnowledge,
		"averageUsefulRecommendations": stats.AverageUsefulRecommendations,
		"wouldReturnCount":             stats.WouldReturnCount,
		"wouldReturnPercentage":        wouldReturnPercentage,
		"totalSurveys":                 stats.TotalSurveys,
	})
}
