package controllers

import (
	"net/http"
	"strconv"
	"time"

	"beautycrm-backend/config"
	"beautycrm-backend/models"
	"beautycrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KPIController computes the aggregate reports over interactions and surveys.
type KPIController struct {
	DB *gorm.DB
}

// kpiFilters are the optional query filters shared by the KPI endpoints.
// fromDate is normalized to start of day and toDate to end of day, inclusive.
type kpiFilters struct {
	fromDate  *time.Time
	toDate    *time.Time
	advisorID *uuid.UUID

	rawFrom    string
	rawTo      string
	rawAdvisor string
}

func parseKPIFilters(c *gin.Context) (*kpiFilters, bool) {
	filters := &kpiFilters{
		rawFrom:    c.Query("fromDate"),
		rawTo:      c.Query("toDate"),
		rawAdvisor: c.Query("advisorId"),
	}

	if filters.rawFrom != "" {
		t, err := utils.ParseDateParam(filters.rawFrom)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid fromDate")
			return nil, false
		}
		from := utils.BeginningOfDay(t)
		filters.fromDate = &from
	}
	if filters.rawTo != "" {
		t, err := utils.ParseDateParam(filters.rawTo)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid toDate")
			return nil, false
		}
		to := utils.EndOfDay(t)
		filters.toDate = &to
	}
	if filters.rawAdvisor != "" {
		id, err := uuid.Parse(filters.rawAdvisor)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid advisor ID format")
			return nil, false
		}
		filters.advisorID = &id
	}

	return filters, true
}

func (f *kpiFilters) hasDateRange() bool {
	return f.fromDate != nil || f.toDate != nil
}

// apply adds the filter conditions; dateColumn differs between interactions
// (created_at) and surveys (date).
func (f *kpiFilters) apply(query *gorm.DB, dateColumn string) *gorm.DB {
	if f.fromDate != nil {
		query = query.Where(dateColumn+" >= ?", *f.fromDate)
	}
	if f.toDate != nil {
		query = query.Where(dateColumn+" <= ?", *f.toDate)
	}
	if f.advisorID != nil {
		query = query.Where("advisor_id = ?", *f.advisorID)
	}
	return query
}

func (f *kpiFilters) echo() gin.H {
	echo := gin.H{"fromDate": nil, "toDate": nil, "advisorId": nil}
	if f.rawFrom != "" {
		echo["fromDate"] = f.rawFrom
	}
	if f.rawTo != "" {
		echo["toDate"] = f.rawTo
	}
	if f.rawAdvisor != "" {
		echo["advisorId"] = f.rawAdvisor
	}
	return echo
}

// GetSummary returns the headline counts, optionally filtered
func (kc *KPIController) GetSummary(c *gin.Context) {
	filters, ok := parseKPIFilters(c)
	if !ok {
		return
	}

	var totalClients int64
	if err := kc.DB.Model(&models.Client{}).Count(&totalClients).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching KPI summary", err)
		return
	}

	var totalInteractions int64
	if err := filters.apply(kc.DB.Model(&models.InteractionLog{}), "created_at").
		Count(&totalInteractions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching KPI summary", err)
		return
	}

	// Recent window only applies when the caller gave no explicit range
	recentInteractions := totalInteractions
	if !filters.hasDateRange() {
		windowStart := time.Now().AddDate(0, 0, -config.RecentWindowDays)
		query := kc.DB.Model(&models.InteractionLog{}).Where("created_at >= ?", windowStart)
		if filters.advisorID != nil {
			query = query.Where("advisor_id = ?", *filters.advisorID)
		}
		if err := query.Count(&recentInteractions).Error; err != nil {
			utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching KPI summary", err)
			return
		}
	}

	var clientsWithInteractions int64
	if err := filters.apply(kc.DB.Model(&models.InteractionLog{}), "created_at").
		Distinct("client_id").
		Count(&clientsWithInteractions).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching KPI summary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalClients":        totalClients,
		"totalInteractions":   totalInteractions,
		"recentInteractions":  recentInteractions,
		"clientsWithFollowUp": clientsWithInteractions,
		"filters":             filters.echo(),
	})
}

// GetSatisfactionScore aggregates survey results: overall average, 1-5 score
// distribution, per-category averages and the would-return percentage. An
// empty match yields an explicit all-zero payload.
func (kc *KPIController) GetSatisfactionScore(c *gin.Context) {
	filters, ok := parseKPIFilters(c)
	if !ok {
		return
	}

	var totalSurveys int64
	if err := filters.apply(kc.DB.Model(&models.SatisfactionSurvey{}), "date").
		Count(&totalSurveys).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction score", err)
		return
	}

	distribution := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}

	if totalSurveys == 0 {
		c.JSON(http.StatusOK, gin.H{
			"totalSurveys":          0,
			"averageScore":          0,
			"scoreDistribution":     distribution,
			"categoryAverages":      gin.H{"friendliness": 0, "productKnowledge": 0, "usefulRecommendations": 0},
			"wouldReturnCount":      0,
			"wouldReturnPercentage": 0,
			"filters":               filters.echo(),
		})
		return
	}

	var averages struct {
		AverageScore                 float64
		AverageFriendliness          float64
		AverageProductKnowledge      float64
		AverageUsefulRecommendations float64
		WouldReturnCount             int64
	}
	err := filters.apply(kc.DB.Model(&models.SatisfactionSurvey{}), "date").
		Select("AVG(overall_score) as average_score, "+
			"AVG(friendliness) as average_friendliness, "+
			"AVG(product_knowledge) as average_product_knowledge, "+
			"AVG(useful_recommendations) as average_useful_recommendations, "+
			"SUM(CASE WHEN would_return = ? THEN 1 ELSE 0 END) as would_return_count", models.WouldReturnYes).
		Scan(&averages).Error
	if err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction score", err)
		return
	}

	var buckets []struct {
		OverallScore int
		Count        int64
	}
	err = filters.apply(kc.DB.Model(&models.SatisfactionSurvey{}), "date").
		Select("overall_score, COUNT(*) as count").
		Group("overall_score").
		Scan(&buckets).Error
	if err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching satisfaction score", err)
		return
	}
	for _, bucket := range buckets {
		if bucket.OverallScore >= 1 && bucket.OverallScore <= 5 {
			distribution[bucket.OverallScore] = bucket.Count
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalSurveys":      totalSurveys,
		"averageScore":      averages.AverageScore,
		"scoreDistribution": distribution,
		"categoryAverages": gin.H{
			"friendliness":          averages.AverageFriendliness,
			"productKnowledge":      averages.AverageProductKnowledge,
			"usefulRecommendations": averages.AverageUsefulRecommendations,
		},
		"wouldReturnCount":      averages.WouldReturnCount,
		"wouldReturnPercentage": float64(averages.WouldReturnCount) / float64(totalSurveys) * 100,
		"filters":               filters.echo(),
	})
}

// inactiveClient is a client profile annotated with its interaction recency.
type inactiveClient struct {
	models.Client
	DaysSinceLastInteraction *int       `json:"days_since_last_interaction"`
	LastInteractionDate      *time.Time `json:"last_interaction_date"`
}

// GetInactiveClients lists every client whose latest interaction is older
// than the cutoff, or who never had one.
func (kc *KPIController) GetInactiveClients(c *gin.Context) {
	daysThreshold := config.DefaultInactiveDays
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid days value")
			return
		}
		daysThreshold = parsed
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -daysThreshold)

	var clients []models.Client
	if err := kc.DB.Find(&clients).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching inactive clients", err)
		return
	}

	// One grouped query for the latest interaction per client
	var latest []struct {
		ClientID uuid.UUID
		LastAt   time.Time
	}
	if err := kc.DB.Model(&models.InteractionLog{}).
		Select("client_id, MAX(created_at) as last_at").
		Group("client_id").
		Scan(&latest).Error; err != nil {
		utils.RespondWithErrorDetail(c, http.StatusInternalServerError, "Error fetching inactive clients", err)
		return
	}
	lastByClient := make(map[uuid.UUID]time.Time, len(latest))
	for _, entry := range latest {
		lastByClient[entry.ClientID] = entry.LastAt
	}

	inactive := []inactiveClient{}
	for _, client := range clients {
		lastAt, hasInteraction := lastByClient[client.ID]
		if hasInteraction && !lastAt.Before(cutoff) {
			continue
		}

		entry := inactiveClient{Client: client}
		if hasInteraction {
			days := int(now.Sub(lastAt).Hours() / 24)
			lastDate := lastAt
			entry.DaysSinceLastInteraction = &days
			entry.LastInteractionDate = &lastDate
		}
		inactive = append(inactive, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_clients":    len(clients),
		"inactive_clients": len(inactive),
		"days_threshold":   daysThreshold,
		"clients":          inactive,
	})
}
