package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"beautycrm-backend/controllers"
	"beautycrm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func kpiRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	kc := &controllers.KPIController{DB: db}
	r.Use(authAs(uuid.New(), models.RoleAdmin))
	r.GET("/api/kpis/summary", kc.GetSummary)
	r.GET("/api/kpis/satisfaction-score", kc.GetSatisfactionScore)
	r.GET("/api/kpis/inactive-clients", kc.GetInactiveClients)
	return r
}

func interactionAt(t *testing.T, db *gorm.DB, clientID, advisorID uuid.UUID, at time.Time) models.InteractionLog {
	t.Helper()
	interaction := models.InteractionLog{
		ClientID:  clientID,
		AdvisorID: advisorID,
		Notes:     "visita",
		CreatedAt: at,
	}
	require.NoError(t, db.Create(&interaction).Error)
	return interaction
}

func TestSummaryCounts(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)
	advisor := createTestAdvisor(t, db, models.RoleAdvisor)
	clientA := createTestClient(t, db)
	clientB := createTestClient(t, db)
	createTestClient(t, db) // client with no interactions

	now := time.Now()
	interactionAt(t, db, clientA.ID, advisor.ID, now.AddDate(0, 0, -1))
	interactionAt(t, db, clientA.ID, advisor.ID, now.AddDate(0, 0, -10))
	interactionAt(t, db, clientB.ID, advisor.ID, now.AddDate(0, 0, -90))

	w := doJSON(t, r, "GET", "/api/kpis/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["totalClients"])
	assert.Equal(t, float64(3), body["totalInteractions"])
	assert.Equal(t, float64(2), body["recentInteractions"], "only interactions inside the 30-day window")
	assert.Equal(t, float64(2), body["clientsWithFollowUp"])

	filters := body["filters"].(map[string]interface{})
	assert.Nil(t, filters["fromDate"])
	assert.Nil(t, filters["toDate"])
	assert.Nil(t, filters["advisorId"])
}

func TestSummaryAllTimeRangeMatchesUnfiltered(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)
	advisor := createTestAdvisor(t, db, models.RoleAdvisor)
	client := createTestClient(t, db)

	now := time.Now()
	interactionAt(t, db, client.ID, advisor.ID, now.AddDate(0, 0, -200))
	interactionAt(t, db, client.ID, advisor.ID, now.AddDate(0, 0, -5))

	unfiltered := decodeBody(t, doJSON(t, r, "GET", "/api/kpis/summary", nil))

	from := now.AddDate(-1, 0, 0).Format("2006-01-02")
	to := now.Format("2006-01-02")
	path := fmt.Sprintf("/api/kpis/summary?fromDate=%s&toDate=%s", from, to)
	filtered := decodeBody(t, doJSON(t, r, "GET", path, nil))

	assert.Equal(t, unfiltered["totalClients"], filtered["totalClients"])
	assert.Equal(t, unfiltered["totalInteractions"], filtered["totalInteractions"])
	assert.Equal(t, unfiltered["clientsWithFollowUp"], filtered["clientsWithFollowUp"])
	// With an explicit range the recent figure equals the filtered total
	assert.Equal(t, filtered["totalInteractions"], filtered["recentInteractions"])
}

func TestSummaryAdvisorFilter(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)
	advisorA := createTestAdvisor(t, db, models.RoleAdvisor)
	advisorB := createTestAdvisor(t, db, models.RoleAdvisor)
	client := createTestClient(t, db)

	now := time.Now()
	interactionAt(t, db, client.ID, advisorA.ID, now.AddDate(0, 0, -1))
	interactionAt(t, db, client.ID, advisorB.ID, now.AddDate(0, 0, -1))
	interactionAt(t, db, client.ID, advisorB.ID, now.AddDate(0, 0, -2))

	body := decodeBody(t, doJSON(t, r, "GET", "/api/kpis/summary?advisorId="+advisorB.ID.String(), nil))
	assert.Equal(t, float64(2), body["totalInteractions"])

	filters := body["filters"].(map[string]interface{})
	assert.Equal(t, advisorB.ID.String(), filters["advisorId"])
}

func TestSatisfactionScoreExample(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)
	advisor := createTestAdvisor(t, db, models.RoleAdvisor)
	client := createTestClient(t, db)

	survey := models.SatisfactionSurvey{
		ClientID: client.ID, AdvisorID: advisor.ID,
		OverallScore: 5, Friendliness: 5, ProductKnowledge: 5, UsefulRecommendations: 5,
		WouldReturn: "Sí",
	}
	require.NoError(t, db.Create(&survey).Error)

	w := doJSON(t, r, "GET", "/api/kpis/satisfaction-score", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.Equal(t, float64(5), body["averageScore"])
	assert.Equal(t, float64(100), body["wouldReturnPercentage"])
	assert.Equal(t, float64(1), body["totalSurveys"])

	distribution := body["scoreDistribution"].(map[string]interface{})
	assert.Equal(t, float64(0), distribution["1"])
	assert.Equal(t, float64(0), distribution["2"])
	assert.Equal(t, float64(0), distribution["3"])
	assert.Equal(t, float64(0), distribution["4"])
	assert.Equal(t, float64(1), distribution["5"])

	categories := body["categoryAverages"].(map[string]interface{})
	assert.Equal(t, float64(5), categories["friendliness"])
	assert.Equal(t, float64(5), categories["productKnowledge"])
	assert.Equal(t, float64(5), categories["usefulRecommendations"])
}

func TestSatisfactionScoreEmptyPayload(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)

	w := doJSON(t, r, "GET", "/api/kpis/satisfaction-score", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, float64(0), body["totalSurveys"])
	assert.Equal(t, float64(0), body["averageScore"])
	assert.Equal(t, float64(0), body["wouldReturnPercentage"])
	distribution := body["scoreDistribution"].(map[string]interface{})
	for _, key := range []string{"1", "2", "3", "4", "5"} {
		assert.Equal(t, float64(0), distribution[key])
	}
}

func TestInactiveClients(t *testing.T) {
	db := setupTestDB(t)
	r := kpiRouter(db)
	advisor := createTestAdvisor(t, db, models.RoleAdvisor)
	stale := createTestClient(t, db)
	active := createTestClient(t, db)
	never := createTestClient(t, db)

	now := time.Now()
	interactionAt(t, db, stale.ID, advisor.ID, now.AddDate(0, 0, -45))
	interactionAt(t, db, active.ID, advisor.ID, now.AddDate(0, 0, -10))

	w := doJSON(t, r, "GET", "/api/kpis/inactive-clients?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.Equal(t, float64(3), body["total_clients"])
	assert.Equal(t, float64(2), body["inactive_clients"])
	assert.Equal(t, float64(30), body["days_threshold"])

	clients := body["clients"].([]interface{})
	byID := map[string]map[string]interface{}{}
	for _, raw := range clients {
		entry := raw.(map[string]interface{})
		byID[entry["id"].(string)] = entry
	}

	require.Contains(t, byID, stale.ID.String())
	staleEntry := byID[stale.ID.String()]
	assert.Equal(t, float64(45), staleEntry["days_since_last_interaction"])
	assert.NotNil(t, staleEntry["last_interaction_date"])

	require.Contains(t, byID, never.ID.String())
	neverEntry := byID[never.ID.String()]
	assert.Nil(t, neverEntry["days_since_last_interaction"])
	assert.Nil(t, neverEntry["last_interaction_date"])

	assert.NotContains(t, byID, active.ID.String(), "recently active client excluded")
}
