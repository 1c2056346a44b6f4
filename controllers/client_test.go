package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"beautycrm-backend/controllers"
	"beautycrm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func clientRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	cc := &controllers.ClientController{DB: db}
	admin := uuid.New()
	r.Use(authAs(admin, models.RoleAdmin))
	r.POST("/api/clients", cc.CreateClient)
	r.GET("/api/clients", cc.GetClients)
	r.GET("/api/clients/:id", cc.GetClient)
	r.PUT("/api/clients/:id", cc.UpdateClient)
	r.DELETE("/api/clients/:id", cc.DeleteClient)
	r.PUT("/api/clients/:id/anonymize", cc.AnonymizeClient)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateClientMissingFields(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	w := doJSON(t, r, "POST", "/api/clients", map[string]interface{}{
		"lastName": "García",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Missing required fields", body["message"])
	fields := body["fields"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"firstName", "phoneNumber", "language", "termsAccepted"}, fields)

	var count int64
	db.Model(&models.Client{}).Count(&count)
	assert.Zero(t, count, "no record should be persisted on validation failure")
}

func TestCreateClientInvalidVocabulary(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	w := doJSON(t, r, "POST", "/api/clients", map[string]interface{}{
		"firstName":     "María",
		"phoneNumber":   "+34 600 123 456",
		"language":      "Español",
		"termsAccepted": true,
		"skinConcerns":  []string{"Envejecimiento", "No existe", "Otra cosa"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid skin concerns provided", body["message"])
	invalid := body["invalidConcerns"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"No existe", "Otra cosa"}, invalid)

	var count int64
	db.Model(&models.Client{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateClientInvalidBrandsNamed(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	w := doJSON(t, r, "POST", "/api/clients", map[string]interface{}{
		"firstName":     "María",
		"phoneNumber":   "+34 600 123 456",
		"language":      "Español",
		"termsAccepted": true,
		"currentBrands": []string{"VICHY", "MARCA FALSA"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid brands provided", body["message"])
	invalid := body["invalidBrands"].([]interface{})
	assert.Equal(t, []interface{}{"MARCA FALSA"}, invalid)
}

func TestCreateClientValid(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	w := doJSON(t, r, "POST", "/api/clients", map[string]interface{}{
		"firstName":     "María",
		"lastName":      "García",
		"gender":        "Mujer",
		"phoneNumber":   "+34 600 123 456",
		"language":      "Español",
		"termsAccepted": true,
		"skinType":      "Mixta",
		"skinConcerns":  []string{"Envejecimiento", "Imperfecciones"},
		"currentBrands": []string{"VICHY", "CERAVE"},
		"interests":     []string{"Muestras gratis"},
		"eventTypes":    []string{"Faciales"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "María", body["firstName"])
	assert.Equal(t, models.TierNew, body["tier"])
	concerns := body["skinConcerns"].([]interface{})
	assert.Equal(t, []interface{}{"Envejecimiento", "Imperfecciones"}, concerns)

	var count int64
	db.Model(&models.Client{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)
	existing := createTestClient(t, db)

	w := doJSON(t, r, "POST", "/api/clients", map[string]interface{}{
		"firstName":     "Otra",
		"phoneNumber":   "+34 600 999 999",
		"language":      "Español",
		"termsAccepted": true,
		"email":         *existing.Email,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Duplicate field value entered", body["message"])
}

func TestCreateClientEmptyEmailStoredAsNull(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	payload := func(name string) map[string]interface{} {
		return map[string]interface{}{
			"firstName":     name,
			"phoneNumber":   "+34 600 123 456",
			"language":      "Español",
			"termsAccepted": true,
			"email":         "",
		}
	}

	first := doJSON(t, r, "POST", "/api/clients", payload("María"))
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := doJSON(t, r, "POST", "/api/clients", payload("Lucía"))
	require.Equal(t, http.StatusCreated, second.Code, "second email-less client must not collide: %s", second.Body.String())

	var stored []models.Client
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 2)
	for _, client := range stored {
		assert.Nil(t, client.Email)
	}
}

func TestUpdateClientClearsEmailToNull(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)
	client := createTestClient(t, db)

	w := doJSON(t, r, "PUT", "/api/clients/"+client.ID.String(), map[string]interface{}{
		"email": "   ",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Client
	require.NoError(t, db.First(&updated, "id = ?", client.ID).Error)
	assert.Nil(t, updated.Email)
}

func TestGetClientNotFoundAndInvalidID(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	w := doJSON(t, r, "GET", "/api/clients/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "GET", "/api/clients/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateClientMergeSemantics(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)
	client := createTestClient(t, db)

	w := doJSON(t, r, "PUT", "/api/clients/"+client.ID.String(), map[string]interface{}{
		"lastName": "Lopez",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Client
	require.NoError(t, db.First(&updated, "id = ?", client.ID).Error)
	assert.Equal(t, "Lopez", updated.LastName)
	// Absent fields unchanged
	assert.Equal(t, client.FirstName, updated.FirstName)
	assert.Equal(t, client.PhoneNumber, updated.PhoneNumber)
	assert.Equal(t, client.SkinType, updated.SkinType)
}

func TestUpdateClientRejectsClearedTerms(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)
	client := createTestClient(t, db)

	w := doJSON(t, r, "PUT", "/api/clients/"+client.ID.String(), map[string]interface{}{
		"termsAccepted": false,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnonymizeClientIdempotent(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)
	client := createTestClient(t, db)

	first := doJSON(t, r, "PUT", "/api/clients/"+client.ID.String()+"/anonymize", nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := doJSON(t, r, "PUT", "/api/clients/"+client.ID.String()+"/anonymize", nil)
	require.Equal(t, http.StatusOK, second.Code)

	firstBody := decodeBody(t, first)["client"].(map[string]interface{})
	secondBody := decodeBody(t, second)["client"].(map[string]interface{})
	assert.Equal(t, firstBody, secondBody, "anonymize must be idempotent")

	assert.Equal(t, "Anonymous", firstBody["firstName"])
	assert.Equal(t, "Client", firstBody["lastName"])
	assert.Equal(t, "0000000000", firstBody["phoneNumber"])
	assert.Nil(t, firstBody["email"])
	assert.Equal(t, false, firstBody["consentGiven"])
	assert.NotContains(t, first.Body.String(), client.FirstName)
	assert.NotContains(t, first.Body.String(), client.PhoneNumber)

	// Primary key preserved
	assert.Equal(t, client.ID.String(), firstBody["id"])
}

func TestDeleteClientCascades(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_DIR", uploadDir)

	db := setupTestDB(t)
	r := clientRouter(db)
	client := createTestClient(t, db)
	advisor := createTestAdvisor(t, db, models.RoleAdvisor)

	// Two interactions, one with a photo and an attachment on disk
	photoPath := filepath.Join(uploadDir, "photo.jpg")
	attachmentPath := filepath.Join(uploadDir, "doc.pdf")
	require.NoError(t, os.WriteFile(photoPath, []byte("jpeg"), 0o644))
	require.NoError(t, os.WriteFile(attachmentPath, []byte("pdf"), 0o644))

	first := models.InteractionLog{
		ClientID:     client.ID,
		AdvisorID:    advisor.ID,
		Notes:        "consulta inicial",
		ProductPhoto: photoPath,
		Files: []models.InteractionFile{
			{FileName: "doc.pdf", Path: attachmentPath, MimeType: "application/pdf", Size: 3},
		},
	}
	require.NoError(t, db.Create(&first).Error)
	second := models.InteractionLog{ClientID: client.ID, AdvisorID: advisor.ID, Notes: "seguimiento"}
	require.NoError(t, db.Create(&second).Error)

	survey := models.SatisfactionSurvey{
		ClientID: client.ID, AdvisorID: advisor.ID,
		OverallScore: 5, Friendliness: 5, ProductKnowledge: 5, UsefulRecommendations: 5,
		WouldReturn: "Sí",
	}
	require.NoError(t, db.Create(&survey).Error)

	w := doJSON(t, r, "DELETE", "/api/clients/"+client.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["deletedInteractions"])
	assert.Equal(t, float64(2), body["deletedFiles"])
	assert.Equal(t, float64(1), body["deletedSurveys"])

	for model, label := range map[interface{}]string{
		&models.Client{}:             "clients",
		&models.InteractionLog{}:     "interactions",
		&models.InteractionFile{}:    "interaction files",
		&models.SatisfactionSurvey{}: "surveys",
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count, fmt.Sprintf("expected no %s left", label))
	}

	_, err := os.Stat(photoPath)
	assert.True(t, os.IsNotExist(err), "product photo should be removed")
	_, err = os.Stat(attachmentPath)
	assert.True(t, os.IsNotExist(err), "attachment should be removed")
}
