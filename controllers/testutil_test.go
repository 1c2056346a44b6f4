package controllers_test

import (
	"testing"

	"beautycrm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.InteractionLog{},
		&models.InteractionFile{},
		&models.SatisfactionSurvey{},
		&models.FollowUpLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// authAs stands in for the auth middleware and stamps the request identity
func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID.String())
		c.Set("role", role)
		c.Next()
	}
}

func testClient() models.Client {
	email := uuid.NewString() + "@example.com"
	return models.Client{
		FirstName:     "María",
		LastName:      "García",
		Gender:        "Mujer",
		Language:      "Español",
		PhoneNumber:   "+34 600 123 456",
		Email:         &email,
		TermsAccepted: true,
		SkinType:      "Mixta",
		SkinConcerns:  models.StringArray{"Envejecimiento"},
		CurrentBrands: models.StringArray{"VICHY"},
	}
}

func createTestClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := testClient()
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return client
}

func createTestAdvisor(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		Email:    uuid.NewString() + "@example.com",
		Password: "password123",
		Name:     "Test Advisor",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test advisor: %v", err)
	}
	return user
}
