package services

import (
	"testing"

	"beautycrm-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTierForCount(t *testing.T) {
	cases := []struct {
		count int64
		tier  string
	}{
		{0, models.TierNew},
		{1, models.TierNew},
		{2, models.TierRecurring},
		{4, models.TierRecurring},
		{5, models.TierVIP},
		{50, models.TierVIP},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, TierForCount(tc.count), "count %d", tc.count)
	}
}

func TestRecomputeClientTier(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Client{}, &models.InteractionLog{}))

	advisor := models.User{Email: "asesor@example.com", Password: "password123", Name: "Asesora", Role: models.RoleAdvisor, IsActive: true}
	require.NoError(t, db.Create(&advisor).Error)
	client := models.Client{
		FirstName: "María", Language: "Español",
		PhoneNumber: "+34 600 123 456", TermsAccepted: true,
	}
	require.NoError(t, db.Create(&client).Error)
	assert.Equal(t, models.TierNew, client.Tier)

	for i := 0; i < 5; i++ {
		interaction := models.InteractionLog{ClientID: client.ID, AdvisorID: advisor.ID, Notes: "visita"}
		require.NoError(t, db.Create(&interaction).Error)
		tier, err := RecomputeClientTier(db, client.ID)
		require.NoError(t, err)

		var stored models.Client
		require.NoError(t, db.First(&stored, "id = ?", client.ID).Error)
		assert.Equal(t, tier, stored.Tier)
		switch i + 1 {
		case 1:
			assert.Equal(t, models.TierNew, stored.Tier)
		case 2, 3, 4:
			assert.Equal(t, models.TierRecurring, stored.Tier)
		case 5:
			assert.Equal(t, models.TierVIP, stored.Tier)
		}
	}
}
