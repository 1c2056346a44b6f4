// services/tier_service.go
package services

import (
	"beautycrm-backend/config"
	"beautycrm-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TierForCount maps a total interaction count to a tier.
func TierForCount(count int64) string {
	switch {
	case count >= config.VIPTierThreshold:
		return models.TierVIP
	case count >= config.RecurringTierThreshold:
		return models.TierRecurring
	default:
		return models.TierNew
	}
}

// RecomputeClientTier recounts the client's interactions and persists the
// resulting tier. Called explicitly after an interaction is created, so the
// ordering and failure mode stay visible to callers and tests.
func RecomputeClientTier(db *gorm.DB, clientID uuid.UUID) (string, error) {
	var count int64
	if err := db.Model(&models.InteractionLog{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return "", err
	}

	tier := TierForCount(count)
	if err := db.Model(&models.Client{}).
		Where("id = ?", clientID).
		Update("tier", tier).Error; err != nil {
		return "", err
	}

	return tier, nil
}
