package config

// Tier thresholds and the KPI windows are deliberately independent knobs.
const (
	// Interaction counts at which a client's tier changes
	RecurringTierThreshold = 2
	VIPTierThreshold       = 5

	// Default inactivity cutoff for /kpis/inactive-clients
	DefaultInactiveDays = 30

	// Window for the "recent interactions" figure in the KPI summary
	RecentWindowDays = 30
)

// Upload limits
const (
	MaxFileSize         = 5 * 1024 * 1024 // per attachment
	MaxProductPhotoSize = 2 * 1024 * 1024
	MaxFilesPerUpload   = 5 // attachments, excluding the product photo
)
