package database

import (
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
)

// BadgeCatalogVersionSetting records the badge catalog revision the schema
// was last seeded against.
const BadgeCatalogVersionSetting = "progress.badge_catalog_version"

const currentBadgeCatalogVersion = "1"

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserProfile{},
		&models.UserProgress{},
		&models.BadgeUnlock{},
		&models.QuestProgress{},
		&models.Notification{},
		&models.Bookmark{},
		&models.Application{},
		&models.JobPosting{},
		&models.CommunityPost{},
		&models.CacheEntry{},
		&models.PortalSetting{},
	)
}

// SeedData records catalog bookkeeping. Per-user state (default badges,
// welcome notification) is seeded lazily on first access by the owning
// service, mirroring the portal's first-visit behaviour.
func SeedData(db *gorm.DB) error {
	setting := models.PortalSetting{
		Key:   BadgeCatalogVersionSetting,
		Value: currentBadgeCatalogVersion,
	}

	return db.Where(models.PortalSetting{Key: setting.Key}).
		Assign(map[string]any{"value": setting.Value}).
		FirstOrCreate(&models.PortalSetting{}).Error
}
