package models

import "time"

// UserProgress tracks gamified progression for a portal user.
//
// XP is monotonically non-decreasing. Level is denormalised for querying but
// is always recomputed from XP by the progress reducer before persisting, so
// the two can never drift.
type UserProgress struct {
	BaseModel

	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	XP     int    `gorm:"not null;default:0" json:"xp"`
	Level  int    `gorm:"not null;default:1" json:"level"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`
}

// BadgeUnlock records a one-way badge unlock for a user. The badge catalog
// itself is static (see internal/progress); only unlock state is persisted.
type BadgeUnlock struct {
	BaseModel

	UserID     string    `gorm:"index;not null;uniqueIndex:idx_badge_unlock_identity" json:"user_id"`
	BadgeID    string    `gorm:"not null;uniqueIndex:idx_badge_unlock_identity" json:"badge_id"`
	UnlockedAt time.Time `gorm:"not null" json:"unlocked_at"`
}

// QuestProgress tracks a user's counter towards a quest goal. Daily quests
// are reset by the maintenance cleaner; completion is one-way within a
// period and grants the quest reward exactly once.
type QuestProgress struct {
	BaseModel

	UserID      string     `gorm:"index;not null;uniqueIndex:idx_quest_progress_identity" json:"user_id"`
	QuestID     string     `gorm:"not null;uniqueIndex:idx_quest_progress_identity" json:"quest_id"`
	Count       int        `gorm:"not null;default:0" json:"count"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
