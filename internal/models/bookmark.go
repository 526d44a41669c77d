package models

import "gorm.io/datatypes"

// Bookmark item types.
const (
	BookmarkTypeJob         = "job"
	BookmarkTypeScholarship = "scholarship"
)

// Bookmark records a user-saved job or scholarship listing. Identity is the
// composite (user, item id, item type); the unique index makes repeated adds
// idempotent at the storage layer.
type Bookmark struct {
	BaseModel

	UserID   string `gorm:"index;not null;uniqueIndex:idx_bookmark_identity" json:"user_id"`
	ItemID   string `gorm:"not null;uniqueIndex:idx_bookmark_identity" json:"item_id"`
	ItemType string `gorm:"type:varchar(32);not null;uniqueIndex:idx_bookmark_identity" json:"item_type"`

	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle string `gorm:"type:varchar(255)" json:"subtitle,omitempty"`
	Location string `gorm:"type:varchar(255)" json:"location,omitempty"`
	Link     string `gorm:"type:text" json:"link,omitempty"`
	Date     string `gorm:"type:varchar(64)" json:"date,omitempty"`

	// Data holds an opaque snapshot of the original listing so the bookmark
	// can be rendered without re-fetching. Corrupt snapshots decode to nil.
	Data datatypes.JSON `json:"data"`
}
