package models

// JobPosting is a user-created job listing surfaced alongside the curated
// catalog.
type JobPosting struct {
	BaseModel

	UserID      string `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Company     string `gorm:"type:varchar(255)" json:"company"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	Link        string `gorm:"type:text" json:"link"`
	Description string `gorm:"type:text" json:"description"`
}
