package models

// CommunityPost is a short message on the community page.
type CommunityPost struct {
	BaseModel

	UserID  string `gorm:"index;not null" json:"user_id"`
	Author  string `gorm:"type:varchar(255)" json:"author"`
	Content string `gorm:"type:text;not null" json:"content"`
}
