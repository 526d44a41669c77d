package models

// UserProfile stores the student-facing profile for a portal user.
//
// The portal has no account system; the user id is the opaque scope
// identifier supplied by the client and a profile row is materialised with
// defaults on first access.
type UserProfile struct {
	BaseModel

	UserID     string `gorm:"uniqueIndex;not null" json:"user_id"`
	Name       string `gorm:"type:varchar(255)" json:"name"`
	University string `gorm:"type:varchar(255)" json:"university"`
	Major      string `gorm:"type:varchar(255)" json:"major"`
	Semester   string `gorm:"type:varchar(64)" json:"semester"`
	Bio        string `gorm:"type:text" json:"bio"`
	Avatar     string `gorm:"type:text" json:"avatar,omitempty"`
}
