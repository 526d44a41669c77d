package models

// Application statuses. New applications always start at sent; the remaining
// statuses are reachable through the generic status update operation but have
// no automatic producer.
const (
	ApplicationStatusSent      = "sent"
	ApplicationStatusViewed    = "viewed"
	ApplicationStatusInterview = "interview"
	ApplicationStatusRejected  = "rejected"
)

// Application records a simulated job application. At most one row exists per
// (user, job) pair; repeated applies are registry no-ops.
type Application struct {
	BaseModel

	UserID string `gorm:"index;not null;uniqueIndex:idx_application_identity" json:"user_id"`
	JobID  string `gorm:"not null;uniqueIndex:idx_application_identity" json:"job_id"`

	JobTitle string `gorm:"type:varchar(255);not null" json:"job_title"`
	Company  string `gorm:"type:varchar(255)" json:"company"`
	Location string `gorm:"type:varchar(255)" json:"location"`

	// DateApplied keeps the original portal's display string alongside the
	// CreatedAt timestamp.
	DateApplied string `gorm:"type:varchar(64)" json:"date_applied"`
	Status      string `gorm:"type:varchar(32);default:'sent'" json:"status"`
}

// ValidApplicationStatus reports whether status is one of the known values.
func ValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusSent, ApplicationStatusViewed, ApplicationStatusInterview, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}
