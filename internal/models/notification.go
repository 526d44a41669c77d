package models

import (
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification represents a persisted feed entry for a user, distinct from
// the transient acknowledgments returned inline by mutating endpoints.
type Notification struct {
	BaseModel

	UserID   string         `gorm:"index;not null" json:"user_id"`
	Type     string         `gorm:"type:varchar(32);default:'info'" json:"type"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Link     string         `gorm:"type:text" json:"link"`
	Metadata datatypes.JSON `json:"metadata"`

	// Seq totally orders inserts. Timestamps alone cannot break ties between
	// entries created within the same clock tick.
	Seq int64 `gorm:"index;not null" json:"-"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}

var notificationSeq atomic.Int64

// BeforeCreate assigns the identifier and a monotonic insertion sequence.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if err := n.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if n.Seq == 0 {
		n.Seq = nextNotificationSeq()
	}
	return nil
}

// nextNotificationSeq returns a strictly increasing value seeded from the
// wall clock, so ordering also holds across process restarts.
func nextNotificationSeq() int64 {
	for {
		last := notificationSeq.Load()
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if notificationSeq.CompareAndSwap(last, next) {
			return next
		}
	}
}
