package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/database"
	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/realtime"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
	"github.com/edusprout/edusprout/pkg/metrics"
)

// Notification types understood by the portal frontend.
const (
	NotificationTypeInfo        = "info"
	NotificationTypeSuccess     = "success"
	NotificationTypeWarning     = "warning"
	NotificationTypeError       = "error"
	NotificationTypeAchievement = "achievement"
	NotificationTypeLevelUp     = "level-up"
)

// ValidNotificationType reports whether the type is one the feed accepts.
func ValidNotificationType(notificationType string) bool {
	switch notificationType {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypeAchievement, NotificationTypeLevelUp:
		return true
	default:
		return false
	}
}

const notificationSeedKeyPrefix = "notifications.seeded:"

// NotificationDTO represents the API-friendly notification payload.
type NotificationDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Link      string         `json:"link,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
}

// CreateNotificationInput defines attributes required to persist a notification.
type CreateNotificationInput struct {
	UserID   string
	Type     string
	Title    string
	Message  string
	Link     string
	Metadata map[string]any
}

// ListNotificationsInput defines filters for querying user notifications.
type ListNotificationsInput struct {
	UserID string
	Limit  int
	Offset int
	Unread bool
}

// NotificationEventPayload represents data sent to realtime consumers.
type NotificationEventPayload struct {
	Notification   *NotificationDTO `json:"notification,omitempty"`
	NotificationID string           `json:"notification_id,omitempty"`
	UnreadCount    *int64           `json:"unread_count,omitempty"`
}

// NotificationService manages the per-user append-only notification feed.
type NotificationService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB, hub *realtime.Hub) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db, hub: hub}, nil
}

// Notify implements NotificationSink for producers that only need delivery.
func (s *NotificationService) Notify(ctx context.Context, input CreateNotificationInput) error {
	_, err := s.Create(ctx, input)
	return err
}

// ListForUser returns the user's feed ordered newest-first. A first-time
// user's feed is seeded with the welcome notification before listing.
func (s *NotificationService) ListForUser(ctx context.Context, input ListNotificationsInput) ([]NotificationDTO, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("notification service: user id is required")
	}

	if err := s.seedWelcome(ctx, userID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if input.Unread {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.
		Order("seq DESC").
		Limit(clampLimit(input.Limit, 50, 200)).
		Offset(maxInt(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	return mapNotificationRows(rows), nil
}

// UnreadCount returns the number of unread feed entries for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, errors.New("notification service: user id is required")
	}

	if err := s.seedWelcome(ctx, userID); err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("notification service: unread count: %w", err)
	}
	return count, nil
}

// Create appends a notification to the user's feed and broadcasts the event.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("notification service: user id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("notification service: title is required")
	}
	notificationType := defaultIfEmpty(strings.TrimSpace(input.Type), NotificationTypeInfo)
	if !ValidNotificationType(notificationType) {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown notification type %q", notificationType))
	}

	notification := models.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Message:  strings.TrimSpace(input.Message),
		Link:     strings.TrimSpace(input.Link),
		Metadata: encodeJSON(input.Metadata),
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notification.Type).Inc()

	dto := mapNotification(notification)
	s.broadcast(userID, "notification.created", &NotificationEventPayload{
		Notification: &dto,
	})
	return &dto, nil
}

// MarkRead marks a single notification as read. Marking an already-read
// entry is a no-op that still returns the entry.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)
	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	if !notification.IsRead {
		now := time.Now().UTC()
		if err := s.db.WithContext(ctx).Model(&notification).
			Updates(map[string]any{
				"is_read": true,
				"read_at": now,
			}).Error; err != nil {
			return nil, fmt.Errorf("notification service: mark read: %w", err)
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}

	dto := mapNotification(notification)
	s.broadcast(userID, "notification.read", &NotificationEventPayload{
		Notification:   &dto,
		NotificationID: notification.ID,
	})
	return &dto, nil
}

// MarkAllRead marks every unread notification for the user as read and
// returns the number of entries affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", result.Error)
	}

	zero := int64(0)
	s.broadcast(userID, "notification.read_all", &NotificationEventPayload{UnreadCount: &zero})
	return result.RowsAffected, nil
}

// ClearAll removes the user's entire feed. The welcome entry is not
// re-seeded afterwards.
func (s *NotificationService) ClearAll(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: clear all: %w", result.Error)
	}

	s.broadcast(userID, "notification.cleared", nil)
	return result.RowsAffected, nil
}

// Delete removes a single notification owned by the supplied user.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("notification service: delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	s.broadcast(userID, "notification.deleted", &NotificationEventPayload{
		NotificationID: notificationID,
	})
	return nil
}

// seedWelcome inserts the welcome notification exactly once per user. The
// seed marker survives ClearAll, so a cleared feed stays empty.
func (s *NotificationService) seedWelcome(ctx context.Context, userID string) error {
	key := notificationSeedKeyPrefix + userID
	value, err := database.GetPortalSetting(ctx, s.db, key)
	if err != nil {
		return err
	}
	if value != "" {
		return nil
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    NotificationTypeInfo,
		Title:   "Welcome to EduSprout!",
		Message: "Explore jobs, scholarships and the community to start earning XP.",
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("notification service: seed welcome: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(notification.Type).Inc()

	return database.UpsertPortalSetting(ctx, s.db, key, time.Now().UTC().Format(time.RFC3339))
}

func (s *NotificationService) broadcast(userID, event string, payload *NotificationEventPayload) {
	if s.hub == nil {
		return
	}
	message := realtime.Message{Event: event}
	if payload != nil {
		message.Data = payload
	}
	s.hub.BroadcastToUser(realtime.StreamNotifications, userID, message)
}

func mapNotificationRows(rows []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapNotification(row))
	}
	return items
}

func mapNotification(row models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      defaultIfEmpty(row.Type, NotificationTypeInfo),
		Title:     row.Title,
		Message:   row.Message,
		Link:      row.Link,
		Metadata:  decodeJSON(row.Metadata),
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt,
		ReadAt:    row.ReadAt,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
