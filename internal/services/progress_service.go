package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/progress"
	"github.com/edusprout/edusprout/pkg/logger"
	"github.com/edusprout/edusprout/pkg/metrics"
)

// Progress event kinds surfaced to API consumers.
const (
	EventXPGained       = "xp_gained"
	EventLevelUp        = "level_up"
	EventBadgeUnlocked  = "badge_unlocked"
	EventQuestCompleted = "quest_completed"
)

// ProgressEvent describes a side effect of a progression transition, in the
// order it occurred.
type ProgressEvent struct {
	Kind   string          `json:"kind"`
	Amount int             `json:"amount,omitempty"`
	Reason string          `json:"reason,omitempty"`
	Level  int             `json:"level,omitempty"`
	Badge  *progress.Badge `json:"badge,omitempty"`
	Quest  *progress.Quest `json:"quest,omitempty"`
}

// BadgeStatusDTO pairs a catalog badge with the user's unlock state.
type BadgeStatusDTO struct {
	progress.Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// QuestStatusDTO pairs a catalog quest with the user's counter.
type QuestStatusDTO struct {
	progress.Quest
	Count       int        `json:"count"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ProgressDTO is the API-facing progression snapshot.
type ProgressDTO struct {
	UserID        string           `json:"user_id"`
	XP            int              `json:"xp"`
	Level         int              `json:"level"`
	XPIntoLevel   int              `json:"xp_into_level"`
	XPToNextLevel int              `json:"xp_to_next_level"`
	LastLevelUpAt *time.Time       `json:"last_level_up_at,omitempty"`
	Badges        []BadgeStatusDTO `json:"badges"`
}

// ProgressService owns gamified progression state. All transitions run
// through the progress reducer inside a single transaction, so concurrent
// writers never observe partial unlock or XP state.
type ProgressService struct {
	db   *gorm.DB
	sink NotificationSink
	log  *zap.Logger
}

// NewProgressService constructs a ProgressService. A nil sink silences
// progression notifications.
func NewProgressService(db *gorm.DB, sink NotificationSink) (*ProgressService, error) {
	if db == nil {
		return nil, errors.New("progress service: db is required")
	}
	if sink == nil {
		sink = noopSink{}
	}
	return &ProgressService{
		db:   db,
		sink: sink,
		log:  logger.WithModule("progress"),
	}, nil
}

// Get returns the user's progression snapshot, materialising the default
// state (zero XP, level one, starter badge) on first access.
func (s *ProgressService) Get(ctx context.Context, userID string) (*ProgressDTO, error) {
	dto, _, err := s.applyAndPersist(ctx, userID, nil, "")
	return dto, err
}

// AddXP grants experience points for the supplied reason. Non-positive
// amounts are rejected.
func (s *ProgressService) AddXP(ctx context.Context, userID string, amount int, reason string) (*ProgressDTO, []ProgressEvent, error) {
	if amount <= 0 {
		return nil, nil, errors.New("progress service: xp amount must be positive")
	}
	reason = defaultIfEmpty(strings.TrimSpace(reason), "manual")
	return s.applyAndPersist(ctx, userID, []progress.Action{
		progress.AddXP{Amount: amount, Reason: reason},
	}, "")
}

// RecordAction reports a user action tag for badge accounting only. A tag
// mapping to a locked badge unlocks it, with exactly the badge's XP reward
// folded into the same transition; nothing else is granted. Unknown tags are
// accepted and ignored. Quest counters advance through AdvanceQuests.
func (s *ProgressService) RecordAction(ctx context.Context, userID, action string) (*ProgressDTO, []ProgressEvent, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, nil, errors.New("progress service: action tag is required")
	}
	return s.applyAndPersist(ctx, userID, []progress.Action{
		progress.RecordAction{Action: action},
	}, "")
}

// AdvanceQuests bumps counters for quests matching the action tag, awarding
// each quest's XP exactly once on completion. Badge accounting is untouched.
func (s *ProgressService) AdvanceQuests(ctx context.Context, userID, action string) (*ProgressDTO, []ProgressEvent, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, nil, errors.New("progress service: action tag is required")
	}
	return s.applyAndPersist(ctx, userID, nil, action)
}

// RecordActivity is the call-site entry point for user actions: badge and
// quest accounting for the tag run in one transaction. The two channels stay
// independently addressable via RecordAction and AdvanceQuests.
func (s *ProgressService) RecordActivity(ctx context.Context, userID, action string) (*ProgressDTO, []ProgressEvent, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, nil, errors.New("progress service: action tag is required")
	}
	return s.applyAndPersist(ctx, userID, []progress.Action{
		progress.RecordAction{Action: action},
	}, action)
}

// Quests returns the quest catalog annotated with the user's counters.
func (s *ProgressService) Quests(ctx context.Context, userID string) ([]QuestStatusDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("progress service: user id is required")
	}

	var rows []models.QuestProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("progress service: load quest progress: %w", err)
	}

	byQuest := make(map[string]models.QuestProgress, len(rows))
	for _, row := range rows {
		byQuest[row.QuestID] = row
	}

	catalog := progress.QuestCatalog()
	out := make([]QuestStatusDTO, 0, len(catalog))
	for _, quest := range catalog {
		status := QuestStatusDTO{Quest: quest}
		if row, ok := byQuest[quest.ID]; ok {
			status.Count = row.Count
			status.Completed = row.CompletedAt != nil
			status.CompletedAt = row.CompletedAt
		}
		out = append(out, status)
	}
	return out, nil
}

// applyAndPersist runs the supplied actions through the reducer inside one
// transaction and persists the resulting state. A non-empty questTag also
// advances matching quest counters in the same transaction. Notifications
// and metrics are emitted only after the transaction commits.
func (s *ProgressService) applyAndPersist(ctx context.Context, userID string, actions []progress.Action, questTag string) (*ProgressDTO, []ProgressEvent, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil, errors.New("progress service: user id is required")
	}

	var (
		dto    *ProgressDTO
		events []ProgressEvent
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, state, unlockedAt, err := loadProgressState(tx, userID)
		if err != nil {
			return err
		}

		for _, action := range actions {
			var evs []progress.Event
			state, evs = progress.Apply(state, action)
			events = append(events, mapProgressEvents(evs)...)
		}

		if questTag != "" {
			state, events, err = advanceQuests(tx, userID, questTag, state, events)
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, event := range events {
			if event.Kind == EventLevelUp {
				row.LastLevelUpAt = &now
			}
		}

		row.XP = state.XP
		row.Level = state.Level
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("progress service: save progress: %w", err)
		}

		for badgeID := range state.Unlocked {
			if _, exists := unlockedAt[badgeID]; exists {
				continue
			}
			unlock := models.BadgeUnlock{
				UserID:     userID,
				BadgeID:    badgeID,
				UnlockedAt: now,
			}
			if err := tx.Create(&unlock).Error; err != nil {
				if isUniqueConstraintError(err) {
					continue
				}
				return fmt.Errorf("progress service: record badge unlock: %w", err)
			}
			unlockedAt[badgeID] = now
		}

		dto = mapProgress(userID, row, unlockedAt)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.emit(ctx, userID, events)
	return dto, events, nil
}

// advanceQuests bumps counters for quests matching the action tag and folds
// completion rewards into the reducer state.
func advanceQuests(tx *gorm.DB, userID, action string, state progress.State, events []ProgressEvent) (progress.State, []ProgressEvent, error) {
	for _, quest := range progress.QuestsByAction(action) {
		quest := quest

		var row models.QuestProgress
		err := tx.Where("user_id = ? AND quest_id = ?", userID, quest.ID).
			FirstOrCreate(&row, models.QuestProgress{UserID: userID, QuestID: quest.ID}).Error
		if err != nil {
			return state, events, fmt.Errorf("progress service: load quest %q: %w", quest.ID, err)
		}
		if row.CompletedAt != nil {
			continue
		}

		row.Count++
		if row.Count >= quest.Goal {
			now := time.Now().UTC()
			row.CompletedAt = &now

			var evs []progress.Event
			state, evs = progress.Apply(state, progress.AddXP{
				Amount: quest.XPReward,
				Reason: "quest:" + quest.ID,
			})
			events = append(events, ProgressEvent{Kind: EventQuestCompleted, Quest: &quest})
			events = append(events, mapProgressEvents(evs)...)
		}

		if err := tx.Save(&row).Error; err != nil {
			return state, events, fmt.Errorf("progress service: save quest %q: %w", quest.ID, err)
		}
	}
	return state, events, nil
}

// loadProgressState reads or seeds the user's progress row and unlock set.
func loadProgressState(tx *gorm.DB, userID string) (*models.UserProgress, progress.State, map[string]time.Time, error) {
	var row models.UserProgress
	err := tx.Where("user_id = ?", userID).
		Attrs(models.UserProgress{XP: 0, Level: 1}).
		FirstOrCreate(&row, models.UserProgress{UserID: userID}).Error
	if err != nil {
		return nil, progress.State{}, nil, fmt.Errorf("progress service: load progress: %w", err)
	}

	var unlocks []models.BadgeUnlock
	if err := tx.Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
		return nil, progress.State{}, nil, fmt.Errorf("progress service: load badge unlocks: %w", err)
	}

	state := progress.NewState()
	state.XP = row.XP
	state.Level = progress.LevelForXP(row.XP)

	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, unlock := range unlocks {
		state.Unlocked[unlock.BadgeID] = true
		unlockedAt[unlock.BadgeID] = unlock.UnlockedAt
	}

	return &row, state, unlockedAt, nil
}

// emit surfaces committed events as metrics and feed notifications.
func (s *ProgressService) emit(ctx context.Context, userID string, events []ProgressEvent) {
	for _, event := range events {
		switch event.Kind {
		case EventXPGained:
			metrics.XPGrants.WithLabelValues(event.Reason).Inc()
		case EventBadgeUnlocked:
			if event.Badge == nil {
				continue
			}
			metrics.BadgeUnlocks.WithLabelValues(event.Badge.ID).Inc()
			s.notify(ctx, CreateNotificationInput{
				UserID:  userID,
				Type:    NotificationTypeAchievement,
				Title:   "Badge unlocked: " + event.Badge.Name,
				Message: event.Badge.Description,
				Metadata: map[string]any{
					"badge_id": event.Badge.ID,
					"xp_value": event.Badge.XPValue,
				},
			})
		case EventLevelUp:
			s.notify(ctx, CreateNotificationInput{
				UserID:  userID,
				Type:    NotificationTypeLevelUp,
				Title:   fmt.Sprintf("Level up! You reached level %d", event.Level),
				Message: "Keep going to unlock more badges.",
				Metadata: map[string]any{
					"level": event.Level,
				},
			})
		case EventQuestCompleted:
			if event.Quest == nil {
				continue
			}
			s.notify(ctx, CreateNotificationInput{
				UserID:  userID,
				Type:    NotificationTypeSuccess,
				Title:   "Quest complete: " + event.Quest.Name,
				Message: fmt.Sprintf("You earned %d XP.", event.Quest.XPReward),
				Metadata: map[string]any{
					"quest_id": event.Quest.ID,
				},
			})
		}
	}
}

func (s *ProgressService) notify(ctx context.Context, input CreateNotificationInput) {
	if err := s.sink.Notify(ctx, input); err != nil {
		s.log.Warn("progress notification delivery failed",
			zap.String("user_id", input.UserID),
			zap.String("type", input.Type),
			zap.Error(err))
	}
}

func mapProgressEvents(events []progress.Event) []ProgressEvent {
	out := make([]ProgressEvent, 0, len(events))
	for _, event := range events {
		switch e := event.(type) {
		case progress.XPGained:
			out = append(out, ProgressEvent{Kind: EventXPGained, Amount: e.Amount, Reason: e.Reason})
		case progress.LevelUp:
			out = append(out, ProgressEvent{Kind: EventLevelUp, Level: e.Level})
		case progress.BadgeUnlocked:
			badge := e.Badge
			out = append(out, ProgressEvent{Kind: EventBadgeUnlocked, Badge: &badge})
		}
	}
	return out
}

func mapProgress(userID string, row *models.UserProgress, unlockedAt map[string]time.Time) *ProgressDTO {
	catalog := progress.Catalog()
	badges := make([]BadgeStatusDTO, 0, len(catalog))
	for _, badge := range catalog {
		status := BadgeStatusDTO{Badge: badge}
		if at, ok := unlockedAt[badge.ID]; ok {
			status.Unlocked = true
			at := at
			status.UnlockedAt = &at
		} else if badge.DefaultUnlocked {
			status.Unlocked = true
		}
		badges = append(badges, status)
	}

	intoLevel := row.XP % progress.XPPerLevel
	return &ProgressDTO{
		UserID:        userID,
		XP:            row.XP,
		Level:         row.Level,
		XPIntoLevel:   intoLevel,
		XPToNextLevel: progress.XPPerLevel - intoLevel,
		LastLevelUpAt: row.LastLevelUpAt,
		Badges:        badges,
	}
}
