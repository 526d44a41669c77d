package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/database/testutil"
	"github.com/edusprout/edusprout/internal/progress"
)

type captureSink struct {
	inputs []CreateNotificationInput
}

func (c *captureSink) Notify(_ context.Context, input CreateNotificationInput) error {
	c.inputs = append(c.inputs, input)
	return nil
}

func (c *captureSink) titles() []string {
	out := make([]string, 0, len(c.inputs))
	for _, input := range c.inputs {
		out = append(out, input.Title)
	}
	return out
}

func TestProgressServiceGetSeedsDefaults(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	dto, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, dto.XP)
	require.Equal(t, 1, dto.Level)
	require.Equal(t, progress.XPPerLevel, dto.XPToNextLevel)
	require.Len(t, dto.Badges, 5)

	unlocked := map[string]bool{}
	for _, badge := range dto.Badges {
		unlocked[badge.ID] = badge.Unlocked
	}
	require.True(t, unlocked["newcomer"])
	require.False(t, unlocked["first_apply"])
}

func TestProgressServiceAddXPLevelsUp(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	dto, events, err := svc.AddXP(ctx, "user-1", 999, "bonus")
	require.NoError(t, err)
	require.Equal(t, 999, dto.XP)
	require.Equal(t, 1, dto.Level)
	require.Len(t, events, 1)
	require.Equal(t, EventXPGained, events[0].Kind)

	dto, events, err = svc.AddXP(ctx, "user-1", 1, "bonus")
	require.NoError(t, err)
	require.Equal(t, 1000, dto.XP)
	require.Equal(t, 2, dto.Level)
	require.NotNil(t, dto.LastLevelUpAt)

	var kinds []string
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	require.Equal(t, []string{EventXPGained, EventLevelUp}, kinds)
}

func TestProgressServiceAddXPRejectsNonPositive(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	_, _, err = svc.AddXP(context.Background(), "user-1", 0, "bonus")
	require.Error(t, err)
	_, _, err = svc.AddXP(context.Background(), "user-1", -10, "bonus")
	require.Error(t, err)
}

func TestProgressServiceRecordActionUnlocksBadgeOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	sink := &captureSink{}
	svc, err := NewProgressService(db, sink)
	require.NoError(t, err)

	// Badge accounting grants exactly the badge's reward, nothing else.
	ctx := context.Background()
	dto, events, err := svc.RecordAction(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)
	require.Equal(t, 100, dto.XP)

	var badges int
	for _, event := range events {
		switch event.Kind {
		case EventBadgeUnlocked:
			badges++
			require.Equal(t, "first_apply", event.Badge.ID)
		case EventQuestCompleted:
			t.Fatalf("badge action must not advance quests, got %q", event.Quest.ID)
		}
	}
	require.Equal(t, 1, badges)
	require.Contains(t, sink.titles(), "Badge unlocked: First Application")

	// A repeat apply changes nothing: the badge is one-way.
	dto, events, err = svc.RecordAction(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)
	require.Equal(t, 100, dto.XP)
	require.Empty(t, events)
}

func TestProgressServiceNotificationTypesAreWellKnown(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	sink := &captureSink{}
	svc, err := NewProgressService(db, sink)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = svc.RecordActivity(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)
	_, _, err = svc.AddXP(ctx, "user-1", 1000, "bonus")
	require.NoError(t, err)

	require.NotEmpty(t, sink.inputs)
	var sawAchievement, sawLevelUp bool
	for _, input := range sink.inputs {
		require.True(t, ValidNotificationType(input.Type), "type %q", input.Type)
		switch input.Type {
		case NotificationTypeAchievement:
			sawAchievement = true
		case NotificationTypeLevelUp:
			sawLevelUp = true
		}
	}
	require.True(t, sawAchievement)
	require.True(t, sawLevelUp)
}

func TestProgressServiceRecordActivityCombinesBadgeAndQuest(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	dto, events, err := svc.RecordActivity(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)

	// Badge reward (100) plus the single-apply quest reward (50).
	require.Equal(t, 150, dto.XP)

	var badges, quests int
	for _, event := range events {
		switch event.Kind {
		case EventBadgeUnlocked:
			badges++
			require.Equal(t, "first_apply", event.Badge.ID)
		case EventQuestCompleted:
			quests++
			require.Equal(t, "daily_apply", event.Quest.ID)
		}
	}
	require.Equal(t, 1, badges)
	require.Equal(t, 1, quests)

	// Both channels are exhausted: a repeat is a full no-op.
	dto, events, err = svc.RecordActivity(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)
	require.Equal(t, 150, dto.XP)
	require.Empty(t, events)
}

func TestProgressServiceAdvanceQuestsLeavesBadgesAlone(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	dto, events, err := svc.AdvanceQuests(ctx, "user-1", progress.ActionApplyJob)
	require.NoError(t, err)

	// Quest reward only; the first_apply badge stays locked.
	require.Equal(t, 50, dto.XP)
	for _, event := range events {
		require.NotEqual(t, EventBadgeUnlocked, event.Kind)
	}
	for _, badge := range dto.Badges {
		if badge.ID == "first_apply" {
			require.False(t, badge.Unlocked)
		}
	}
}

func TestProgressServiceIgnoresUnknownActionTags(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	dto, events, err := svc.RecordAction(context.Background(), "user-1", "page_scrolled")
	require.NoError(t, err)
	require.Equal(t, 0, dto.XP)
	require.Empty(t, events)
}

func TestProgressServiceQuestCounters(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, _, err = svc.RecordActivity(ctx, "user-1", progress.ActionSaveBookmark)
		require.NoError(t, err)
	}

	quests, err := svc.Quests(ctx, "user-1")
	require.NoError(t, err)

	byID := map[string]QuestStatusDTO{}
	for _, quest := range quests {
		byID[quest.ID] = quest
	}
	require.Equal(t, 2, byID["daily_saver"].Count)
	require.False(t, byID["daily_saver"].Completed)

	dto, events, err := svc.RecordActivity(ctx, "user-1", progress.ActionSaveBookmark)
	require.NoError(t, err)
	require.Equal(t, 60, dto.XP)

	var completed bool
	for _, event := range events {
		if event.Kind == EventQuestCompleted {
			completed = true
			require.Equal(t, "daily_saver", event.Quest.ID)
		}
	}
	require.True(t, completed)
}

func TestProgressServiceScholarshipQuestAndBadge(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	var dto *ProgressDTO
	for i := 0; i < 5; i++ {
		dto, _, err = svc.RecordActivity(ctx, "user-1", progress.ActionViewScholarship)
		require.NoError(t, err)
	}

	// Badge (120) on the first view plus the five-view quest reward (150).
	require.Equal(t, 270, dto.XP)

	quests, err := svc.Quests(ctx, "user-1")
	require.NoError(t, err)
	for _, quest := range quests {
		if quest.ID == "scholarship_hunter" {
			require.True(t, quest.Completed)
			require.Equal(t, 5, quest.Count)
		}
	}
}

func TestProgressServicePersistsAcrossInstances(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewProgressService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = svc.RecordAction(ctx, "user-1", progress.ActionViewCommunity)
	require.NoError(t, err)

	reloaded, err := NewProgressService(db, nil)
	require.NoError(t, err)

	dto, err := reloaded.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 80, dto.XP)

	for _, badge := range dto.Badges {
		if badge.ID == "community_builder" {
			require.True(t, badge.Unlocked)
			require.NotNil(t, badge.UnlockedAt)
		}
	}
}
