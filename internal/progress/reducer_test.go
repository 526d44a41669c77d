package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{2500, 3},
		{-5, 1},
	}

	for _, tc := range cases {
		require.Equal(t, tc.level, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestNewStateSeedsDefaultBadges(t *testing.T) {
	state := NewState()

	require.Equal(t, 0, state.XP)
	require.Equal(t, 1, state.Level)
	require.True(t, state.Unlocked["newcomer"])
	require.False(t, state.Unlocked["first_apply"])
}

func TestApplyAddXPAccumulates(t *testing.T) {
	state := NewState()

	amounts := []int{10, 25, 500}
	total := 0
	for _, amount := range amounts {
		var events []Event
		state, events = Apply(state, AddXP{Amount: amount, Reason: "test"})
		total += amount
		require.Equal(t, XPGained{Amount: amount, Reason: "test"}, events[0])
	}

	require.Equal(t, total, state.XP)
	require.Equal(t, LevelForXP(total), state.Level)
}

func TestApplyAddXPIgnoresNonPositive(t *testing.T) {
	state := NewState()

	next, events := Apply(state, AddXP{Amount: 0, Reason: "noop"})
	require.Empty(t, events)
	require.Equal(t, state.XP, next.XP)

	next, events = Apply(state, AddXP{Amount: -50, Reason: "noop"})
	require.Empty(t, events)
	require.Equal(t, state.XP, next.XP)
}

func TestApplyAddXPEmitsLevelUpAtBoundary(t *testing.T) {
	state := NewState()

	state, events := Apply(state, AddXP{Amount: 999, Reason: "grind"})
	require.Len(t, events, 1)
	require.Equal(t, 1, state.Level)

	state, events = Apply(state, AddXP{Amount: 1, Reason: "boundary"})
	require.Len(t, events, 2)
	require.Equal(t, LevelUp{Level: 2}, events[1])
	require.Equal(t, 2, state.Level)
}

func TestApplyRecordActionUnlocksOnce(t *testing.T) {
	state := NewState()

	state, events := Apply(state, RecordAction{Action: ActionApplyJob})
	require.Len(t, events, 2)

	unlocked, ok := events[0].(BadgeUnlocked)
	require.True(t, ok)
	require.Equal(t, "first_apply", unlocked.Badge.ID)
	require.Equal(t, XPGained{Amount: 100, Reason: "badge:first_apply"}, events[1])
	require.Equal(t, 100, state.XP)
	require.Equal(t, 1, state.Level)

	// Re-invoking with an already unlocked badge is a no-op.
	state, events = Apply(state, RecordAction{Action: ActionApplyJob})
	require.Empty(t, events)
	require.Equal(t, 100, state.XP)
}

func TestApplyRecordActionUnknownTagIsNoOp(t *testing.T) {
	state := NewState()

	next, events := Apply(state, RecordAction{Action: "dance"})
	require.Empty(t, events)
	require.Equal(t, state.XP, next.XP)
	require.Equal(t, state.Unlocked, next.Unlocked)
}

func TestApplyBadgeUnlockCrossingLevelBoundary(t *testing.T) {
	state := NewState()
	state, _ = Apply(state, AddXP{Amount: 950, Reason: "grind"})

	state, events := Apply(state, RecordAction{Action: ActionApplyJob})
	require.Len(t, events, 3)

	_, isBadge := events[0].(BadgeUnlocked)
	require.True(t, isBadge)
	require.Equal(t, XPGained{Amount: 100, Reason: "badge:first_apply"}, events[1])
	require.Equal(t, LevelUp{Level: 2}, events[2])
	require.Equal(t, 1050, state.XP)
	require.Equal(t, 2, state.Level)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	original := NewState()
	original.XP = 500
	original.Level = 1

	next, _ := Apply(original, RecordAction{Action: ActionViewScholarship})

	require.Equal(t, 500, original.XP)
	require.False(t, original.Unlocked["scholar_scout"])
	require.True(t, next.Unlocked["scholar_scout"])
}

func TestCatalogIsFixed(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 5)

	// Mutating the returned slice must not affect the catalog.
	catalog[0].Name = "tampered"
	fresh := Catalog()
	require.Equal(t, "Newcomer", fresh[0].Name)

	badge, ok := BadgeByAction(ActionViewCommunity)
	require.True(t, ok)
	require.Equal(t, "community_builder", badge.ID)

	_, ok = BadgeByAction("")
	require.False(t, ok)
}

func TestQuestsByAction(t *testing.T) {
	quests := QuestsByAction(ActionApplyJob)
	require.Len(t, quests, 1)
	require.Equal(t, "daily_apply", quests[0].ID)

	require.Nil(t, QuestsByAction("unknown"))
}
