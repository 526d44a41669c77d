package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/database/testutil"
	"github.com/edusprout/edusprout/internal/models"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
)

func newTestApplicationService(t *testing.T, opts ...ApplicationOption) (*ApplicationService, *ProgressService, *captureSink) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	sink := &captureSink{}

	progressSvc, err := NewProgressService(db, sink)
	require.NoError(t, err)

	opts = append([]ApplicationOption{WithApplyLatency(0)}, opts...)
	svc, err := NewApplicationService(db, progressSvc, sink, opts...)
	require.NoError(t, err)

	return svc, progressSvc, sink
}

func TestApplicationServiceApply(t *testing.T) {
	svc, progressSvc, sink := newTestApplicationService(t)

	ctx := context.Background()
	dto, events, created, err := svc.Apply(ctx, ApplyInput{
		UserID:   "user-1",
		JobID:    "job-1",
		JobTitle: "Backend Intern",
		Company:  "Acme",
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.ApplicationStatusSent, dto.Status)
	require.NotEmpty(t, dto.DateApplied)

	var unlockedBadge bool
	for _, event := range events {
		if event.Kind == EventBadgeUnlocked {
			unlockedBadge = true
			require.Equal(t, "first_apply", event.Badge.ID)
		}
	}
	require.True(t, unlockedBadge)

	var confirmation *CreateNotificationInput
	for i, input := range sink.inputs {
		if input.Title == "Application sent" {
			confirmation = &sink.inputs[i]
		}
	}
	require.NotNil(t, confirmation)
	require.Equal(t, NotificationTypeSuccess, confirmation.Type)
	require.Equal(t, "/dashboard", confirmation.Link)

	progress, err := progressSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 150, progress.XP) // badge 100 + daily quest 50
}

func TestApplicationServiceApplyDeduplicates(t *testing.T) {
	svc, progressSvc, sink := newTestApplicationService(t)

	ctx := context.Background()
	first, _, created, err := svc.Apply(ctx, ApplyInput{UserID: "user-1", JobID: "job-1", JobTitle: "Intern"})
	require.NoError(t, err)
	require.True(t, created)
	notified := len(sink.inputs)

	// Re-applying returns the existing record without XP or notifications.
	again, events, created, err := svc.Apply(ctx, ApplyInput{UserID: "user-1", JobID: "job-1", JobTitle: "Intern"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, again.ID)
	require.Empty(t, events)
	require.Len(t, sink.inputs, notified)

	items, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	progress, err := progressSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 150, progress.XP)

	// A different user applying to the same job is unaffected.
	_, _, created, err = svc.Apply(ctx, ApplyInput{UserID: "user-2", JobID: "job-1", JobTitle: "Intern"})
	require.NoError(t, err)
	require.True(t, created)
}

type failingSink struct{}

func (failingSink) Notify(context.Context, CreateNotificationInput) error {
	return errors.New("sink down")
}

func TestApplicationServiceApplySurvivesSinkFailure(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	progressSvc, err := NewProgressService(db, failingSink{})
	require.NoError(t, err)
	svc, err := NewApplicationService(db, progressSvc, failingSink{}, WithApplyLatency(0))
	require.NoError(t, err)

	// Notification delivery is best-effort; the registry write must stand.
	dto, _, created, err := svc.Apply(context.Background(), ApplyInput{UserID: "user-1", JobID: "job-1", JobTitle: "Intern"})
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, dto)

	applied, err := svc.HasApplied(context.Background(), "user-1", "job-1")
	require.NoError(t, err)
	require.True(t, applied)
}

func TestApplicationServiceApplyIsCancelable(t *testing.T) {
	svc, _, _ := newTestApplicationService(t, WithApplyLatency(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := svc.Apply(ctx, ApplyInput{UserID: "user-1", JobID: "job-1", JobTitle: "Intern"})
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))

	applied, err := svc.HasApplied(context.Background(), "user-1", "job-1")
	require.NoError(t, err)
	require.False(t, applied)
}

func TestApplicationServiceUpdateStatus(t *testing.T) {
	svc, _, sink := newTestApplicationService(t)

	ctx := context.Background()
	dto, _, _, err := svc.Apply(ctx, ApplyInput{UserID: "user-1", JobID: "job-1", JobTitle: "Intern"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "user-1", dto.ID, models.ApplicationStatusInterview)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusInterview, updated.Status)
	require.Contains(t, sink.titles(), "Application update")

	// Same status again is a no-op.
	updated, err = svc.UpdateStatus(ctx, "user-1", dto.ID, models.ApplicationStatusInterview)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusInterview, updated.Status)

	_, err = svc.UpdateStatus(ctx, "user-1", dto.ID, "ghosted")
	require.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "user-1", "missing-id", models.ApplicationStatusViewed)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// Another user cannot touch the application.
	_, err = svc.UpdateStatus(ctx, "user-2", dto.ID, models.ApplicationStatusViewed)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplicationServiceListNewestFirst(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)

	ctx := context.Background()
	for _, jobID := range []string{"job-1", "job-2", "job-3"} {
		_, _, _, err := svc.Apply(ctx, ApplyInput{UserID: "user-1", JobID: jobID, JobTitle: "Role " + jobID})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	items, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "job-3", items[0].JobID)
	require.Equal(t, "job-1", items[2].JobID)
}
