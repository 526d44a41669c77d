package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/database/testutil"
	"github.com/edusprout/edusprout/internal/models"
)

func TestBookmarkServiceAddIsIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewBookmarkService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	input := SaveBookmarkInput{
		UserID:   "user-1",
		ItemID:   "job-42",
		ItemType: models.BookmarkTypeJob,
		Title:    "Backend Intern",
		Data:     map[string]any{"salary": "paid"},
	}

	first, created, err := svc.Add(ctx, input)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Add(ctx, input)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	items, err := svc.ListForUser(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "paid", items[0].Data["salary"])
}

func TestBookmarkServiceCompositeIdentity(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewBookmarkService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	// The same item id saved under both types is two distinct bookmarks.
	_, created, err := svc.Add(ctx, SaveBookmarkInput{
		UserID: "user-1", ItemID: "item-7", ItemType: models.BookmarkTypeJob, Title: "as job",
	})
	require.NoError(t, err)
	require.True(t, created)

	_, created, err = svc.Add(ctx, SaveBookmarkInput{
		UserID: "user-1", ItemID: "item-7", ItemType: models.BookmarkTypeScholarship, Title: "as scholarship",
	})
	require.NoError(t, err)
	require.True(t, created)

	jobs, err := svc.ListForUser(ctx, "user-1", models.BookmarkTypeJob)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	all, err := svc.ListForUser(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestBookmarkServiceToggle(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewBookmarkService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	input := SaveBookmarkInput{
		UserID:   "user-1",
		ItemID:   "sch-1",
		ItemType: models.BookmarkTypeScholarship,
		Title:    "Merit Scholarship",
	}

	result, err := svc.Toggle(ctx, input)
	require.NoError(t, err)
	require.True(t, result.Bookmarked)
	require.NotNil(t, result.Bookmark)

	saved, err := svc.IsBookmarked(ctx, "user-1", "sch-1", models.BookmarkTypeScholarship)
	require.NoError(t, err)
	require.True(t, saved)

	result, err = svc.Toggle(ctx, input)
	require.NoError(t, err)
	require.False(t, result.Bookmarked)

	saved, err = svc.IsBookmarked(ctx, "user-1", "sch-1", models.BookmarkTypeScholarship)
	require.NoError(t, err)
	require.False(t, saved)
}

func TestBookmarkServiceRemoveAbsentIsNoOp(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewBookmarkService(db, nil)
	require.NoError(t, err)

	removed, err := svc.Remove(context.Background(), "user-1", "nope", models.BookmarkTypeJob)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestBookmarkServiceRejectsUnknownType(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewBookmarkService(db, nil)
	require.NoError(t, err)

	_, _, err = svc.Add(context.Background(), SaveBookmarkInput{
		UserID: "user-1", ItemID: "x", ItemType: "course", Title: "nope",
	})
	require.Error(t, err)
}

func TestBookmarkServiceFeedsProgress(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	progressSvc, err := NewProgressService(db, nil)
	require.NoError(t, err)
	svc, err := NewBookmarkService(db, progressSvc)
	require.NoError(t, err)

	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		_, created, err := svc.Add(ctx, SaveBookmarkInput{
			UserID: "user-1", ItemID: id, ItemType: models.BookmarkTypeJob, Title: "job",
		})
		require.NoError(t, err)
		require.True(t, created, "add %d", i)
	}

	// Third save completes the collector quest.
	dto, err := progressSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 60, dto.XP)
}
