package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/database/testutil"
)

func TestCommunityServicePostsAreGlobal(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewCommunityService(db, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.CreatePost(ctx, CreatePostInput{UserID: "user-a", Author: "Alice", Content: "first"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	mine, err := svc.CreatePost(ctx, CreatePostInput{UserID: "user-b", Author: "Bob", Content: "second"})
	require.NoError(t, err)
	require.True(t, mine.Mine)

	posts, err := svc.ListPosts(ctx, "user-b", 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "second", posts[0].Content)
	require.True(t, posts[0].Mine)
	require.False(t, posts[1].Mine)
}

func TestCommunityServiceRejectsEmptyContent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewCommunityService(db, nil)
	require.NoError(t, err)

	_, err = svc.CreatePost(context.Background(), CreatePostInput{UserID: "user-a", Content: "   "})
	require.Error(t, err)
}

func TestCommunityServiceDefaultsAuthor(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewCommunityService(db, nil)
	require.NoError(t, err)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: "user-a", Content: "hi"})
	require.NoError(t, err)
	require.Equal(t, "Anonymous", post.Author)
}

func TestCommunityServiceRecordVisitUnlocksBadgeOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	progressSvc, err := NewProgressService(db, nil)
	require.NoError(t, err)
	svc, err := NewCommunityService(db, progressSvc)
	require.NoError(t, err)

	ctx := context.Background()
	events, err := svc.RecordVisit(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, EventBadgeUnlocked, events[0].Kind)
	require.Equal(t, "community_builder", events[0].Badge.ID)

	events, err = svc.RecordVisit(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, events)

	dto, err := progressSvc.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 80, dto.XP)
}
