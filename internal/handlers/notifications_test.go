package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/database/testutil"
	"github.com/edusprout/edusprout/internal/realtime"
	"github.com/edusprout/edusprout/internal/services"
)

func TestNotificationHandlerListAndMarkRead(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewNotificationHandler(db, realtime.NewHub())
	require.NoError(t, err)

	_, err = handler.service.ListForUser(testContext(), services.ListNotificationsInput{UserID: "user-1"}) // seeds welcome
	require.NoError(t, err)

	_, err = handler.service.Create(testContext(), services.CreateNotificationInput{
		UserID:  "user-1",
		Type:    services.NotificationTypeAchievement,
		Title:   "Badge unlocked: Profile Pro",
		Message: "Completed your profile",
	})
	require.NoError(t, err)

	c, recorder := testGinContext(t, "user-1", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, recorder.Code)

	var items []services.NotificationDTO
	decodeData(t, recorder, &items)
	require.Len(t, items, 2) // created + welcome seed
	require.Equal(t, "Badge unlocked: Profile Pro", items[0].Title)

	c, recorder = testGinContext(t, "user-1", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: items[0].ID}}
	handler.MarkRead(c)
	require.Equal(t, http.StatusOK, recorder.Code)

	var dto services.NotificationDTO
	decodeData(t, recorder, &dto)
	require.True(t, dto.IsRead)
}

func TestNotificationHandlerUnreadCountAndClear(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewNotificationHandler(db, realtime.NewHub())
	require.NoError(t, err)

	c, recorder := testGinContext(t, "user-1", nil)
	handler.UnreadCount(c)
	require.Equal(t, http.StatusOK, recorder.Code)

	var counts struct {
		Unread int64 `json:"unread"`
	}
	decodeData(t, recorder, &counts)
	require.EqualValues(t, 1, counts.Unread) // welcome seed

	c, recorder = testGinContext(t, "user-1", nil)
	handler.ClearAll(c)
	require.Equal(t, http.StatusOK, recorder.Code)

	c, recorder = testGinContext(t, "user-1", nil)
	handler.List(c)
	var items []services.NotificationDTO
	decodeData(t, recorder, &items)
	require.Empty(t, items)
}

func TestNotificationHandlerMarkReadUnknownID(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewNotificationHandler(db, realtime.NewHub())
	require.NoError(t, err)

	c, recorder := testGinContext(t, "user-1", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "missing"}}
	handler.MarkRead(c)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
