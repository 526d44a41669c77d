package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edusprout/edusprout/internal/cache"
	"github.com/edusprout/edusprout/internal/database/testutil"
)

const strongResume = `Ada Lovelace
ada@example.com

Education
BSc Computer Science, Springfield University

Experience
Software engineering internship at Acme. Led a team of 4 people and
improved data pipeline throughput by 35%. Built dashboards in Python and
SQL used by 200 students. Mentored 3 members through code review.

Skills
Python, SQL, JavaScript, leadership, communication, project management,
research and data analysis. Volunteer tutor for first-year students.

Projects
Campus job board with 500 users. Wrote the matching engine in Java and
cut response times by 40%.`

func padWords(text string, target int) string {
	words := strings.Fields(text)
	filler := strings.Fields(strings.Repeat("coursework seminar study group notes review practice session ", 40))
	for len(words) < target {
		words = append(words, filler[len(words)%len(filler)])
	}
	return strings.Join(words, " ")
}

func TestResumeServiceScoresStrongResume(t *testing.T) {
	svc := NewResumeService(nil)

	result, err := svc.Score(context.Background(), padWords(strongResume, 150))
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Score, 80)
	require.Len(t, result.Checks, 5)
}

func TestResumeServiceScoresWeakResume(t *testing.T) {
	svc := NewResumeService(nil)

	result, err := svc.Score(context.Background(), "I am looking for a job. I work hard.")
	require.NoError(t, err)
	require.Less(t, result.Score, 30)

	var failures int
	for _, check := range result.Checks {
		if !check.Passed {
			failures++
			require.NotEmpty(t, check.Message)
		}
	}
	require.GreaterOrEqual(t, failures, 3)
}

func TestResumeServiceRejectsEmptyText(t *testing.T) {
	svc := NewResumeService(nil)

	_, err := svc.Score(context.Background(), "   ")
	require.Error(t, err)
}

func TestResumeServiceRejectsOversizedText(t *testing.T) {
	svc := NewResumeService(nil)

	_, err := svc.Score(context.Background(), strings.Repeat("x", resumeMaxLength+1))
	require.Error(t, err)
}

func TestResumeServiceCachesByContentHash(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := cache.NewDatabaseStore(db)
	svc := NewResumeService(store)

	ctx := context.Background()
	text := padWords(strongResume, 150)

	first, err := svc.Score(ctx, text)
	require.NoError(t, err)

	cached, ok, err := store.Get(ctx, resumeCacheKey(text))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, cached)

	second, err := svc.Score(ctx, text)
	require.NoError(t, err)
	require.Equal(t, first.Score, second.Score)
}
