package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenpilot/screenpilot/pkg/screen"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func TestRecorderInterface(t *testing.T) {
	var _ screen.Recorder = (*Repository)(nil)
}

func TestRecordAndQueryFinds(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.RecordFind(screen.FindRecord{
		Target:     "login_button",
		Backend:    "x11",
		Similarity: 0.85,
		Success:    true,
		Duration:   120 * time.Millisecond,
	}))
	require.NoError(t, repo.RecordFind(screen.FindRecord{
		Target:     "login_button",
		Backend:    "x11",
		Similarity: 0.85,
		Success:    false,
		Duration:   10 * time.Second,
		DumpPath:   "/tmp/screenpilot/abc",
	}))

	events, err := repo.GetEventsSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "login_button", events[0].TargetName)
	assert.Equal(t, int64(120), events[0].DurationMS)

	failures, err := repo.GetFailuresSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.False(t, failures[0].Success)
	assert.Equal(t, "/tmp/screenpilot/abc", failures[0].DumpPath)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
}

func TestGetLatestOnEmptyDatabase(t *testing.T) {
	repo := newTestRepository(t)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLearnedSimilarityReturnsMostRecent(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.RecordCalibration(screen.CalibrationRecord{
		Target: "save_icon", Upper: 0.89, Lower: 0.69, Step: 0.033, Learned: 0.79,
	}))
	require.NoError(t, repo.RecordCalibration(screen.CalibrationRecord{
		Target: "save_icon", Upper: 0.89, Lower: 0.69, Step: 0.033, Learned: 0.82,
	}))

	learned, ok, err := repo.LearnedSimilarity("save_icon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.82, learned, 1e-9)
}

func TestLearnedSimilarityUnknownTarget(t *testing.T) {
	repo := newTestRepository(t)

	_, ok, err := repo.LearnedSimilarity("never_seen")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetTargetSummarySince(t *testing.T) {
	repo := newTestRepository(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.RecordFind(screen.FindRecord{
			Target: "ok_button", Backend: "x11", Success: i < 2,
			Duration: time.Duration(i+1) * 100 * time.Millisecond,
		}))
	}
	require.NoError(t, repo.RecordFind(screen.FindRecord{
		Target: "cancel_button", Backend: "x11", Success: true,
	}))

	summaries, err := repo.GetTargetSummarySince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "ok_button", summaries[0].TargetName)
	assert.Equal(t, 3, summaries[0].EventCount)
	assert.Equal(t, 2, summaries[0].Successes)
	assert.InDelta(t, 200, summaries[0].AvgMS, 1e-6)
}

func TestDeleteOldEvents(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.RecordFind(screen.FindRecord{Target: "old", Backend: "x11"}))

	deleted, err := repo.DeleteOldEvents(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, err := repo.GetEventsSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}
