package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestats/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "livestats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestProcessLogLifecycle(t *testing.T) {
	st := newTestStore(t)

	log := &model.ProcessLog{
		JobID:    "job-1",
		Filename: "tiktok.xlsx",
		FileSize: 1024,
		FileHash: "abc",
		Mode:     model.OutputFormula,
	}
	id, err := st.CreateProcessLog(log)
	require.NoError(t, err)
	assert.Equal(t, id, log.ID)

	got, err := st.GetProcessLog("job-1")
	require.NoError(t, err)
	assert.Equal(t, model.ProcessStatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)

	summary := &model.ProcessSummary{
		Format:  model.FormatTikTokLivestream,
		Rows:    3,
		Days:    2,
		Months:  1,
		Headers: []string{"Livestream", "Start time"},
	}
	require.NoError(t, st.CompleteProcessLog(id, summary, model.ProcessStatusDone, ""))

	got, err = st.GetProcessLog("job-1")
	require.NoError(t, err)
	assert.Equal(t, model.ProcessStatusDone, got.Status)
	assert.Equal(t, model.FormatTikTokLivestream, got.Format)
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, 2, got.Days)
	assert.Equal(t, []string{"Livestream", "Start time"}, ParseHeadersJSON(got.HeadersJSON))
	assert.NotNil(t, got.CompletedAt)

	_, err = st.GetProcessLog("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProcessLogsAndStats(t *testing.T) {
	st := newTestStore(t)

	for i, f := range []model.FormatID{model.FormatTikTokLivestream, model.FormatTikTokLivestream, model.FormatShopeeMonthlyOrDaily} {
		log := &model.ProcessLog{JobID: string(rune('a' + i)), Filename: "f", Mode: model.OutputValue}
		id, err := st.CreateProcessLog(log)
		require.NoError(t, err)
		require.NoError(t, st.CompleteProcessLog(id, &model.ProcessSummary{Format: f, Rows: 10}, model.ProcessStatusDone, ""))
	}
	rejected := &model.ProcessLog{JobID: "r", Filename: "bad.xlsx"}
	id, err := st.CreateProcessLog(rejected)
	require.NoError(t, err)
	require.NoError(t, st.CompleteProcessLog(id, nil, model.ProcessStatusRejected, "unsupported file format"))

	logs, err := st.ListProcessLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, "r", logs[0].JobID)
	assert.Equal(t, "unsupported file format", logs[0].ErrorMessage)

	stats, err := st.ListFormatStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, FormatStat{Format: model.FormatTikTokLivestream, Files: 2, Rows: 20}, stats[0])
}

func TestSettingsOutputMode(t *testing.T) {
	st := newTestStore(t)

	assert.Equal(t, model.OutputFormula, st.GetOutputMode(model.OutputFormula))
	require.NoError(t, st.SetOutputMode(model.OutputValue))
	assert.Equal(t, model.OutputValue, st.GetOutputMode(model.OutputFormula))
	require.NoError(t, st.SetOutputMode(model.OutputFormula))
	assert.Equal(t, model.OutputFormula, st.GetOutputMode(model.OutputValue))

	_, err := st.GetSetting("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
