package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHistory(t *testing.T, path, body string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestReloaderPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeHistory(t, path, "months:\n  - {month: Jan, leads: 10, adapted: 1}\n", base)

	r, err := NewReloader(path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []Month{{Month: "Jan", Leads: 10, Adapted: 1}}, r.Months())
	assert.False(t, r.LoadedAt().IsZero())

	changed, err := r.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	writeHistory(t, path, "months:\n  - {month: Feb, leads: 20, adapted: 2}\n", base.Add(time.Minute))
	changed, err = r.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Feb", r.Months()[0].Month)
}

func TestReloaderKeepsLastGoodData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeHistory(t, path, "months:\n  - {month: Jan, leads: 10, adapted: 1}\n", base)

	r, err := NewReloader(path, time.Hour)
	require.NoError(t, err)

	writeHistory(t, path, "months: [", base.Add(time.Minute))
	_, err = r.Reload()
	require.Error(t, err)
	assert.Equal(t, "Jan", r.Months()[0].Month)
}

func TestNewReloaderRequiresReadableFile(t *testing.T) {
	_, err := NewReloader(filepath.Join(t.TempDir(), "missing.yaml"), time.Hour)
	assert.Error(t, err)
}

func TestReloaderStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	writeHistory(t, path, "months:\n  - {month: Jan, leads: 10, adapted: 1}\n", base)

	r, err := NewReloader(path, 10*time.Millisecond)
	require.NoError(t, err)
	r.Start()
	defer r.Stop()

	writeHistory(t, path, "months:\n  - {month: Mar, leads: 30, adapted: 3}\n", base.Add(time.Hour))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && r.Months()[0].Month != "Mar" {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, "Mar", r.Months()[0].Month)

	r.Stop()
}
