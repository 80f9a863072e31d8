package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seuros/hirefunnel/internal/dashboard"
	"github.com/seuros/hirefunnel/internal/funnel"
	"github.com/seuros/hirefunnel/internal/history"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = original

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// isolateConfig keeps config files and env of the host out of the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{"PORT", "DEFAULT_TARGET_LEADS", "DEFAULT_PERIOD", "HISTORY_FILE", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func sampleView(leads int) dashboard.View {
	return dashboard.Build(funnel.Input{TargetLeads: leads}, history.PeriodMonth, history.Sample)
}

func TestOutputFunnelTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, sampleView(1000), "table", 20))

	out := buf.String()
	assert.Contains(t, out, "Воронка подбора: 1000 лидов (Месяц)")
	assert.Contains(t, out, "Обработано лидов")
	assert.Contains(t, out, "13.93%")
	assert.Contains(t, out, strings.Repeat("█", 20))
	assert.Contains(t, out, "0.90%")
	assert.Contains(t, out, "4 644 ₽")
}

func TestOutputFunnelTableZeroLeads(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, sampleView(0), "", 20))

	out := buf.String()
	assert.Contains(t, out, funnel.NotAvailable)
	assert.NotContains(t, out, "█")
}

func TestOutputViewJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, sampleView(1000), "json", 0))

	var view dashboard.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, []int{1000, 139, 57, 38, 9}, view.Funnel.Counts())
	assert.Equal(t, history.PeriodMonth, view.Period)
}

func TestOutputViewYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, sampleView(0), "yaml", 0))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "month", decoded["period"])

	f := decoded["funnel"].(map[string]any)
	assert.Nil(t, f["overall_efficiency"])
}

func TestOutputStagesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, sampleView(1000), "csv", 0))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, funnel.StageCount+1)
	assert.Equal(t, []string{"key", "label", "count", "stage_conversion", "cumulative_conversion"}, rows[0])
	assert.Equal(t, []string{"adapted", "Адаптировалось", "9", "22.70", "0.90"}, rows[5])
}

func TestWriteViewRejectsUnknownFormat(t *testing.T) {
	err := writeView(io.Discard, sampleView(1), "xml", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: xml")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 100, 10))
	assert.Equal(t, "", bar(5, 0, 10))
	assert.Equal(t, "█", bar(1, 1000, 10))
	assert.Equal(t, "█████", bar(50, 100, 10))
	assert.Equal(t, strings.Repeat("█", 10), bar(100, 100, 10))
	assert.Equal(t, strings.Repeat("█", 10), bar(200, 100, 10))
	assert.Equal(t, strings.Repeat("█", 40), bar(math.MaxInt, math.MaxInt, 40))
	assert.Equal(t, strings.Repeat("█", 20), bar(math.MaxInt/2, math.MaxInt, 40))
}

func TestOutputFunnelTableHugeLeadCount(t *testing.T) {
	view := sampleView(funnel.ParseTargetLeads("3458764513820540928"))

	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		require.NoError(t, writeView(&buf, view, "table", 40))
	})
	assert.Contains(t, buf.String(), strings.Repeat("█", 40))
}

func TestRunCalcUsesArgumentAndPeriod(t *testing.T) {
	isolateConfig(t)

	var buf bytes.Buffer
	require.NoError(t, runCalc(&buf, []string{"2000"}, "week", "json"))

	var view dashboard.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 2000, view.Funnel.TargetLeads)
	assert.Equal(t, history.PeriodWeek, view.Period)
}

func TestRunCalcDefaultsFromEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("DEFAULT_TARGET_LEADS", "500")
	t.Setenv("DEFAULT_PERIOD", "quarter")

	var buf bytes.Buffer
	require.NoError(t, runCalc(&buf, nil, "", "json"))

	var view dashboard.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 500, view.Funnel.TargetLeads)
	assert.Equal(t, history.PeriodQuarter, view.Period)
}

func TestRunCalcInvalidArgumentIsZero(t *testing.T) {
	isolateConfig(t)

	var buf bytes.Buffer
	require.NoError(t, runCalc(&buf, []string{"lots"}, "", "csv"))
	assert.Contains(t, buf.String(), "leads,Обработано лидов,0,100.00,N/A")
}

func TestRunCalcRejectsUnknownPeriod(t *testing.T) {
	isolateConfig(t)

	err := runCalc(io.Discard, nil, "fortnight", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortnight")
}

func TestOutputRates(t *testing.T) {
	output := captureStdout(t, func() {
		require.NoError(t, outputRates())
	})

	assert.Contains(t, output, "13.93%")
	assert.Contains(t, output, "41.25%")
	assert.Contains(t, output, "66.60%")
	assert.Contains(t, output, "22.70%")
	assert.Contains(t, output, "41.8 ₽")
}

func TestOutputHistory(t *testing.T) {
	output := captureStdout(t, func() {
		require.NoError(t, outputHistory(history.Sample.Months()))
	})

	assert.Contains(t, output, "МЕСЯЦ")
	assert.Contains(t, output, "Янв")
	assert.Contains(t, output, "1200")

	empty := captureStdout(t, func() {
		require.NoError(t, outputHistory(nil))
	})
	assert.Equal(t, "No history\n", empty)
}
