//go:build basic

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/blowline/shiftlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sqliteEnv(t *testing.T) []string {
	t.Helper()
	return []string{
		"SHIFTLOG_BACKEND=sqlite",
		"SHIFTLOG_DB_CONNECT=" + filepath.Join(t.TempDir(), "shiftlog.db"),
	}
}

func TestVersion(t *testing.T) {
	out, err := runShiftlog(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shiftlog CLI")
}

func TestCalc(t *testing.T) {
	out, err := runShiftlog(t, nil, "calc",
		"--section", "ASB 1 (PET)",
		"--shift-start", "22:00", "--shift-end", "06:00",
		"--breakdown-start-1", "01:00", "--breakdown-end-1", "01:30",
		"--good", "1000", "--rejected", "50", "--preform", "20", "--lumps", "5",
		"--output", "json",
	)
	require.NoError(t, err)

	var result struct {
		UnitWeight float64            `json:"unitWeightKg"`
		Metrics    schema.MetricsView `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0.706, result.UnitWeight)
	assert.Equal(t, "7.50", result.Metrics.NetRunningHours)
	assert.Equal(t, "0.50", result.Metrics.TotalDowntimeHours)
	assert.Equal(t, "7.16%", result.Metrics.WastagePercentage)
	assert.True(t, result.Metrics.WastageAlert)
}

func TestCalc_InvalidConfig(t *testing.T) {
	_, err := runShiftlog(t, nil, "calc", "--wastage-alert", "101")
	assert.Error(t, err)
}

func TestImportReportAndClear(t *testing.T) {
	env := sqliteEnv(t)

	_, err := runShiftlog(t, env, "import", fixturePath(t, "records.json"))
	require.NoError(t, err)

	out, err := runShiftlog(t, env, "report", "--output", "json")
	require.NoError(t, err)
	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Acme", report.Rows[0].Record.CustomerName)
	assert.Equal(t, "7.50", report.Rows[0].NetRunningHours)
	assert.Equal(t, "7.16%", report.Rows[0].WastagePercentage)
	assert.Equal(t, "Yes", report.Rows[0].Embossing)
	assert.Equal(t, "No", report.Rows[0].HotStamping)
	assert.Equal(t, "7.00", report.Rows[1].NetRunningHours)
	assert.Equal(t, "1.00", report.Rows[1].TotalDowntimeHours)
	assert.Equal(t, "0.99%", report.Rows[1].WastagePercentage)

	// Report values match an ad-hoc calculation of the same shift
	out, err = runShiftlog(t, env, "calc",
		"--section", "ASB 2 (PC)", "--shift-start", "22:00", "--shift-end", "06:00",
		"--breakdown-start-1", "23:30", "--breakdown-end-1", "00:30",
		"--good", "500", "--rejected", "5", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "7.00,1.00,0.99%,No")

	out, err = runShiftlog(t, env, "report", "--section", "ASB 2 (PC)", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "ASB 2 (PC),2024-03-14,Night"))

	out, err = runShiftlog(t, env, "customers", "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["Acme","Zeta Water"]`, out)

	out, err = runShiftlog(t, env, "latest")
	require.NoError(t, err)
	assert.Contains(t, out, "Zeta Water")
	assert.Contains(t, out, "Post-Production & Notes")
	assert.Contains(t, out, "None")

	workbook := filepath.Join(t.TempDir(), "report.xlsx")
	_, err = runShiftlog(t, env, "report", "--output", "xlsx", "--output-file", workbook)
	require.NoError(t, err)
	f, err := excelize.OpenFile(workbook)
	require.NoError(t, err)
	rows, err := f.GetRows("All Production")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	_ = f.Close()

	out, err = runShiftlog(t, env, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 2")
	assert.Contains(t, out, "Schema Version: 3")

	_, err = runShiftlog(t, env, "db", "clear")
	require.NoError(t, err)
	out, err = runShiftlog(t, env, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 0")
}

func TestDBMigrate(t *testing.T) {
	env := sqliteEnv(t)

	out, err := runShiftlog(t, env, "db", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "to version 3")

	out, err = runShiftlog(t, env, "db", "migrate", "--target-version", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "to version 1")

	_, err = runShiftlog(t, []string{"SHIFTLOG_BACKEND=memory"}, "db", "migrate")
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	env := append(sqliteEnv(t), fmt.Sprintf("PORT=%d", port), "SHIFTLOG_HOST=127.0.0.1")
	cmd := shiftlogCommand(t, env, "serve")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())
	defer func() { _ = cmd.Process.Kill() }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond, "server did not become healthy: %s", &stderr)

	data, err := os.ReadFile(fixturePath(t, "records.json"))
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))
	submission := docs[0]
	delete(submission, "_id")
	delete(submission, "createdAt")
	body, err := json.Marshal(submission)
	require.NoError(t, err)

	resp, err := http.Post(base+"/submit-production", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(base + "/get-last-record")
	require.NoError(t, err)
	last, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(last), `"wastagePercentage":"7.16%"`)

	require.NoError(t, cmd.Process.Signal(syscall.SIGINT))
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err, stderr.String())
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
