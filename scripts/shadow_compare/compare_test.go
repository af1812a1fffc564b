package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffRecordsNormalisesMoneyAndFlags(t *testing.T) {
	goBody := []byte(`[{"id":1,"name":"Alice","balance_due":"35","is_active":true,"created_at":"2024-01-01T10:00:00Z"}]`)
	legacyBody := []byte(`[{"id":1,"name":"Alice","balance_due":35.0,"is_active":1,"total_owed_extra":75.0}]`)

	diffs, err := diffRecords(goBody, legacyBody)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestDiffRecordsReportsMismatches(t *testing.T) {
	goBody := []byte(`[{"id":1,"balance_due":"35"},{"id":3,"balance_due":"0"}]`)
	legacyBody := []byte(`[{"id":1,"balance_due":30.0},{"id":2,"balance_due":0}]`)

	diffs, err := diffRecords(goBody, legacyBody)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id 1 field balance_due: go=35 legacy=30",
		"id 2 missing from go response",
		"id 3 missing from legacy response",
	}, diffs)
}

func TestCompareTargetAgainstServers(t *testing.T) {
	goSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"hourly_rate":"50"}]`))
	}))
	defer goSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"hourly_rate":50.0}]`))
	}))
	defer legacySrv.Close()

	res := compareTarget(goSrv.Client(), goSrv.URL, legacySrv.URL, target{Method: http.MethodGet, Path: "api/students", Critical: true})
	require.NoError(t, res.Error)
	assert.True(t, res.ok())

	breaking, optional := tally([]comparison{res, {Target: target{Critical: false}, StatusMatch: true}})
	assert.Equal(t, 0, breaking)
	assert.Equal(t, 1, optional)

	var buf bytes.Buffer
	printReport(&buf, []comparison{res})
	assert.Contains(t, buf.String(), "[OK] GET api/students")
}
