package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12.5, "b": " 40 ", "c": null}`), &payload))
	assert.Equal(t, Amount("12.5"), payload.A)
	assert.Equal(t, Amount("40"), payload.B)
	assert.Equal(t, Amount(""), payload.C)

	d, err := payload.A.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = Amount("abc").Decimal()
	assert.Error(t, err)
}

func TestAmountDecimalRoundsToCents(t *testing.T) {
	d, err := Amount("19.999").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "20.00", d.StringFixed(2))

	d, err = Amount(" 10.004 ").Decimal()
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("10")), d.String())
}

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/api/v1/students", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/students", 200, 30*time.Millisecond)
	m.ObserveDBQuery("student_balance", 4*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.DBQueryCount)
	assert.InDelta(t, 4.0, snap.AverageDBQueryDurationMs, 0.001)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.ObserveDBQuery("x", time.Millisecond)
	assert.Zero(t, m.Snapshot().RequestsTotal)
	assert.NotNil(t, m.Handler())
}
