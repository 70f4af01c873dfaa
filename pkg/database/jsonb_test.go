package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONB_ScanAndValue(t *testing.T) {
	var col JSONB[map[string]float64]
	require.NoError(t, col.Scan([]byte(`{"name":1.0,"dob":0.2}`)))
	assert.Equal(t, 1.0, col.Data["name"])
	assert.Equal(t, 0.2, col.Data["dob"])

	value, err := col.Value()
	require.NoError(t, err)

	var round JSONB[map[string]float64]
	require.NoError(t, round.Scan(value.([]byte)))
	assert.Equal(t, col.Data, round.Data)
}

func TestJSONB_ScanRejectsNonBytes(t *testing.T) {
	var col JSONB[map[string]any]
	assert.Error(t, col.Scan("not bytes"))
}

func TestJSONB_MarshalsAsWrappedValue(t *testing.T) {
	col := NewJSONB(map[string]int{"rows": 3})

	data, err := json.Marshal(col)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":3}`, string(data))

	var round JSONB[map[string]int]
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, col.Data, round.Data)
}
