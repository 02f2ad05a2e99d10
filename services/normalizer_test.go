package services

import (
	"testing"

	"wellness-payout-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordsFlatShape(t *testing.T) {
	raw := []map[string]any{
		{"date": "2026-08-30", "sleep_score": 85.0, "steps": 9000.0},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-30", records[0].Date)
	require.NotNil(t, records[0].SleepScore)
	assert.Equal(t, 85.0, *records[0].SleepScore)
	require.NotNil(t, records[0].Steps)
	assert.Equal(t, 9000.0, *records[0].Steps)
	assert.Nil(t, records[0].RecoveryScore)
}

func TestNormalizeRecordsNestedShape(t *testing.T) {
	// Older vendor API versions nest scores under objects.
	raw := []map[string]any{
		{
			"date":     "2026-08-30",
			"sleep":    map[string]any{"score": 77.0},
			"recovery": map[string]any{"score": 64.0},
			"strain":   map[string]any{"score": 12.3},
		},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].SleepScore)
	assert.Equal(t, 77.0, *records[0].SleepScore)
	require.NotNil(t, records[0].RecoveryScore)
	assert.Equal(t, 64.0, *records[0].RecoveryScore)
	require.NotNil(t, records[0].StrainScore)
	assert.Equal(t, 12.3, *records[0].StrainScore)
}

func TestNormalizeRecordsDropsDatelessEntries(t *testing.T) {
	raw := []map[string]any{
		{"sleep_score": 90.0},
		{"date": "not-a-date", "sleep_score": 91.0},
		{"date": "2026-08-29", "sleep_score": 92.0},
		nil,
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-29", records[0].Date)
}

func TestNormalizeRecordsSortsMostRecentFirst(t *testing.T) {
	raw := []map[string]any{
		{"date": "2026-08-28", "sleep_score": 70.0},
		{"date": "2026-08-30", "sleep_score": 80.0},
		{"date": "2026-08-29", "sleep_score": 75.0},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 3)
	assert.Equal(t, "2026-08-30", records[0].Date)
	assert.Equal(t, "2026-08-29", records[1].Date)
	assert.Equal(t, "2026-08-28", records[2].Date)
}

func TestNormalizeRecordsDedupesByDate(t *testing.T) {
	raw := []map[string]any{
		{"date": "2026-08-30", "sleep_score": 80.0},
		{"date": "2026-08-30", "sleep_score": 50.0},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, 80.0, *records[0].SleepScore)
}

func TestNormalizeRecordsRFC3339Dates(t *testing.T) {
	raw := []map[string]any{
		{"date": "2026-08-30T07:12:00Z", "heart_rate": 58.0},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-30", records[0].Date)
	require.NotNil(t, records[0].HeartRate)
}

func TestNormalizeRecordsSkipsUnparseableValues(t *testing.T) {
	raw := []map[string]any{
		{"date": "2026-08-30", "sleep_score": "not a number", "steps": "8000"},
	}
	records := NormalizeRecords(raw)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].SleepScore)
	require.NotNil(t, records[0].Steps, "numeric strings should parse")
	assert.Equal(t, 8000.0, *records[0].Steps)
}

func TestValueForUnknownType(t *testing.T) {
	rec := models.HealthRecord{Date: "2026-08-30"}
	assert.Nil(t, rec.ValueFor(models.HealthDataType("blood_sugar")))
}
