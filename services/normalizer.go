// services/normalizer.go
package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"wellness-payout-system/models"
)

// Field aliases per metric. Vendor API versions disagree on naming — v1
// nests scores under objects ("sleep":{"score":...}), v2 flattens them
// ("sleep_score"). The normalizer is the only place that knows this; nothing
// downstream ever touches a raw payload.
var recordFieldPaths = map[models.HealthDataType][]string{
	models.DataTypeSleep:     {"sleep_score", "sleep.score", "sleepScore", "sleep.sleep_score"},
	models.DataTypeSteps:     {"steps", "activity.steps", "step_count", "activity.step_count"},
	models.DataTypeRecovery:  {"recovery_score", "recovery.score", "recoveryScore"},
	models.DataTypeStrain:    {"strain_score", "strain.score", "strainScore", "strain"},
	models.DataTypeHeartRate: {"heart_rate", "heartRate", "heart_rate_avg", "vitals.heart_rate"},
	models.DataTypeWeight:    {"weight", "weight_kg", "body.weight"},
}

var dateFieldPaths = []string{"date", "day", "cycle.date", "record_date"}

// NormalizeRecords converts a raw vendor payload batch into the canonical
// daily record shape: most-recent-first, one record per date, entries with
// no parseable date dropped. Unparseable values are skipped per field, never
// fatal to the batch. Pure — no side effects.
func NormalizeRecords(raw []map[string]any) []models.HealthRecord {
	records := make([]models.HealthRecord, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		if entry == nil {
			continue
		}
		date, ok := lookupDate(entry)
		if !ok || seen[date] {
			continue
		}
		seen[date] = true

		rec := models.HealthRecord{Date: date}
		rec.SleepScore = lookupNumber(entry, recordFieldPaths[models.DataTypeSleep])
		rec.Steps = lookupNumber(entry, recordFieldPaths[models.DataTypeSteps])
		rec.RecoveryScore = lookupNumber(entry, recordFieldPaths[models.DataTypeRecovery])
		rec.StrainScore = lookupNumber(entry, recordFieldPaths[models.DataTypeStrain])
		rec.HeartRate = lookupNumber(entry, recordFieldPaths[models.DataTypeHeartRate])
		rec.Weight = lookupNumber(entry, recordFieldPaths[models.DataTypeWeight])
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

// lookupDate finds a parseable calendar date in the entry and returns it in
// YYYY-MM-DD form.
func lookupDate(entry map[string]any) (string, bool) {
	for _, path := range dateFieldPaths {
		v, ok := lookupPath(entry, path)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.Format("2006-01-02"), true
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// lookupNumber tries each path in order and returns the first value that
// parses as a number.
func lookupNumber(entry map[string]any, paths []string) *float64 {
	for _, path := range paths {
		v, ok := lookupPath(entry, path)
		if !ok {
			continue
		}
		if f, ok := asFloat(v); ok {
			return &f
		}
	}
	return nil
}

// lookupPath resolves a dotted path ("sleep.score") through nested maps, or
// a flat key ("sleep_score") directly.
func lookupPath(entry map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	cur := any(entry)
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
