package ingest

import (
	"math"
	"strconv"

	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// TackleEventAt normalizes a decoded tackles.csv record into a typed event.
// index is the 0-based record position; the event's SequenceIndex is 1-based.
func TackleEventAt(rec Record, index int) models.TackleEvent {
	return models.TackleEvent{
		SequenceIndex:      index + 1,
		StartTimeSeconds:   floatField(rec, "start_time_s"),
		DurationSeconds:    floatField(rec, "duration_s"),
		BodiesInvolved:     intField(rec, "bodies_involved"),
		DisplacementMeters: floatField(rec, "displacement_m"),
		Quality:            qualityField(rec),
		Confidence:         floatField(rec, "confidence"),
	}
}

// RuckEventAt normalizes a decoded rucks.csv record into a typed event.
func RuckEventAt(rec Record, index int) models.RuckEvent {
	return models.RuckEvent{
		SequenceIndex:    index + 1,
		StartTimeSeconds: floatField(rec, "start_time_s"),
		DurationSeconds:  floatField(rec, "duration_s"),
		BodiesInvolved:   intField(rec, "bodies_involved"),
		Confidence:       floatField(rec, "confidence"),
	}
}

// TackleEvents normalizes a full decoded table, preserving input order.
func TackleEvents(recs []Record) []models.TackleEvent {
	events := make([]models.TackleEvent, len(recs))
	for i, rec := range recs {
		events[i] = TackleEventAt(rec, i)
	}
	return events
}

// RuckEvents normalizes a full decoded table, preserving input order.
func RuckEvents(recs []Record) []models.RuckEvent {
	events := make([]models.RuckEvent, len(recs))
	for i, rec := range recs {
		events[i] = RuckEventAt(rec, i)
	}
	return events
}

// floatField parses a float with a 0 fallback. ParseFloat accepts "NaN" and
// "Inf", which must not reach the rendered structures, so those coerce to 0
// as well.
func floatField(rec Record, key string) float64 {
	v, err := strconv.ParseFloat(rec[key], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func intField(rec Record, key string) int {
	v, err := strconv.Atoi(rec[key])
	if err != nil {
		return 0
	}
	return v
}

// qualityField passes the raw quality string through unvalidated; values
// outside the known set are accepted as-is. Missing or empty defaults to
// neutral.
func qualityField(rec Record) string {
	if q := rec["quality"]; q != "" {
		return q
	}
	return models.QualityNeutral
}
