package models

// Recognized tackle quality values. The normalizer passes unrecognized values
// through unchanged, so consumers must tolerate strings outside this set.
const (
	QualityDominant = "dominant"
	QualityNeutral  = "neutral"
	QualityLost     = "lost"
)

// TackleEvent is one detected tackle, parsed from a tackles.csv row.
// SequenceIndex is the 1-based position in file order, not a stored ID.
type TackleEvent struct {
	SequenceIndex      int     `json:"sequence_index"`
	StartTimeSeconds   float64 `json:"start_time_s"`
	DurationSeconds    float64 `json:"duration_s"`
	BodiesInvolved     int     `json:"bodies_involved"`
	DisplacementMeters float64 `json:"displacement_m"`
	Quality            string  `json:"quality"`
	Confidence         float64 `json:"confidence"`
}

// RuckEvent is one detected ruck, parsed from a rucks.csv row.
type RuckEvent struct {
	SequenceIndex    int     `json:"sequence_index"`
	StartTimeSeconds float64 `json:"start_time_s"`
	DurationSeconds  float64 `json:"duration_s"`
	BodiesInvolved   int     `json:"bodies_involved"`
	Confidence       float64 `json:"confidence"`
}
