package models

// ResultSummary is the worker-produced summary.json document. Both sections
// are optional; callers render absent sections as zero counts and rates via
// the nil-safe accessors below.
type ResultSummary struct {
	TackleSummary *TackleSummary `json:"tackle_summary,omitempty"`
	RuckSummary   *RuckSummary   `json:"ruck_summary,omitempty"`
}

// TackleSummary breaks tackle events down by outcome quality.
type TackleSummary struct {
	Count       int     `json:"count"`
	PctDominant float64 `json:"pct_dominant"`
	PctNeutral  float64 `json:"pct_neutral"`
	PctLost     float64 `json:"pct_lost"`
}

// RuckSummary breaks ruck events down by duration bucket.
type RuckSummary struct {
	Count      int     `json:"count"`
	MedianS    float64 `json:"median_s"`
	PctUnder3s float64 `json:"pct_under_3s"`
	Pct3To5s   float64 `json:"pct_3_to_5s"`
	Pct5To8s   float64 `json:"pct_5_to_8s"`
	PctOver8s  float64 `json:"pct_over_8s"`
}

// Tackles returns the tackle section, or a zero-valued summary when the
// document (or the section) is absent.
func (s *ResultSummary) Tackles() TackleSummary {
	if s == nil || s.TackleSummary == nil {
		return TackleSummary{}
	}
	return *s.TackleSummary
}

// Rucks returns the ruck section, or a zero-valued summary when the document
// (or the section) is absent.
func (s *ResultSummary) Rucks() RuckSummary {
	if s == nil || s.RuckSummary == nil {
		return RuckSummary{}
	}
	return *s.RuckSummary
}
