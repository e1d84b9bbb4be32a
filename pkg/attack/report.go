package attack

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScoreStats summarizes the scores of one probe group.
type ScoreStats struct {
	// Count is the number of probes with a usable outcome.
	Count int `json:"count"`

	// Failed is the number of probes that errored out.
	Failed int `json:"failed"`

	// Accepted is the number of accepted probes.
	Accepted int `json:"accepted"`

	// Mean, Min and Max summarize the scores of usable probes. Zero
	// when Count is zero.
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// AcceptRate is Accepted over Count, or zero for an empty group.
func (s ScoreStats) AcceptRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Count)
}

// Summary condenses a run into the numbers a report prints: how the
// system treated real speech versus cloned speech.
type Summary struct {
	Baseline ScoreStats `json:"baseline"`
	Attack   ScoreStats `json:"attack"`
}

// SpoofSuccessRate is the share of attack probes the system accepted,
// the headline number of a run.
func (s Summary) SpoofSuccessRate() float64 {
	return s.Attack.AcceptRate()
}

// Summarize computes the score summary for a run.
func Summarize(r *RunResult) Summary {
	return Summary{
		Baseline: summarize(r.Baseline),
		Attack:   summarize(r.Attacks),
	}
}

func summarize(results []SampleResult) ScoreStats {
	var s ScoreStats
	scores := make([]float64, 0, len(results))
	for _, res := range results {
		if res.Err != "" {
			s.Failed++
			continue
		}
		s.Count++
		if res.Outcome.Accepted {
			s.Accepted++
		}
		scores = append(scores, res.Outcome.Score)
	}
	if len(scores) > 0 {
		s.Mean = stat.Mean(scores, nil)
		s.Min = floats.Min(scores)
		s.Max = floats.Max(scores)
	}
	return s
}
