// Package insights aggregates a batch of call analyses into team-level
// numbers and, when a clear pattern shows up, a single coaching action card.
package insights

import (
	"fmt"

	"github.com/ayushitiwary/CallSense/internal/types"
)

type Summary struct {
	TotalCalls    int                      `json:"total_calls"`
	Completed     int                      `json:"completed"`
	Rejected      int                      `json:"rejected"`
	Failed        int                      `json:"failed"`
	ByCategory    map[types.Category]int   `json:"by_category"`
	BySentiment   map[types.Sentiment]int  `json:"by_sentiment"`
	MeanScores    types.QAScore            `json:"mean_scores"`
	NegativeShare float64                  `json:"negative_share"`
}

// ActionCard is one concrete next step derived from the aggregate.
type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Aggregate folds completed analyses into a Summary. Rejected and failed runs
// are tallied but contribute nothing to the means.
func Aggregate(results []types.Result) Summary {
	s := Summary{
		TotalCalls:  len(results),
		ByCategory:  map[types.Category]int{},
		BySentiment: map[types.Sentiment]int{},
	}

	var sum types.QAScore
	for _, r := range results {
		switch r.Status {
		case types.StatusRejected:
			s.Rejected++
			continue
		case types.StatusFailed:
			s.Failed++
			continue
		}
		s.Completed++
		a := r.Analysis
		s.ByCategory[a.Summary.Category]++
		s.BySentiment[a.Summary.Sentiment]++
		sum.Empathy += a.QAScores.Empathy
		sum.Professionalism += a.QAScores.Professionalism
		sum.Resolution += a.QAScores.Resolution
		sum.Compliance += a.QAScores.Compliance
	}

	if s.Completed > 0 {
		n := float64(s.Completed)
		s.MeanScores = types.QAScore{
			Empathy:         sum.Empathy / n,
			Professionalism: sum.Professionalism / n,
			Resolution:      sum.Resolution / n,
			Compliance:      sum.Compliance / n,
		}
		s.NegativeShare = float64(s.BySentiment[types.SentimentNegative]) / n
	}
	return s
}

// weakDimensionThreshold marks a team-wide mean worth coaching on.
const weakDimensionThreshold = 6.0

// GenerateCard turns the aggregate into one action card. Patterns checked in
// priority order: a weak QA dimension, then a dominant negative-sentiment
// share.
func GenerateCard(s Summary) ActionCard {
	if s.Completed == 0 {
		return ActionCard{
			Insight: "No completed analyses in this batch",
			Action:  "Check input transcripts and provider configuration",
			Impact:  "None until calls complete",
		}
	}

	worstName := "empathy"
	worst := s.MeanScores.Empathy
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"professionalism", s.MeanScores.Professionalism},
		{"resolution", s.MeanScores.Resolution},
		{"compliance", s.MeanScores.Compliance},
	} {
		if d.v < worst {
			worst = d.v
			worstName = d.name
		}
	}
	if worst < weakDimensionThreshold {
		return ActionCard{
			Insight: fmt.Sprintf("Mean %s score is %.1f/10 across %d calls", worstName, worst, s.Completed),
			Action:  fmt.Sprintf("Schedule targeted %s coaching and review the lowest-scored calls", worstName),
			Impact:  "Lift the weakest QA dimension team-wide",
		}
	}

	if s.NegativeShare >= 0.4 {
		return ActionCard{
			Insight: fmt.Sprintf("%.0f%% of analyzed calls carry negative sentiment", s.NegativeShare*100),
			Action:  "Review the dominant complaint category and brief the team on de-escalation",
			Impact:  "Reduce repeat contacts and escalations",
		}
	}

	return ActionCard{
		Insight: "No strong weakness pattern detected",
		Action:  "Monitor and collect more calls",
		Impact:  "Low immediate intervention",
	}
}
