package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushitiwary/CallSense/internal/types"
)

func done(category types.Category, sentiment types.Sentiment, q types.QAScore) types.Result {
	return types.Result{
		Status: types.StatusDone,
		Analysis: &types.CallAnalysis{
			Summary:  types.CallSummary{Category: category, Sentiment: sentiment},
			QAScores: q,
		},
	}
}

func TestAggregate(t *testing.T) {
	results := []types.Result{
		done(types.CategoryBilling, types.SentimentNegative, types.QAScore{Empathy: 6, Professionalism: 8, Resolution: 4, Compliance: 8}),
		done(types.CategoryBilling, types.SentimentNeutral, types.QAScore{Empathy: 8, Professionalism: 8, Resolution: 6, Compliance: 10}),
		{Status: types.StatusRejected, Reason: "empty"},
		{Status: types.StatusFailed, Stage: "Routing", Error: "Routing: provider unavailable"},
	}

	s := Aggregate(results)

	assert.Equal(t, 4, s.TotalCalls)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.ByCategory[types.CategoryBilling])
	assert.Equal(t, 1, s.BySentiment[types.SentimentNegative])
	assert.InDelta(t, 7, s.MeanScores.Empathy, 1e-9)
	assert.InDelta(t, 8, s.MeanScores.Professionalism, 1e-9)
	assert.InDelta(t, 5, s.MeanScores.Resolution, 1e-9)
	assert.InDelta(t, 9, s.MeanScores.Compliance, 1e-9)
	assert.InDelta(t, 0.5, s.NegativeShare, 1e-9)
}

func TestAggregateEmptyBatch(t *testing.T) {
	s := Aggregate(nil)
	assert.Zero(t, s.Completed)
	assert.InDelta(t, 0, s.MeanScores.Overall(), 1e-9)
}

func TestGenerateCardFlagsWeakestDimension(t *testing.T) {
	s := Aggregate([]types.Result{
		done(types.CategoryComplaint, types.SentimentNeutral, types.QAScore{Empathy: 8, Professionalism: 9, Resolution: 4, Compliance: 9}),
	})
	card := GenerateCard(s)
	assert.Contains(t, card.Insight, "resolution")
	assert.Contains(t, card.Action, "resolution")
}

func TestGenerateCardFlagsNegativeSentimentShare(t *testing.T) {
	s := Aggregate([]types.Result{
		done(types.CategoryComplaint, types.SentimentNegative, types.QAScore{Empathy: 8, Professionalism: 9, Resolution: 8, Compliance: 9}),
		done(types.CategoryBilling, types.SentimentPositive, types.QAScore{Empathy: 8, Professionalism: 9, Resolution: 8, Compliance: 9}),
	})
	card := GenerateCard(s)
	assert.Contains(t, card.Insight, "negative sentiment")
}

func TestGenerateCardNoPattern(t *testing.T) {
	s := Aggregate([]types.Result{
		done(types.CategoryGeneral, types.SentimentPositive, types.QAScore{Empathy: 9, Professionalism: 9, Resolution: 9, Compliance: 9}),
	})
	card := GenerateCard(s)
	assert.Equal(t, "No strong weakness pattern detected", card.Insight)
}

func TestGenerateCardEmptyBatch(t *testing.T) {
	card := GenerateCard(Aggregate(nil))
	require.NotEmpty(t, card.Insight)
	assert.Contains(t, card.Insight, "No completed analyses")
}
