package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushitiwary/CallSense/internal/types"
)

// fakeCompleter scripts provider replies and counts round trips.
type fakeCompleter struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func TestIntakeRejectsEmptyInputWithoutProviderCall(t *testing.T) {
	fc := &fakeCompleter{}
	res, err := NewIntake(fc).Process(context.Background(), "   \n\t ")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Reason)
	assert.Zero(t, fc.calls)
}

func TestIntakeAcceptsTranscript(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"is_valid": true, "reason": "looks like a call", "estimated_speakers": 3}`}}
	res, err := NewIntake(fc).Process(context.Background(), "Agent: Hello. Customer: Hi.")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 3, res.Speakers)
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, fc.prompts[0], "Agent: Hello. Customer: Hi.")
}

func TestIntakeInvalidGetsDefaultReason(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"is_valid": false, "reason": "", "estimated_speakers": 0}`}}
	res, err := NewIntake(fc).Process(context.Background(), "lorem ipsum dolor")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Reason)
}

func TestTranscriptionKeepsRawText(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"```json\n{\"speaker_count\": 2, \"duration\": \"4m30s\"}\n```"}}
	tr, err := NewTranscription(fc).Process(context.Background(), "Agent: Hello.", 2)
	require.NoError(t, err)
	assert.Equal(t, "Agent: Hello.", tr.Text)
	assert.Equal(t, 2, tr.SpeakerCount)
	assert.Equal(t, "4m30s", tr.Duration)
}

func TestTranscriptionFallsBackToSpeakerHint(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"speaker_count": 0, "duration": ""}`}}
	tr, err := NewTranscription(fc).Process(context.Background(), "text", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.SpeakerCount)
}

func TestSummarizationParsesStructuredReply(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{
		"key_points": ["bill disputed", "credit issued"],
		"customer_issue": "incorrect bill",
		"resolution": "credited the difference",
		"sentiment": "neutral",
		"category": "billing",
		"action_items": ["verify next invoice"]
	}`}}
	s, err := NewSummarization(fc).Process(context.Background(), types.CallTranscript{Text: "..."})
	require.NoError(t, err)
	assert.Equal(t, types.CategoryBilling, s.Category)
	assert.Equal(t, types.SentimentNeutral, s.Sentiment)
	assert.Len(t, s.KeyPoints, 2)
	assert.Equal(t, []string{"verify next invoice"}, s.ActionItems)
}

func TestSummarizationRejectsUnknownEnum(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{
		"key_points": ["a"],
		"customer_issue": "x",
		"resolution": "y",
		"sentiment": "furious",
		"category": "billing"
	}`}}
	_, err := NewSummarization(fc).Process(context.Background(), types.CallTranscript{Text: "..."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment")
}

func TestSummarizationRejectsNonJSONReply(t *testing.T) {
	fc := &fakeCompleter{replies: []string{"I could not analyze this call, sorry."}}
	_, err := NewSummarization(fc).Process(context.Background(), types.CallTranscript{Text: "..."})
	require.Error(t, err)
}

func TestQualityScoringValidatesBounds(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"empathy": 7, "professionalism": 8, "resolution": 6, "compliance": 9}`}}
	q, err := NewQualityScoring(fc).Process(context.Background(), types.CallTranscript{Text: "..."}, types.CallSummary{})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, q.Overall(), 1e-9)

	fc = &fakeCompleter{replies: []string{`{"empathy": 12, "professionalism": 8, "resolution": 6, "compliance": 9}`}}
	_, err = NewQualityScoring(fc).Process(context.Background(), types.CallTranscript{Text: "..."}, types.CallSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRoutingDefaultsTagsToClassification(t *testing.T) {
	fc := &fakeCompleter{replies: []string{`{"recommendations": ["coach on empathy"], "tags": []}`}}
	res, err := NewRouting(fc).Process(context.Background(), types.CallSummary{
		Category:  types.CategoryComplaint,
		Sentiment: types.SentimentNegative,
	}, types.QAScore{})
	require.NoError(t, err)
	assert.Equal(t, []string{"coach on empathy"}, res.Recommendations)
	assert.Equal(t, []string{"complaint", "negative"}, res.Tags)
}

func TestAgentErrorsPropagate(t *testing.T) {
	boom := errors.New("gateway down")
	fc := &fakeCompleter{err: boom}
	_, err := NewRouting(fc).Process(context.Background(), types.CallSummary{}, types.QAScore{})
	require.ErrorIs(t, err, boom)
}
