package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sentiment is the overall tone of a call.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment normalizes a provider-reported sentiment value.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	case SentimentNegative:
		return SentimentNegative, nil
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

// Category classifies the reason for a call.
type Category string

const (
	CategoryComplaint   Category = "complaint"
	CategoryInquiry     Category = "inquiry"
	CategoryTechSupport Category = "technical_support"
	CategoryBilling     Category = "billing"
	CategoryGeneral     Category = "general"
)

// ParseCategory normalizes a provider-reported category value.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryComplaint:
		return CategoryComplaint, nil
	case CategoryInquiry:
		return CategoryInquiry, nil
	case CategoryTechSupport:
		return CategoryTechSupport, nil
	case CategoryBilling:
		return CategoryBilling, nil
	case CategoryGeneral:
		return CategoryGeneral, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CallTranscript is the structured form of the raw call text.
type CallTranscript struct {
	Text         string `json:"text"`
	SpeakerCount int    `json:"speaker_count"`
	Duration     string `json:"duration,omitempty"`
}

// CallSummary captures what the call was about and how it ended.
type CallSummary struct {
	KeyPoints     []string  `json:"key_points"`
	CustomerIssue string    `json:"customer_issue"`
	Resolution    string    `json:"resolution"`
	Sentiment     Sentiment `json:"sentiment"`
	Category      Category  `json:"category"`
	ActionItems   []string  `json:"action_items"`
}

// QAScore holds the four quality dimensions, each on a 0-10 scale.
// The overall score is always derived from the four, never stored,
// so it cannot drift out of sync.
type QAScore struct {
	Empathy         float64 `json:"empathy"`
	Professionalism float64 `json:"professionalism"`
	Resolution      float64 `json:"resolution"`
	Compliance      float64 `json:"compliance"`
}

// Overall is the arithmetic mean of the four dimensions.
func (q QAScore) Overall() float64 {
	return (q.Empathy + q.Professionalism + q.Resolution + q.Compliance) / 4
}

// Validate rejects any dimension outside [0, 10]. An out-of-range value
// means the provider response was parsed wrong, not that the call was bad.
func (q QAScore) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"empathy", q.Empathy},
		{"professionalism", q.Professionalism},
		{"resolution", q.Resolution},
		{"compliance", q.Compliance},
	} {
		if d.v < 0 || d.v > 10 {
			return fmt.Errorf("%s score %.2f out of range [0, 10]", d.name, d.v)
		}
	}
	return nil
}

type qaScoreWire struct {
	Empathy         float64 `json:"empathy"`
	Professionalism float64 `json:"professionalism"`
	Resolution      float64 `json:"resolution"`
	Compliance      float64 `json:"compliance"`
	Overall         float64 `json:"overall"`
}

// MarshalJSON emits the derived overall score alongside the four dimensions.
func (q QAScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(qaScoreWire{
		Empathy:         q.Empathy,
		Professionalism: q.Professionalism,
		Resolution:      q.Resolution,
		Compliance:      q.Compliance,
		Overall:         q.Overall(),
	})
}

// UnmarshalJSON reads the four dimensions; any serialized overall value is
// discarded and recomputed on demand.
func (q *QAScore) UnmarshalJSON(data []byte) error {
	var w qaScoreWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	q.Empathy = w.Empathy
	q.Professionalism = w.Professionalism
	q.Resolution = w.Resolution
	q.Compliance = w.Compliance
	return nil
}

// CallAnalysis is the completed record for one call. The pipeline builds it
// once per run and never mutates it afterwards.
type CallAnalysis struct {
	Transcript      CallTranscript `json:"transcript"`
	Summary         CallSummary    `json:"summary"`
	QAScores        QAScore        `json:"qa_scores"`
	Recommendations []string       `json:"recommendations"`
	Tags            []string       `json:"tags"`
}

// Status is the terminal outcome of one pipeline run.
type Status string

const (
	StatusDone     Status = "done"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Result is the tagged union returned by the pipeline: exactly one of
// Done(analysis), Rejected(reason) or Failed(stage, error).
type Result struct {
	Status     Status        `json:"status"`
	Analysis   *CallAnalysis `json:"analysis,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Stage      string        `json:"stage,omitempty"`
	Error      string        `json:"error,omitempty"`
	DurationMs int64         `json:"duration_ms"`
}
