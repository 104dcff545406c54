// Package agents holds the five pipeline stages. Every agent performs exactly
// one provider round trip, parses the reply into a schema type and reports
// anything unparseable as an error for the controller to surface.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayushitiwary/CallSense/internal/llm"
	"github.com/ayushitiwary/CallSense/internal/types"
)

// IntakeResult is the outcome of transcript validation.
type IntakeResult struct {
	Valid    bool   `json:"is_valid"`
	Reason   string `json:"reason"`
	Speakers int    `json:"estimated_speakers"`
}

// RoutingResult carries the improvement recommendations and search tags.
type RoutingResult struct {
	Recommendations []string `json:"recommendations"`
	Tags            []string `json:"tags"`
}

// Intake validates that the raw input is plausibly a call transcript.
type Intake struct {
	llm llm.Completer
}

func NewIntake(c llm.Completer) *Intake {
	return &Intake{llm: c}
}

const intakePrompt = `You are a call intake specialist. Analyze this input and determine if it is a valid call center transcript:

%s

Respond ONLY with valid JSON in this exact format:
{"is_valid": true, "reason": "short explanation", "estimated_speakers": 2}`

// Process rejects empty input locally, without any provider call; everything
// else gets one validation round trip.
func (a *Intake) Process(ctx context.Context, raw string) (IntakeResult, error) {
	if strings.TrimSpace(raw) == "" {
		return IntakeResult{
			Valid:  false,
			Reason: "input is empty; a call transcript is required",
		}, nil
	}

	content, err := a.llm.Complete(ctx, fmt.Sprintf(intakePrompt, raw))
	if err != nil {
		return IntakeResult{}, err
	}

	var res IntakeResult
	if err := decode(content, &res); err != nil {
		return IntakeResult{}, fmt.Errorf("intake response: %w", err)
	}
	if !res.Valid && res.Reason == "" {
		res.Reason = "input does not look like a call transcript"
	}
	if res.Speakers <= 0 {
		res.Speakers = 2
	}
	return res, nil
}

// Transcription structures the validated text into a CallTranscript. The
// transcript text itself is passed through untouched.
type Transcription struct {
	llm llm.Completer
}

func NewTranscription(c llm.Completer) *Transcription {
	return &Transcription{llm: c}
}

const transcriptionPrompt = `You are a transcript structuring assistant. Count the distinct speakers in this call transcript and extract the call duration if one is stated anywhere in it.

Transcript:

%s

Respond ONLY with valid JSON in this exact format:
{"speaker_count": 2, "duration": "" }`

func (a *Transcription) Process(ctx context.Context, raw string, speakerHint int) (types.CallTranscript, error) {
	content, err := a.llm.Complete(ctx, fmt.Sprintf(transcriptionPrompt, raw))
	if err != nil {
		return types.CallTranscript{}, err
	}

	var parsed struct {
		SpeakerCount int    `json:"speaker_count"`
		Duration     string `json:"duration"`
	}
	if err := decode(content, &parsed); err != nil {
		return types.CallTranscript{}, fmt.Errorf("transcription response: %w", err)
	}
	if parsed.SpeakerCount <= 0 {
		parsed.SpeakerCount = speakerHint
	}
	return types.CallTranscript{
		Text:         raw,
		SpeakerCount: parsed.SpeakerCount,
		Duration:     parsed.Duration,
	}, nil
}

// Summarization produces the structured call summary.
type Summarization struct {
	llm llm.Completer
}

func NewSummarization(c llm.Completer) *Summarization {
	return &Summarization{llm: c}
}

const summarizationPrompt = `You are an expert call summarizer. Analyze the call transcript and provide a structured summary.

Respond ONLY with valid JSON in this exact format:
{
    "key_points": ["point1", "point2", "point3"],
    "customer_issue": "brief description",
    "resolution": "how it was resolved",
    "sentiment": "positive" or "neutral" or "negative",
    "category": "complaint" or "inquiry" or "technical_support" or "billing" or "general",
    "action_items": ["action1", "action2"]
}

Transcript:

%s`

func (a *Summarization) Process(ctx context.Context, t types.CallTranscript) (types.CallSummary, error) {
	content, err := a.llm.Complete(ctx, fmt.Sprintf(summarizationPrompt, t.Text))
	if err != nil {
		return types.CallSummary{}, err
	}

	var parsed struct {
		KeyPoints     []string `json:"key_points"`
		CustomerIssue string   `json:"customer_issue"`
		Resolution    string   `json:"resolution"`
		Sentiment     string   `json:"sentiment"`
		Category      string   `json:"category"`
		ActionItems   []string `json:"action_items"`
	}
	if err := decode(content, &parsed); err != nil {
		return types.CallSummary{}, fmt.Errorf("summarization response: %w", err)
	}

	sentiment, err := types.ParseSentiment(parsed.Sentiment)
	if err != nil {
		return types.CallSummary{}, fmt.Errorf("summarization response: %w", err)
	}
	category, err := types.ParseCategory(parsed.Category)
	if err != nil {
		return types.CallSummary{}, fmt.Errorf("summarization response: %w", err)
	}
	if len(parsed.KeyPoints) == 0 {
		return types.CallSummary{}, fmt.Errorf("summarization response: no key points")
	}

	return types.CallSummary{
		KeyPoints:     parsed.KeyPoints,
		CustomerIssue: parsed.CustomerIssue,
		Resolution:    parsed.Resolution,
		Sentiment:     sentiment,
		Category:      category,
		ActionItems:   parsed.ActionItems,
	}, nil
}

// QualityScoring grades the call on the four QA dimensions.
type QualityScoring struct {
	llm llm.Completer
}

func NewQualityScoring(c llm.Completer) *QualityScoring {
	return &QualityScoring{llm: c}
}

const qualityPrompt = `You are a call quality expert. Score this call on multiple dimensions (0-10 scale).

Respond ONLY with valid JSON in this exact format:
{"empathy": 7.5, "professionalism": 8.0, "resolution": 6.5, "compliance": 9.0}

Scoring guidelines:
- Empathy: Did the agent show understanding and care?
- Professionalism: Was communication clear and professional?
- Resolution: Was the issue effectively resolved?
- Compliance: Did the agent follow proper procedures?

Transcript:
%s

Summary:
Issue: %s
Resolution: %s
Sentiment: %s`

func (a *QualityScoring) Process(ctx context.Context, t types.CallTranscript, s types.CallSummary) (types.QAScore, error) {
	prompt := fmt.Sprintf(qualityPrompt, t.Text, s.CustomerIssue, s.Resolution, s.Sentiment)
	content, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return types.QAScore{}, err
	}

	var score types.QAScore
	if err := decode(content, &score); err != nil {
		return types.QAScore{}, fmt.Errorf("quality scoring response: %w", err)
	}
	if err := score.Validate(); err != nil {
		return types.QAScore{}, fmt.Errorf("quality scoring response: %w", err)
	}
	return score, nil
}

// Routing derives recommendations and tags from the finished analysis.
type Routing struct {
	llm llm.Completer
}

func NewRouting(c llm.Completer) *Routing {
	return &Routing{llm: c}
}

const routingPrompt = `You are a call routing and improvement specialist. Based on the call analysis, provide recommendations and tags.

Respond ONLY with valid JSON in this exact format:
{"recommendations": ["recommendation1", "recommendation2"], "tags": ["tag1", "tag2", "tag3"]}

Recommendations should be specific, actionable improvements for the agent or process.
Tags should be useful for categorization and searching.

Call Analysis:
Category: %s
Sentiment: %s
Issue: %s
Resolution: %s
Empathy Score: %.1f/10
Professionalism Score: %.1f/10
Resolution Score: %.1f/10
Compliance Score: %.1f/10`

func (a *Routing) Process(ctx context.Context, s types.CallSummary, q types.QAScore) (RoutingResult, error) {
	prompt := fmt.Sprintf(routingPrompt,
		s.Category, s.Sentiment, s.CustomerIssue, s.Resolution,
		q.Empathy, q.Professionalism, q.Resolution, q.Compliance)

	content, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return RoutingResult{}, err
	}

	var res RoutingResult
	if err := decode(content, &res); err != nil {
		return RoutingResult{}, fmt.Errorf("routing response: %w", err)
	}
	if len(res.Tags) == 0 {
		// tags always carry at least the classification
		res.Tags = []string{string(s.Category), string(s.Sentiment)}
	}
	return res, nil
}

// decode pulls the first JSON object out of a completion and unmarshals it.
func decode(content string, target any) error {
	raw := llm.ExtractJSON(content)
	if raw == "" {
		return fmt.Errorf("no JSON object in completion: %q", content)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("unmarshal completion JSON: %w", err)
	}
	return nil
}
