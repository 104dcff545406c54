// Package pipeline sequences the five call-analysis stages. The flow is a
// straight line with a single conditional edge out of Intake; there is no
// scheduler and no concurrency, each run owns its own state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ayushitiwary/CallSense/internal/agents"
	"github.com/ayushitiwary/CallSense/internal/llm"
	"github.com/ayushitiwary/CallSense/internal/logger"
	"github.com/ayushitiwary/CallSense/internal/types"
)

// Stage names as they appear in failure results.
const (
	StageIntake         = "Intake"
	StageTranscription  = "Transcription"
	StageSummarization  = "Summarization"
	StageQualityScoring = "QualityScoring"
	StageRouting        = "Routing"
)

// State accumulates stage outputs over one run. It is never shared between
// runs.
type State struct {
	RawInput        string
	Intake          agents.IntakeResult
	Transcript      types.CallTranscript
	Summary         types.CallSummary
	Scores          types.QAScore
	Recommendations []string
	Tags            []string
}

// Pipeline wires the five agents against one provider client. Construct it
// once at startup and reuse it across calls.
type Pipeline struct {
	intake         *agents.Intake
	transcription  *agents.Transcription
	summarization  *agents.Summarization
	qualityScoring *agents.QualityScoring
	routing        *agents.Routing
}

func New(c llm.Completer) *Pipeline {
	return &Pipeline{
		intake:         agents.NewIntake(c),
		transcription:  agents.NewTranscription(c),
		summarization:  agents.NewSummarization(c),
		qualityScoring: agents.NewQualityScoring(c),
		routing:        agents.NewRouting(c),
	}
}

// ProcessCall runs one transcript through Intake, Transcription,
// Summarization, QualityScoring and Routing, in that order. It returns
// exactly one terminal outcome: done with a full analysis, rejected with a
// reason when intake validation fails, or failed with the first erroring
// stage. A failure discards whatever earlier stages produced; the controller
// never retries.
func (p *Pipeline) ProcessCall(ctx context.Context, raw string) types.Result {
	log := logger.New().WithComponent("pipeline")
	start := time.Now()
	st := &State{RawInput: raw}

	fail := func(stage string, err error) types.Result {
		log.WithField("stage", stage).WithField("error", err.Error()).Warn("stage failed")
		return types.Result{
			Status:     types.StatusFailed,
			Stage:      stage,
			Error:      fmt.Sprintf("%s: %v", stage, err),
			DurationMs: time.Since(start).Milliseconds(),
		}
	}

	intake, err := p.intake.Process(ctx, st.RawInput)
	if err != nil {
		return fail(StageIntake, err)
	}
	st.Intake = intake
	if !intake.Valid {
		log.WithField("reason", intake.Reason).Info("transcript rejected at intake")
		return types.Result{
			Status:     types.StatusRejected,
			Reason:     intake.Reason,
			DurationMs: time.Since(start).Milliseconds(),
		}
	}

	if st.Transcript, err = p.transcription.Process(ctx, st.RawInput, intake.Speakers); err != nil {
		return fail(StageTranscription, err)
	}
	if st.Summary, err = p.summarization.Process(ctx, st.Transcript); err != nil {
		return fail(StageSummarization, err)
	}
	if st.Scores, err = p.qualityScoring.Process(ctx, st.Transcript, st.Summary); err != nil {
		return fail(StageQualityScoring, err)
	}
	routing, err := p.routing.Process(ctx, st.Summary, st.Scores)
	if err != nil {
		return fail(StageRouting, err)
	}
	st.Recommendations = routing.Recommendations
	st.Tags = routing.Tags

	analysis := &types.CallAnalysis{
		Transcript:      st.Transcript,
		Summary:         st.Summary,
		QAScores:        st.Scores,
		Recommendations: st.Recommendations,
		Tags:            st.Tags,
	}
	log.WithField("category", analysis.Summary.Category).
		WithField("overall", analysis.QAScores.Overall()).
		Info("call analysis complete")

	return types.Result{
		Status:     types.StatusDone,
		Analysis:   analysis,
		DurationMs: time.Since(start).Milliseconds(),
	}
}
