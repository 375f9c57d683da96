package metrics

import "time"

// Pipeline names used as label values.
const (
	PipelineSite  = "site"
	PipelineMacro = "macro"
)

// Outcome is the final status of a pipeline run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines the observability hooks used by the pipelines.
type Recorder interface {
	ObserveBuildDuration(pipeline string, d time.Duration)
	IncBuildOutcome(pipeline string, outcome Outcome)
	IncDocuments(pipeline string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string, Outcome)            {}
func (NoopRecorder) IncDocuments(string)                        {}

// OutcomeOf maps a pipeline error to its outcome label.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeSuccess
}
