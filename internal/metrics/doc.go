// Package metrics records build observations for the site and macro
// pipelines.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// only collected when a caller injects a PrometheusRecorder (the preview
// server does, and exposes it on /metrics).
package metrics
