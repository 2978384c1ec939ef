package actor

import "stewart/pkg/metrics"

// Outcome labels for Metrics.MessageProcessed.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomePanic    = "panic"
	OutcomeMismatch = "mismatch"
)

// Metrics receives runtime instrumentation. Implementations must be safe for
// concurrent use; producers report queue depth from their own goroutines.
type Metrics interface {
	MessageDuration(actorType string) metrics.Timer
	MessageProcessed(actorType string, outcome string)
	MessageDropped(reason string)

	ActorSpawned(actorType string)
	ActorStopped(actorType string)
	SpawnFailed(messageType string)

	QueueDepth(depth int)
	LiveActors(count int)
}

type nopMetrics struct{}

func (nopMetrics) MessageDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) MessageProcessed(string, string)      {}
func (nopMetrics) MessageDropped(string)                {}
func (nopMetrics) ActorSpawned(string)                  {}
func (nopMetrics) ActorStopped(string)                  {}
func (nopMetrics) SpawnFailed(string)                   {}
func (nopMetrics) QueueDepth(int)                       {}
func (nopMetrics) LiveActors(int)                       {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }
