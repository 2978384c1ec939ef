// Package metrics defines the small instrumentation surface the kernel reports
// through, so a backend such as Prometheus can be plugged in without the core
// packages importing it.
package metrics

// Counter is a monotonically increasing metric.
type Counter interface {
	Inc()
	Add(delta float64)
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
}

// Timer measures the duration of one operation. Call ObserveDuration when it
// completes.
type Timer interface {
	ObserveDuration()
}
