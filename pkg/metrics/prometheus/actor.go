package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"stewart/pkg/actor"
	"stewart/pkg/metrics"
)

type actorMetrics struct {
	messageDuration *prometheus.HistogramVec
	messagesTotal   *prometheus.CounterVec
	droppedTotal    *prometheus.CounterVec
	spawnedTotal    *prometheus.CounterVec
	stoppedTotal    *prometheus.CounterVec
	spawnFailed     *prometheus.CounterVec
	queueDepth      prometheus.Gauge
	liveActors      prometheus.Gauge
}

// NewActorMetrics creates the runtime metrics and registers them on reg.
func NewActorMetrics(reg prometheus.Registerer) actor.Metrics {
	m := &actorMetrics{
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stewart_actor_message_duration_seconds",
			Help:    "Message handling time in seconds",
			Buckets: defaultBuckets,
		}, []string{"actor_type"}),

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stewart_actor_messages_total",
			Help: "Total number of messages handed to actors",
		}, []string{"actor_type", "outcome"}),

		droppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stewart_actor_messages_dropped_total",
			Help: "Messages dropped because their address did not resolve",
		}, []string{"reason"}),

		spawnedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stewart_actor_spawned_total",
			Help: "Total number of actors installed",
		}, []string{"actor_type"}),

		stoppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stewart_actor_stopped_total",
			Help: "Total number of actors removed after returning Stop",
		}, []string{"actor_type"}),

		spawnFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stewart_actor_spawn_failed_total",
			Help: "Total number of failed factories",
		}, []string{"message_type"}),

		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stewart_runtime_queue_depth",
			Help: "Messages waiting in the runtime queue",
		}),

		liveActors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stewart_runtime_live_actors",
			Help: "Installed actors, the starter included",
		}),
	}

	reg.MustRegister(
		m.messageDuration,
		m.messagesTotal,
		m.droppedTotal,
		m.spawnedTotal,
		m.stoppedTotal,
		m.spawnFailed,
		m.queueDepth,
		m.liveActors,
	)

	return m
}

func (m *actorMetrics) MessageDuration(actorType string) metrics.Timer {
	return newTimer(m.messageDuration.WithLabelValues(actorType))
}

func (m *actorMetrics) MessageProcessed(actorType string, outcome string) {
	m.messagesTotal.WithLabelValues(actorType, outcome).Inc()
}

func (m *actorMetrics) MessageDropped(reason string) {
	m.droppedTotal.WithLabelValues(reason).Inc()
}

func (m *actorMetrics) ActorSpawned(actorType string) {
	m.spawnedTotal.WithLabelValues(actorType).Inc()
}

func (m *actorMetrics) ActorStopped(actorType string) {
	m.stoppedTotal.WithLabelValues(actorType).Inc()
}

func (m *actorMetrics) SpawnFailed(messageType string) {
	m.spawnFailed.WithLabelValues(messageType).Inc()
}

func (m *actorMetrics) QueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

func (m *actorMetrics) LiveActors(count int) {
	m.liveActors.Set(float64(count))
}

var _ actor.Metrics = (*actorMetrics)(nil)
