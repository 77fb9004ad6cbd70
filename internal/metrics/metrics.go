package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics счетчики сервиса собеседований. Методы безопасно вызывать на nil.
type Metrics struct {
	InterviewsStarted   prometheus.Counter
	PositionsSet        prometheus.Counter
	AnswersSubmitted    prometheus.Counter
	InterviewsCompleted prometheus.Counter
	FeedbackFailures    *prometheus.CounterVec
	GeneratorCalls      *prometheus.CounterVec
	GeneratorDuration   *prometheus.HistogramVec
	FallbackUsed        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InterviewsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "neurohr_interviews_started_total",
			Help: "Total number of interview sessions created",
		}),
		PositionsSet: factory.NewCounter(prometheus.CounterOpts{
			Name: "neurohr_positions_set_total",
			Help: "Total number of positions set on sessions",
		}),
		AnswersSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "neurohr_answers_submitted_total",
			Help: "Total number of accepted answers",
		}),
		InterviewsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "neurohr_interviews_completed_total",
			Help: "Total number of interviews moved to completed",
		}),
		FeedbackFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neurohr_feedback_failures_total",
			Help: "Feedback results carrying a failure, by kind",
		}, []string{"kind"}),
		GeneratorCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neurohr_generator_calls_total",
			Help: "Calls to the text generation backend by operation and status",
		}, []string{"operation", "status"}),
		GeneratorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neurohr_generator_call_duration_seconds",
			Help:    "Duration of text generation backend calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		FallbackUsed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "neurohr_generator_fallback_total",
			Help: "Times static fallback content replaced generated content",
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementInterviewsStarted() {
	if m == nil {
		return
	}
	m.InterviewsStarted.Inc()
}

func (m *Metrics) IncrementPositionsSet() {
	if m == nil {
		return
	}
	m.PositionsSet.Inc()
}

func (m *Metrics) IncrementAnswersSubmitted() {
	if m == nil {
		return
	}
	m.AnswersSubmitted.Inc()
}

func (m *Metrics) IncrementInterviewsCompleted() {
	if m == nil {
		return
	}
	m.InterviewsCompleted.Inc()
}

func (m *Metrics) IncrementFeedbackFailure(kind string) {
	if m == nil {
		return
	}
	m.FeedbackFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementFallback(operation string) {
	if m == nil {
		return
	}
	m.FallbackUsed.WithLabelValues(operation).Inc()
}

// ObserveGeneratorCall учитывает один вызов бэкенда генерации
func (m *Metrics) ObserveGeneratorCall(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.GeneratorCalls.WithLabelValues(operation, status).Inc()
	m.GeneratorDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
