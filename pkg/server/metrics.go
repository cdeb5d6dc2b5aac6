package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

const metricsNamespace = "image_studio"

// Metrics は生成リクエストとセッション数の指標です。
type Metrics struct {
	submitsTotal   *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	uploadsTotal   *prometheus.CounterVec
	sessionsActive prometheus.GaugeFunc
}

// NewMetrics は reg に指標を登録します。
// sessions は収集のたびに呼ばれ、期限切れや LRU で消えたセッションも反映されます。
func NewMetrics(reg prometheus.Registerer, sessions func() int) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		submitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "submits_total",
				Help:      "Total number of submit operations by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		submitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "submit_duration_seconds",
				Help:      "Submit duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"mode"},
		),
		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "uploads_total",
				Help:      "Total number of uploads by result",
			},
			[]string{"result"},
		),
		sessionsActive: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Number of live sessions",
		}, func() float64 { return float64(sessions()) }),
	}
}

func (m *Metrics) observeSubmit(mode domain.Mode, outcome studio.Outcome, seconds float64) {
	m.submitsTotal.WithLabelValues(string(mode), outcome.String()).Inc()
	if outcome != studio.OutcomeSkipped && outcome != studio.OutcomeInvalid {
		m.submitDuration.WithLabelValues(string(mode)).Observe(seconds)
	}
}

func (m *Metrics) observeUpload(result string) {
	m.uploadsTotal.WithLabelValues(result).Inc()
}
