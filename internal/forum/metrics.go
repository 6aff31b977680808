package forum

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK      = "ok"
	outcomeDenied  = "denied"
	outcomeInvalid = "invalid"
	outcomeMissing = "missing"
)

// Metrics are optional; a nil *Metrics records nothing.
type Metrics struct {
	mutations *prometheus.CounterVec
	posts     prometheus.Gauge
	comments  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forum_mutations_total",
			Help: "Forum operations by outcome (ok, denied, invalid, missing)",
		}, []string{"op", "outcome"}),
		posts: f.NewGauge(prometheus.GaugeOpts{
			Name: "forum_posts",
			Help: "Posts in the current snapshot",
		}),
		comments: f.NewGauge(prometheus.GaugeOpts{
			Name: "forum_comments",
			Help: "Comments in the current snapshot",
		}),
	}
}

func (mt *Metrics) count(op, outcome string) {
	if mt == nil {
		return
	}
	mt.mutations.WithLabelValues(op, outcome).Inc()
}

func (mt *Metrics) observe(s *Snapshot) {
	if mt == nil || s == nil {
		return
	}
	mt.posts.Set(float64(len(s.posts)))
	mt.comments.Set(float64(len(s.comments)))
}
