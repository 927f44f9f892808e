package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LikesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "like_service_likes_total",
		Help: "Total number of recorded likes.",
	})

	UnlikesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "like_service_unlikes_total",
		Help: "Total number of removed likes.",
	})

	CascadeDeletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "like_service_cascade_deletions_total",
		Help: "Total number of processed post deletion events.",
	})
)
