package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "analyses_total",
			Help:      "Analysis requests by outcome",
		},
		[]string{"kind"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis request",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ArticlesFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Name:      "articles_fetched",
			Help:      "Articles returned by the news source per request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	NewsFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "news_fetch_failures_total",
			Help:      "News fetches that failed at the transport or decoding layer",
		},
		[]string{"source"},
	)
)
