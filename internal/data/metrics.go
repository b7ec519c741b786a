package data

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviediary",
		Name:      "page_cache_requests_total",
		Help:      "Page cache lookups by result (hit or miss).",
	}, []string{"result"})

	catalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviediary",
		Name:      "catalog_requests_total",
		Help:      "Outbound catalog requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	moviesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "moviediary",
		Name:      "movies_inserted_total",
		Help:      "Movies written to the store by catalog hydration.",
	})
)
