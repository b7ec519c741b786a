package biz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var catalogRecordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "moviediary",
	Name:      "catalog_records_skipped_total",
	Help:      "Catalog records dropped by hydration for a missing id or a failed mapping.",
})
