package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsMigratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_migrated_total",
		Help: "Total number of parent products migrated successfully",
	})

	ProductsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "products_failed_total",
		Help: "Total number of product migrations that ended in error",
	}, []string{"reason"})

	VariantsMigratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variants_migrated_total",
		Help: "Total number of product variants migrated successfully",
	})

	VariantsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variants_failed_total",
		Help: "Total number of variant migrations that ended in error",
	})

	CustomersMigratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customers_migrated_total",
		Help: "Total number of customers migrated successfully",
	})

	CustomersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customers_failed_total",
		Help: "Total number of customer migrations that ended in error",
	}, []string{"reason"})

	OrdersMigratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_migrated_total",
		Help: "Total number of orders migrated successfully",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of order migrations that ended in error",
	}, []string{"reason"})

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifications_total",
		Help: "Total number of verification attempts by outcome",
	}, []string{"outcome"})

	VerificationFixesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_fixes_total",
		Help: "Total number of corrective updates applied by field",
	}, []string{"field"})

	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "migration_batch_duration_seconds",
		Help:    "Duration of one batch invocation",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"entity"})

	RemoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_requests_total",
		Help: "Total number of destination API requests",
	}, []string{"method", "status"})

	RemoteRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "remote_request_duration_seconds",
		Help:    "Latency of destination API requests",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
