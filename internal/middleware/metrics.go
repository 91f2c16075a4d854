package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiepbuoc_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ApplicationsReviewed counts review decisions by variant and outcome.
	ApplicationsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiepbuoc_applications_reviewed_total",
		Help: "Total number of reviewed applications by type and outcome",
	}, []string{"type", "outcome"})

	// PublicSubmissions counts public form submissions by variant.
	PublicSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiepbuoc_public_submissions_total",
		Help: "Total number of public application submissions by type",
	}, []string{"type"})
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as standard middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
