package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		// Track in-flight requests
		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		// Record start time
		start := time.Now()

		// Process request
		c.Next()

		// Record metrics after request completes
		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // Use route pattern, not actual path

		// If no route matched, use the raw path
		if path == "" {
			path = c.Request.URL.Path
		}

		// Record HTTP request metrics
		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording fulfillment business metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordStockMovement records a stock movement event
func (b *BusinessMetrics) RecordStockMovement(movementType string) {
	b.metrics.RecordStockMovement(movementType)
}

// RecordReservationConflict records a reservation concurrency conflict outcome
func (b *BusinessMetrics) RecordReservationConflict(outcome string) {
	b.metrics.RecordReservationConflict(outcome)
}

// RecordPickListGenerated records a pick list generation event
func (b *BusinessMetrics) RecordPickListGenerated(strategy string) {
	b.metrics.RecordPickListGenerated(strategy)
}

// RecordItemsPicked records picked items
func (b *BusinessMetrics) RecordItemsPicked(status string, count int) {
	b.metrics.RecordItemsPicked(status, count)
}

// RecordPackagePacked records a completed packing session
func (b *BusinessMetrics) RecordPackagePacked(station string) {
	b.metrics.RecordPackagePacked(station)
}

// RecordWeightDiscrepancy records a failed weight verification
func (b *BusinessMetrics) RecordWeightDiscrepancy(station string) {
	b.metrics.RecordWeightDiscrepancy(station)
}

// RecordRTOResolution records an RTO resolution
func (b *BusinessMetrics) RecordRTOResolution(resolution string) {
	b.metrics.RecordRTOResolution(resolution)
}

// RecordLowStockAlert records a low stock alert
func (b *BusinessMetrics) RecordLowStockAlert(warehouse string) {
	b.metrics.RecordLowStockAlert(warehouse)
}

// RecordCircuitBreakerState records circuit breaker state
func (b *BusinessMetrics) RecordCircuitBreakerState(name string, state int) {
	b.metrics.SetCircuitBreakerState(name, state)
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (b *BusinessMetrics) RecordCircuitBreakerTrip(name string) {
	b.metrics.RecordCircuitBreakerTrip(name)
}

// MetricsConfig holds configuration for metrics middleware
type MetricsConfig struct {
	// ServiceName is the name of the service
	ServiceName string

	// Namespace is the Prometheus namespace
	Namespace string

	// ExcludePaths lists paths to exclude from metrics
	ExcludePaths []string
}

// DefaultMetricsConfig returns a default metrics configuration
func DefaultMetricsConfig(serviceName string) *MetricsConfig {
	return &MetricsConfig{
		ServiceName:  serviceName,
		Namespace:    "fulfillment",
		ExcludePaths: []string{"/metrics", "/health", "/ready"},
	}
}

// MetricsMiddlewareWithConfig creates metrics middleware with custom configuration
func MetricsMiddlewareWithConfig(m *metrics.Metrics, config *MetricsConfig) gin.HandlerFunc {
	excludeMap := make(map[string]bool)
	for _, path := range config.ExcludePaths {
		excludeMap[path] = true
	}

	return func(c *gin.Context) {
		// Skip excluded paths
		if excludeMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Track in-flight requests
		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		// Record start time
		start := time.Now()

		// Process request
		c.Next()

		// Record metrics after request completes
		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(method, path, status, duration)
	}
}
