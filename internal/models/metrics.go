package models

import "time"

// MetricsSnapshot is a lightweight view of process instrumentation for the
// readiness endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	APICallsTotal            uint64    `json:"apiCallsTotal"`
	APIErrorsTotal           uint64    `json:"apiErrorsTotal"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	ScheduleTransitions      uint64    `json:"scheduleTransitions"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
