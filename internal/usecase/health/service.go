// Package health aggregates component availability checks. A failing
// component degrades the report rather than failing it: the engine keeps
// serving with the strategies that remain.
package health

import "context"

// Status is the aggregated service health.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; queries still succeed on the
	// remaining strategies.
	Degraded Status = "degraded"
)

// CheckResult is one component's outcome.
type CheckResult string

const (
	// CheckOK indicates a passing component check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing component check.
	CheckError CheckResult = "error"
)

// Report aggregates per-component check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates component health checks.
type Service struct {
	backend   BackendPinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil when the semantic strategy
// is disabled.
func New(backend BackendPinger, embedding EmbeddingChecker) *Service {
	return &Service{backend: backend, embedding: embedding}
}

// Check probes each configured component.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.backend.Ping(ctx); err != nil {
		checks["search_backend"] = CheckError
	} else {
		checks["search_backend"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
