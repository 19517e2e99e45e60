package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Search still works text-only when
	// only the embedding provider is down.
	Degraded Status = "degraded"
	// Unhealthy indicates the entry store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status       Status
	Checks       map[string]CheckResult
	QueueBacklog int
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
	queue     QueueReader
}

// New creates a Service. embedding and queue can be nil.
func New(store StorePinger, embedding EmbeddingChecker, queue QueueReader) *Service {
	return &Service{store: store, embedding: embedding, queue: queue}
}

// Check runs health checks against all components. The store is load-bearing:
// its failure makes the whole service unhealthy. An embedding failure only
// degrades (hybrid search falls back to text).
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	storeOK := true
	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		storeOK = false
	} else {
		checks["store"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	backlog := 0
	if s.queue != nil && storeOK {
		if n, err := s.queue.Pending(ctx); err == nil {
			backlog = n
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if !storeOK {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, QueueBacklog: backlog}
}
