package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"lifecover/pkg/platform/httputil"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the result of probing one dependency.
type Check struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// Report is the /health response body.
type Report struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// PingFunc reports whether a dependency is reachable.
type PingFunc func(ctx context.Context) error

// Health runs registered pings concurrently under one timeout.
type Health struct {
	timeout time.Duration
	names   []string
	pings   []PingFunc
}

func NewHealth(timeout time.Duration) *Health {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Health{timeout: timeout}
}

// Register adds a dependency probe. A nil ping is ignored so optional
// dependencies can be passed straight through.
func (h *Health) Register(name string, ping PingFunc) {
	if ping == nil {
		return
	}
	h.names = append(h.names, name)
	h.pings = append(h.pings, ping)
}

func (h *Health) Check(ctx context.Context) *Report {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := &Report{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make([]Check, len(h.pings)),
	}

	var wg sync.WaitGroup
	for i, ping := range h.pings {
		wg.Go(func() {
			start := time.Now()
			check := Check{Name: h.names[i], Status: StatusHealthy}
			if err := ping(ctx); err != nil {
				check.Status = StatusUnhealthy
				check.Message = err.Error()
			}
			check.LatencyMs = time.Since(start).Milliseconds()
			report.Checks[i] = check
		})
	}
	wg.Wait()

	for _, c := range report.Checks {
		if c.Status != StatusHealthy {
			report.Status = StatusUnhealthy
			break
		}
	}
	return report
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.Check(r.Context())
	status := http.StatusOK
	if report.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, report)
}
