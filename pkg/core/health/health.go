// Package health runs the checks reported by the /healthz endpoint.
package health

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Status is the state of one check or of the whole server
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	}
	return 2
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name     string         `json:"name"`
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration time.Duration  `json:"duration"`
	Details  map[string]any `json:"details,omitempty"`
}

// Checker is a single named check
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type funcCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// FuncCheck is healthy while fn returns nil. A failing fn makes the
// server unhealthy.
func FuncCheck(name string, fn func(ctx context.Context) error) Checker {
	return &funcCheck{name: name, fn: fn}
}

func (c *funcCheck) Name() string { return c.name }

func (c *funcCheck) Check(ctx context.Context) CheckResult {
	if err := c.fn(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "ok"}
}

type gaugeCheck struct {
	name  string
	gauge func() int64
	limit int64
}

// GaugeCheck reports a value and is degraded once it exceeds limit. A
// limit of zero or less never degrades.
func GaugeCheck(name string, gauge func() int64, limit int64) Checker {
	return &gaugeCheck{name: name, gauge: gauge, limit: limit}
}

func (c *gaugeCheck) Name() string { return c.name }

func (c *gaugeCheck) Check(context.Context) CheckResult {
	v := c.gauge()
	res := CheckResult{
		Status:  StatusHealthy,
		Message: strconv.FormatInt(v, 10),
		Details: map[string]any{"value": v},
	}
	if c.limit > 0 && v > c.limit {
		res.Status = StatusDegraded
		res.Details["limit"] = c.limit
	}
	return res
}

// Registry holds the checks of a server. Checks run concurrently and are
// reported in registration order.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	service  string
	version  string
	started  time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(service, version string) *Registry {
	return &Registry{service: service, version: version, started: time.Now()}
}

// Register adds a checker. A checker with the same name is replaced in
// place.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, old := range r.checkers {
		if old.Name() == c.Name() {
			r.checkers[i] = c
			return
		}
	}
	r.checkers = append(r.checkers, c)
}

// Check runs every checker and combines them into a report whose status is
// the worst single status.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := append([]Checker(nil), r.checkers...)
	r.mu.RUnlock()

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			res := c.Check(ctx)
			res.Name = c.Name()
			res.Duration = time.Since(start)
			results[i] = res
		}()
	}
	wg.Wait()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    StatusHealthy,
		Uptime:    time.Since(r.started),
		Timestamp: time.Now(),
		Checks:    results,
	}
	for _, res := range results {
		if res.Status.rank() > report.Status.rank() {
			report.Status = res.Status
		}
	}
	return report
}

// CheckWithTimeout runs Check with a deadline
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report is the combined result served by /healthz?verbose
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Healthy reports whether every check is healthy
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}
