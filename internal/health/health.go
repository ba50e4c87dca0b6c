// Package health composes independent readiness probes into one verdict.
// Probes are tiered: a critical probe going down takes the whole system to
// not_ready, while an advisory probe can only degrade it.
package health

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type Verdict string

const (
	VerdictReady    Verdict = "ready"
	VerdictDegraded Verdict = "degraded"
	VerdictNotReady Verdict = "not_ready"
)

// CheckResult is the outcome of a single probe. Probes report results, they
// never raise.
type CheckResult struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Probe is one readiness check with its own timeout budget.
type Probe struct {
	Name     string
	Critical bool
	Timeout  time.Duration
	Check    func(ctx context.Context) CheckResult
}

// Report is the aggregate readiness verdict served on /health/ready.
type Report struct {
	Status         Verdict       `json:"status"`
	Timestamp      time.Time     `json:"timestamp"`
	TotalLatencyMs int64         `json:"totalLatencyMs"`
	Checks         []CheckResult `json:"checks"`
}

// Ready reports whether the verdict maps to an HTTP 200.
func (r Report) Ready() bool { return r.Status != VerdictNotReady }

const defaultProbeTimeout = 2 * time.Second

// Aggregator runs a fixed probe set concurrently and classifies the results.
type Aggregator struct {
	probes []Probe
}

func NewAggregator(probes ...Probe) *Aggregator {
	return &Aggregator{probes: probes}
}

// Run executes all probes concurrently, each bounded by its own timeout so
// one stalled dependency cannot mask the status of the others, and joins the
// results into a Report. Result order follows registration order.
func (a *Aggregator) Run(ctx context.Context) Report {
	start := time.Now()
	results := make([]CheckResult, len(a.probes))

	var wg sync.WaitGroup
	for idx, p := range a.probes {
		wg.Add(1)
		go func(idx int, p Probe) {
			defer wg.Done()
			results[idx] = runProbe(ctx, p)
		}(idx, p)
	}
	wg.Wait()

	return Report{
		Status:         classify(a.probes, results),
		Timestamp:      time.Now().UTC(),
		TotalLatencyMs: time.Since(start).Milliseconds(),
		Checks:         results,
	}
}

// runProbe executes one check under its timeout. The check runs in its own
// goroutine so a probe that ignores context cancellation still cannot hold
// up the aggregate beyond its budget.
func runProbe(ctx context.Context, p Probe) CheckResult {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan CheckResult, 1)
	go func() {
		done <- p.Check(pctx)
	}()

	select {
	case res := <-done:
		res.Name = p.Name
		if res.LatencyMs == 0 {
			res.LatencyMs = time.Since(start).Milliseconds()
		}
		return res
	case <-pctx.Done():
		return CheckResult{
			Name:      p.Name,
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Message:   "probe timed out",
		}
	}
}

func classify(probes []Probe, results []CheckResult) Verdict {
	degraded := false
	for i, res := range results {
		switch res.Status {
		case StatusUnhealthy:
			if probes[i].Critical {
				return VerdictNotReady
			}
			degraded = true
		case StatusDegraded:
			degraded = true
		}
	}
	if degraded {
		return VerdictDegraded
	}
	return VerdictReady
}
