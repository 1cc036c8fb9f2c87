package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedReport pairs a built report with its build time.
type cachedReport struct {
	report *OverallReport
	built  time.Time
	ttl    time.Duration
}

// expired returns true once the report is older than its TTL.
func (c *cachedReport) expired() bool {
	if c.ttl == 0 {
		return true // caching disabled
	}
	return time.Since(c.built) > c.ttl
}

// reportStore holds cached reports keyed by verification spec.
type reportStore struct {
	mu      sync.RWMutex
	reports map[string]*cachedReport
	sf      singleflight.Group
}

// globalReportStore is the singleton store for all cached reports.
var globalReportStore = &reportStore{
	reports: make(map[string]*cachedReport),
}

// GetOrBuildReport returns a cached report for key, building one with build
// if none exists or the cached one expired. Concurrent callers for the same
// key share a single build via singleflight, so a slow profile decode never
// stampedes.
func GetOrBuildReport(ctx context.Context, key string, ttl time.Duration, build func(context.Context) (*OverallReport, error)) (*OverallReport, error) {
	globalReportStore.mu.RLock()
	cached, exists := globalReportStore.reports[key]
	globalReportStore.mu.RUnlock()

	if exists && !cached.expired() {
		return cached.report, nil
	}

	result, err, _ := globalReportStore.sf.Do(key, func() (interface{}, error) {
		// Double-check after winning the singleflight slot.
		globalReportStore.mu.RLock()
		cached, exists := globalReportStore.reports[key]
		globalReportStore.mu.RUnlock()

		if exists && !cached.expired() {
			return cached.report, nil
		}

		report, err := build(ctx)
		if err != nil {
			return nil, err
		}

		globalReportStore.mu.Lock()
		globalReportStore.reports[key] = &cachedReport{report: report, built: time.Now(), ttl: ttl}
		globalReportStore.mu.Unlock()

		return report, nil
	})

	if err != nil {
		return nil, err
	}
	return result.(*OverallReport), nil
}

// InvalidateReport removes the cached report for key, forcing a rebuild on
// the next request. Useful in tests and after known store changes.
func InvalidateReport(key string) {
	globalReportStore.mu.Lock()
	delete(globalReportStore.reports, key)
	globalReportStore.mu.Unlock()
}
