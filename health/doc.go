// Package health reports whether the fact-checking service can do its job.
//
// A Checker reports one component as healthy, degraded or unhealthy. The
// Aggregator runs a set of checkers concurrently under a shared timeout
// and folds the results into the worst status seen. A degraded loader
// means some analysis capabilities failed to load and requests are served
// without them.
//
//	agg := health.NewAggregator()
//	agg.Register("loader", l.HealthChecker())
//	results := agg.CheckAll(ctx)
//	if agg.OverallStatus(results) != health.StatusHealthy {
//	    // report
//	}
package health
