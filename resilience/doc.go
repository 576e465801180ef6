// Package resilience provides the retry, timeout and circuit breaker
// primitives used to load optional capabilities.
//
// # Patterns
//
//   - Retry: a reusable Policy (attempt budget plus Backoff(attempt)) with
//     exponential, linear or constant schedules. DefaultLoadRetryConfig
//     gives three attempts waiting min(1s*2^(n-1), 5s).
//
//   - Timeout: RunWithTimeout races a producer against a deadline. A timed
//     out producer is not stopped; its result is discarded.
//
//   - Circuit Breaker: stops calling a producer after repeated failed loads.
//     BreakerSet keeps one breaker per capability name.
//
// # Usage
//
//	retry := resilience.NewRetry(resilience.DefaultLoadRetryConfig())
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(breakers.Get("translator")),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(10*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context, attempt int) error {
//	    return fetchModel(ctx)
//	})
package resilience
