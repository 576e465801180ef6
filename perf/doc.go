// Package perf collects small call-shaping helpers used around the
// fact-checking pipeline: debounce, throttle, memoization, request
// de-duplication, batching and operation timing.
//
// A Toolkit owns the keyed state those helpers share. Build one per
// application and pass it where needed:
//
//	tk, err := perf.New(perf.Config{MemoCapacity: 200})
//	search, err := perf.Debounce(tk, "search", 300*time.Millisecond, runSearch)
//	search("statin side effects")
//
// Throttling is leading edge: the first call runs, later calls inside the
// window are dropped.
package perf
