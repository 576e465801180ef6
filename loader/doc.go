// Package loader loads named analysis capabilities on demand.
//
// A Loader owns a result cache keyed by module name. Load returns a cached
// value when one exists; otherwise it runs the module's Producer with a
// per-attempt timeout and a bounded retry budget, backing off between
// failed attempts. Concurrent loads of the same name share one attempt
// chain. When every attempt fails the caller receives a *ModuleLoadError
// that wraps the last attempt's failure.
//
// # Basic Usage
//
//	l := loader.New(loader.Config{})
//	v, err := l.Load(ctx, "transcript-parser", newTranscriptParser,
//	    loader.WithTimeout(5*time.Second),
//	    loader.WithRetries(2),
//	)
//
// # Preloading
//
// Preload warms several modules in sequential groups, running each group
// concurrently. PreloadInBackground does the same after a delay and
// delivers the result on a channel.
//
//	res := l.Preload(ctx, []loader.Entry{
//	    {Name: "claim-extractor", Producer: newClaimExtractor},
//	    {Name: "source-ranker", Producer: newSourceRanker},
//	})
//	for name, err := range res.Errors {
//	    log.Printf("%s: %v", name, err)
//	}
//
// # Cache Management
//
// ClearCache forgets one module's result together with every sub-cache
// registered for it through Track. ClearAll does so for every module.
// Status reports whether a module is loaded, loading, or owns sub-caches.
//
// # Timeouts
//
// A timed-out attempt is abandoned, not stopped: its context is cancelled
// and its eventual result is dropped. Producers that honor the context stop
// early.
package loader
