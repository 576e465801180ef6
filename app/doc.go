// Package app is the composition root. It reads configuration from the
// environment, builds the observer, loader, perf toolkit, capability
// registry and health aggregator, and owns their lifecycle.
//
//	a, err := app.New(ctx, app.ConfigFromEnv())
//	_ = a.Register("claim-extractor", newClaimExtractor)
//	res, err := a.Start(ctx)
//	defer a.Shutdown(context.Background())
package app
