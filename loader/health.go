package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/health"
)

// HealthChecker reports the loader as degraded while any module's most
// recent load chain failed or its circuit is open, and healthy otherwise.
func (l *Loader) HealthChecker() health.Checker {
	return health.NewCheckerFunc("loader", l.checkHealth)
}

func (l *Loader) checkHealth(ctx context.Context) health.Result {
	if err := ctx.Err(); err != nil {
		return health.Unhealthy("context cancelled", err)
	}

	failures := l.Failures()
	failed := make([]string, 0, len(failures))
	for name := range failures {
		failed = append(failed, name)
	}
	sort.Strings(failed)

	var open []string
	if l.breakers != nil {
		open = l.breakers.Open()
	}

	l.mu.Lock()
	loading := len(l.loading)
	l.mu.Unlock()

	details := map[string]any{
		"loaded":  len(l.Names()),
		"loading": loading,
	}
	if len(failed) == 0 && len(open) == 0 {
		return health.Healthy("all modules loadable").WithDetails(details)
	}

	details["failed"] = failed
	if len(open) > 0 {
		details["open_circuits"] = open
	}
	msg := fmt.Sprintf("%d module(s) failing", len(failed))
	if len(failed) == 0 {
		msg = fmt.Sprintf("%d circuit(s) open", len(open))
	}
	return health.Degraded(msg).WithDetails(details)
}
