package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixed(r Result) func(context.Context) Result {
	return func(context.Context) Result { return r }
}

func TestAggregator_RegisterOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("loader", NewCheckerFunc("loader", fixed(Healthy("ok"))))
	agg.Register("toolkit", NewCheckerFunc("toolkit", fixed(Healthy("ok"))))
	agg.Register("loader", NewCheckerFunc("loader", fixed(Degraded("replaced"))))
	agg.Register("observer", NewCheckerFunc("observer", fixed(Healthy("ok"))))
	agg.Unregister("toolkit")
	agg.Unregister("missing")

	if diff := cmp.Diff([]string{"loader", "observer"}, agg.CheckerNames()); diff != "" {
		t.Errorf("CheckerNames() mismatch (-want +got):\n%s", diff)
	}

	r, err := agg.Check(context.Background(), "loader")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.Message != "replaced" {
		t.Errorf("Message = %q, want replaced", r.Message)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	agg := NewAggregator()
	if _, err := agg.Check(context.Background(), "nope"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		agg := NewAggregator(AggregatorConfig{Sequential: sequential})
		agg.Register("loader", NewCheckerFunc("loader", fixed(Degraded("1 module failing"))))
		agg.Register("toolkit", NewCheckerFunc("toolkit", fixed(Healthy("ok"))))

		results := agg.CheckAll(context.Background())

		if len(results) != 2 {
			t.Fatalf("sequential=%v: got %d results, want 2", sequential, len(results))
		}
		if results["loader"].Status != StatusDegraded {
			t.Errorf("sequential=%v: loader = %v", sequential, results["loader"].Status)
		}
		if got := agg.OverallStatus(results); got != StatusDegraded {
			t.Errorf("sequential=%v: OverallStatus() = %v, want degraded", sequential, got)
		}
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	agg := NewAggregator()
	results := agg.CheckAll(context.Background())
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if agg.OverallStatus(results) != StatusHealthy {
		t.Error("empty aggregate should be healthy")
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register("slow", NewCheckerFunc("slow", func(context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("late")
	}))

	start := time.Now()
	results := agg.CheckAll(context.Background())

	if time.Since(start) > 150*time.Millisecond {
		t.Errorf("CheckAll waited for an abandoned check")
	}
	if !errors.Is(results["slow"].Error, ErrCheckTimeout) {
		t.Errorf("slow error = %v, want ErrCheckTimeout", results["slow"].Error)
	}
}

func TestAggregator_PanicIsUnhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register("broken", NewCheckerFunc("broken", func(context.Context) Result {
		panic("nil registry")
	}))

	r := agg.CheckAll(context.Background())["broken"]
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrCheckPanicked) {
		t.Errorf("result = %+v, want unhealthy ErrCheckPanicked", r)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"all healthy", map[string]Result{"a": Healthy(""), "b": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"unhealthy wins", map[string]Result{"a": Degraded(""), "b": Unhealthy("", nil)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_Checker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("loader", NewCheckerFunc("loader", fixed(Unhealthy("down", nil))))

	c := agg.Checker()
	r := c.Check(context.Background())

	if c.Name() != "aggregate" {
		t.Errorf("Name() = %q", c.Name())
	}
	if r.Status != StatusUnhealthy || r.Message != "some checks failed" {
		t.Errorf("result = %v %q", r.Status, r.Message)
	}
	if _, ok := r.Details["loader"]; !ok {
		t.Errorf("Details missing loader: %v", r.Details)
	}
}
