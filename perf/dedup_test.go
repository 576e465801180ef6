package perf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate_SharesInFlightCall(t *testing.T) {
	tk := newToolkit(t)
	var calls atomic.Int32
	release := make(chan struct{})

	fetch, err := Deduplicate(tk, func(_ context.Context, url string) (string, error) {
		calls.Add(1)
		<-release
		return "body of " + url, nil
	}, nil)
	require.NoError(t, err)

	const callers = 5
	var wg sync.WaitGroup
	got := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = fetch(context.Background(), "https://pubmed.example/123")
		}()
	}

	require.Eventually(t, func() bool { return tk.Metrics().PendingRequests == 1 }, time.Second, time.Millisecond)
	// give the remaining callers time to join the flight
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, g := range got {
		assert.Equal(t, "body of https://pubmed.example/123", g)
	}
	assert.Equal(t, 0, tk.Metrics().PendingRequests)
}

func TestDeduplicate_NothingCachedAfterSettle(t *testing.T) {
	tk := newToolkit(t)
	var calls atomic.Int32

	fn, err := Deduplicate(tk, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n, nil
	}, nil)
	require.NoError(t, err)

	for range 3 {
		_, err := fn(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, calls.Load())
}

func TestDeduplicate_ErrorsAndPanics(t *testing.T) {
	tk := newToolkit(t)
	cause := errors.New("upstream 503")

	failing, err := Deduplicate(tk, func(context.Context, int) (int, error) { return 0, cause }, nil)
	require.NoError(t, err)
	_, err = failing(context.Background(), 1)
	require.ErrorIs(t, err, cause)

	panicking, err := Deduplicate(tk, func(context.Context, int) (int, error) { panic("parser bug") }, nil)
	require.NoError(t, err)
	_, err = panicking(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser bug")
	assert.Equal(t, 0, tk.Metrics().PendingRequests)
}

func TestDeduplicate_NilFunc(t *testing.T) {
	tk := newToolkit(t)
	_, err := Deduplicate[int, int](tk, nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
