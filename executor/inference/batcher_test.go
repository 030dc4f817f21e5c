package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	modelpb "blokuszero/gen/go"
)

// fakeBackend echoes each state's first legal-move tile back as its prior,
// so tests can verify responses are routed to the request that sent them.
type fakeBackend struct {
	mu        sync.Mutex
	batches   [][]int32
	calls     int
	firstCall time.Time

	failFirst int           // fail this many Predict calls before succeeding
	delay     time.Duration // sleep before answering
}

func (f *fakeBackend) Predict(_ context.Context, states []*modelpb.StateRepresentation) ([]*modelpb.Prediction, error) {
	f.mu.Lock()
	f.calls++
	if f.calls == 1 {
		f.firstCall = time.Now()
	}
	fail := f.calls <= f.failFirst
	markers := make([]int32, len(states))
	for i, st := range states {
		markers[i] = st.GetLegalMoves()[0].GetTiles()[0]
	}
	f.batches = append(f.batches, markers)
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return nil, errors.New("backend down")
	}
	preds := make([]*modelpb.Prediction, len(states))
	for i, m := range markers {
		preds[i] = &modelpb.Prediction{
			Priors: []float32{float32(m)},
			Value:  []float32{0.25, 0.25, 0.25, 0.25},
		}
	}
	return preds, nil
}

func (f *fakeBackend) Check(context.Context) (int32, error) {
	return 1, nil
}

func (f *fakeBackend) batchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sizes := make([]int, len(f.batches))
	for i, b := range f.batches {
		sizes[i] = len(b)
	}
	return sizes
}

func (f *fakeBackend) firstCallAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.firstCall
}

func markedState(marker int32) *modelpb.StateRepresentation {
	return &modelpb.StateRepresentation{
		LegalMoves: []*modelpb.MoveMask{{Tiles: []int32{marker}}},
	}
}

func TestBatcherFlushesOnMaxSize(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 4, MaxWait: time.Minute})
	defer b.Close()

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		marker := int32(i)
		g.Go(func() error {
			ev, err := b.Evaluate(context.Background(), markedState(marker))
			if err != nil {
				return err
			}
			if ev.Priors[0] != float32(marker) {
				return fmt.Errorf("marker %d got prior %f", marker, ev.Priors[0])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, []int{4}, backend.batchSizes())
}

func TestBatcherFlushesOnDeadline(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 100, MaxWait: 10 * time.Millisecond})
	defer b.Close()

	var g errgroup.Group
	for i := 0; i < 3; i++ {
		marker := int32(i)
		g.Go(func() error {
			_, err := b.Evaluate(context.Background(), markedState(marker))
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, []int{3}, backend.batchSizes())

	st := b.Stats()
	require.EqualValues(t, 1, st.TotalBatches)
	require.EqualValues(t, 3, st.TotalItems)
}

// The flush deadline is anchored to the oldest pending request. A steady
// trickle with inter-arrival below MaxWait must not push the deadline out: the
// first flush has to land roughly MaxWait after the first request, splitting
// the stream into multiple batches.
func TestBatcherDeadlineHoldsUnderSteadyArrivals(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 100, MaxWait: 60 * time.Millisecond})
	defer b.Close()

	const n = 10
	interval := 20 * time.Millisecond

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < n; i++ {
		marker := int32(i)
		g.Go(func() error {
			_, err := b.Evaluate(context.Background(), markedState(marker))
			return err
		})
		time.Sleep(interval)
	}
	require.NoError(t, g.Wait())

	// A timer reset on every arrival would only fire 60ms after the last
	// request (~240ms in) and produce one batch of 10.
	require.Less(t, backend.firstCallAt().Sub(start), 150*time.Millisecond)
	sizes := backend.batchSizes()
	require.Greater(t, len(sizes), 1)
	require.Less(t, sizes[0], n)
}

func TestBatcherRoutesResponses(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 8, MaxWait: 5 * time.Millisecond})
	defer b.Close()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		marker := int32(i)
		g.Go(func() error {
			ev, err := b.Evaluate(context.Background(), markedState(marker))
			if err != nil {
				return err
			}
			if ev.Priors[0] != float32(marker) {
				return fmt.Errorf("marker %d got prior %f", marker, ev.Priors[0])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestBatcherRetriesThenSucceeds(t *testing.T) {
	backend := &fakeBackend{failFirst: 2}
	b := NewBatcher(backend, Config{
		MaxBatchSize: 1,
		MaxWait:      time.Millisecond,
		MaxRetries:   3,
		Backoff:      time.Millisecond,
	})
	defer b.Close()

	ev, err := b.Evaluate(context.Background(), markedState(7))
	require.NoError(t, err)
	require.Equal(t, float32(7), ev.Priors[0])
	require.Equal(t, 3, backend.calls)
}

func TestBatcherFailsAfterRetriesExhausted(t *testing.T) {
	backend := &fakeBackend{failFirst: 100}
	b := NewBatcher(backend, Config{
		MaxBatchSize: 1,
		MaxWait:      time.Millisecond,
		MaxRetries:   1,
		Backoff:      time.Millisecond,
	})
	defer b.Close()

	_, err := b.Evaluate(context.Background(), markedState(1))
	require.ErrorIs(t, err, ErrEvaluationUnavailable)
	require.Equal(t, 2, backend.calls)
	require.EqualValues(t, 1, b.Stats().TotalFailures)
}

func TestBatcherSlowBatchDoesNotBlockNext(t *testing.T) {
	backend := &fakeBackend{delay: 150 * time.Millisecond}
	b := NewBatcher(backend, Config{MaxBatchSize: 1, MaxWait: time.Millisecond})
	defer b.Close()

	start := time.Now()
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		marker := int32(i)
		g.Go(func() error {
			_, err := b.Evaluate(context.Background(), markedState(marker))
			return err
		})
	}
	require.NoError(t, g.Wait())

	// Four sequential 150ms calls would take 600ms; dispatching each flush
	// in its own goroutine overlaps them.
	require.Less(t, time.Since(start), 450*time.Millisecond)
}

func TestBatcherCallerCancellation(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 100, MaxWait: time.Minute})
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.Evaluate(ctx, markedState(1))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// A submission that races with Close must still complete. Repeating the
// close-then-submit sequence exercises the window where the submit used to
// win a select against the closed signal and strand the request.
func TestBatcherCloseFailsLateSubmissions(t *testing.T) {
	for i := 0; i < 25; i++ {
		backend := &fakeBackend{}
		b := NewBatcher(backend, Config{MaxBatchSize: 4, MaxWait: time.Minute})
		b.Close()

		done := make(chan error, 1)
		go func() {
			_, err := b.Evaluate(context.Background(), markedState(1))
			done <- err
		}()
		select {
		case err := <-done:
			require.ErrorIs(t, err, ErrBatcherClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("Evaluate hung after Close")
		}
	}
}

// Requests in flight when Close lands get exactly one completion each: either
// a real evaluation or ErrBatcherClosed, never silence.
func TestBatcherCloseCompletesEveryRequest(t *testing.T) {
	backend := &fakeBackend{}
	b := NewBatcher(backend, Config{MaxBatchSize: 4, MaxWait: time.Millisecond})

	const n = 64
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		marker := int32(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Evaluate(context.Background(), markedState(marker))
			results <- err
		}()
	}
	time.Sleep(2 * time.Millisecond)
	b.Close()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("requests left hanging across Close")
	}

	close(results)
	for err := range results {
		if err != nil {
			require.ErrorIs(t, err, ErrBatcherClosed)
		}
	}
}
