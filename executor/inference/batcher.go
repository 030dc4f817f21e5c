package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"blokuszero/executor/convert"
	modelpb "blokuszero/gen/go"
)

// ErrEvaluationUnavailable is returned once the remote service has exhausted
// the batcher's retries. Callers treat it as fatal for their own game only.
var ErrEvaluationUnavailable = errors.New("inference: evaluation unavailable")

// ErrBatcherClosed is returned for evaluations submitted after Close.
var ErrBatcherClosed = errors.New("inference: batcher closed")

const (
	DefaultMaxBatchSize = 128
	DefaultMaxWait      = 5 * time.Millisecond
	DefaultMaxRetries   = 3
	DefaultBackoff      = 100 * time.Millisecond
	DefaultCallTimeout  = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
)

// Backend is the remote call surface the batcher needs; *Client implements
// it, tests substitute fakes.
type Backend interface {
	Predict(ctx context.Context, states []*modelpb.StateRepresentation) ([]*modelpb.Prediction, error)
	Check(ctx context.Context) (int32, error)
}

// Evaluation is one decoded leaf evaluation: priors aligned with the legal
// moves sent in the request, and the value head in absolute seat order.
type Evaluation struct {
	Priors []float32
	Value  [4]float32
}

type Config struct {
	MaxBatchSize int
	MaxWait      time.Duration // flush deadline measured from the oldest pending request
	MaxRetries   int           // additional attempts after the first failure
	Backoff      time.Duration // initial retry backoff, doubled per attempt
	CallTimeout  time.Duration
	PollInterval time.Duration // reachability probe period; 0 disables polling
}

func (c *Config) applyDefaults() {
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxWait <= 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
}

type evalRequest struct {
	state *modelpb.StateRepresentation
	resp  chan evalResponse
}

type evalResponse struct {
	eval Evaluation
	err  error
}

// Stats is a snapshot of batcher throughput counters.
type Stats struct {
	TotalBatches  int64
	TotalItems    int64
	TotalFailures int64
	LastBatchSize int64
	AvgBatchSize  float64
}

// Batcher aggregates concurrent evaluation requests into batched Predict
// calls. One goroutine owns accumulation and flush timing; every flush runs
// in its own goroutine so a slow call never delays the next batch. Each
// submitted request receives exactly one completion.
type Batcher struct {
	backend Backend
	cfg     Config

	requests chan evalRequest
	done     chan struct{}
	wg       sync.WaitGroup

	// mu orders submissions against Close: a request enters the channel only
	// while closed is false, so everything the queue holds when the batch
	// loop drains is guaranteed to be failed rather than stranded.
	mu     sync.RWMutex
	closed bool

	healthy atomic.Bool

	totalBatches  atomic.Int64
	totalItems    atomic.Int64
	totalFailures atomic.Int64
	lastBatchSize atomic.Int64
}

func NewBatcher(backend Backend, cfg Config) *Batcher {
	cfg.applyDefaults()
	b := &Batcher{
		backend:  backend,
		cfg:      cfg,
		requests: make(chan evalRequest, cfg.MaxBatchSize*2),
		done:     make(chan struct{}),
	}
	b.healthy.Store(true)

	b.wg.Add(1)
	go b.batchLoop()
	if cfg.PollInterval > 0 {
		b.wg.Add(1)
		go b.pollLoop()
	}
	return b
}

// Close stops accepting requests and fails anything still pending. In-flight
// batches run to completion.
func (b *Batcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Batcher) Stats() Stats {
	batches := b.totalBatches.Load()
	items := b.totalItems.Load()
	avg := 0.0
	if batches > 0 {
		avg = float64(items) / float64(batches)
	}
	return Stats{
		TotalBatches:  batches,
		TotalItems:    items,
		TotalFailures: b.totalFailures.Load(),
		LastBatchSize: b.lastBatchSize.Load(),
		AvgBatchSize:  avg,
	}
}

// Healthy reports the last reachability probe result.
func (b *Batcher) Healthy() bool {
	return b.healthy.Load()
}

// Evaluate submits one encoded state and suspends until its evaluation, an
// error, or caller cancellation. A cancelled caller's result is discarded
// when it arrives; the batch it rode in is unaffected.
func (b *Batcher) Evaluate(ctx context.Context, state *modelpb.StateRepresentation) (Evaluation, error) {
	req := evalRequest{state: state, resp: make(chan evalResponse, 1)}

	// Hold the read lock across the send. The batch loop keeps receiving
	// until done closes, and done only closes under the write lock, so a
	// submission accepted here is always either flushed or failed by the
	// drain; it can never sit in the queue after the loop exits.
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return Evaluation{}, ErrBatcherClosed
	}
	select {
	case b.requests <- req:
		b.mu.RUnlock()
	case <-ctx.Done():
		b.mu.RUnlock()
		return Evaluation{}, ctx.Err()
	}

	select {
	case resp := <-req.resp:
		return resp.eval, resp.err
	case <-ctx.Done():
		return Evaluation{}, ctx.Err()
	}
}

func (b *Batcher) batchLoop() {
	defer b.wg.Done()

	var pending []evalRequest
	timer := time.NewTimer(b.cfg.MaxWait)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false

	flush := func() {
		for len(pending) > 0 {
			n := len(pending)
			if n > b.cfg.MaxBatchSize {
				n = b.cfg.MaxBatchSize
			}
			batch := pending[:n:n]
			pending = pending[n:]
			b.wg.Add(1)
			go b.runBatch(batch)
		}
		pending = nil
		if timerArmed {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timerArmed = false
		}
	}

	for {
		select {
		case req := <-b.requests:
			pending = append(pending, req)
			if len(pending) == 1 {
				timer.Reset(b.cfg.MaxWait)
				timerArmed = true
			}
			if len(pending) >= b.cfg.MaxBatchSize && b.healthy.Load() {
				flush()
			}

		case <-timer.C:
			timerArmed = false
			if len(pending) == 0 {
				continue
			}
			if !b.healthy.Load() {
				// Service confirmed unreachable: hold the batch and check
				// again after another interval rather than burning retries.
				timer.Reset(b.cfg.MaxWait)
				timerArmed = true
				continue
			}
			flush()

		case <-b.done:
			for _, req := range pending {
				req.resp <- evalResponse{err: ErrBatcherClosed}
			}
			// Drain anything that raced with Close.
			for {
				select {
				case req := <-b.requests:
					req.resp <- evalResponse{err: ErrBatcherClosed}
				default:
					return
				}
			}
		}
	}
}

// runBatch issues one Predict call for a flushed batch, retrying the whole
// batch with exponential backoff before failing every request in it.
func (b *Batcher) runBatch(batch []evalRequest) {
	defer b.wg.Done()

	states := make([]*modelpb.StateRepresentation, len(batch))
	for i, req := range batch {
		states[i] = req.state
	}

	var preds []*modelpb.Prediction
	var err error
	backoff := b.cfg.Backoff
	for attempt := 0; attempt <= b.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-b.done:
			}
			backoff *= 2
		}
		ctx, cancel := context.WithTimeout(context.Background(), b.cfg.CallTimeout)
		preds, err = b.backend.Predict(ctx, states)
		cancel()
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("batch", len(batch)).Int("attempt", attempt+1).
			Msg("predict batch failed")
	}

	if err != nil {
		b.totalFailures.Add(1)
		failure := fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
		for _, req := range batch {
			req.resp <- evalResponse{err: failure}
		}
		return
	}

	b.totalBatches.Add(1)
	b.totalItems.Add(int64(len(batch)))
	b.lastBatchSize.Store(int64(len(batch)))

	for i, req := range batch {
		pred := preds[i]
		priors := append([]float32(nil), pred.GetPriors()...)
		req.resp <- evalResponse{eval: Evaluation{
			Priors: priors,
			Value:  convert.AbsoluteValue(int(req.state.GetPlayer()), pred.GetValue()),
		}}
	}
}

// pollLoop probes the service so the batch loop can hold flushes while it is
// confirmed unreachable instead of failing every pending search.
func (b *Batcher) pollLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), b.cfg.PollInterval)
			_, err := b.backend.Check(ctx)
			cancel()
			was := b.healthy.Swap(err == nil)
			if was && err != nil {
				log.Warn().Err(err).Msg("model server unreachable, holding batches")
			} else if !was && err == nil {
				log.Info().Msg("model server reachable again")
			}
		case <-b.done:
			return
		}
	}
}
