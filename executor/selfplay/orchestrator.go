package selfplay

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"blokuszero/executor/mcts"
)

// OrchestratorConfig sizes the self-play fleet.
type OrchestratorConfig struct {
	Workers int // concurrent games
	Games   int // completed games to produce; 0 runs until cancelled
	Game    Config
}

// Stats is a live snapshot of fleet progress.
type Stats struct {
	Completed int64
	Abandoned int64
	Moves     int64
}

// Orchestrator runs a fixed pool of game workers. Each worker plays games
// back to back; a game abandoned by an evaluation failure is logged and
// counted but never recorded, and the worker starts the next one.
type Orchestrator struct {
	cfg  OrchestratorConfig
	eval mcts.Evaluator

	completed atomic.Int64
	abandoned atomic.Int64
	moves     atomic.Int64
}

func NewOrchestrator(cfg OrchestratorConfig, eval mcts.Evaluator) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Orchestrator{cfg: cfg, eval: eval}
}

func (o *Orchestrator) Stats() Stats {
	return Stats{
		Completed: o.completed.Load(),
		Abandoned: o.abandoned.Load(),
		Moves:     o.moves.Load(),
	}
}

// Run plays games until the quota is met or ctx is cancelled, delivering
// each completed record to records. It never sends on records after
// returning; the caller owns closing the channel.
func (o *Orchestrator) Run(ctx context.Context, records chan<- *Record) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < o.cfg.Workers; w++ {
		workerID := w
		g.Go(func() error {
			return o.workerLoop(gctx, cancel, workerID, records)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (o *Orchestrator) workerLoop(ctx context.Context, quotaMet context.CancelFunc, workerID int, records chan<- *Record) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		rec, err := PlayGame(ctx, workerID, o.cfg.Game, o.eval, func() {
			o.moves.Add(1)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.abandoned.Add(1)
			log.Warn().Err(err).Int("worker", workerID).Msg("game abandoned")
			continue
		}

		select {
		case records <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}

		done := o.completed.Add(1)
		log.Info().
			Int("worker", workerID).
			Str("game", rec.GameID).
			Int("plies", rec.Plies).
			Ints("scores", rec.Scores[:]).
			Dur("took", time.Since(start)).
			Int64("completed", done).
			Msg("game finished")

		if o.cfg.Games > 0 && done >= int64(o.cfg.Games) {
			quotaMet()
			return nil
		}
	}
}
