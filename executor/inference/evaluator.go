package inference

import (
	"context"
	"fmt"

	"blokuszero/executor/convert"
	"blokuszero/game"
)

// StateEvaluator adapts the batcher to the search's domain types: it encodes
// the position, rides the batch, and hands back per-move priors with the
// de-rotated value vector.
type StateEvaluator struct {
	Batcher *Batcher
}

func (e StateEvaluator) Evaluate(ctx context.Context, s game.State, legal []game.Move) ([]float32, [game.NumPlayers]float32, error) {
	ev, err := e.Batcher.Evaluate(ctx, convert.EncodeState(&s, legal))
	if err != nil {
		return nil, [game.NumPlayers]float32{}, err
	}
	if len(ev.Priors) != len(legal) {
		return nil, [game.NumPlayers]float32{}, fmt.Errorf("model returned %d priors for %d legal moves", len(ev.Priors), len(legal))
	}
	return ev.Priors, ev.Value, nil
}
