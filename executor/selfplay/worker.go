// Package selfplay drives complete games: it runs the search for every move
// decision, records training samples, and backfills outcomes once the game
// ends.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"blokuszero/executor/mcts"
	"blokuszero/game"
	"blokuszero/rules"
)

// Sample is one recorded move decision: the position's legal moves, the
// normalized visit distribution over them, and the move actually played.
type Sample struct {
	Ply    int16
	Player int8
	Move   game.Move
	Moves  []game.Move
	Policy []float32
}

// Record is one finished game. Values and Scores are filled in from the
// terminal position; every sample shares them.
type Record struct {
	GameID  string
	Samples []Sample
	Scores  [game.NumPlayers]int
	Values  [game.NumPlayers]float32
	Plies   int
}

// Config holds the per-game knobs.
type Config struct {
	MCTS mcts.Config

	// SampleMoves is the number of opening plies where the move is sampled
	// from the visit distribution instead of taking the most visited move.
	SampleMoves int
}

// PlayGame plays one full game to termination. Forced passes are applied
// directly without a search and produce no sample. A search error abandons
// the game; nothing from it is recorded.
func PlayGame(ctx context.Context, workerID int, cfg Config, eval mcts.Evaluator, onMove func()) (*Record, error) {
	if cfg.MCTS.Score == (rules.ScoreConfig{}) {
		cfg.MCTS.Score = rules.DefaultScoreConfig()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)*1000003))

	rec := &Record{
		GameID:  uuid.NewString(),
		Samples: make([]Sample, 0, 96),
	}

	state := game.NewState()
	for !rules.IsTerminal(&state) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		legal := rules.LegalMoves(&state)
		if len(legal) == 0 {
			next, err := rules.ApplyPass(state)
			if err != nil {
				return nil, fmt.Errorf("ply %d: %w", state.Ply, err)
			}
			state = next
			continue
		}

		searchCfg := cfg.MCTS
		searchCfg.Seed = rng.Uint64()
		search := &mcts.MCTS{Config: searchCfg, Evaluator: eval}
		res, err := search.Search(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", state.Ply, err)
		}

		var idx int
		if int(state.Ply) < cfg.SampleMoves {
			idx = samplePolicy(rng, res.Policy)
		} else {
			idx = argmax(res.Policy)
		}
		move := res.Moves[idx]

		rec.Samples = append(rec.Samples, Sample{
			Ply:    state.Ply,
			Player: state.Player,
			Move:   move,
			Moves:  res.Moves,
			Policy: res.Policy,
		})

		next, err := rules.ApplyMove(state, move)
		if err != nil {
			return nil, fmt.Errorf("ply %d apply %s: %w", state.Ply, move, err)
		}
		state = next

		if onMove != nil {
			onMove()
		}
	}

	rec.Plies = int(state.Ply)
	rec.Scores = rules.Scores(&state, cfg.MCTS.Score)
	rec.Values = rules.Payoff(&state, cfg.MCTS.Score)
	return rec, nil
}

func samplePolicy(rng *rand.Rand, policy []float32) int {
	r := rng.Float32()
	sum := float32(0)
	for i, p := range policy {
		sum += p
		if r < sum {
			return i
		}
	}
	return len(policy) - 1
}

func argmax(policy []float32) int {
	bestIdx := 0
	bestVal := float32(-1)
	for i, p := range policy {
		if p > bestVal {
			bestVal = p
			bestIdx = i
		}
	}
	return bestIdx
}
