package selfplay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"blokuszero/executor/mcts"
	"blokuszero/game"
)

type uniformEvaluator struct{}

func (uniformEvaluator) Evaluate(_ context.Context, _ game.State, legal []game.Move) ([]float32, [game.NumPlayers]float32, error) {
	priors := make([]float32, len(legal))
	for i := range priors {
		priors[i] = 1 / float32(len(legal))
	}
	return priors, [game.NumPlayers]float32{0.25, 0.25, 0.25, 0.25}, nil
}

func testConfig() Config {
	return Config{
		SampleMoves: 4,
		MCTS: mcts.Config{
			Sims:        4,
			Parallelism: 2,
		},
	}
}

func TestPlayGameCompletes(t *testing.T) {
	if testing.Short() {
		t.Skip("plays a full game")
	}

	rec, err := PlayGame(context.Background(), 0, testConfig(), uniformEvaluator{}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, rec.GameID)
	require.NotEmpty(t, rec.Samples)
	require.Greater(t, rec.Plies, 0)

	// Every seat keeps scoring even if it went to passes early.
	var payoffSum float32
	for _, v := range rec.Values {
		payoffSum += v
	}
	require.InDelta(t, 1.0, payoffSum, 1e-5)

	for _, s := range rec.Samples {
		require.False(t, s.Move.IsPass(), "forced passes must not be recorded")
		require.Len(t, s.Policy, len(s.Moves))
		var sum float32
		for _, p := range s.Policy {
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-4, "ply %d policy not normalized", s.Ply)
	}

	// Samples are in ply order and never exceed the game length.
	for i := 1; i < len(rec.Samples); i++ {
		require.Greater(t, rec.Samples[i].Ply, rec.Samples[i-1].Ply)
	}
	require.LessOrEqual(t, len(rec.Samples), rec.Plies)
}

func TestPlayGameCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PlayGame(ctx, 0, testConfig(), uniformEvaluator{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRowsAndProtoAlign(t *testing.T) {
	move := game.Move{Piece: game.Square, Variant: 0, Anchor: 0}
	alt := game.Move{Piece: game.One, Variant: 0, Anchor: 0}
	rec := &Record{
		GameID: "g1",
		Plies:  1,
		Values: [4]float32{1, 0, 0, 0},
		Scores: [4]int{20, 3, 3, 3},
		Samples: []Sample{{
			Ply:    0,
			Player: 0,
			Move:   move,
			Moves:  []game.Move{move, alt},
			Policy: []float32{0.75, 0.25},
		}},
	}

	rows := Rows(rec)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, "g1", row.GameID)
	require.EqualValues(t, 0, row.Ply)
	require.Equal(t, []int32{0, 1, 20, 21}, row.MoveTiles)
	require.Len(t, row.Policy, 2)
	require.Equal(t, float32(0.75), row.Policy[0].Prob)
	require.Equal(t, []float32{1, 0, 0, 0}, row.Values)
	require.Equal(t, []int32{20, 3, 3, 3}, row.Scores)
	require.Equal(t, "selfplay", row.Source)

	pb := Proto(rec)
	require.Equal(t, "g1", pb.GetGameId())
	require.Len(t, pb.GetHistory(), 1)
	require.Len(t, pb.GetPolicies(), 1)
	require.Equal(t, []int32{0, 1, 20, 21}, pb.GetHistory()[0].GetTiles())
	require.Len(t, pb.GetPolicies()[0].GetProbs(), 2)
	require.Equal(t, []float32{1, 0, 0, 0}, pb.GetValues())
}

func TestOrchestratorQuota(t *testing.T) {
	if testing.Short() {
		t.Skip("plays full games")
	}

	orch := NewOrchestrator(OrchestratorConfig{
		Workers: 2,
		Games:   2,
		Game:    testConfig(),
	}, uniformEvaluator{})

	records := make(chan *Record, 4)
	err := orch.Run(context.Background(), records)
	require.NoError(t, err)
	close(records)

	n := 0
	for range records {
		n++
	}
	// A second worker can slip one extra game in before the quota cancel
	// reaches it.
	require.GreaterOrEqual(t, n, 2)
	require.GreaterOrEqual(t, orch.Stats().Completed, int64(2))
}
