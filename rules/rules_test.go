package rules

import (
	"math/rand"
	"strings"
	"testing"

	"blokuszero/game"
)

func dumpBoard(s *game.State) string {
	var b strings.Builder
	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			switch owner := s.Owner(r*game.BoardSize + c); owner {
			case -1:
				b.WriteByte('.')
			default:
				b.WriteByte(byte('0' + owner))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestFirstMovesCoverStartCorner(t *testing.T) {
	s := game.NewState()
	moves := LegalMoves(&s)
	if len(moves) == 0 {
		t.Fatal("no legal first moves")
	}
	for _, m := range moves {
		covers := false
		for _, tile := range m.Tiles() {
			if tile == game.StartCorners[0] {
				covers = true
			}
		}
		if !covers {
			t.Errorf("first move %s does not cover the start corner", m)
		}
	}
}

func TestApplyMoveRejectsOffCorner(t *testing.T) {
	s := game.NewState()
	// One at (5,5): legal shape, but the first placement must cover (0,0).
	m := game.Move{Piece: game.One, Variant: 0, Anchor: 5*game.BoardSize + 5}
	if _, err := ApplyMove(s, m); err == nil {
		t.Error("off-corner first move applied without error")
	}
}

func TestApplyMoveRejectsMissingPiece(t *testing.T) {
	s := game.NewState()
	s.Racks[0] = s.Racks[0].Remove(game.One)
	m := game.Move{Piece: game.One, Variant: 0, Anchor: 0}
	if _, err := ApplyMove(s, m); err == nil {
		t.Error("placed a piece that is not in the rack")
	}
}

func TestApplyMoveAdvancesState(t *testing.T) {
	s := game.NewState()
	m := game.Move{Piece: game.Square, Variant: 0, Anchor: 0}
	next, err := ApplyMove(s, m)
	if err != nil {
		t.Fatalf("apply %s: %v", m, err)
	}
	if next.Player != 1 || next.Ply != 1 || next.Passes != 0 {
		t.Errorf("player=%d ply=%d passes=%d", next.Player, next.Ply, next.Passes)
	}
	if next.Boards[0].Count() != 4 {
		t.Errorf("player 0 squares = %d, want 4", next.Boards[0].Count())
	}
	if next.Racks[0].Has(game.Square) {
		t.Error("Square still in rack after placement")
	}
	if next.LastPlaced[0] != 4 {
		t.Errorf("LastPlaced = %d, want 4", next.LastPlaced[0])
	}
	// The original state is untouched.
	if s.Boards[0].Count() != 0 || !s.Racks[0].Has(game.Square) {
		t.Error("ApplyMove mutated its input")
	}
}

func TestSecondPlacementDiagonalOnly(t *testing.T) {
	s := game.NewState()
	next, err := ApplyMove(s, game.Move{Piece: game.Square, Variant: 0, Anchor: 0})
	if err != nil {
		t.Fatal(err)
	}
	// Back to player 0 for their second placement.
	next.Player = 0

	own := next.Boards[0]
	for _, m := range LegalMoves(&next) {
		diagonal := false
		for _, tile := range m.Tiles() {
			r, c := tile/game.BoardSize, tile%game.BoardSize
			if r > 0 && own.Test((r-1)*game.BoardSize+c) ||
				r < game.BoardSize-1 && own.Test((r+1)*game.BoardSize+c) ||
				c > 0 && own.Test(r*game.BoardSize+c-1) ||
				c < game.BoardSize-1 && own.Test(r*game.BoardSize+c+1) {
				t.Fatalf("move %s touches own edge\n%s", m, dumpBoard(&next))
			}
			for _, d := range [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
				dr, dc := r+d[0], c+d[1]
				if dr >= 0 && dr < game.BoardSize && dc >= 0 && dc < game.BoardSize &&
					own.Test(dr*game.BoardSize+dc) {
					diagonal = true
				}
			}
		}
		if !diagonal {
			t.Errorf("move %s has no diagonal contact with own pieces", m)
		}
	}
}

func TestPassWithMovesAvailableFails(t *testing.T) {
	s := game.NewState()
	if _, err := ApplyPass(s); err != ErrIllegalPass {
		t.Errorf("pass on opening position: err = %v, want ErrIllegalPass", err)
	}
}

func TestTerminalAfterFourPasses(t *testing.T) {
	s := game.NewState()
	for p := range s.Racks {
		s.Racks[p] = 0
	}
	for i := 0; i < game.NumPlayers; i++ {
		if IsTerminal(&s) {
			t.Fatalf("terminal after %d passes", i)
		}
		next, err := ApplyPass(s)
		if err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		s = next
	}
	if !IsTerminal(&s) {
		t.Error("not terminal after a full round of passes")
	}
}

func TestPlacementResetsPassStreak(t *testing.T) {
	s := game.NewState()
	s.Passes = 3
	next, err := ApplyMove(s, game.Move{Piece: game.One, Variant: 0, Anchor: 0})
	if err != nil {
		t.Fatal(err)
	}
	if next.Passes != 0 {
		t.Errorf("passes = %d after a placement, want 0", next.Passes)
	}
}

// TestRandomPlayout drives full games with uniformly random legal moves and
// checks the core invariants every ply.
func TestRandomPlayout(t *testing.T) {
	for seed := int64(0); seed < 3; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := game.NewState()

		for ply := 0; ply < 500; ply++ {
			if IsTerminal(&s) {
				break
			}
			moves := LegalMoves(&s)
			player := int(s.Player)

			var next game.State
			var err error
			if len(moves) == 0 {
				next, err = ApplyPass(s)
				if err != nil {
					t.Fatalf("seed %d ply %d: pass: %v", seed, ply, err)
				}
			} else {
				m := moves[rng.Intn(len(moves))]
				before := s.Boards[player].Count()
				next, err = ApplyMove(s, m)
				if err != nil {
					t.Fatalf("seed %d ply %d: legal move %s rejected: %v\n%s", seed, ply, m, err, dumpBoard(&s))
				}
				if next.Boards[player].Count() != before+game.Pieces[m.Piece].Squares {
					t.Fatalf("seed %d ply %d: board count mismatch after %s", seed, ply, m)
				}
			}

			// Players never overlap.
			total := 0
			for p := 0; p < game.NumPlayers; p++ {
				total += next.Boards[p].Count()
			}
			if total != next.Occupied().Count() {
				t.Fatalf("seed %d ply %d: overlapping boards\n%s", seed, ply, dumpBoard(&next))
			}
			if next.Player != int8((player+1)%game.NumPlayers) {
				t.Fatalf("seed %d ply %d: turn went %d -> %d", seed, ply, player, next.Player)
			}
			s = next
		}

		if !IsTerminal(&s) {
			t.Fatalf("seed %d: game did not terminate", seed)
		}
		scores := Scores(&s, DefaultScoreConfig())
		t.Logf("seed %d: plies=%d scores=%v", seed, s.Ply, scores)
	}
}

// TestScriptedGame plays a short hand-checked game: every player places the
// Square at their corner, then the monomino diagonally off it. Racks are then
// emptied so the pass round can end the game, which also exercises both
// bonuses for all four seats.
func TestScriptedGame(t *testing.T) {
	s := game.NewState()
	script := []game.Move{
		{Piece: game.Square, Variant: 0, Anchor: 0},
		{Piece: game.Square, Variant: 0, Anchor: 18},
		{Piece: game.Square, Variant: 0, Anchor: 18*game.BoardSize + 18},
		{Piece: game.Square, Variant: 0, Anchor: 18 * game.BoardSize},
		{Piece: game.One, Variant: 0, Anchor: 2*game.BoardSize + 2},
		{Piece: game.One, Variant: 0, Anchor: 2*game.BoardSize + 17},
		{Piece: game.One, Variant: 0, Anchor: 17*game.BoardSize + 17},
		{Piece: game.One, Variant: 0, Anchor: 17*game.BoardSize + 2},
	}
	for i, m := range script {
		next, err := ApplyMove(s, m)
		if err != nil {
			t.Fatalf("ply %d: %s: %v\n%s", i, m, err, dumpBoard(&s))
		}
		s = next
	}
	for p := 0; p < game.NumPlayers; p++ {
		if s.Boards[p].Count() != 5 {
			t.Errorf("player %d squares = %d, want 5", p, s.Boards[p].Count())
		}
		if s.LastPlaced[p] != 1 {
			t.Errorf("player %d last piece = %d, want 1", p, s.LastPlaced[p])
		}
	}

	for p := range s.Racks {
		s.Racks[p] = 0
	}
	for i := 0; i < game.NumPlayers; i++ {
		next, err := ApplyPass(s)
		if err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		s = next
	}
	if !IsTerminal(&s) {
		t.Fatal("game not terminal after the pass round")
	}

	scores := Scores(&s, DefaultScoreConfig())
	payoff := Payoff(&s, DefaultScoreConfig())
	for p := 0; p < game.NumPlayers; p++ {
		if scores[p] != 25 {
			t.Errorf("player %d score = %d, want 25 (5 squares + 15 + 5)", p, scores[p])
		}
		if payoff[p] != 0.25 {
			t.Errorf("player %d payoff = %f, want 0.25", p, payoff[p])
		}
	}
}

func TestScoresBonuses(t *testing.T) {
	cfg := DefaultScoreConfig()
	var s game.State

	// Player 0: everything placed, monomino last.
	s.Racks[0] = 0
	s.LastPlaced[0] = 1
	for i := 0; i < 89; i++ {
		s.Boards[0].Set(i)
	}
	// Player 1: everything placed, monomino not last.
	s.Racks[1] = 0
	s.LastPlaced[1] = 5
	for i := 100; i < 189; i++ {
		s.Boards[1].Set(i)
	}
	// Player 2: pieces remaining.
	s.Racks[2] = game.FullRack().Remove(game.One)
	s.Boards[2].Set(399)
	// Player 3: nothing placed, full rack.
	s.Racks[3] = game.FullRack()

	scores := Scores(&s, cfg)
	if scores[0] != 89+15+5 {
		t.Errorf("player 0 score = %d, want 109", scores[0])
	}
	if scores[1] != 89+15 {
		t.Errorf("player 1 score = %d, want 104", scores[1])
	}
	if scores[2] != 1 {
		t.Errorf("player 2 score = %d, want 1", scores[2])
	}
	if scores[3] != 0 {
		t.Errorf("player 3 score = %d, want 0", scores[3])
	}

	payoff := Payoff(&s, cfg)
	if payoff != [4]float32{1, 0, 0, 0} {
		t.Errorf("payoff = %v", payoff)
	}
}

func TestPayoffSplitsTies(t *testing.T) {
	s := game.NewState()
	s.Boards[1].Set(0)
	s.Boards[2].Set(1)
	payoff := Payoff(&s, DefaultScoreConfig())
	if payoff != [4]float32{0, 0.5, 0.5, 0} {
		t.Errorf("payoff = %v", payoff)
	}
}

func TestLegalMovesDeterministic(t *testing.T) {
	s := game.NewState()
	a := LegalMoves(&s)
	b := LegalMoves(&s)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("move %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}
