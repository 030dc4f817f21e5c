package rules

import "blokuszero/game"

// ScoreConfig holds the end-of-game bonus values. The retail rules award 15
// for placing all 21 pieces and 5 more when the monomino was the last piece
// played; house variants differ, so the bonuses are configuration rather
// than constants.
type ScoreConfig struct {
	AllPlacedBonus    int
	MonominoLastBonus int
}

// DefaultScoreConfig matches the retail Blokus rules.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{AllPlacedBonus: 15, MonominoLastBonus: 5}
}

// Scores returns each player's final score: squares placed, plus bonuses for
// emptying the rack. Only meaningful on terminal states but defined for any
// state.
func Scores(s *game.State, cfg ScoreConfig) [game.NumPlayers]int {
	var scores [game.NumPlayers]int
	for p := 0; p < game.NumPlayers; p++ {
		scores[p] = s.Boards[p].Count()
		if s.Racks[p].IsEmpty() {
			scores[p] += cfg.AllPlacedBonus
			if s.LastPlaced[p] == 1 {
				scores[p] += cfg.MonominoLastBonus
			}
		}
	}
	return scores
}

// Payoff converts final scores to a per-player outcome vector summing to 1:
// the highest scorer takes 1.0, ties split it evenly.
func Payoff(s *game.State, cfg ScoreConfig) [game.NumPlayers]float32 {
	scores := Scores(s, cfg)
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc > best {
			best = sc
		}
	}
	winners := 0
	for _, sc := range scores {
		if sc == best {
			winners++
		}
	}
	var payoff [game.NumPlayers]float32
	share := 1.0 / float32(winners)
	for p, sc := range scores {
		if sc == best {
			payoff[p] = share
		}
	}
	return payoff
}
