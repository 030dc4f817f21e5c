package selfplay

import (
	"blokuszero/executor/convert"
	modelpb "blokuszero/gen/go"
	"blokuszero/store"
)

// Rows flattens a finished game into parquet rows, one per recorded sample.
func Rows(rec *Record) []store.GameRow {
	rows := make([]store.GameRow, 0, len(rec.Samples))
	for _, s := range rec.Samples {
		row := store.GameRow{
			GameID: rec.GameID,
			Ply:    int32(s.Ply),
			Player: int32(s.Player),
			Source: "selfplay",
		}
		for _, t := range s.Move.Tiles() {
			row.MoveTiles = append(row.MoveTiles, int32(t))
		}
		row.Policy = make([]store.PolicyMove, len(s.Moves))
		for i, m := range s.Moves {
			pm := store.PolicyMove{Prob: s.Policy[i]}
			for _, t := range m.Tiles() {
				pm.Tiles = append(pm.Tiles, int32(t))
			}
			row.Policy[i] = pm
		}
		row.Values = make([]float32, len(rec.Values))
		copy(row.Values, rec.Values[:])
		row.Scores = make([]int32, len(rec.Scores))
		for i, sc := range rec.Scores {
			row.Scores[i] = int32(sc)
		}
		rows = append(rows, row)
	}
	return rows
}

// Proto converts a finished game into the wire record pushed to the model
// server's replay buffer. History and policies stay index-aligned: one entry
// per recorded sample.
func Proto(rec *Record) *modelpb.GameRecord {
	out := &modelpb.GameRecord{
		GameId:   rec.GameID,
		History:  make([]*modelpb.TilePlacement, len(rec.Samples)),
		Policies: make([]*modelpb.MovePolicy, len(rec.Samples)),
		Values:   append([]float32(nil), rec.Values[:]...),
	}
	for i, s := range rec.Samples {
		placement := &modelpb.TilePlacement{Player: int32(s.Player)}
		for _, t := range s.Move.Tiles() {
			placement.Tiles = append(placement.Tiles, int32(t))
		}
		out.History[i] = placement

		policy := &modelpb.MovePolicy{Probs: make([]*modelpb.MoveProb, len(s.Moves))}
		masks := convert.EncodeMoves(s.Moves)
		for j := range s.Moves {
			policy.Probs[j] = &modelpb.MoveProb{
				Tiles: masks[j].GetTiles(),
				Prob:  s.Policy[j],
			}
		}
		out.Policies[i] = policy
	}
	return out
}
