// Package store persists finished self-play games as Parquet for offline
// training. Rows are one per recorded ply, with nested policy targets, so a
// trainer can stream samples without reassembling games.
package store

// GameRow is one recorded ply of a self-play game.
//
// MoveTiles holds the board cells covered by the move that was played; an
// empty list means the player passed. Policy is the normalized visit
// distribution over the legal moves at this position. Values holds the final
// game outcome for all four seats in absolute order, backfilled once the
// game finishes.
type GameRow struct {
	GameID string `parquet:"game_id,dict"`
	Ply    int32  `parquet:"ply"`
	Player int32  `parquet:"player"`

	MoveTiles []int32 `parquet:"move_tiles"`

	Policy []PolicyMove `parquet:"policy"`

	Values []float32 `parquet:"values"`
	Scores []int32   `parquet:"scores"`

	Source string `parquet:"source,dict"`
}

// PolicyMove is one legal move's share of the search visit distribution.
type PolicyMove struct {
	Tiles []int32 `parquet:"tiles"`
	Prob  float32 `parquet:"prob"`
}

const schemaName = "blokus_game_row_v1"
