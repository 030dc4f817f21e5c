// Package rules implements the Blokus game engine: legal-move generation,
// move application, terminal detection and scoring. All functions are pure
// over game.State values.
package rules

import (
	"errors"
	"fmt"

	"blokuszero/game"
)

// ErrIllegalMove is returned when a placement violates the game rules. In
// self-play this is always a programming error: searches only propose moves
// from LegalMoves.
var ErrIllegalMove = errors.New("rules: illegal move")

// ErrIllegalPass is returned when a player passes while still holding a
// legal placement.
var ErrIllegalPass = errors.New("rules: pass with legal moves available")

// Anchors returns the cells a player's next placement must cover: empty
// cells diagonally adjacent to that player's own cells, or the start corner
// before the first placement. Ascending order.
func Anchors(s *game.State, player int) []int {
	if !s.HasPlaced(player) {
		corner := game.StartCorners[player]
		if s.Owner(corner) < 0 {
			return []int{corner}
		}
		return nil
	}

	occupied := s.Occupied()
	var anchors game.Bitboard
	for _, cell := range s.Boards[player].Cells() {
		row, col := cell/game.BoardSize, cell%game.BoardSize
		for _, d := range [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
			r, c := row+d[0], col+d[1]
			if r < 0 || r >= game.BoardSize || c < 0 || c >= game.BoardSize {
				continue
			}
			diag := r*game.BoardSize + c
			if !occupied.Test(diag) && !touchesOwnEdge(s, player, r, c) {
				anchors.Set(diag)
			}
		}
	}
	return anchors.Cells()
}

func touchesOwnEdge(s *game.State, player, row, col int) bool {
	if row > 0 && s.Boards[player].Test((row-1)*game.BoardSize+col) {
		return true
	}
	if row < game.BoardSize-1 && s.Boards[player].Test((row+1)*game.BoardSize+col) {
		return true
	}
	if col > 0 && s.Boards[player].Test(row*game.BoardSize+col-1) {
		return true
	}
	if col < game.BoardSize-1 && s.Boards[player].Test(row*game.BoardSize+col+1) {
		return true
	}
	return false
}

// LegalMoves enumerates every legal placement for the player to act. The
// order is deterministic for a given state: pieces in catalog order, then
// orientation index, then anchor, then the orientation cell aligned to it.
// An empty result means the player must pass.
func LegalMoves(s *game.State) []game.Move {
	player := int(s.Player)
	anchors := Anchors(s, player)
	if len(anchors) == 0 {
		return nil
	}

	occupied := s.Occupied()
	seen := make(map[game.Move]bool)
	var moves []game.Move

	for id := game.PieceID(0); id < game.NumPieces; id++ {
		if !s.Racks[player].Has(id) {
			continue
		}
		piece := &game.Pieces[id]
		for vi := range piece.Orientations {
			o := &piece.Orientations[vi]
			for _, anchor := range anchors {
				aRow, aCol := anchor/game.BoardSize, anchor%game.BoardSize
				// Line each cell of the orientation up with the anchor in turn.
				for _, cell := range o.Cells {
					row := aRow - int(cell.Row)
					col := aCol - int(cell.Col)
					if row < 0 || col < 0 ||
						row+int(o.Rows) > game.BoardSize || col+int(o.Cols) > game.BoardSize {
						continue
					}
					m := game.Move{
						Piece:   id,
						Variant: int8(vi),
						Anchor:  int16(row*game.BoardSize + col),
					}
					if seen[m] {
						continue
					}
					if placementFits(s, player, occupied, o, row, col) {
						seen[m] = true
						moves = append(moves, m)
					}
				}
			}
		}
	}
	return moves
}

// placementFits checks overlap and own-edge contact. Corner contact is
// implied because the placement covers an anchor cell.
func placementFits(s *game.State, player int, occupied game.Bitboard, o *game.Orientation, row, col int) bool {
	for _, cell := range o.Cells {
		r := row + int(cell.Row)
		c := col + int(cell.Col)
		if occupied.Test(r*game.BoardSize + c) {
			return false
		}
		if touchesOwnEdge(s, player, r, c) {
			return false
		}
	}
	return true
}

// ApplyMove returns the successor state after a placement. It fails with
// ErrIllegalMove unless the move is legal in s.
func ApplyMove(s game.State, m game.Move) (game.State, error) {
	if m.IsPass() {
		return game.State{}, fmt.Errorf("%w: pass passed to ApplyMove", ErrIllegalMove)
	}
	player := int(s.Player)
	if m.Piece < 0 || m.Piece >= game.NumPieces || !s.Racks[player].Has(m.Piece) {
		return game.State{}, fmt.Errorf("%w: piece %d not in rack", ErrIllegalMove, m.Piece)
	}
	if int(m.Variant) >= len(game.Pieces[m.Piece].Orientations) {
		return game.State{}, fmt.Errorf("%w: orientation %d out of range", ErrIllegalMove, m.Variant)
	}

	o := &game.Pieces[m.Piece].Orientations[m.Variant]
	row := int(m.Anchor) / game.BoardSize
	col := int(m.Anchor) % game.BoardSize
	if row < 0 || col < 0 ||
		row+int(o.Rows) > game.BoardSize || col+int(o.Cols) > game.BoardSize {
		return game.State{}, fmt.Errorf("%w: %s off board", ErrIllegalMove, m)
	}

	occupied := s.Occupied()
	if !placementFits(&s, player, occupied, o, row, col) {
		return game.State{}, fmt.Errorf("%w: %s overlaps or touches own edge", ErrIllegalMove, m)
	}
	if !coversAnchor(&s, player, m) {
		return game.State{}, fmt.Errorf("%w: %s covers no anchor", ErrIllegalMove, m)
	}

	next := s
	for _, t := range m.Tiles() {
		next.Boards[player].Set(t)
	}
	next.Racks[player] = next.Racks[player].Remove(m.Piece)
	next.LastPlaced[player] = int8(game.Pieces[m.Piece].Squares)
	next.Passes = 0
	next.Player = int8((player + 1) % game.NumPlayers)
	next.Ply++
	return next, nil
}

func coversAnchor(s *game.State, player int, m game.Move) bool {
	if !s.HasPlaced(player) {
		corner := game.StartCorners[player]
		for _, t := range m.Tiles() {
			if t == corner {
				return true
			}
		}
		return false
	}
	var anchors game.Bitboard
	for _, a := range Anchors(s, player) {
		anchors.Set(a)
	}
	for _, t := range m.Tiles() {
		if anchors.Test(t) {
			return true
		}
	}
	return false
}

// ApplyPass returns the successor state after a pass. Passing is only legal
// when the player has no placement.
func ApplyPass(s game.State) (game.State, error) {
	if len(LegalMoves(&s)) > 0 {
		return game.State{}, ErrIllegalPass
	}
	next := s
	next.Passes++
	next.Player = int8((int(s.Player) + 1) % game.NumPlayers)
	next.Ply++
	return next, nil
}

// IsTerminal reports whether the game is over: a full round of consecutive
// passes means no player will ever move again.
func IsTerminal(s *game.State) bool {
	return s.Passes >= game.PassLimit
}
