// Package convert encodes game states and moves into the inference wire
// format and back.
//
// The network input is 5 planes of 20x20 booleans: planes 0-3 hold board
// ownership with plane 0 always the player to act (seat order rotated), and
// plane 4 marks the cells covered by at least one legal move. The whole
// stack is then rotated so every player sees their start corner at the
// origin, which lets one network serve all four seats.
package convert

import (
	"fmt"

	"blokuszero/game"
	modelpb "blokuszero/gen/go"
)

const (
	Dim      = game.BoardSize
	Planes   = game.NumPlayers + 1
	BoardLen = Planes * Dim * Dim
)

// EncodeState builds the wire representation of a position for the player to
// act, including the per-move legal masks the server needs to return per-move
// priors.
func EncodeState(s *game.State, legal []game.Move) *modelpb.StateRepresentation {
	player := int(s.Player)

	var planes [Planes][Dim][Dim]bool
	for p := 0; p < game.NumPlayers; p++ {
		plane := (game.NumPlayers + p - player) % game.NumPlayers
		for _, cell := range s.Boards[p].Cells() {
			planes[plane][cell/Dim][cell%Dim] = true
		}
	}
	for _, m := range legal {
		for _, t := range m.Tiles() {
			planes[game.NumPlayers][t/Dim][t%Dim] = true
		}
	}

	for i := 0; i < player; i++ {
		planes = rotatePlanes(planes)
	}

	boards := make([]bool, 0, BoardLen)
	for p := 0; p < Planes; p++ {
		for r := 0; r < Dim; r++ {
			for c := 0; c < Dim; c++ {
				boards = append(boards, planes[p][r][c])
			}
		}
	}

	return &modelpb.StateRepresentation{
		Boards:     boards,
		Player:     int32(player),
		LegalMoves: EncodeMoves(legal),
	}
}

// rotatePlanes turns every plane 90 degrees counterclockwise, moving the
// next seat's corner to the origin.
func rotatePlanes(planes [Planes][Dim][Dim]bool) [Planes][Dim][Dim]bool {
	var out [Planes][Dim][Dim]bool
	for p := 0; p < Planes; p++ {
		for r := 0; r < Dim; r++ {
			for c := 0; c < Dim; c++ {
				out[p][r][c] = planes[p][c][Dim-r-1]
			}
		}
	}
	return out
}

// EncodeMoves converts moves to wire masks. Tile indices stay in absolute
// board coordinates; only the planes are rotated.
func EncodeMoves(moves []game.Move) []*modelpb.MoveMask {
	masks := make([]*modelpb.MoveMask, len(moves))
	for i, m := range moves {
		tiles := m.Tiles()
		mask := &modelpb.MoveMask{Tiles: make([]int32, len(tiles))}
		for j, t := range tiles {
			mask.Tiles[j] = int32(t)
		}
		masks[i] = mask
	}
	return masks
}

// DecodeMoves is the inverse of EncodeMoves: each mask resolves to exactly
// one (piece, orientation, anchor) move.
func DecodeMoves(masks []*modelpb.MoveMask) ([]game.Move, error) {
	moves := make([]game.Move, len(masks))
	for i, mask := range masks {
		tiles := make([]int, len(mask.GetTiles()))
		for j, t := range mask.GetTiles() {
			tiles[j] = int(t)
		}
		m, err := game.MoveFromTiles(tiles)
		if err != nil {
			return nil, fmt.Errorf("mask %d: %w", i, err)
		}
		moves[i] = m
	}
	return moves, nil
}

// AbsoluteValue de-rotates a value head (seat 0 = player to act) into
// absolute seat order. Short vectors pad with zeros.
func AbsoluteValue(player int, value []float32) [game.NumPlayers]float32 {
	var out [game.NumPlayers]float32
	for i := 0; i < game.NumPlayers && i < len(value); i++ {
		out[(player+i)%game.NumPlayers] = value[i]
	}
	return out
}
