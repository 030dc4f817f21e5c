package game

import "fmt"

// Move places a piece orientation with its bounding-box top-left at Anchor.
// The zero Anchor is cell (0,0); cells are row-major indices into the board.
// Pass is the distinguished no-placement move.
type Move struct {
	Piece   PieceID
	Variant int8
	Anchor  int16
}

// Pass is played when (and only when) a player has no legal placement.
var Pass = Move{Piece: -1}

func (m Move) IsPass() bool {
	return m.Piece < 0
}

// Tiles returns the board cells the move covers, ascending. Returns nil for
// Pass. The anchor must leave the orientation fully on the board; callers get
// that guarantee from the rules package.
func (m Move) Tiles() []int {
	if m.IsPass() {
		return nil
	}
	o := &Pieces[m.Piece].Orientations[m.Variant]
	row := int(m.Anchor) / BoardSize
	col := int(m.Anchor) % BoardSize
	tiles := make([]int, len(o.Cells))
	for i, c := range o.Cells {
		tiles[i] = (row+int(c.Row))*BoardSize + col + int(c.Col)
	}
	return tiles
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("%s/%d@%d,%d",
		Pieces[m.Piece].Name, m.Variant, int(m.Anchor)/BoardSize, int(m.Anchor)%BoardSize)
}

// MoveFromTiles decodes a tile set back into the unique move that covers it.
// This is the inverse of Tiles and of the wire-format move masks.
func MoveFromTiles(tiles []int) (Move, error) {
	if len(tiles) == 0 {
		return Pass, nil
	}
	minRow, minCol := BoardSize, BoardSize
	for _, t := range tiles {
		if t < 0 || t >= BoardSpaces {
			return Move{}, fmt.Errorf("tile %d out of range", t)
		}
		if r := t / BoardSize; r < minRow {
			minRow = r
		}
		if c := t % BoardSize; c < minCol {
			minCol = c
		}
	}
	cells := make([]Offset, len(tiles))
	for i, t := range tiles {
		cells[i] = Offset{
			Row: int8(t/BoardSize - minRow),
			Col: int8(t%BoardSize - minCol),
		}
	}
	piece, variant, ok := LookupOrientation(cells)
	if !ok {
		return Move{}, fmt.Errorf("tile set matches no piece orientation")
	}
	return Move{
		Piece:   piece,
		Variant: int8(variant),
		Anchor:  int16(minRow*BoardSize + minCol),
	}, nil
}
