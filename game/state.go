// Package game defines the Blokus board, piece catalog and immutable game
// state.
//
// State is a plain value: transitions in the rules package return a new State
// and never mutate their input, so concurrent MCTS branches can share states
// freely. The bitboard representation keeps those copies cheap.
package game

const (
	BoardSize   = 20
	BoardSpaces = BoardSize * BoardSize
	NumPlayers  = 4

	// PassLimit ends the game: once every seat has passed in sequence,
	// nobody will ever move again.
	PassLimit = 4
)

// StartCorners holds each player's designated first-move cell, clockwise
// from the origin.
var StartCorners = [NumPlayers]int{
	0,                       // player 0: top-left
	BoardSize - 1,           // player 1: top-right
	BoardSpaces - 1,         // player 2: bottom-right
	BoardSpaces - BoardSize, // player 3: bottom-left
}

// Rack is a player's unplaced-piece set, one bit per PieceID. Bits only ever
// clear, exactly once each.
type Rack uint32

const fullRack Rack = 1<<NumPieces - 1

func FullRack() Rack { return fullRack }

func (r Rack) Has(p PieceID) bool { return r&(1<<uint(p)) != 0 }

func (r Rack) Remove(p PieceID) Rack { return r &^ (1 << uint(p)) }

func (r Rack) Count() int {
	n := 0
	for p := PieceID(0); p < NumPieces; p++ {
		if r.Has(p) {
			n++
		}
	}
	return n
}

func (r Rack) IsEmpty() bool { return r == 0 }

// State is a complete Blokus position.
type State struct {
	Boards     [NumPlayers]Bitboard
	Racks      [NumPlayers]Rack
	Player     int8
	Passes     int8
	LastPlaced [NumPlayers]int8 // squares in each player's most recent piece
	Ply        int16
}

// NewState returns the empty starting position with player 0 to act.
func NewState() State {
	var s State
	for i := range s.Racks {
		s.Racks[i] = FullRack()
	}
	return s
}

// Occupied returns the union of all players' cells.
func (s *State) Occupied() Bitboard {
	out := s.Boards[0]
	for i := 1; i < NumPlayers; i++ {
		out = out.Or(s.Boards[i])
	}
	return out
}

// Owner returns the player occupying a cell, or -1 if it is empty.
func (s *State) Owner(cell int) int {
	for p := 0; p < NumPlayers; p++ {
		if s.Boards[p].Test(cell) {
			return p
		}
	}
	return -1
}

// HasPlaced reports whether a player has made their first placement yet.
func (s *State) HasPlaced(player int) bool {
	return !s.Boards[player].IsEmpty()
}
