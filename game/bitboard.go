package game

import "math/bits"

// Bitboard is a 400-bit set, one bit per board cell in row-major order.
// The value-type representation keeps State copies cheap, which MCTS relies
// on: every tree node holds its own State and no node ever mutates another's.
type Bitboard [7]uint64

func (b *Bitboard) Set(cell int) {
	b[cell>>6] |= 1 << uint(cell&63)
}

func (b Bitboard) Test(cell int) bool {
	return b[cell>>6]&(1<<uint(cell&63)) != 0
}

func (b Bitboard) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b Bitboard) IsEmpty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

// Or returns the union of two bitboards.
func (b Bitboard) Or(o Bitboard) Bitboard {
	var out Bitboard
	for i := range b {
		out[i] = b[i] | o[i]
	}
	return out
}

// Cells returns the set bits in ascending order.
func (b Bitboard) Cells() []int {
	out := make([]int, 0, b.Count())
	for i, w := range b {
		for w != 0 {
			out = append(out, i*64+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return out
}
