package game

import (
	"fmt"
	"sort"
	"strings"
)

// PieceID indexes the canonical piece catalog.
type PieceID int8

// The 21 Blokus pieces. Names follow the traditional set: one monomino, one
// domino, two triominoes, five tetrominoes and twelve pentominoes, 89 squares
// in total.
const (
	One PieceID = iota
	Two
	Right
	Three
	Four
	ShortL
	Triangle
	Square
	ShortStep
	Five
	LongL
	LongStep
	SquarePlus
	LongRight
	Steps
	Z
	Hump
	LongWithSide
	Plus
	Crazy
	T
)

const NumPieces = 21

// Offset is a cell of an orientation relative to its bounding-box top-left.
type Offset struct {
	Row, Col int8
}

// Orientation is one distinct rotation/reflection of a piece, normalized so
// the bounding box starts at (0,0). Cells are sorted row-major, which fixes
// the deterministic move enumeration order.
type Orientation struct {
	Cells []Offset
	Rows  int8
	Cols  int8
}

type Piece struct {
	ID           PieceID
	Name         string
	Squares      int
	Orientations []Orientation
}

// Pieces is the shared read-only catalog, built once at init.
var Pieces [NumPieces]Piece

type shapeRef struct {
	piece   PieceID
	variant int8
}

// orientationIndex maps a normalized tile-offset key back to the unique
// (piece, orientation) that produces it. Used to decode wire move masks.
var orientationIndex = map[string]shapeRef{}

var pieceShapes = [NumPieces]struct {
	name string
	rows []string
}{
	{"One", []string{"X"}},
	{"Two", []string{"XX"}},
	{"Right", []string{"XX", ".X"}},
	{"Three", []string{"XXX"}},
	{"Four", []string{"XXXX"}},
	{"ShortL", []string{"XX", "X.", "X."}},
	{"Triangle", []string{"XXX", ".X."}},
	{"Square", []string{"XX", "XX"}},
	{"ShortStep", []string{"XX.", ".XX"}},
	{"Five", []string{"XXXXX"}},
	{"LongL", []string{"XXXX", "X..."}},
	{"LongStep", []string{"XXX.", "..XX"}},
	{"SquarePlus", []string{"XX", "XX", "X."}},
	{"LongRight", []string{"XXX", "X..", "X.."}},
	{"Steps", []string{"XX.", ".XX", "..X"}},
	{"Z", []string{"XX.", ".X.", ".XX"}},
	{"Hump", []string{"XXX", "X.X"}},
	{"LongWithSide", []string{"XXXX", ".X.."}},
	{"Plus", []string{".X.", "XXX", ".X."}},
	{"Crazy", []string{".X.", "XXX", "X.."}},
	{"T", []string{"XXX", ".X.", ".X."}},
}

func init() {
	for id := range pieceShapes {
		spec := pieceShapes[id]
		shape := parseShape(spec.rows)
		p := Piece{
			ID:           PieceID(id),
			Name:         spec.name,
			Squares:      countSquares(shape),
			Orientations: genOrientations(shape),
		}
		Pieces[id] = p
		for vi, o := range p.Orientations {
			key := offsetKey(o.Cells)
			if prev, ok := orientationIndex[key]; ok {
				panic(fmt.Sprintf("duplicate orientation: %s and %s", Pieces[prev.piece].Name, p.Name))
			}
			orientationIndex[key] = shapeRef{piece: PieceID(id), variant: int8(vi)}
		}
	}
}

func parseShape(rows []string) [][]bool {
	shape := make([][]bool, len(rows))
	for i, row := range rows {
		shape[i] = make([]bool, len(row))
		for j := range row {
			shape[i][j] = row[j] == 'X'
		}
	}
	return shape
}

func countSquares(shape [][]bool) int {
	n := 0
	for _, row := range shape {
		for _, cell := range row {
			if cell {
				n++
			}
		}
	}
	return n
}

// genOrientations produces the deduplicated rotations and reflections of a
// shape: four rotations, then four rotations of the mirror image.
func genOrientations(shape [][]bool) []Orientation {
	var out []Orientation
	seen := map[string]bool{}

	add := func(s [][]bool) {
		o := toOrientation(s)
		key := offsetKey(o.Cells)
		if !seen[key] {
			seen[key] = true
			out = append(out, o)
		}
	}

	cur := shape
	for i := 0; i < 4; i++ {
		add(cur)
		cur = rotate(cur)
	}
	cur = flip(shape)
	for i := 0; i < 4; i++ {
		add(cur)
		cur = rotate(cur)
	}
	return out
}

// rotate turns a shape 90 degrees clockwise.
func rotate(shape [][]bool) [][]bool {
	rows, cols := len(shape), len(shape[0])
	out := make([][]bool, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]bool, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = shape[rows-1-j][i]
		}
	}
	return out
}

// flip mirrors a shape horizontally.
func flip(shape [][]bool) [][]bool {
	out := make([][]bool, len(shape))
	for i, row := range shape {
		out[i] = make([]bool, len(row))
		for j, cell := range row {
			out[i][len(row)-1-j] = cell
		}
	}
	return out
}

func toOrientation(shape [][]bool) Orientation {
	var cells []Offset
	for r, row := range shape {
		for c, filled := range row {
			if filled {
				cells = append(cells, Offset{Row: int8(r), Col: int8(c)})
			}
		}
	}
	return Orientation{
		Cells: cells,
		Rows:  int8(len(shape)),
		Cols:  int8(len(shape[0])),
	}
}

func offsetKey(cells []Offset) string {
	var sb strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&sb, "%d,%d;", c.Row, c.Col)
	}
	return sb.String()
}

// LookupOrientation finds the unique (piece, orientation) whose normalized
// cell offsets match. Offsets must be bounding-box normalized and sorted
// row-major.
func LookupOrientation(cells []Offset) (PieceID, int, bool) {
	sorted := append([]Offset(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})
	ref, ok := orientationIndex[offsetKey(sorted)]
	if !ok {
		return 0, 0, false
	}
	return ref.piece, int(ref.variant), true
}
