package entity

import (
	"fmt"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
)

const (
	BoardSize = 5

	// FreeRow and FreeCol locate the pre-marked centre square.
	FreeRow = 3
	FreeCol = 3

	// LineLength is the number of marked cells a line needs for a bingo.
	LineLength = BoardSize
)

// Lines holds every winning path: five rows, five columns and both diagonals.
var Lines = buildLines()

// Position is a 1-based board coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is a single square of the board.
type Cell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Value  string `json:"value"`
	Marked bool   `json:"marked"`
	Free   bool   `json:"free,omitempty"`
}

// Line is a named set of positions that wins when all of them are marked.
type Line struct {
	Name      string               `json:"name"`
	Positions [LineLength]Position `json:"positions"`
}

// Board is the 5x5 grid, indexed [row-1][col-1].
type Board [BoardSize][BoardSize]Cell

// ValidatePosition - checks that row and col are both within 1..BoardSize.
func ValidatePosition(row, col int) error {
	if row < 1 || row > BoardSize || col < 1 || col > BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidPosition, row, col)
	}

	return nil
}

func IsFreePosition(row, col int) bool {
	return row == FreeRow && col == FreeCol
}

func (that *Board) At(row, col int) *Cell {
	return &that[row-1][col-1]
}

// countMarked - number of marked cells on the line.
func (that *Board) countMarked(line Line) int {
	marked := 0
	for _, pos := range line.Positions {
		if that.At(pos.Row, pos.Col).Marked {
			marked++
		}
	}

	return marked
}

func buildLines() []Line {
	lines := make([]Line, 0, 2*BoardSize+2)

	for r := 1; r <= BoardSize; r++ {
		line := Line{Name: fmt.Sprintf("r%d", r)}
		for c := 1; c <= BoardSize; c++ {
			line.Positions[c-1] = Position{Row: r, Col: c}
		}
		lines = append(lines, line)
	}

	for c := 1; c <= BoardSize; c++ {
		line := Line{Name: fmt.Sprintf("c%d", c)}
		for r := 1; r <= BoardSize; r++ {
			line.Positions[r-1] = Position{Row: r, Col: c}
		}
		lines = append(lines, line)
	}

	d1, d2 := Line{Name: "d1"}, Line{Name: "d2"}
	for i := 1; i <= BoardSize; i++ {
		d1.Positions[i-1] = Position{Row: i, Col: i}
		d2.Positions[i-1] = Position{Row: i, Col: BoardSize + 1 - i}
	}

	return append(lines, d1, d2)
}
