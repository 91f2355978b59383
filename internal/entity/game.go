package entity

import (
	"math/rand"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusOngoing = "ongoing"
	StatusWon     = "won"
)

type Game struct {
	ID          string `json:"id"`
	Board       Board  `json:"board"`
	Status      string `json:"status"`
	WinningLine string `json:"winning_line,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Status: StatusWaiting,
	}
}

// Initialize - fills the board: the free value goes to the centre and is marked, every other
// square draws a distinct general value at random. On error the game is left untouched.
// A nil rnd uses the package-level source.
func (that *Game) Initialize(freeValue string, generalValues []string, rnd *rand.Rand) error {
	if !that.IsWaiting() {
		return apperror.ErrGameAlreadyStarted
	}

	calls := Calls{Free: freeValue, General: generalValues}
	if err := calls.Validate(); err != nil {
		return err
	}

	pool := calls.Distinct()

	var board Board
	for r := 1; r <= BoardSize; r++ {
		for c := 1; c <= BoardSize; c++ {
			cell := board.At(r, c)
			cell.Row, cell.Col = r, c

			if IsFreePosition(r, c) {
				cell.Value = freeValue
				cell.Marked = true
				cell.Free = true
				continue
			}

			// swap-remove keeps the draw uniform over what is left in the pool
			i := randomIndex(rnd, len(pool))
			cell.Value = pool[i]
			pool[i] = pool[len(pool)-1]
			pool = pool[:len(pool)-1]
		}
	}

	that.Board = board
	that.Status = StatusOngoing
	that.WinningLine = ""

	return nil
}

// MarkCell - marks the square at row, col. Marking an already marked square, or any square
// once the game is won, does nothing.
func (that *Game) MarkCell(row, col int) error {
	if err := ValidatePosition(row, col); err != nil {
		return err
	}

	if that.IsWaiting() {
		return apperror.ErrGameIsNotStarted
	}

	if that.IsWon() {
		return nil
	}

	cell := that.Board.At(row, col)
	if cell.Marked {
		return nil
	}

	cell.Marked = true
	that.UpdateGameState()

	return nil
}

// IsWon - reports whether any line is fully marked.
func (that *Game) IsWon() bool {
	_, ok := that.FindWinningLine()
	return ok
}

// FindWinningLine - returns the first fully marked line.
func (that *Game) FindWinningLine() (Line, bool) {
	for _, line := range Lines {
		if that.Board.countMarked(line) == LineLength {
			return line, true
		}
	}

	return Line{}, false
}

func (that *Game) UpdateGameState() {
	if that.IsWaiting() {
		return
	}

	line, ok := that.FindWinningLine()
	if !ok {
		that.Status = StatusOngoing
		return
	}

	that.Status = StatusWon
	that.WinningLine = line.Name
}

// Cells - the board in row-major order.
func (that *Game) Cells() []Cell {
	cells := make([]Cell, 0, BoardSize*BoardSize)
	for _, row := range that.Board {
		cells = append(cells, row[:]...)
	}

	return cells
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting || that.Status == ""
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon
}

func randomIndex(rnd *rand.Rand, n int) int {
	if rnd == nil {
		return rand.Intn(n) //nolint: gosec // board shuffling, not crypto
	}

	return rnd.Intn(n)
}
