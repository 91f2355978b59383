package view

import "github.com/rocketscienceinc/bingo-backend/internal/entity"

// Game is what a renderer needs to draw a board and announce a win.
type Game struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Won         bool          `json:"won"`
	WinningLine string        `json:"winning_line,omitempty"`
	Cells       []entity.Cell `json:"cells"`
}

func NewGame(game *entity.Game) *Game {
	if game == nil {
		return nil
	}

	return &Game{
		ID:          game.ID,
		Status:      game.Status,
		Won:         game.IsWon(),
		WinningLine: game.WinningLine,
		Cells:       game.Cells(),
	}
}
