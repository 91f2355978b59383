package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/rocketscienceinc/bingo-backend/internal/pkg"
	"github.com/rocketscienceinc/bingo-backend/internal/repository"
)

const lockStripes = 64

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs bingo sessions: one player, one current board.
// All writes for a player go through that player's lock.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	calls      *entity.Calls

	locks [lockStripes]sync.Mutex
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, calls *entity.Calls) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		calls:      calls,
	}
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		return that.createPlayer(ctx)
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return that.createPlayer(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	// re-saving restarts the session TTL
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to refresh player: %w", err)
	}

	return player, nil
}

// NewGame - deals a fresh board to the player, replacing any previous one.
func (that *GameManager) NewGame(ctx context.Context, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame", "playerID", playerID)

	unlock := that.lock(playerID)
	defer unlock()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game := entity.NewGame(pkg.GenerateGameID())
	if err = game.Initialize(that.calls.Free, that.calls.General, nil); err != nil {
		return nil, fmt.Errorf("failed to initialize board: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	previousGameID := player.GameID
	player.GameID = game.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if previousGameID != "" {
		that.deleteGame(ctx, previousGameID)
	}

	log.Info("new board dealt", "gameID", game.ID)

	return game, nil
}

// GetGame - the player's current board.
func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return that.getPlayerGame(ctx, player)
}

// MarkCell - marks a square on the player's current board and stores the result.
func (that *GameManager) MarkCell(ctx context.Context, playerID string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MarkCell", "playerID", playerID)

	if err := entity.ValidatePosition(row, col); err != nil {
		return nil, err
	}

	unlock := that.lock(playerID)
	defer unlock()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := that.getPlayerGame(ctx, player)
	if err != nil {
		return nil, err
	}

	wasWon := game.IsFinished()

	if err = game.MarkCell(row, col); err != nil {
		return nil, fmt.Errorf("failed to mark cell: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if !wasWon && game.IsFinished() {
		log.Info("bingo", "gameID", game.ID, "line", game.WinningLine)
	}

	return game, nil
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("%w: game %s expired", apperror.ErrNoActiveGame, player.GameID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) deleteGame(ctx context.Context, gameID string) {
	log := that.logger.With("method", "deleteGame", "gameID", gameID)

	err := that.gameRepo.DeleteByID(ctx, gameID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Debug("game deleted")
}

func (that *GameManager) lock(playerID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))

	mu := &that.locks[h.Sum32()%lockStripes]
	mu.Lock()

	return mu.Unlock
}
