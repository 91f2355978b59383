package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/rocketscienceinc/bingo-backend/internal/repository"
	"github.com/rocketscienceinc/bingo-backend/transport/view"
)

const (
	sessionCookie = "user_session"
	playerKey     = "player"
)

type handlers struct {
	logger     *slog.Logger
	game       gameUseCase
	sessionTTL time.Duration
}

type markRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type gameResponse struct {
	Player *entity.Player `json:"player"`
	Game   *view.Game     `json:"game,omitempty"`
}

// session - resolves the player behind the session cookie, issuing a new one when needed.
func (that *handlers) session(c *gin.Context) {
	log := that.logger.With("method", "session")

	sessionID, _ := c.Cookie(sessionCookie)

	player, err := that.game.GetOrCreatePlayer(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// the player record was just saved with a fresh TTL, so the cookie slides with it
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, player.ID, int(that.sessionTTL.Seconds()), "/", "", false, true)

	if player.ID != sessionID {
		log.Info("new session issued", "playerID", player.ID)
	}

	c.Set(playerKey, player)
	c.Next()
}

func (that *handlers) getPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, gameResponse{Player: currentPlayer(c)})
}

func (that *handlers) getGame(c *gin.Context) {
	player := currentPlayer(c)

	game, err := that.game.GetGame(c.Request.Context(), player.ID)
	if err != nil {
		that.writeError(c, "getGame", err)
		return
	}

	c.JSON(http.StatusOK, gameResponse{Player: player, Game: view.NewGame(game)})
}

func (that *handlers) newGame(c *gin.Context) {
	player := currentPlayer(c)

	game, err := that.game.NewGame(c.Request.Context(), player.ID)
	if err != nil {
		that.writeError(c, "newGame", err)
		return
	}

	// NewGame relinks the player, reflect that in the response
	player.GameID = game.ID

	c.JSON(http.StatusCreated, gameResponse{Player: player, Game: view.NewGame(game)})
}

func (that *handlers) markCell(c *gin.Context) {
	player := currentPlayer(c)

	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	game, err := that.game.MarkCell(c.Request.Context(), player.ID, req.Row, req.Col)
	if err != nil {
		that.writeError(c, "markCell", err)
		return
	}

	c.JSON(http.StatusOK, gameResponse{Player: player, Game: view.NewGame(game)})
}

func (that *handlers) writeError(c *gin.Context, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidPosition):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNoActiveGame), errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func currentPlayer(c *gin.Context) *entity.Player {
	player, _ := c.MustGet(playerKey).(*entity.Player)
	return player
}
