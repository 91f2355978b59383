package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/transport/view"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID := conn.playerID
	if payloadReq.Player != nil && payloadReq.Player.ID != "" {
		playerID = payloadReq.Player.ID
	}

	player, err := that.game.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	conn.playerID = player.ID

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.game.GetGame(ctx, player.ID)
		switch {
		case errors.Is(err, apperror.ErrNoActiveGame):
		case err != nil:
			return fmt.Errorf("failed to get game: %w", err)
		default:
			payloadResp.Game = view.NewGame(game)
		}
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return that.sendMessage(conn, msg.Action, payloadResp)
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	if conn.playerID == "" {
		return ErrNotConnected
	}

	game, err := that.game.NewGame(ctx, conn.playerID)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: view.NewGame(game)})
}

func (that *Server) handleGetGame(ctx context.Context, conn *connection, msg *Message) error {
	if conn.playerID == "" {
		return ErrNotConnected
	}

	game, err := that.game.GetGame(ctx, conn.playerID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: view.NewGame(game)})
}

func (that *Server) handleMarkCell(ctx context.Context, conn *connection, msg *Message) error {
	if conn.playerID == "" {
		return ErrNotConnected
	}

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return fmt.Errorf("%w: row and col are required", apperror.ErrInvalidPosition)
	}

	game, err := that.game.MarkCell(ctx, conn.playerID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		return fmt.Errorf("failed to mark cell: %w", err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: view.NewGame(game)})
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	return &payload, nil
}

// errorText - what the client is told; anything unexpected stays in the logs.
func errorText(err error) string {
	for _, known := range []error{
		ErrUnknownAction,
		ErrNotConnected,
		ErrBadPayload,
		apperror.ErrInvalidPosition,
		apperror.ErrNoActiveGame,
		apperror.ErrGameIsNotStarted,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal server error"
}
