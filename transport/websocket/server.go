package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

const (
	sessionCookie  = "user_session"
	maxMessageSize = 4096
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotConnected  = errors.New("player is not connected")
	ErrBadPayload    = errors.New("malformed payload")
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	MarkCell(ctx context.Context, playerID string, row, col int) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

// connection is one browser tab; reads and writes happen on the serving goroutine only.
type connection struct {
	ws       *websocket.Conn
	playerID string
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, game gameUseCase, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameMark] = server.handleMarkCell

	return server
}

// ServeHTTP - upgrades the request and serves messages until the client goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer ws.Close()

	ws.SetReadLimit(maxMessageSize)

	conn := &connection{ws: ws}
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		conn.playerID = cookie.Value
	}

	log.Info("WebSocket connection established")

	if err = that.handleMessages(req.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("client disconnected", "playerID", conn.playerID)
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = that.sendError(conn, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		if err = that.processMessage(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			if err = that.sendError(conn, message.Action, errorText(err)); err != nil {
				return err
			}
		}
	}
}

func (that *Server) processMessage(ctx context.Context, conn *connection, msg *Message) error {
	handler, ok := that.handlers[msg.Action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, msg.Action)
	}

	return handler(ctx, conn, msg)
}

func (that *Server) sendMessage(conn *connection, action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.ws.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *connection, action, text string) error {
	return that.sendMessage(conn, actionError, ErrorPayload{Action: action, Message: text})
}

func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, origin) {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}

		return u.Host == req.Host
	}
}
