package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/bingo-backend/internal/calls"
	"github.com/rocketscienceinc/bingo-backend/internal/config"
	"github.com/rocketscienceinc/bingo-backend/internal/repository"
	"github.com/rocketscienceinc/bingo-backend/internal/repository/storage"
	"github.com/rocketscienceinc/bingo-backend/internal/usecase"
	"github.com/rocketscienceinc/bingo-backend/transport/rest"
	"github.com/rocketscienceinc/bingo-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	boardCalls, err := calls.Load(ctx, conf.CallsSource)
	if err != nil {
		return fmt.Errorf("could not load calls: %w", err)
	}

	log.Info("calls loaded", "source", conf.CallsSource, "general", len(boardCalls.General))

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage, conf.SessionTTL)
	gameRepo := repository.NewGameRepository(redisStorage, conf.SessionTTL)
	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo, boardCalls)

	router := rest.NewRouter(logger, gameManager, rest.Options{
		StaticDir:      conf.StaticDir,
		AllowedOrigins: conf.AllowedOrigins,
		SessionTTL:     conf.SessionTTL,
		WebSocket:      websocket.New(logger, gameManager, conf.AllowedOrigins),
	})

	log.Info("Starting HTTP server", "port", conf.HTTPPort)

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
