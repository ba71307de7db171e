package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playroomlab/tictactoe-server/internal/config"
	"github.com/playroomlab/tictactoe-server/internal/repository"
	"github.com/playroomlab/tictactoe-server/internal/repository/storage"
	"github.com/playroomlab/tictactoe-server/internal/server/tcp"
	"github.com/playroomlab/tictactoe-server/internal/usecase"
	"github.com/playroomlab/tictactoe-server/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	userStorage, err := storage.NewSQLiteStorage(conf.UserDatabasePath)
	if err != nil {
		return fmt.Errorf("could not open user database: %w", err)
	}

	defer func() {
		if err = userStorage.Close(); err != nil {
			log.Error("could not close user database", "error", err)
		}
	}()

	if err = userStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init user database: %w", err)
	}

	userRepo := repository.NewUserRepository(userStorage.Connection)
	authManager := usecase.NewAuthManager(userRepo)

	var archiveRepo repository.ArchiveRepository
	if redisAddr := conf.Redis.GetRedisAddr(); redisAddr != "" {
		redisStorage, redisErr := storage.NewRedisStorage(ctx, redisAddr)
		if redisErr != nil {
			return fmt.Errorf("could not connect to redis storage: %w", redisErr)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		archiveRepo = repository.NewArchiveRepository(redisStorage.Connection)
	} else {
		log.Info("no redis host configured, match archive disabled")
	}

	archiveManager := usecase.NewArchiveManager(logger, archiveRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run game server
	gameErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting game server", "port", conf.GamePort)
		gameServer := tcp.New(logger, authManager, archiveManager)
		if gameErr := gameServer.Start(ctx, conf.GamePort); gameErr != nil {
			log.Error("game server error", "error", gameErr)
			gameErrCh <- gameErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-gameErrCh:
		return fmt.Errorf("game server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
