// Package portfolio собирает зависимости сервиса и управляет его жизненным циклом.
//
// New инициализирует хранилище, прогоняет миграции, подключает кэш и брокер
// уведомлений, создает сервисы и HTTP-сервер. Run запускает сервер и
// останавливает его по отмене контекста.
package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/adityarana14/makris-portfolio/internal/cache"
	"github.com/adityarana14/makris-portfolio/internal/config"
	"github.com/adityarana14/makris-portfolio/internal/lib/jwt"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/migrations"
	"github.com/adityarana14/makris-portfolio/internal/notify"
	authservice "github.com/adityarana14/makris-portfolio/internal/services/auth"
	premiumservice "github.com/adityarana14/makris-portfolio/internal/services/premium"
	resourceservice "github.com/adityarana14/makris-portfolio/internal/services/resource"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// App — собранное приложение с HTTP-сервером и подключениями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	publisher *notify.Publisher
}

// New собирает приложение из конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher *notify.Publisher
	var notifier premiumservice.Notifier
	if cfg.AddressRabbit != "" {
		publisher, err = notify.Connect(cfg.AddressRabbit, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		notifier = publisher
	} else {
		logger.Warn("rabbitmq address is empty, review notifications disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.Audience, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	premiumService := premiumservice.NewPremiumService(db, notifier, logger)
	resourceService := resourceservice.NewResourceService(db, cacheRedis, logger)

	if err = seedUsers(ctx, db, logger); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, premiumService, resourceService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: publisher,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.publisher != nil {
			if cerr := a.publisher.Close(); cerr != nil {
				a.logger.Warn("failed to close rabbitmq connection", sl.Err(cerr))
			}
		}
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Warn("failed to close storage connection", sl.Err(cerr))
		}
		return err
	}
}
