package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/challenge"
	"github.com/SAP-F-2025/challenge-service/internal/config"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/handlers"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/scheduler"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/store"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/SAP-F-2025/challenge-service/pkg"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core
		fx.Provide(
			config.LoadConfig,
			NewLogger,
			func(logger utils.Logger) *slog.Logger { return logger.Slog() },
			validator.New,
		),

		// Infrastructure
		fx.Provide(
			NewAttemptStore,
			NewEventBus,
			NewScheduler,
			NewQuestionCatalog,
		),

		// Services
		fx.Provide(
			services.NewQuestionService,
			NewChallengeService,
		),

		// HTTP
		fx.Provide(
			NewGinEngine,
			handlers.NewHandlerManager,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.NopLogger,
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("failed to start challenge service: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("challenge service stopped with error: %v", err)
	}
}

func NewLogger(cfg *config.Config) utils.Logger {
	return utils.NewLogger(cfg.IsProduction(), nil)
}

func NewAttemptStore(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	s, err := pkg.NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing attempt store", "driver", cfg.StoreDriver)
			return s.Close()
		},
	})
	return s, nil
}

// NewEventBus provides the bus as both publisher and subscriber.
func NewEventBus(lc fx.Lifecycle, logger *slog.Logger) (events.EventPublisher, events.EventSubscriber) {
	bus := events.NewChannelEventBus(events.BusConfig{
		TopicName: events.TopicChallengeEvents,
		Logger:    logger,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bus.Close()
		},
	})
	return bus, bus
}

func NewScheduler(lc fx.Lifecycle, logger *slog.Logger) *scheduler.Scheduler {
	s := scheduler.New(logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s
}

func NewQuestionCatalog(cfg *config.Config, v *validator.Validator, logger *slog.Logger) (repositories.QuestionRepository, error) {
	return repositories.LoadCatalog(cfg.QuestionsPath, v, logger)
}

func NewChallengeService(
	lc fx.Lifecycle,
	cfg *config.Config,
	questions repositories.QuestionRepository,
	attemptStore store.Store,
	sched *scheduler.Scheduler,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) services.ChallengeService {
	svc := services.NewChallengeService(services.ChallengeServiceDeps{
		Questions: questions,
		Store:     attemptStore,
		Ticker:    sched,
		Clock:     challenge.SystemClock(),
		Publisher: publisher,
		Validator: v,
		Logger:    logger,
		Debug:     !cfg.IsProduction(),
	})
	lc.Append(fx.Hook{
		OnStop: svc.Shutdown,
	})
	return svc
}

func NewGinEngine(cfg *config.Config, logger utils.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return handlers.NewRouter(logger, cfg.CORSOrigins)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	router *gin.Engine,
	cfg *config.Config,
	manager *handlers.HandlerManager,
	logger utils.Logger,
) {
	manager.SetupRoutes(router)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Challenge service starting", "addr", cfg.Addr(), "store", cfg.StoreDriver)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.LogError(err, "Server ListenAndServe failed")
					shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Server shutting down")
			return server.Shutdown(ctx)
		},
	})
}
