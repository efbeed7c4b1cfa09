// Package bootstrap wires configuration, logging, domain services and the
// HTTP transport into a running server with graceful shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	domainauth "flashcard-server-go/internal/domain/auth"
	domaincache "flashcard-server-go/internal/domain/cache"
	domaincatalog "flashcard-server-go/internal/domain/catalog"
	"flashcard-server-go/internal/domain/eventbus"
	domainflashcards "flashcard-server-go/internal/domain/flashcards"
	platformconfig "flashcard-server-go/internal/platform/config"
	platformerrors "flashcard-server-go/internal/platform/errors"
	platformlogging "flashcard-server-go/internal/platform/logging"
	httptransport "flashcard-server-go/internal/transport/http"
	"flashcard-server-go/internal/transport/http/authapi"
	"flashcard-server-go/internal/transport/http/flashcardsapi"
	"flashcard-server-go/internal/transport/http/karaokeapi"
)

const (
	eventWorkers    = 10
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 15 * time.Second
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	cache      domaincache.Cache
	deckStore  domainflashcards.DeckStore
	bus        *eventbus.AsyncEventBus
	codec      *domainauth.AuthToken
	broker     *domaincatalog.TokenBroker
	catalog    *domaincatalog.Client
	registry   *domainflashcards.Registry
	decks      *domainflashcards.Service
}

// Run drives the whole service lifecycle: init graph, HTTP server,
// signal-triggered graceful shutdown, resource teardown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	defer func() {
		state.bus.Stop()
		if err := state.deckStore.Close(); err != nil {
			logger.WarnTag("bootstrap", "deck store close failed: %v", err)
		}
		if err := state.cache.Close(); err != nil {
			logger.WarnTag("bootstrap", "cache close failed: %v", err)
		}
		logger.Close()
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("bootstrap", "service stopped cleanly")
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	logger.InfoTag("bootstrap", "initialisation order")
	for _, step := range steps {
		logger.InfoTag("bootstrap", "  %s - %s", step.ID, step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "cache:init",
			Title:     "Initialise cache backend",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   initCacheStep,
		},
		{
			ID:        "decks:init-store",
			Title:     "Initialise deck store",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   initDeckStoreStep,
		},
		{
			ID:        "eventbus:init",
			Title:     "Initialise event bus",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEventBusStep,
		},
		{
			ID:        "auth:init-codec",
			Title:     "Initialise token codec",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initAuthCodecStep,
		},
		{
			ID:        "catalog:init",
			Title:     "Initialise catalog broker and client",
			DependsOn: []string{"cache:init"},
			Kind:      platformerrors.KindCatalog,
			Execute:   initCatalogStep,
		},
		{
			ID:        "flashcards:init",
			Title:     "Initialise flashcard providers and service",
			DependsOn: []string{"decks:init-store", "eventbus:init"},
			Kind:      platformerrors.KindProvider,
			Execute:   initFlashcardsStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load", "failed to load configuration", err)
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialise logging provider", err)
	}

	state.logger = logger
	platformlogging.DefaultLogger = logger

	logger.InfoTag("bootstrap", "logging ready [%s] %s", state.config.Log.Level, state.configPath)
	return nil
}

func initCacheStep(_ context.Context, state *appState) error {
	cfg := cacheConfig(state.config)
	c, err := domaincache.New(cfg, state.logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "cache:init", "failed to initialise cache", err)
	}
	state.cache = c
	state.logger.InfoTag("bootstrap", "cache backend ready (%s)", cfg.Driver)
	return nil
}

func cacheConfig(config *platformconfig.Config) domaincache.Config {
	driver := strings.ToLower(strings.TrimSpace(config.Cache.Driver))
	if driver == "" {
		driver = domaincache.DriverMemory
	}

	cfg := domaincache.Config{
		Driver:     driver,
		DefaultTTL: config.Cache.DefaultTTL,
	}
	switch driver {
	case domaincache.DriverRedis:
		cfg.Redis = &domaincache.RedisConfig{
			Addr:     config.Cache.Redis.Addr,
			Username: config.Cache.Redis.Username,
			Password: config.Cache.Redis.Password,
			DB:       config.Cache.Redis.DB,
			Prefix:   config.Cache.Redis.Prefix,
		}
	default:
		cfg.Memory = &domaincache.MemoryConfig{
			GCInterval: config.Cache.Memory.GCInterval,
		}
	}
	return cfg
}

func initDeckStoreStep(_ context.Context, state *appState) error {
	store, err := domainflashcards.NewStore(domainflashcards.StoreConfig{
		Driver: strings.ToLower(strings.TrimSpace(state.config.Decks.Driver)),
		SQLite: domainflashcards.SQLiteConfig{DSN: state.config.Decks.SQLite.DSN},
	}, state.logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "decks:init-store", "failed to initialise deck store", err)
	}
	state.deckStore = store
	return nil
}

func initEventBusStep(_ context.Context, state *appState) error {
	bus := eventbus.NewAsyncEventBus(eventWorkers)
	bus.Start()
	state.bus = bus

	subscribeAuditLog(bus, state.logger)
	return nil
}

// subscribeAuditLog attaches the audit trail subscribers. Purely
// informational; nothing on the request path depends on them.
func subscribeAuditLog(bus *eventbus.AsyncEventBus, logger *platformlogging.Logger) {
	_ = bus.Subscribe(eventbus.EventTokenIssued, func(data eventbus.TokenIssuedData) {
		logger.InfoTag("audit", "token issued for device %s", data.DeviceID)
	})
	_ = bus.Subscribe(eventbus.EventDeckGenerated, func(data eventbus.DeckGeneratedData) {
		logger.InfoTag("audit", "deck %s generated for device %s via %s (%d cards)",
			data.DeckID, data.DeviceID, data.Provider, data.CardCount)
	})
	_ = bus.Subscribe(eventbus.EventSearchCompleted, func(data eventbus.SearchCompletedData) {
		logger.InfoTag("audit", "device %s searched %q (%d results)",
			data.DeviceID, data.Artist, data.Results)
	})
}

func initAuthCodecStep(_ context.Context, state *appState) error {
	secret := state.config.Auth.Secret
	if secret == "" {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"auth:init-codec",
			"auth secret is required",
		)
	}

	codec := domainauth.NewAuthToken(secret)
	if state.config.Auth.TokenTTL > 0 {
		codec = codec.WithTTL(state.config.Auth.TokenTTL)
	}
	if state.config.Auth.Issuer != "" {
		codec = codec.WithIssuer(state.config.Auth.Issuer)
	}
	state.codec = codec
	return nil
}

func initCatalogStep(_ context.Context, state *appState) error {
	broker, err := domaincatalog.NewTokenBroker(state.config.Spotify, state.cache, state.logger)
	if err != nil {
		return err
	}
	client, err := domaincatalog.NewClient(state.config.Spotify, state.logger)
	if err != nil {
		return err
	}
	state.broker = broker
	state.catalog = client
	return nil
}

func initFlashcardsStep(_ context.Context, state *appState) error {
	registry, err := domainflashcards.NewRegistry(state.config.AI, state.logger)
	if err != nil {
		return err
	}
	state.registry = registry
	state.decks = domainflashcards.NewService(registry, state.deckStore, state.bus, state.logger)
	state.logger.InfoTag("bootstrap", "flashcard providers: %v", registry.Names())
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	config := state.config
	logger := state.logger

	router, err := httptransport.Build(httptransport.Options{
		Config:         config,
		Logger:         logger,
		AuthMiddleware: httptransport.AuthMiddleware(state.codec),
	})
	if err != nil {
		return nil, err
	}

	router.Engine.NoRoute(func(c *gin.Context) {
		httptransport.RespondFail(c, http.StatusNotFound, gin.H{"message": "not found"})
	})

	validator := httptransport.NewValidator()

	authService, err := authapi.NewService(state.codec, validator, state.bus, logger)
	if err != nil {
		return nil, err
	}
	flashcardsService, err := flashcardsapi.NewService(state.decks, validator, logger)
	if err != nil {
		return nil, err
	}
	karaokeService, err := karaokeapi.NewService(state.broker, state.catalog, validator, state.bus, logger)
	if err != nil {
		return nil, err
	}

	if err := authService.Register(groupCtx, router.API); err != nil {
		return nil, err
	}
	if err := flashcardsService.Register(groupCtx, router.Secured); err != nil {
		return nil, err
	}
	if err := karaokeService.Register(groupCtx, router.Secured); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router.Engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "server listening on %s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("bootstrap", "shutdown requested (%v), cleaning up", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("bootstrap", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("bootstrap", "all services stopped")
	case <-time.After(drainTimeout):
		logger.ErrorTag("bootstrap", "shutdown timed out, forcing exit")
		return errors.New("shutdown timed out")
	}
	return nil
}
