package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpHandlers "github.com/Neos-Metaverse/WebApiThrottle/internal/adapters/http/handlers"
	httpMiddleware "github.com/Neos-Metaverse/WebApiThrottle/internal/adapters/http/middleware"
	fileprovider "github.com/Neos-Metaverse/WebApiThrottle/internal/adapters/storage/file"
	redisprovider "github.com/Neos-Metaverse/WebApiThrottle/internal/adapters/storage/redis"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/config"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/ports"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/services"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	buildPolicy, closeFn, err := initPolicySource(cfg)
	if err != nil {
		logger.Fatalw("failed to init policy source", "err", err)
	}
	defer closeFn()

	ctx := context.Background()

	policy, err := buildPolicy(ctx)
	if err != nil {
		logger.Fatalw("failed to assemble policy", "err", err)
	}
	holder := services.NewPolicyHolder(policy)
	logPolicy(logger, policy)

	// Counting and rejection live in the enforcement engine; this binary
	// only demonstrates policy resolution, so it wires a pass-through.
	limiter := &loggingLimiter{logger: logger}

	r := chi.NewRouter()
	r.Use(httpMiddleware.NewThrottleMiddleware(holder, limiter, logger))
	r.Get("/status", httpHandlers.StatusHandler)
	r.Get("/policy", httpHandlers.NewPolicyInspector(holder))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			fresh, err := buildPolicy(context.Background())
			if err != nil {
				logger.Errorw("policy reload failed, keeping current snapshot", "err", err)
				continue
			}
			holder.Swap(fresh)
			logger.Infow("policy snapshot reloaded")
			logPolicy(logger, fresh)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "port", cfg.Server.Port, "provider", cfg.Provider.Type)
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infow("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server error", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("graceful shutdown failed", "err", err)
	}
}

// initPolicySource returns a function that builds a fresh policy snapshot,
// plus a cleanup for whatever backend it holds open.
func initPolicySource(cfg config.Config) (func(context.Context) (*domain.ThrottlePolicy, error), func(), error) {
	switch cfg.Provider.Type {
	case config.ProviderRedis:
		provider, err := redisprovider.New(redisprovider.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Provider.Redis.Host, cfg.Provider.Redis.Port),
			Password: cfg.Provider.Redis.Password,
			DB:       cfg.Provider.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		assembler, err := services.NewPolicyAssembler(provider, services.Config{})
		if err != nil {
			return nil, nil, err
		}
		return assembler.Assemble, func() {
			if err := provider.Close(); err != nil {
				log.Printf("failed to close redis provider: %v", err)
			}
		}, nil

	case config.ProviderFile:
		path := cfg.Provider.File.Path
		// Reloads re-read the document so a SIGHUP picks up edits.
		build := func(ctx context.Context) (*domain.ThrottlePolicy, error) {
			provider, err := fileprovider.New(path)
			if err != nil {
				return nil, err
			}
			assembler, err := services.NewPolicyAssembler(provider, services.Config{})
			if err != nil {
				return nil, err
			}
			return assembler.Assemble(ctx)
		}
		return build, func() {}, nil

	case config.ProviderEnv:
		policyCfg := cfg.Policy
		build := func(context.Context) (*domain.ThrottlePolicy, error) {
			return buildDirectPolicy(policyCfg), nil
		}
		return build, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported policy provider: %s", cfg.Provider.Type)
	}
}

// buildDirectPolicy is the direct construction path: global rates and flags
// only, every rule collection empty.
func buildDirectPolicy(cfg config.PolicyConfig) *domain.ThrottlePolicy {
	settings := domain.PolicySettings{
		IPThrottling:         cfg.IPThrottling,
		ClientThrottling:     cfg.ClientThrottling,
		EndpointThrottling:   cfg.EndpointThrottling,
		StackBlockedRequests: cfg.StackBlockedRequests,
		LimitPerSecond:       cfg.LimitPerSecond,
		LimitPerMinute:       cfg.LimitPerMinute,
		LimitPerHour:         cfg.LimitPerHour,
		LimitPerDay:          cfg.LimitPerDay,
		LimitPerWeek:         cfg.LimitPerWeek,
	}

	policy := domain.NewThrottlePolicy(settings.Rates())
	policy.IPThrottlingEnabled = settings.IPThrottling
	policy.ClientThrottlingEnabled = settings.ClientThrottling
	policy.EndpointThrottlingEnabled = settings.EndpointThrottling
	policy.StackBlockedRequests = settings.StackBlockedRequests
	return policy
}

func logPolicy(logger *observability.Logger, policy *domain.ThrottlePolicy) {
	logger.Infow("policy snapshot in effect",
		"ip_throttling", policy.IPThrottlingEnabled,
		"client_throttling", policy.ClientThrottlingEnabled,
		"endpoint_throttling", policy.EndpointThrottlingEnabled,
		"stack_blocked_requests", policy.StackBlockedRequests,
		"ip_rules", len(policy.IPRules),
		"client_rules", len(policy.ClientRules),
		"endpoint_rules", len(policy.EndpointRules),
	)
}

// loggingLimiter is a stand-in enforcement engine: it allows everything and
// logs what a real engine would count.
type loggingLimiter struct {
	logger *observability.Logger
}

var _ ports.RateLimiter = (*loggingLimiter)(nil)

func (l *loggingLimiter) Allow(_ context.Context, req domain.RequestIdentity, matches []domain.RuleMatch) (domain.Decision, error) {
	for _, match := range matches {
		l.logger.Debugw("rule match",
			"dimension", match.Dimension.String(),
			"key", match.Key,
			"endpoint", req.Endpoint,
		)
	}
	return domain.Decision{Allowed: true}, nil
}
