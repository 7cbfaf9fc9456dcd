package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/ShipSphere/config"
	"github.com/Govind-619/ShipSphere/controllers"
	"github.com/Govind-619/ShipSphere/events"
	"github.com/Govind-619/ShipSphere/middleware"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/routes"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	shutdownTimeout   = 10 * time.Second
	blacklistPurgeGap = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer utils.SyncLogger()
	defer closeDB(db)

	if err := config.Migrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blacklist, purge, closeBlacklist, err := newTokenBlacklist(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeBlacklist()

	admins := repository.NewAdminRepository(db)
	auth := services.NewAdminAuthService(admins, blacklist, cfg.JWTSecret)
	if cfg.Admin.Enabled() {
		if _, err := auth.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FirstName, cfg.Admin.LastName); err != nil {
			utils.LogError("Failed to create admin: %v", err)
			return err
		}
		utils.LogInfo("Admin %s is ready", cfg.Admin.Email)
	}

	roles, err := config.LoadRoleTable(cfg.RolesFile, cfg.Admin)
	if err != nil {
		return err
	}
	utils.LogInfo("Loaded roles for %d admins", roles.Len())

	publisher := newPublisher(cfg)
	defer publisher.Close()

	rates := repository.NewShippingRateRepository(db)
	resolver := services.NewShippingResolver(rates)
	rateService := services.NewShippingRateService(rates, publisher)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(routes.Dependencies{
		Shipping:      controllers.NewShippingController(resolver),
		ShippingRates: controllers.NewShippingRateController(rateService, resolver),
		AdminAuth:     controllers.NewAdminAuthController(auth),
		Authenticator: auth,
		Roles:         roles,
		CORSOrigins:   cfg.CORSOrigins,
		QuoteLimiter:  newQuoteLimiter(cfg),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if purge != nil {
		g.Go(func() error {
			purgeLoop(gctx, purge)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		utils.LogError("Server stopped: %v", err)
		return err
	}
	utils.LogInfo("Server stopped")
	return nil
}

// newTokenBlacklist prefers redis when REDIS_ADDR is set. The returned purge
// function is nil when entries expire on their own.
func newTokenBlacklist(ctx context.Context, cfg *config.Config, db *gorm.DB) (repository.TokenBlacklist, func(context.Context) (int64, error), func(), error) {
	if cfg.RedisAddr == "" {
		gormBlacklist := repository.NewGormTokenBlacklist(db)
		return gormBlacklist, gormBlacklist.PurgeExpired, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	utils.LogInfo("Using redis token blacklist at %s", cfg.RedisAddr)
	return repository.NewRedisTokenBlacklist(rdb), nil, func() { rdb.Close() }, nil
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	utils.LogInfo("Publishing shipping rate events to %s", cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func newQuoteLimiter(cfg *config.Config) *middleware.RateLimiterStore {
	if cfg.QuoteRateLimit == 0 {
		return nil
	}
	return middleware.NewRateLimiterStore(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.QuoteRateLimit),
		Burst: cfg.QuoteRateBurst,
	})
}

func purgeLoop(ctx context.Context, purge func(context.Context) (int64, error)) {
	ticker := time.NewTicker(blacklistPurgeGap)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purge(ctx)
			if err != nil {
				utils.LogError("Failed to purge expired tokens: %v", err)
				continue
			}
			if n > 0 {
				utils.LogInfo("Purged %d expired blacklisted tokens", n)
			}
		}
	}
}
