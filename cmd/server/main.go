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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/AnshRaj112/safespace-backend/internal/config"
	"github.com/AnshRaj112/safespace-backend/internal/database"
	"github.com/AnshRaj112/safespace-backend/internal/handlers"
	"github.com/AnshRaj112/safespace-backend/internal/routes"
	"github.com/AnshRaj112/safespace-backend/internal/services"
	"github.com/AnshRaj112/safespace-backend/internal/store"
)

func main() {
	app := cli.App{
		Name:  "safespace",
		Usage: "anonymous peer-support API with community moderation",
		Before: func(cctx *cli.Context) error {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintln(os.Stderr, "No .env file found")
			}
			return nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: runServe,
			},
			{
				Name:   "init-db",
				Usage:  "create PostgreSQL tables and indexes",
				Action: runInitDB,
			},
			{
				Name:  "create-admin",
				Usage: "provision an admin account with a password login",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Usage:    "admin username (3-20 letters, digits or underscores)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "admin password",
						EnvVars:  []string{"ADMIN_PASSWORD"},
						Required: true,
					},
				},
				Action: runCreateAdmin,
			},
		},
	}
	app.RunAndExitOnError()
}

// setupLogging switches the global logger to JSON in production and to a
// console writer everywhere else.
func setupLogging(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return log.Logger
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}
	return cfg, setupLogging(cfg), nil
}

// openStore connects the configured backend. PostgreSQL tables are created
// on startup so a fresh database works without running init-db first.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("⚠️ Using the in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}

	log.Info().Str("uri", database.RedactURI(cfg.PostgresURI)).Msg("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.InitPostgresTables(ctx); err != nil {
		_ = database.DisconnectPostgres()
		return nil, err
	}
	return store.NewPostgres(database.PostgresDB), nil
}

func runServe(cctx *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Violation audit log (MongoDB, optional)
	var violations services.ViolationRecorder = services.NopViolationRecorder{}
	if cfg.MongoURI != "" {
		log.Info().Str("uri", database.RedactURI(cfg.MongoURI)).Msg("Connecting to MongoDB...")
		if err := database.Connect(cfg.MongoURI); err != nil {
			log.Warn().Err(err).Msg("⚠️ MongoDB unavailable; violations will not be audited")
		} else {
			defer database.Disconnect()
			recorder := services.NewMongoViolationRecorder(database.DB)
			recorder.StartViolationCleanup(ctx, cfg.ViolationCleanupInterval, cfg.ViolationRetention)
			violations = recorder
		}
	} else {
		log.Info().Msg("MONGODB_URI not set; violation audit log disabled")
	}

	// Realtime notifications: Redis fans out across instances, otherwise the
	// local hub delivers directly.
	hub := services.NewNotificationHub()
	var publisher services.NotificationPublisher = hub
	var limiterRedis redis.Cmdable
	if cfg.RedisURI != "" {
		log.Info().Str("uri", database.RedactURI(cfg.RedisURI)).Msg("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Warn().Err(err).Msg("⚠️ Redis unavailable; notifications stay on this instance")
		} else {
			defer database.DisconnectRedis()
			bus := services.NewRedisNotificationBus(database.RedisClient, hub)
			bus.Start(ctx)
			publisher = bus
			limiterRedis = database.RedisClient
		}
	}

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	guard := services.NewContentGuard(services.DefaultDenyList, services.DefaultCrisisPhrases)
	notifications := services.NewNotificationService(st, publisher)
	escalator := services.NewModerationEscalator(st, notifications, violations, cfg.Moderation.StrikeLimit, cfg.Moderation.BanDuration)

	h := &handlers.Handler{
		Accounts:      services.NewAccountService(st, tokens),
		Posts:         services.NewPostService(st, guard, violations),
		Comments:      services.NewCommentService(st, guard, violations),
		Reactions:     services.NewReactionLedger(st),
		Reports:       services.NewReportLedger(st, escalator, cfg.Moderation.HideThreshold),
		Feed:          services.NewFeedAssembler(st, cfg.FeedDefaultLimit, cfg.FeedMaxLimit),
		Notifications: notifications,
		Admin:         services.NewAdminService(st, violations),
		Hub:           hub,
	}

	opts := routes.Options{
		Gate:           services.NewIdentityGate(tokens, st),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		AllowedHost:    cfg.AllowedHost,
	}
	// Assigned only when connected; a nil *redis.Client would still be a
	// non-nil interface.
	if limiterRedis != nil {
		opts.Redis = limiterRedis
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(h, opts),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Str("store", cfg.StoreDriver).
			Strs("origins", cfg.AllowedOrigins).
			Int("hide_threshold", cfg.Moderation.HideThreshold).
			Int("strike_limit", cfg.Moderation.StrikeLimit).
			Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("👋 Server stopped")
	return nil
}

func runInitDB(cctx *cli.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer database.DisconnectPostgres()

	return database.InitPostgresTables(cctx.Context)
}

func runCreateAdmin(cctx *cli.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == "memory" {
		return cli.Exit("create-admin needs STORE_DRIVER=postgres; in-memory accounts vanish on exit", 1)
	}

	st, err := openStore(cctx.Context, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	accounts := services.NewAccountService(st, services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL))
	account, err := accounts.CreateAdmin(cctx.Context, cctx.String("username"), cctx.String("password"))
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return cli.Exit(verr.Error(), 1)
		}
		return err
	}

	log.Info().
		Str("account_id", account.ID.String()).
		Str("username", account.Username).
		Msg("✅ Admin account created")
	return nil
}
