package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/StaeyKay/blog-api/internal/api"
	"github.com/StaeyKay/blog-api/internal/api/handler"
	"github.com/StaeyKay/blog-api/internal/api/metrics"
	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/ports"
	"github.com/StaeyKay/blog-api/internal/core/service"
	"github.com/StaeyKay/blog-api/internal/infrastructure/config"
	"github.com/StaeyKay/blog-api/internal/infrastructure/db/mongo"
	"github.com/StaeyKay/blog-api/internal/infrastructure/db/redis"
	"github.com/StaeyKay/blog-api/internal/infrastructure/mail"
	"github.com/StaeyKay/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Auth primitives, loaded once and injected ---
	roles, err := auth.LoadRegistry(cfg.Auth.RolesFile)
	if err != nil {
		return err
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost, auth.WithHashObserver(metrics.ObservePasswordHash))
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var mailer ports.Mailer
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, outgoing mail is only logged")
		mailer = mail.NewLogMailer(log)
	} else {
		smtp, err := mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return err
		}
		mailer = smtp
	}

	// --- Services ---
	users := mongo.NewUserRepository(db)
	accounts := service.NewAccountService(service.AccountDeps{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		Roles:  roles,
		Mailer: mailer,
		Log:    log,
	})
	resets := service.NewResetService(service.ResetDeps{
		Users:       users,
		Tokens:      mongo.NewResetTokenRepository(db),
		Hasher:      hasher,
		Mailer:      mailer,
		Throttle:    redis.NewResetThrottle(rdb, cfg.Reset.RequestCooldown),
		Tx:          mongo.NewTransactor(client, cfg.Mongo.Transactions),
		FrontendURL: cfg.FrontendURL,
		TTL:         cfg.Reset.TokenTTL,
		Log:         log,
	})
	articles := service.NewArticleService(mongo.NewArticleRepository(db), log)

	e := api.NewRouter(api.Deps{
		Log:                 log,
		Accounts:            accounts,
		Resets:              resets,
		Articles:            articles,
		Authenticator:       auth.NewAuthenticator(tokens, users),
		Roles:               roles,
		SessionStore:        redis.NewSessionStore(rdb, []byte(cfg.Session.Secret), cfg.Session.TTL, cfg.Session.Secure),
		SessionName:         cfg.Session.Name,
		ConcealUnknownEmail: cfg.Reset.ConcealUnknownUser,
		ReadinessChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Strs("roles", roles.Roles()).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
