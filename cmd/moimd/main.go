package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/moim/internal/cache"
	cachemem "github.com/dropDatabas3/moim/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/moim/internal/cache/redis"
	"github.com/dropDatabas3/moim/internal/config"
	httpx "github.com/dropDatabas3/moim/internal/http"
	authctrl "github.com/dropDatabas3/moim/internal/http/controllers/auth"
	socialctrl "github.com/dropDatabas3/moim/internal/http/controllers/social"
	"github.com/dropDatabas3/moim/internal/http/middlewares"
	"github.com/dropDatabas3/moim/internal/http/router"
	authsvc "github.com/dropDatabas3/moim/internal/http/services/auth"
	socialsvc "github.com/dropDatabas3/moim/internal/http/services/social"
	jwtx "github.com/dropDatabas3/moim/internal/jwt"
	"github.com/dropDatabas3/moim/internal/namegen"
	"github.com/dropDatabas3/moim/internal/oauth"
	"github.com/dropDatabas3/moim/internal/oauth/google"
	"github.com/dropDatabas3/moim/internal/oauth/kakao"
	"github.com/dropDatabas3/moim/internal/observability/logger"
	"github.com/dropDatabas3/moim/internal/security/password"
	"github.com/dropDatabas3/moim/internal/store"
	"github.com/dropDatabas3/moim/internal/store/pg"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml (optional)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "moimd",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.L().Fatal("service exited", logger.Err(err))
	}
}

func run(cfg *config.Config) error {
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, store.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		Postgres: pg.Tuning{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		},
		Migrate: cfg.Flags.Migrate,
	})
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()
	log.Info("store opened", logger.String("driver", cfg.Storage.Driver))

	states := newStateCache(cfg)
	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Ed25519Seed, cfg.AccessTTL())
	if err != nil {
		return err
	}

	hasher := password.New(password.Default)
	names := namegen.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	providers := buildProviders(cfg)
	for name := range providers {
		log.Info("login provider enabled", logger.Provider(name))
	}

	loginSvc := socialsvc.NewLoginService(socialsvc.LoginDeps{
		Providers: providers,
		Users:     stores.Users,
		Hasher:    hasher,
		Issuer:    issuer,
		Names:     names,
	})
	startSvc := socialsvc.NewStartService(socialsvc.StartDeps{
		Providers: providers,
		States:    states,
		StateTTL:  cfg.StateTTL(),
	})
	accountSvc := authsvc.NewService(authsvc.Deps{
		Users:    stores.Users,
		Buckets:  stores.Buckets,
		Messages: stores.Messages,
		Hasher:   hasher,
		Issuer:   issuer,
	})

	metricsHandler, err := httpx.RegisterMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	handler := router.New(router.Deps{
		Auth:        authctrl.NewController(accountSvc),
		Social:      socialctrl.NewController(loginSvc, startSvc),
		RequireAuth: middlewares.RequireAuth(issuer),
		Metrics:     metricsHandler,
	})

	srv := httpx.NewServer(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newStateCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Kind == "redis" {
		return cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
	}
	return cachemem.New(cfg.StateTTL())
}

// buildProviders assembles the enabled provider gateways. Endpoint overrides
// from the config point dev environments at fakes.
func buildProviders(cfg *config.Config) map[string]oauth.Provider {
	providers := make(map[string]oauth.Provider)

	if pc := cfg.OAuth.Kakao; pc.Enabled {
		k := kakao.New(pc.ClientID, pc.ClientSecret, pc.RedirectURL)
		if pc.AuthURL != "" {
			k.AuthEndpoint = pc.AuthURL
		}
		if pc.TokenURL != "" {
			k.TokenEndpoint = pc.TokenURL
		}
		if pc.UserInfoURL != "" {
			k.UserInfoEndpoint = pc.UserInfoURL
		}
		providers[k.Name()] = k
	}

	if pc := cfg.OAuth.Google; pc.Enabled {
		g := google.New(pc.ClientID, pc.ClientSecret, pc.RedirectURL)
		if pc.AuthURL != "" {
			g.AuthEndpoint = pc.AuthURL
		}
		if pc.TokenURL != "" {
			g.TokenEndpoint = pc.TokenURL
		}
		if pc.UserInfoURL != "" {
			g.UserInfoEndpoint = pc.UserInfoURL
		}
		providers[g.Name()] = g
	}

	return providers
}
