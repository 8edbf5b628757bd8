package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wagerwinz/internal/chain"
	"wagerwinz/internal/config"
	cronrunner "wagerwinz/internal/cron"
	"wagerwinz/internal/db"
	"wagerwinz/internal/events"
	"wagerwinz/internal/handler"
	"wagerwinz/internal/ledger"
	"wagerwinz/internal/logger"
	"wagerwinz/internal/oracle"
	gormrepository "wagerwinz/internal/repository/gorm"
	"wagerwinz/internal/service"
)

func main() {
	cfgPath := os.Getenv("WW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("WW_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	genesis, err := cfg.Chain.Genesis()
	if err != nil {
		logger.Fatal("invalid chain genesis", zap.Error(err))
	}
	clock := chain.SystemClock{Genesis: genesis, BlockInterval: cfg.Chain.BlockInterval}

	store := gormrepository.New(dbConn.Gorm)
	book := &ledger.Ledger{Repo: store}
	feed := &oracle.HTTPFeed{
		HTTP:     &http.Client{Timeout: cfg.Oracle.Timeout},
		Endpoint: cfg.Oracle.Endpoint,
	}
	hub := events.NewHub(cfg.Events.SubscriberBuf, logger)

	factorySvc := &service.FactoryService{Repo: store, Clock: clock, Logger: logger}
	factoryState, err := factorySvc.Ensure(context.Background(), cfg.Factory)
	if err != nil {
		logger.Fatal("factory bootstrap failed", zap.Error(err))
	}

	challengeSvc := &service.ChallengeService{
		Repo:              store,
		Ledger:            book,
		Feed:              feed,
		Clock:             clock,
		Hub:               hub,
		Logger:            logger,
		Factory:           factoryState,
		MaxPriceStaleness: cfg.Oracle.MaxStaleness,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	factoryHandler := &handler.FactoryHandler{Service: challengeSvc}
	factoryHandler.Register(engine)
	challengeHandler := &handler.ChallengeHandler{Service: challengeSvc}
	challengeHandler.Register(engine)
	accountHandler := &handler.AccountHandler{Repo: store, Ledger: book}
	accountHandler.Register(engine)
	priceHandler := &handler.PriceFeedHandler{Feed: feed, Repo: store}
	priceHandler.Register(engine)
	wsHandler := &handler.WSHandler{Hub: hub, Logger: logger}
	wsHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		sampler := &oracle.Sampler{Feed: feed, Repo: store, Logger: logger}

		_, err = cronRunner.Add(cfg.Cron.PriceSample, func(ctx context.Context) {
			if err := sampler.SampleOnce(ctx); err != nil {
				logger.Warn("price sample failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register price sample failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.EventRetention, func(ctx context.Context) {
			cutoff := time.Now().UTC().Add(-cfg.Events.Retention)
			if n, err := store.DeleteChallengeEventsBefore(ctx, cutoff); err != nil {
				logger.Warn("event prune failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("pruned challenge events", zap.Int64("count", n))
			}

			sampleCutoff := time.Now().UTC().Add(-cfg.Oracle.SampleKeep)
			if n, err := store.DeletePriceSamplesBefore(ctx, sampleCutoff); err != nil {
				logger.Warn("price sample prune failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("pruned price samples", zap.Int64("count", n))
			}
		})
		if err != nil {
			logger.Warn("cron register retention failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
