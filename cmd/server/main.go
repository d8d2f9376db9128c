package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/config"
	"github.com/euthiagoalves10/TH-DRINKS/internal/api"
	"github.com/euthiagoalves10/TH-DRINKS/internal/poller"
	"github.com/euthiagoalves10/TH-DRINKS/internal/service"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting TH-DRINKS server")

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	logger.Info("Store ready", zap.String("backend", cfg.Store.Backend))

	var generator service.DescriptionGenerator = service.TemplateGenerator{}
	if cfg.Gemini.APIKey != "" {
		generator = service.NewGeminiGenerator(cfg.Gemini.APIKey, cfg.Gemini.Model)
	} else {
		logger.Warn("Gemini API key missing, drink descriptions use the template fallback")
	}

	sessions := service.NewSessionService(st, service.SessionOptions{
		StartingCoins:      cfg.Business.StartingCoins,
		EventDurationHours: cfg.Business.EventDurationHours,
		KitchenCodeword:    cfg.Business.KitchenCodeword,
	})
	coins := service.NewCoinService(st)
	orders := service.NewOrderService(st)
	drinks := service.NewDrinkService(st, generator)

	if cfg.Business.SeedDrinks {
		if err := drinks.SeedCatalog(context.Background()); err != nil {
			logger.Warn("Failed to seed catalog", zap.Error(err))
		}
	}

	pollCtx, pollCancel := context.WithCancel(context.Background())
	defer pollCancel()

	syncPoller := poller.New(st, cfg.Sync.PollInterval)
	go func() {
		if err := syncPoller.Start(pollCtx); err != nil && err != context.Canceled {
			logger.Warn("Sync poller exited", zap.Error(err))
		}
	}()
	go func() {
		for snap := range syncPoller.Updates() {
			logger.Debug("Store state changed",
				zap.Int("drinks", len(snap.Drinks)),
				zap.Int("orders", len(snap.Orders)),
				zap.Int("coin_codes", len(snap.CoinCodes)))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(sessions, coins, orders, drinks, service.DefaultQRGenerator{})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	pollCancel()
	logger.Info("Server exited")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	case "file":
		return store.NewFileStore(cfg.Store.File)
	default:
		return store.NewMemoryStore(), nil
	}
}
