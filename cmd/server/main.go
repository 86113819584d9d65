package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/config"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	"github.com/mamadbah2/barbershop/internal/repository/sheets"
	"github.com/mamadbah2/barbershop/internal/scheduler"
	"github.com/mamadbah2/barbershop/internal/server/handlers"
	"github.com/mamadbah2/barbershop/internal/server/router"
	commandsvc "github.com/mamadbah2/barbershop/internal/service/commands"
	productionsvc "github.com/mamadbah2/barbershop/internal/service/production"
	reportingsvc "github.com/mamadbah2/barbershop/internal/service/reporting"
	"github.com/mamadbah2/barbershop/internal/service/targets"
	whatsappsvc "github.com/mamadbah2/barbershop/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/barbershop/pkg/clients/whatsapp"
	"github.com/mamadbah2/barbershop/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 20*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheetsRepo
	} else {
		baseLogger.Warn("google sheets not configured, monthly export disabled")
	}

	// Config.Validate already rejected unknown names.
	policy, _ := calendar.ByName(cfg.Targets.CalendarPolicy)
	strategy, _ := targets.StrategyByName(cfg.Targets.Strategy)
	location, _ := cfg.Scheduler.Location()

	calculator := targets.NewCalculator(policy, strategy)
	productionSvc := productionsvc.NewService(mongoRepo, baseLogger.Named("svc.production"))
	reportingSvc := reportingsvc.NewService(mongoRepo, calculator, reportingsvc.Options{
		LeaderboardSize: cfg.Targets.LeaderboardSize,
		Location:        location,
	}, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(mongoRepo, productionSvc, reportingSvc, baseLogger.Named("svc.commands"))

	var whatsClient whatsappclient.Client = whatsappclient.DisabledClient{}
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp token missing, messaging disabled")
	}
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))

	webhookHandler := handlers.NewWebhookHandler(messagingSvc, mongoRepo, baseLogger.Named("handlers.whatsapp"))
	apiHandler := handlers.NewAPIHandler(mongoRepo, productionSvc, reportingSvc, baseLogger.Named("handlers.api"))
	engine := router.New(webhookHandler, apiHandler, baseLogger.Named("router"))

	var messenger scheduler.Messenger
	if cfg.WhatsApp.Enabled() {
		messenger = messagingSvc
	}
	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, mongoRepo, messenger, exporter, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("calendar_policy", cfg.Targets.CalendarPolicy),
			zap.String("target_strategy", strategy.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
