package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gstledger/internal/config"
	"gstledger/internal/handler"
	"gstledger/internal/report"
	"gstledger/internal/repository/postgres"
	"gstledger/internal/router"
	"gstledger/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(&cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	companyRepo := postgres.NewCompanyRepo(db)
	partyRepo := postgres.NewPartyRepo(db)
	itemRepo := postgres.NewItemRepo(db)
	billRepo := postgres.NewBillRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)

	// Report cache shared by the bill, payment, and report services
	cache := report.NewCache()

	// Initialize services
	authSvc := service.NewAuthService(companyRepo, cfg.JWT)
	companySvc := service.NewCompanyService(companyRepo)
	partySvc := service.NewPartyService(partyRepo, billRepo)
	itemSvc := service.NewItemService(itemRepo)
	billSvc := service.NewBillService(billRepo, partyRepo, itemRepo, companyRepo, paymentRepo, cache)
	paymentSvc := service.NewPaymentService(paymentRepo, billRepo, cache)
	reportSvc := service.NewReportService(billRepo, paymentRepo, partyRepo, companyRepo, cache, cfg.Cache.Enabled)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	companyH := handler.NewCompanyHandler(companySvc)
	partyH := handler.NewPartyHandler(partySvc)
	itemH := handler.NewItemHandler(itemSvc)
	billH := handler.NewBillHandler(billSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, companyH, partyH, itemH, billH, paymentH, reportH, healthH)

	log.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func setupLogger(cfg *config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
