package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/application/service"
	appworkflow "github.com/axiomflow/invoice-sentinel/internal/application/workflow"
	"github.com/axiomflow/invoice-sentinel/internal/compliance"
	"github.com/axiomflow/invoice-sentinel/internal/config"
	"github.com/axiomflow/invoice-sentinel/internal/erp"
	"github.com/axiomflow/invoice-sentinel/internal/extractor"
	"github.com/axiomflow/invoice-sentinel/internal/finance"
	httpserver "github.com/axiomflow/invoice-sentinel/internal/interfaces/http"
	"github.com/axiomflow/invoice-sentinel/internal/memory"
	"github.com/axiomflow/invoice-sentinel/internal/refdata"
	"github.com/axiomflow/invoice-sentinel/internal/report"
	"github.com/axiomflow/invoice-sentinel/internal/repository"
	"github.com/axiomflow/invoice-sentinel/pkg/database"
	"github.com/axiomflow/invoice-sentinel/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Invoice Sentinel",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	refData, err := refdata.NewLoader(cfg.RefData.Dir, logger).Load()
	if err != nil {
		logger.Fatal("Failed to load reference data", zap.Error(err))
	}

	complianceEngine := compliance.NewEngine(refData, erp.NewOdooSyncer(logger), logger)

	auditRepo := repository.NewWorkflowAuditRepository(db, logger)

	workflowEngine := appworkflow.NewEngine(
		memory.NewContextMemory(logger),
		finance.NewValidator(cfg.Finance.TaxTolerance, logger),
		auditRepo,
		appworkflow.Config{
			AssumedTaxRate:    cfg.Workflow.AssumedTaxRate,
			LargeTxnThreshold: cfg.Workflow.LargeTxnThreshold,
		},
		logger,
	)

	ingestion := service.NewIngestionService(
		extractor.NewExtractor(logger),
		complianceEngine,
		workflowEngine,
		repository.NewResultRepository(db, logger),
		logger,
	)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, ingestion, report.NewExporter(logger), auditRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
