package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/config"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/googleapi"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/repository/sheets"
	leaveService "github.com/cmlabs-hris/leave-dashboard-go/internal/service/leave"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-dashboard"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx := context.Background()

	var usageRepo leave.UsageRepository
	var logRepo leave.LogRepository
	switch cfg.Store.Driver {
	case config.StoreDriverSheets:
		credentials, err := googleapi.LoadCredentials(cfg.Spreadsheet.CredentialsJSON, cfg.Spreadsheet.CredentialsFile)
		if err != nil {
			log.Fatal("Failed to load Google credentials: ", err)
		}
		client, err := googleapi.NewServiceAccountClient(ctx, credentials)
		if err != nil {
			log.Fatal("Failed to initialize Google API client: ", err)
		}
		workbook, err := sheets.OpenWorkbook(ctx, client, sheets.WorkbookConfig{
			SpreadsheetID:   cfg.Spreadsheet.SpreadsheetID,
			SpreadsheetName: cfg.Spreadsheet.SpreadsheetName,
			UsageWorksheet:  cfg.Spreadsheet.UsageWorksheet,
			LogWorksheet:    cfg.Spreadsheet.LogWorksheet,
			Columns: sheets.Columns{
				EmployeeID:   cfg.Spreadsheet.ColumnEmployeeID,
				EmployeeName: cfg.Spreadsheet.ColumnEmployeeName,
				Position:     cfg.Spreadsheet.ColumnPosition,
				LeaveDate:    cfg.Spreadsheet.ColumnLeaveDate,
				LeaveType:    cfg.Spreadsheet.ColumnLeaveType,
			},
		})
		if err != nil {
			log.Fatal("Failed to open spreadsheet: ", err)
		}
		usageRepo = sheets.NewUsageRepository(workbook)
		logRepo = sheets.NewLogRepository(workbook)
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: int32(cfg.Database.MaxConns),
		})
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				log.Fatal("Failed to apply migrations: ", err)
			}
		}
		usageRepo = postgresql.NewLeaveUsageRepository(db)
		logRepo = postgresql.NewLeaveLogRepository(db)
	default:
		log.Fatal("Unsupported store driver: ", cfg.Store.Driver)
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid time zone: ", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	leaveSvc := leaveService.NewLeaveService(usageRepo, logRepo, leaveService.Options{
		LeaveTypes: cfg.Leave.Types,
		Policy:     leave.ResolutionPolicy(cfg.Leave.IdentifierResolution),
		Location:   location,
		Metrics:    metrics.NewLeaveMetrics(registry),
	})

	var jwtService jwt.Service
	if cfg.JWT.Secret != "" {
		jwtService = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	} else {
		slog.Warn("JWT_SECRET_KEY is not set, leave registration is open")
	}

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(leaveSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		JWTService:     jwtService,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, leaveHandler, dashboardHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server running", "address", "http://localhost"+port, "store", cfg.Store.Driver)
	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("Server error", "error", err)
	}
}
