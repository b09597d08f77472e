package app

import (
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance-app-go/internal/config"
	"finance-app-go/internal/db"
	analyticsdomain "finance-app-go/internal/domain/analytics"
	budgetsdomain "finance-app-go/internal/domain/budgets"
	savingsdomain "finance-app-go/internal/domain/savings"
	transactionsdomain "finance-app-go/internal/domain/transactions"
	userdomain "finance-app-go/internal/domain/user"
	workspacedomain "finance-app-go/internal/domain/workspace"
	analyticsrepo "finance-app-go/internal/repository/postgres/analytics"
	budgetsrepo "finance-app-go/internal/repository/postgres/budgets"
	savingsrepo "finance-app-go/internal/repository/postgres/savings"
	transactionsrepo "finance-app-go/internal/repository/postgres/transactions"
	userrepo "finance-app-go/internal/repository/postgres/user"
	workspacerepo "finance-app-go/internal/repository/postgres/workspace"
	"finance-app-go/internal/transport/httpserver"
	"finance-app-go/internal/transport/httpserver/handler"
	"finance-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	// Amounts serialize as JSON numbers, matching what the frontend
	// already parses.
	decimal.MarshalJSONWithoutQuotes = true

	log.Info("app: loading config")
	cfg := config.Load(log)

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.AutoMigrate(dbConn,
		&userdomain.Profile{},
		&workspacedomain.Workspace{},
		&workspacedomain.Member{},
		&transactionsdomain.Transaction{},
		&transactionsdomain.RecurringTemplate{},
		&budgetsdomain.Budget{},
		&savingsdomain.Pot{},
		&savingsdomain.Contribution{},
	); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	workspaces := workspacedomain.NewService(workspacerepo.NewPostgres(dbConn))
	transactions := transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn))
	analytics := analyticsdomain.NewServiceWithConfig(analyticsrepo.NewPostgres(dbConn), analyticsdomain.Config{
		CategoryBreakdownLimit:  cfg.Ledger.CategoryBreakdownLimit,
		LatestTransactionsLimit: cfg.Ledger.LatestTransactionsLimit,
		TrailingMonths:          cfg.Ledger.TrailingMonths,
	})
	budgets := budgetsdomain.NewService(budgetsrepo.NewPostgres(dbConn))
	savings := savingsdomain.NewService(savingsrepo.NewPostgres(dbConn))

	handlers := handler.New(users, workspaces, transactions, analytics, budgets, savings, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users, log)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
