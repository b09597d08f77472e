//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	tokenAlice = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	tokenBob   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	decimal.MarshalJSONWithoutQuotes = true

	authServer := newAuthServer(t)
	log := logger.New(io.Discard, slog.LevelError, "text")

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			SupabaseURL:    authServer.URL,
			PublishableKey: "test-key",
			Timeout:        2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

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
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	workspaces := workspacedomain.NewService(workspacerepo.NewPostgres(dbConn))
	transactions := transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn))
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))
	budgets := budgetsdomain.NewService(budgetsrepo.NewPostgres(dbConn))
	savings := savingsdomain.NewService(savingsrepo.NewPostgres(dbConn))
	handlers := handler.New(users, workspaces, transactions, analytics, budgets, savings, log)

	router := httpserver.NewRouter(cfg, handlers, users, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE contributions, pots, budgets, transactions, recurring_templates, members, workspaces, profiles RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type transactionPayload struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	WorkspaceID *string `json:"workspace_id"`
	TemplateID  *string `json:"template_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Paid        bool    `json:"paid"`
}

type transactionListEnvelope struct {
	Success      bool                 `json:"success"`
	Transactions []transactionPayload `json:"transactions"`
}

type transactionEnvelope struct {
	Success     bool               `json:"success"`
	Transaction transactionPayload `json:"transaction"`
}

type workspaceEnvelope struct {
	Success   bool `json:"success"`
	Workspace struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	} `json:"workspace"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TestE2EAuthRequired(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var envlp messageEnvelope
	if err := json.Unmarshal(body, &envlp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envlp.Success || envlp.Message != "Não autenticado" {
		t.Fatalf("unexpected error body: %s", body)
	}
}

func TestE2ERecurringLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", tokenAlice, map[string]interface{}{
		"category":     "Housing",
		"description":  "Aluguel",
		"amount":       1200,
		"type":         "expense",
		"date":         "2026-01-05",
		"is_recurring": true,
		"installments": 3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", resp.StatusCode, body)
	}

	// Listing February materializes the second installment.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?year=2026&month=2", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%s)", resp.StatusCode, body)
	}
	var feb transactionListEnvelope
	if err := json.Unmarshal(body, &feb); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(feb.Transactions) != 1 {
		t.Fatalf("expected 1 february row, got %d", len(feb.Transactions))
	}
	if feb.Transactions[0].Description != "Aluguel (2/3)" {
		t.Fatalf("expected installment suffix, got %q", feb.Transactions[0].Description)
	}

	// A second listing does not duplicate the occurrence.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?year=2026&month=2", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("relist: expected 200, got %d", resp.StatusCode)
	}
	var again transactionListEnvelope
	if err := json.Unmarshal(body, &again); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(again.Transactions) != 1 {
		t.Fatalf("materialization must be idempotent, got %d rows", len(again.Transactions))
	}

	// Deleting just February leaves January and March intact, and February
	// never comes back.
	februaryID := feb.Transactions[0].ID
	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/transactions/"+februaryID+"?scope=single", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?year=2026&month=2", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var afterDelete transactionListEnvelope
	if err := json.Unmarshal(body, &afterDelete); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(afterDelete.Transactions) != 0 {
		t.Fatalf("deleted occurrence resurrected: %s", body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?year=2026&month=3", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var march transactionListEnvelope
	if err := json.Unmarshal(body, &march); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(march.Transactions) != 1 {
		t.Fatalf("march occurrence must survive a single-scope delete, got %d rows", len(march.Transactions))
	}
}

func TestE2EWorkspaceSharing(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/workspaces", tokenAlice, map[string]string{"name": "Casa"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create workspace: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	var ws workspaceEnvelope
	if err := json.Unmarshal(body, &ws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/workspaces/join", tokenBob, map[string]string{"code": ws.Workspace.Code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", tokenAlice, map[string]interface{}{
		"category":     "Food",
		"description":  "Mercado",
		"amount":       250,
		"type":         "expense",
		"date":         "2026-01-10",
		"paid":         true,
		"workspace_id": ws.Workspace.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create tx: expected 201, got %d (%s)", resp.StatusCode, body)
	}

	// Bob sees Alice's workspace entry under the shared view.
	resp, body = requestJSON(t, client, http.MethodGet,
		env.server.URL+"/api/transactions?year=2026&month=1&workspace_id="+ws.Workspace.ID, tokenBob, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%s)", resp.StatusCode, body)
	}
	var list transactionListEnvelope
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Transactions) != 1 || list.Transactions[0].Description != "Mercado" {
		t.Fatalf("expected the shared entry, got %s", body)
	}

	// A stranger cannot read the workspace.
	resp, _ = requestJSON(t, client, http.MethodGet,
		env.server.URL+"/api/transactions?workspace_id="+ws.Workspace.ID, "cccccccc-cccc-cccc-cccc-cccccccccccc", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", resp.StatusCode)
	}
}

func TestE2EDashboard(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	for _, payload := range []map[string]interface{}{
		{"category": "Salary", "description": "Salário", "amount": 5000, "type": "income", "date": "2026-01-01", "paid": true},
		{"category": "Housing", "description": "Aluguel", "amount": 1200, "type": "expense", "date": "2026-01-05", "paid": true},
	} {
		resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", tokenAlice, payload)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed: expected 201, got %d (%s)", resp.StatusCode, body)
		}
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/dashboard?year=2026&month=1", tokenAlice, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	var envlp struct {
		Success   bool `json:"success"`
		Dashboard struct {
			Balance            float64 `json:"balance"`
			BalanceAccumulated float64 `json:"balance_accumulated"`
			OpeningBalance     float64 `json:"opening_balance"`
			TimeSeries         struct {
				Daily []struct {
					Period string `json:"period"`
				} `json:"daily"`
			} `json:"time_series"`
		} `json:"dashboard"`
	}
	if err := json.Unmarshal(body, &envlp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !envlp.Success {
		t.Fatalf("expected success, got %s", body)
	}
	if envlp.Dashboard.Balance != 3800 {
		t.Fatalf("expected balance 3800, got %v", envlp.Dashboard.Balance)
	}
	if envlp.Dashboard.OpeningBalance != 0 {
		t.Fatalf("expected opening 0, got %v", envlp.Dashboard.OpeningBalance)
	}
	if len(envlp.Dashboard.TimeSeries.Daily) != 31 {
		t.Fatalf("expected 31 daily points, got %d", len(envlp.Dashboard.TimeSeries.Daily))
	}
}
