package httpserver

import (
	"net/http"
	"time"

	"finance-app-go/internal/config"
	"finance-app-go/internal/transport/httpserver/handler"
	authmw "finance-app-go/internal/transport/httpserver/middleware"
	"finance-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Auth, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Me)

			r.Get("/dashboard", handlers.Dashboard)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)

			r.Post("/recurring/backfill", handlers.BackfillRecurring)

			r.Get("/workspaces/me", handlers.MyWorkspaces)
			r.Post("/workspaces", handlers.CreateWorkspace)
			r.Post("/workspaces/join", handlers.JoinWorkspace)
			r.Post("/workspaces/{id}/leave", handlers.LeaveWorkspace)
			r.Patch("/workspaces/{id}", handlers.RenameWorkspace)
			r.Get("/workspaces/{id}/members", handlers.ListWorkspaceMembers)
			r.Patch("/workspaces/{id}/members/me/prefs", handlers.UpdateMyPrefs)
			r.Delete("/workspaces/{id}/members/{userID}", handlers.RemoveWorkspaceMember)

			r.Get("/budgets", handlers.ListBudgets)
			r.Post("/budgets", handlers.UpsertBudget)
			r.Delete("/budgets/{id}", handlers.DeleteBudget)

			r.Get("/savings-pots", handlers.ListSavingsPots)
			r.Post("/savings-pots", handlers.CreateSavingsPot)
			r.Post("/savings-pots/{id}/contributions", handlers.Contribute)
			r.Delete("/savings-pots/{id}", handlers.DeleteSavingsPot)
		})
	})

	return r
}
