// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prosperity-bank/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(bankHandler *handler.BankHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", bankHandler.Register)
		r.Post("/login", bankHandler.Login)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", bankHandler.ListUsers)
			r.Get("/{userID}", bankHandler.GetUser)
			r.Put("/{userID}/profile", bankHandler.UpdateProfile)
			r.Put("/{userID}/balance", bankHandler.SetBalance)
			r.Post("/{userID}/transactions", bankHandler.AppendTransaction)
		})

		// Transfer is a separate top-level endpoint as it involves two users
		r.Post("/transfers", bankHandler.Transfer)

		r.Post("/kyc", bankHandler.SubmitVerification)
		r.Get("/kyc/latest", bankHandler.LatestVerification)

		r.Post("/audit", bankHandler.AppendAudit)
		r.Get("/audit", bankHandler.ListAudit)
	})

	return r
}
