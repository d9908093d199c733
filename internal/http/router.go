package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crewdesk/crewdesk/internal/http/handler"
	mw "github.com/crewdesk/crewdesk/internal/http/middleware"
)

// maxRequestBodyBytes caps JSON request bodies at 1 MiB.
const maxRequestBodyBytes = 1 << 20

// NewRouter creates and configures the Chi router with all middleware
// and routes. The returned handler is wrapped with otelhttp so every
// request carries a trace span.
func NewRouter(server *handler.Server) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
		}
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.MaxBodyBytes(maxRequestBodyBytes))

		r.Route("/task-requests", func(r chi.Router) {
			r.Post("/", server.CreateTaskRequest)
			r.Post("/{requestID}/decision", server.DecideTaskRequest)
		})

		r.Get("/team-leaders/{teamLeaderID}/task-requests", server.ListTaskRequests)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/{taskID}", server.GetTask)
			r.Delete("/{taskID}", server.DeleteTask)
		})

		r.Route("/recurring-tasks", func(r chi.Router) {
			r.Post("/", server.CreateRecurringTask)
			r.Patch("/{recurringTaskID}/frequency", server.UpdateRecurringFrequency)
			r.Post("/{recurringTaskID}/deactivate", server.DeactivateRecurringTask)
			r.Post("/{recurringTaskID}/reactivate", server.ReactivateRecurringTask)
		})

		r.Get("/schedules", server.ListSchedules)
		r.Get("/frequencies", server.ListFrequencies)
	})

	return otelhttp.NewHandler(r, "crewdesk-http")
}
