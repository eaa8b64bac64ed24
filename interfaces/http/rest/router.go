package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/services"
	"github.com/Midnighter/knowledge-chat/interfaces/http/rest/handlers"
	"github.com/Midnighter/knowledge-chat/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	service    *services.ChatService
	logger     *zap.Logger
	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(service *services.ChatService, logger *zap.Logger, enableCORS bool) *Router {
	return &Router{service: service, logger: logger, enableCORS: enableCORS}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		chatHandler := handlers.NewChatHandler(rt.service, rt.logger)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", chatHandler.CreateUser)
			r.Get("/{userID}", chatHandler.GetUser)

			r.Route("/{userID}/conversations/{conversationID}", func(r chi.Router) {
				r.Post("/", chatHandler.StartConversation)
				r.Get("/", chatHandler.GetConversation)
				r.Post("/messages", chatHandler.RespondTo)
				r.Post("/retry", chatHandler.RetryExchange)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
