package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"unburyme/service"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Loans     *service.LoanService
	Portfolio *service.PortfolioService
	Terms     *service.TermRecommendationService
}

// RouterConfig carries the non-service dependencies of the router.
type RouterConfig struct {
	AppName string
	Version string
	Limiter *RateLimiter // nil disables rate limiting
	// BatchCost is the token cost of routes that compute many loans or
	// terms per request. Values below one mean one.
	BatchCost int
	Logger    *slog.Logger
}

// NewRouter builds the application's HTTP handler.
func NewRouter(svcs Services, cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	loanHandler := NewLoanHandler(svcs.Loans)
	portfolioHandler := NewPortfolioHandler(svcs.Portfolio)
	termHandler := NewTermRecommendationHandler(svcs.Terms)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	limit := func(r chi.Router, cost int) {
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter, cost))
		}
	}

	r.Route("/loan", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			limit(r, 1)
			r.Post("/calculate", loanHandler.CalculateLoan)
			r.Post("/schedule", loanHandler.Schedule)
			r.Post("/chart", loanHandler.Chart)
			r.Get("/history", loanHandler.History)
		})
		r.Group(func(r chi.Router) {
			limit(r, cfg.BatchCost)
			r.Post("/total", portfolioHandler.Total)
			r.Post("/recommend-term", termHandler.RecommendTerm)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{
			"name":    cfg.AppName,
			"version": cfg.Version,
		})
	})

	return r
}
