package wire

import (
	"net/http"

	"dcms/internal/adaptor"
	"dcms/internal/data/repository"
	"dcms/internal/usecase"
	"dcms/pkg/jwt"
	"dcms/pkg/mailer"
	"dcms/pkg/middleware"
	"dcms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the long-lived pieces that need an explicit shutdown.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter middleware.RateLimiter
}

// routeDeps is what route groups need besides their handler.
type routeDeps struct {
	tokens  middleware.TokenVerifier
	limiter middleware.RateLimiter
	metrics *middleware.Metrics
	config  *utils.Config
	log     *zap.Logger
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	tokens *jwt.Issuer,
	mail mailer.Sender,
	limiter middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, tokens, mail, config, logger)
	handler := adaptor.NewHandler(service, logger)

	deps := &routeDeps{
		tokens:  tokens,
		limiter: limiter,
		config:  config,
		log:     logger,
	}
	if config.Metrics.Enabled {
		deps.metrics = middleware.NewMetrics(config.App.Name)
	}

	return &App{
		Router:  setupRouter(handler, deps),
		Service: service,
		Limiter: limiter,
	}
}

// Start launches background work.
func (a *App) Start() {
	a.Service.Start()
}

// Close stops background work. Safe to call more than once.
func (a *App) Close() {
	a.Service.Close()
	if a.Limiter != nil {
		a.Limiter.Close()
	}
}

func setupRouter(handler *adaptor.Handler, deps *routeDeps) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(deps.log))
	r.Use(middleware.Recover(deps.log))
	r.Use(middleware.CORS())
	if deps.metrics != nil {
		r.Use(deps.metrics.Instrument)
		r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())
	}

	// Apply routes
	wireAuth(r, handler.Auth, deps)
	wireUser(r, handler.User, deps)
	wireArticle(r, handler.Article, deps)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
