package wire

import (
	"dcms/internal/adaptor"
	"dcms/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, deps *routeDeps) {
	limits := deps.config.RateLimit

	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Rate limited per client IP
		r.With(middleware.RateLimit(deps.limiter, "send-otp", limits.SendOTP, limits.Window, deps.metrics, deps.log)).
			Post("/send-otp", authHandler.SendOTP)
		r.With(middleware.RateLimit(deps.limiter, "verify-otp", limits.VerifyOTP, limits.VerifyWindow, deps.metrics, deps.log)).
			Post("/verify-otp", authHandler.VerifyOTP)
		r.With(middleware.RateLimit(deps.limiter, "login", limits.Login, limits.Window, deps.metrics, deps.log)).
			Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.With(middleware.RefreshAuth(deps.tokens, deps.log)).Post("/refresh", authHandler.Refresh)
		r.With(middleware.Auth(deps.tokens, deps.log)).Post("/logout", authHandler.Logout)
	})
}
