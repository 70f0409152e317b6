package wire

import (
	"dcms/internal/adaptor"
	"dcms/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireUser configures routes for the authenticated caller's own account
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, deps *routeDeps) {
	r.With(middleware.Auth(deps.tokens, deps.log)).Route("/api/users", func(r chi.Router) {
		r.Get("/profile", userHandler.GetProfile)
		r.Patch("/change-password", userHandler.ChangePassword)
	})
}
