package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/employee"
	"github.com/hrplatform/employee-directory/internal/transfer"
	"github.com/hrplatform/employee-directory/internal/transport/middleware"
	"github.com/hrplatform/employee-directory/internal/transport/swagger"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, employeeHandler *employee.Handler, transferHandler *transfer.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Profile of the authenticated user
				if employeeHandler != nil {
					pr.Get("/profile", employeeHandler.GetProfile)
				}

				// Employee roster routes
				if employeeHandler != nil {
					pr.Route("/employees", func(er chi.Router) {
						er.Get("/", employeeHandler.ListEmployees)
						er.Get("/{id}", employeeHandler.GetEmployee)
						er.Get("/{id}/directory", employeeHandler.GetDirectoryInfo)

						// Admin routes with privilege protection
						er.Group(func(ar chi.Router) {
							ar.Use(middleware.RequireAdmin())
							ar.Post("/", employeeHandler.CreateEmployee)
							ar.Put("/{id}", employeeHandler.UpdateEmployee)
							ar.Delete("/{id}", employeeHandler.DeleteEmployee)
							ar.Get("/sync", employeeHandler.SyncDirectory)

							if transferHandler != nil {
								ar.Post("/{id}/transfer-ou", transferHandler.TransferOU)
							}
						})
					})
				}

				// Transfer audit routes (admin only)
				if transferHandler != nil {
					pr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequireAdmin())
						ar.Get("/transfers", transferHandler.ListAudit)
					})
				}
			})
		}
	})
}
