package http

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authsvc "github.com/hvaldez/garage/internal/auth"
	"github.com/hvaldez/garage/internal/http/audit"
	"github.com/hvaldez/garage/internal/http/auth"
	"github.com/hvaldez/garage/internal/http/employee"
	"github.com/hvaldez/garage/internal/http/importcsv"
	"github.com/hvaldez/garage/internal/http/offering"
	"github.com/hvaldez/garage/internal/http/order"
	"github.com/hvaldez/garage/internal/http/product"
	"github.com/hvaldez/garage/internal/http/sale"
)

func New(
	db *sql.DB,
	authService *authsvc.Service,
	authV1 *auth.Handler,
	productsV1 *product.Handler,
	offeringsV1 *offering.Handler,
	employeesV1 *employee.Handler,
	salesV1 *sale.Handler,
	ordersV1 *order.Handler,
	auditV1 *audit.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Login and health stay outside the auth middleware.
	router.Get("/api/v1/status", statusHandler(db))
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		authV1.Routes(r)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authService.Middleware)

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			productsV1.Routes(r)
		})

		r.Route("/services", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			offeringsV1.Routes(r)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			employeesV1.Routes(r)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			salesV1.Routes(r)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ordersV1.Routes(r)
		})

		r.Route("/audit", auditV1.Routes)

		r.Route("/import", importV1.Routes)
	})

	return router
}

func statusHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if err := db.PingContext(r.Context()); err != nil {
			status = "database unreachable"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
