package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions tunes route-level middleware.
type RouterOptions struct {
	// LoginRequests per LoginWindow per client IP; zero disables limiting.
	LoginRequests int
	LoginWindow   time.Duration
}

// Mount registers all API routes on r.
func Mount(r chi.Router, s *Server, opts RouterOptions) {
	authn := SessionMiddleware(s.auth, s.logger)

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Register)
			r.With(loginLimiter(opts)).Post("/login", s.Login)
			r.With(authn).Post("/logout", s.Logout)
			r.With(authn).Get("/me", s.Me)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", s.SearchRestaurants)
			r.Get("/facets", s.RestaurantFacets)
			r.Get("/{id}", s.GetRestaurant)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/me/preferences", s.GetPreferences)
			r.Put("/me/preferences", s.UpdatePreferences)
			r.Get("/me/recommendations", s.Recommendations)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/users", s.ListUsers)
				r.Delete("/users/{id}", s.DeleteUser)
				r.Get("/stats", s.UserStats)
			})
		})
	})
}

// NewRouter returns a router with all API routes mounted.
func NewRouter(s *Server, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	Mount(r, s, opts)
	return r
}

func loginLimiter(opts RouterOptions) func(http.Handler) http.Handler {
	if opts.LoginRequests <= 0 || opts.LoginWindow <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		opts.LoginRequests,
		opts.LoginWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, ErrorCodeRateLimited, "too many login attempts")
		}),
	)
}
