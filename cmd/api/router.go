package main

import (
	"crypto/subtle"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-turismo/internal/auth"
	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/cart"
	"github.com/noah-isme/backend-turismo/internal/catalog"
	"github.com/noah-isme/backend-turismo/internal/checkout"
	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/config"
	"github.com/noah-isme/backend-turismo/internal/health"
	"github.com/noah-isme/backend-turismo/internal/obs"
	"github.com/noah-isme/backend-turismo/internal/ratelimit"
	"github.com/noah-isme/backend-turismo/internal/reviews"
	"github.com/noah-isme/backend-turismo/internal/security"
)

const maxBodyBytes = 1 << 20

type routerDeps struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *obs.HTTPMetrics
	Auth    auth.Middleware

	Catalog  *catalog.Handler
	Reviews  *reviews.Handler
	Cart     *cart.Handler
	Checkout *checkout.Handler
	Bookings *booking.Handler
	Health   health.Handler

	ReviewLimit ratelimit.Handler
	Idempotency common.Idempotency
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Obs.TracingEnabled {
		r.Use(obs.Tracing)
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{HSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.CORS(strings.Join(cfg.CORSAllowedOrigins, ",")))
	r.Use(security.BodyLimit{Max: maxBodyBytes}.Middleware)

	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)
	if cfg.Obs.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.Obs.PprofEnabled {
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), cfg.Obs.PprofUser, cfg.Obs.PprofPassword))
	}

	m := d.Auth
	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/services/{id}", d.Catalog.ServiceDetail)
		v.Get("/destinations/{id}", d.Catalog.DestinationDetail)
		v.Get("/services/{id}/reviews", d.Reviews.ListByService)
		v.Get("/services/{id}/reviews/histogram", d.Reviews.Histogram)

		v.Group(func(a chi.Router) {
			a.Use(m.RequireAuth)
			a.With(d.ReviewLimit.Middleware).Post("/services/{id}/reviews", d.Reviews.Create)
			a.Patch("/reviews/{id}", d.Reviews.Update)
			a.Delete("/reviews/{id}", d.Reviews.Delete)
			a.Get("/me/reviews", d.Reviews.Mine)

			a.Route("/cart", func(c chi.Router) {
				c.Get("/", d.Cart.Get)
				c.Delete("/", d.Cart.Clear)
				c.Post("/items", d.Cart.AddItem)
				c.Patch("/items/{id}", d.Cart.UpdateItem)
				c.Delete("/items/{id}", d.Cart.RemoveItem)
				c.With(d.Idempotency.Middleware).Post("/confirm", d.Checkout.Confirm)
			})

			a.Get("/bookings", d.Bookings.List)
			a.Get("/bookings/{id}", d.Bookings.Get)
			a.Post("/bookings/{id}/cancel", d.Bookings.Cancel)
		})

		v.Group(func(p chi.Router) {
			p.Use(m.RequireRole(common.RoleProvider))
			p.Post("/reviews/{id}/response", d.Reviews.Respond)
			p.Patch("/review-responses/{id}", d.Reviews.EditResponse)
			p.Get("/provider/bookings", d.Bookings.ProviderList)
			p.Post("/provider/bookings/{id}/confirm", d.Bookings.ProviderConfirm)
			p.Post("/provider/bookings/{id}/complete", d.Bookings.ProviderComplete)
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(m.RequireRole(common.RoleAdmin))
			admin.Get("/reviews/moderation", d.Reviews.Moderation)
			admin.Post("/reviews/{id}/approve", d.Reviews.Approve)
			admin.Post("/reviews/{id}/reject", d.Reviews.Reject)
		})
	})

	return r
}

func newPprofMux() http.Handler {
	const prefix = "/debug/pprof/"
	mux := http.NewServeMux()
	mux.HandleFunc(prefix, pprof.Index)
	mux.HandleFunc(prefix+"cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"profile", pprof.Profile)
	mux.HandleFunc(prefix+"symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"trace", pprof.Trace)
	return mux
}

// protectPprof guards handler with basic auth when user is set.
func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorised", nil)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
