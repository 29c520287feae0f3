package desk_api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/services/feeds"
	"github.com/BearBump/WriteDesk/internal/services/orders"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const AdminTokenHeader = "X-Admin-Token"

type Options struct {
	// AdminToken guards /v1/admin. Empty keeps the admin routes closed.
	AdminToken string
	// MaxUploadBytes caps the multipart body of a file upload.
	MaxUploadBytes int64
	Metrics        *metrics.Registry
	// Ready is polled by /healthz; nil means always ready.
	Ready func(r *http.Request) error
}

// DeskAPI exposes the order funnel and the feeds over JSON.
type DeskAPI struct {
	orders *orders.Service
	feeds  *feeds.Service
	opts   Options
}

func New(o *orders.Service, f *feeds.Service, opts Options) *DeskAPI {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	return &DeskAPI{orders: o, feeds: f, opts: opts}
}

func (a *DeskAPI) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(a.observe)

	r.Get("/healthz", a.healthz)
	r.Method(http.MethodGet, "/metrics", a.opts.Metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/quotes", a.createQuote)
		r.Post("/orders", a.submitOrder)
		r.Post("/orders/{id}/files", a.uploadFile)

		r.Get("/feeds/activity", a.activityFeed)
		r.Get("/feeds/reviews", a.reviewFeed)

		r.Route("/admin", func(r chi.Router) {
			r.Use(a.requireAdmin)
			r.Get("/orders", a.listOrders)
			r.Get("/orders/{id}", a.getOrder)
			r.Patch("/orders/{id}/status", a.updateStatus)
		})
	})
	return r
}

func (a *DeskAPI) healthz(w http.ResponseWriter, r *http.Request) {
	if a.opts.Ready != nil {
		if err := a.opts.Ready(r); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *DeskAPI) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(AdminTokenHeader)
		if a.opts.AdminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(a.opts.AdminToken)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "admin token required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe records latency per route pattern, not per raw path.
func (a *DeskAPI) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		a.opts.Metrics.ObserveHTTP(r.Method, route, code, time.Since(start))
	})
}
