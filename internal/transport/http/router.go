// Package httptransport is the thin HTTP layer. Handlers decode, call a
// service, and translate domain errors; business logic stays out.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docket/internal/platform/middleware"
)

// Deps collects everything the router mounts.
type Deps struct {
	Auth          *AuthHandler
	Documents     *DocumentHandler
	Jurisdictions *JurisdictionHandler
	Verifier      middleware.TokenVerifier
	Logger        *slog.Logger
}

// NewRouter wires all public endpoints. Document routes require a verified
// access token; jurisdiction reads and the auth endpoints are public.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestMeta)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	d.Auth.Register(r)
	d.Jurisdictions.Register(r)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(d.Verifier, d.Logger))
		d.Documents.Register(pr)
	})

	return r
}
