package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"time"

	"darew.com/internal/audit"
	"darew.com/internal/auth"
	"darew.com/internal/content"
	"darew.com/internal/obs"
)

const serviceName = "darew-site"

// ReadyProbe checks that durable storage answers.
type ReadyProbe struct {
	Storage interface {
		Ping(ctx context.Context) error
	}
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Storage == nil {
		return nil
	}
	return rp.Storage.Ping(ctx)
}

// Deps are the stores the API serves.
type Deps struct {
	Identities *auth.Store
	Content    *content.Store
	Sessions   *auth.Sessions
}

// Option tunes the API.
type Option func(*API)

// WithContactLimit sets the per-client rate for contact form submissions.
func WithContactLimit(perSecond float64, burst int) Option {
	return func(a *API) {
		if perSecond > 0 {
			a.contactRate = perSecond
		}
		if burst > 0 {
			a.contactBurst = burst
		}
	}
}

// WithAllowedOrigins adds CORS origins beyond local development hosts.
func WithAllowedOrigins(origins []string) Option {
	return func(a *API) { a.origins = append([]string(nil), origins...) }
}

// WithTrustedProxies lists the proxies whose X-Forwarded-For header is used
// to identify clients. Without it the TCP peer is the client.
func WithTrustedProxies(prefixes []netip.Prefix) Option {
	return func(a *API) { a.trusted = append([]netip.Prefix(nil), prefixes...) }
}

// WithClock injects the time source used for info and dumps.
func WithClock(now func() time.Time) Option {
	return func(a *API) {
		if now != nil {
			a.now = now
		}
	}
}

// API is the HTTP layer over the identity and content stores.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	identities *auth.Store
	content    *content.Store
	sessions   *auth.Sessions
	audit      *audit.Recorder

	contactRate  float64
	contactBurst int
	origins      []string
	trusted      []netip.Prefix
	now          func() time.Time
}

func New(rp ReadyProbe, version string, deps Deps, opts ...Option) (*API, error) {
	if deps.Identities == nil || deps.Content == nil || deps.Sessions == nil {
		return nil, errors.New("httpapi: identities, content and sessions are required")
	}
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		identities:   deps.Identities,
		content:      deps.Content,
		sessions:     deps.Sessions,
		audit:        audit.NewRecorder(deps.Content),
		contactRate:  1,
		contactBurst: 5,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.routeSite()
	a.routeAdmin()

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})

	return a, nil
}

// Handler returns the fully wrapped handler for the HTTP server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, defaultMaxBody)
	h = CORS(h, a.origins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    a.now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
