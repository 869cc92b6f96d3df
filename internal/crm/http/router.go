package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/unidesk/crmbot/internal/crm/service"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/httpx"
	"github.com/unidesk/crmbot/pkg/jwtx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	UserService      *service.UserService
	StatementService *service.StatementService
	FileService      *service.FileService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerStatements()
	r.registerFiles()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService}
	// Brute force protection: limit by IP plus the attempted username.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	revoke := &RevokeHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/revoke",
		httpx.Chain(revoke,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	decode := &DecodeHandler{Codec: r.codec}
	r.Mux.Handle("POST /api/auth/decode",
		httpx.Chain(decode,
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.codec),
			httpx.RequireAnyRole("ADMIN"),
		)
	}

	r.Mux.Handle("POST /api/admin/users", admin(http.HandlerFunc(h.HandleRegister)))
	r.Mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /api/admin/users/{username}", admin(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("PUT /api/admin/users/{username}/password", admin(http.HandlerFunc(h.HandleChangePassword)))
}

func (r *Router) registerStatements() {
	h := &StatementsHandler{StatementService: r.StatementService}

	authed := func(next http.Handler) http.Handler {
		return httpx.Chain(next, httpx.AuthnMiddleware(r.codec))
	}

	r.Mux.Handle("POST /api/statements", authed(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /api/statements", authed(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /api/statements/search", authed(http.HandlerFunc(h.HandleSearch)))
	r.Mux.Handle("GET /api/statements/{id}", authed(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PUT /api/statements/{id}/status", authed(http.HandlerFunc(h.HandleSetStatus)))
	r.Mux.Handle("DELETE /api/statements/{id}", authed(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerFiles() {
	h := &FilesHandler{FileService: r.FileService}

	authed := func(next http.Handler) http.Handler {
		return httpx.Chain(next, httpx.AuthnMiddleware(r.codec))
	}

	r.Mux.Handle("POST /api/statements/{id}/files", authed(http.HandlerFunc(h.HandleUpload)))
	r.Mux.Handle("GET /api/statements/{id}/files", authed(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /api/files/{id}", authed(http.HandlerFunc(h.HandleDownload)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}
