package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/unidesk/crmbot/internal/crm/service"
	"github.com/unidesk/crmbot/pkg/httpx"
	"github.com/unidesk/crmbot/pkg/jwtx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

// LoginHandler serves POST /api/auth/login. Unknown usernames and wrong
// passwords produce the same response so the endpoint cannot be used to
// enumerate accounts.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	grant, err := h.AuthService.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingUsername):
		httpx.WriteError(w, http.StatusBadRequest, "missing_username")
		return
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrBadCredentials):
		// Same body for both; the distinction lives in the server log only.
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	default:
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		Role:         grant.Role,
	})
}

// RevokeHandler serves POST /api/auth/revoke?accessToken=... It reports
// whether the token was honoured at the time of the call; revoking the same
// token twice returns revoked=false the second time.
type RevokeHandler struct {
	AuthService *service.AuthService
}

func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("accessToken")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing_access_token")
		return
	}

	revoked := h.AuthService.Revoke(r.Context(), token)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"revoked": revoked})
}

// DecodeHandler serves POST /api/auth/decode. It reads the submitted token's
// payload without consulting the session registry, so it also works for
// tokens issued before a restart.
type DecodeHandler struct {
	Codec *jwtx.Codec
}

type decodeRequest struct {
	Token string `json:"token"`
}

type decodeResponse struct {
	Username  string    `json:"username"`
	Roles     []string  `json:"roles,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	Expired   bool      `json:"expired"`
}

func (h *DecodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing_token")
		return
	}

	claims, err := h.Codec.Decode(req.Token)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed_token")
		return
	}

	inspector := jwtx.Inspector{Codec: h.Codec}
	resp := decodeResponse{
		Username: claims.Subject,
		Roles:    claims.Roles,
		Expired:  inspector.Expired(req.Token),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
