package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/service"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/httpx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

// UsersHandler serves the admin account-management endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

type registerUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	user, err := h.UserService.Register(ctx, req.Username, req.Password, req.Roles)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingUsername), errors.Is(err, service.ErrMissingPassword):
		httpx.WriteError(w, http.StatusBadRequest, "missing_credentials")
		return
	case errors.Is(err, service.ErrUnknownRole):
		httpx.WriteError(w, http.StatusBadRequest, "unknown_role")
		return
	case errors.Is(err, service.ErrUserExists):
		httpx.WriteError(w, http.StatusConflict, "username_taken")
		return
	default:
		log.Error("user registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("user listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	err := h.UserService.Delete(r.Context(), username)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("user deletion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	err := h.UserService.ChangePassword(r.Context(), username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingPassword):
		httpx.WriteError(w, http.StatusBadRequest, "missing_password")
		return
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("password change failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
