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

// StatementsHandler serves the statement lifecycle endpoints.
type StatementsHandler struct {
	StatementService *service.StatementService
}

type createStatementRequest struct {
	FullName    string `json:"fullName"`
	GroupName   string `json:"groupName"`
	PhoneNumber string `json:"phoneNumber"`
	Kind        string `json:"kind"`
	Faculty     string `json:"faculty"`
	YearOfBirth string `json:"yearOfBirth"`
}

type statementResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	GroupName   string    `json:"groupName,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	Faculty     string    `json:"faculty,omitempty"`
	YearOfBirth string    `json:"yearOfBirth,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toStatementResponse(st domain.Statement) statementResponse {
	return statementResponse{
		ID:          st.ID,
		FullName:    st.FullName,
		GroupName:   st.GroupName,
		PhoneNumber: st.PhoneNumber,
		Kind:        st.Kind,
		Faculty:     st.Faculty,
		YearOfBirth: st.YearOfBirth,
		Status:      string(st.Status),
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	}
}

func writeStatements(w http.ResponseWriter, statements []domain.Statement) {
	out := make([]statementResponse, 0, len(statements))
	for _, st := range statements {
		out = append(out, toStatementResponse(st))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *StatementsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	st, err := h.StatementService.Create(ctx, domain.Statement{
		FullName:    req.FullName,
		GroupName:   req.GroupName,
		PhoneNumber: req.PhoneNumber,
		Kind:        req.Kind,
		Faculty:     req.Faculty,
		YearOfBirth: req.YearOfBirth,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFullName):
		httpx.WriteError(w, http.StatusBadRequest, "missing_full_name")
		return
	default:
		slogx.FromContext(ctx).Error("statement creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toStatementResponse(st))
}

func (h *StatementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawStatus := r.URL.Query().Get("status")
	if rawStatus == "" {
		rawStatus = string(domain.StatusPending)
	}
	status, err := domain.ParseStatementStatus(rawStatus)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unknown_status")
		return
	}

	statements, err := h.StatementService.ListByStatus(ctx, status, r.URL.Query().Get("faculty"))
	if err != nil {
		slogx.FromContext(ctx).Error("statement listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeStatements(w, statements)
}

func (h *StatementsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing_name")
		return
	}

	statements, err := h.StatementService.Search(ctx, name)
	if err != nil {
		slogx.FromContext(ctx).Error("statement search failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeStatements(w, statements)
}

func (h *StatementsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	st, err := h.StatementService.Get(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "statement_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("statement fetch failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStatementResponse(st))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *StatementsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	status, err := domain.ParseStatementStatus(req.Status)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unknown_status")
		return
	}

	err = h.StatementService.SetStatus(r.Context(), r.PathValue("id"), status)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "statement_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("status update failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StatementsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.StatementService.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "statement_not_found")
		return
	case errors.Is(err, service.ErrStatementBusy):
		httpx.WriteError(w, http.StatusConflict, "statement_not_ready")
		return
	default:
		slogx.FromContext(r.Context()).Error("statement deletion failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
