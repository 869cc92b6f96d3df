package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/service"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/httpx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

// FilesHandler serves statement attachment upload and download.
type FilesHandler struct {
	FileService *service.FileService
}

type fileResponse struct {
	ID          string    `json:"id"`
	StatementID string    `json:"statementId"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toFileResponse(info domain.FileInfo) fileResponse {
	return fileResponse{
		ID:          info.ID,
		StatementID: info.StatementID,
		Name:        info.Name,
		ContentType: info.ContentType,
		Size:        info.Size,
		CreatedAt:   info.CreatedAt,
	}
}

func (h *FilesHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	statementID := r.PathValue("id")

	if err := r.ParseMultipartForm(service.MaxFileSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_multipart_body")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing_file_part")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(io.LimitReader(part, service.MaxFileSize+1))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "unreadable_file_part")
		return
	}

	info, err := h.FileService.Attach(ctx, statementID,
		header.Filename, header.Header.Get("Content-Type"), data)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyFile):
		httpx.WriteError(w, http.StatusBadRequest, "empty_file")
		return
	case errors.Is(err, service.ErrFileTooLarge):
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large")
		return
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "statement_not_found")
		return
	default:
		slogx.FromContext(ctx).Error("file upload failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toFileResponse(info))
}

func (h *FilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.FileService.ListForStatement(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "statement_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("file listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	out := make([]fileResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, toFileResponse(info))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *FilesHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	info, data, err := h.FileService.Fetch(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "file_not_found")
		return
	default:
		slogx.FromContext(r.Context()).Error("file download failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", info.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
