package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/idx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

var (
	ErrMissingFullName = errors.New("missing_full_name")
	ErrStatementBusy   = errors.New("statement_not_ready")
)

// StatementService handles the request records filed through the bot.
type StatementService struct {
	Store store.Store
}

// Create files a new statement in PENDING state.
func (s *StatementService) Create(ctx context.Context, st domain.Statement) (domain.Statement, error) {
	st.FullName = strings.TrimSpace(st.FullName)
	if st.FullName == "" {
		return domain.Statement{}, ErrMissingFullName
	}

	st.ID = idx.New().String()
	st.Status = domain.StatusPending
	if err := s.Store.Statements().CreateStatement(ctx, st); err != nil {
		return domain.Statement{}, err
	}

	slogx.FromContext(ctx).Info("statement filed",
		slog.String("statement_id", st.ID),
		slog.String("faculty", st.Faculty),
	)
	return st, nil
}

// Get fetches one statement.
func (s *StatementService) Get(ctx context.Context, id string) (domain.Statement, error) {
	return s.Store.Statements().GetStatementByID(ctx, id)
}

// ListByStatus returns the backlog for a status, optionally narrowed to one
// faculty. Empty faculty means all faculties.
func (s *StatementService) ListByStatus(ctx context.Context, status domain.StatementStatus, faculty string) ([]domain.Statement, error) {
	return s.Store.Statements().ListStatementsByStatusAndFaculty(ctx, status, faculty)
}

// SetStatus moves a statement through its lifecycle.
func (s *StatementService) SetStatus(ctx context.Context, id string, status domain.StatementStatus) error {
	if err := s.Store.Statements().UpdateStatementStatus(ctx, id, status); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("statement status updated",
		slog.String("statement_id", id),
		slog.String("status", string(status)),
	)
	return nil
}

// Delete removes a statement once it has been handed out. Only READY
// statements may be deleted; anything else returns ErrStatementBusy so an
// operator can't drop work still in flight.
func (s *StatementService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Store.Statements().DeleteStatementIfReady(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// Distinguish "not ready" from "does not exist".
		if _, err := s.Store.Statements().GetStatementByID(ctx, id); err != nil {
			return err
		}
		return ErrStatementBusy
	}
	return nil
}

// Search matches statements by full-name substring.
func (s *StatementService) Search(ctx context.Context, name string) ([]domain.Statement, error) {
	return s.Store.Statements().SearchStatementsByName(ctx, name)
}
