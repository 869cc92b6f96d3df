package sqlite

import (
	"context"

	"github.com/unidesk/crmbot/internal/crm/domain"
)

type statementsRepo struct {
	q querier
}

const statementColumns = `id, full_name, group_name, phone_number, kind,
	faculty, year_of_birth, status, created_at, updated_at`

func (r *statementsRepo) GetStatementByID(ctx context.Context, id string) (domain.Statement, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+statementColumns+` FROM statements WHERE id = ?`, id)

	st, err := scanStatement(row)
	if err != nil {
		return domain.Statement{}, mapNotFound(err)
	}
	return st, nil
}

func (r *statementsRepo) CreateStatement(ctx context.Context, st domain.Statement) error {
	status := st.Status
	if status == "" {
		status = domain.StatusPending
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO statements
		   (id, full_name, group_name, phone_number, kind, faculty, year_of_birth, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.FullName, st.GroupName, st.PhoneNumber, st.Kind,
		st.Faculty, st.YearOfBirth, status)
	return mapConstraint(err)
}

func (r *statementsRepo) ListStatementsByStatus(ctx context.Context, status domain.StatementStatus) ([]domain.Statement, error) {
	return r.list(ctx,
		`SELECT `+statementColumns+` FROM statements
		 WHERE status = ? ORDER BY created_at, id`, status)
}

func (r *statementsRepo) ListStatementsByStatusAndFaculty(ctx context.Context, status domain.StatementStatus, faculty string) ([]domain.Statement, error) {
	if faculty == "" {
		return r.ListStatementsByStatus(ctx, status)
	}
	return r.list(ctx,
		`SELECT `+statementColumns+` FROM statements
		 WHERE status = ? AND faculty = ? ORDER BY created_at, id`, status, faculty)
}

func (r *statementsRepo) UpdateStatementStatus(ctx context.Context, id string, status domain.StatementStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE statements SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *statementsRepo) DeleteStatementIfReady(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM statements WHERE id = ? AND status = ?`,
		id, domain.StatusReady)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *statementsRepo) SearchStatementsByName(ctx context.Context, name string) ([]domain.Statement, error) {
	return r.list(ctx,
		`SELECT `+statementColumns+` FROM statements
		 WHERE full_name LIKE ? ORDER BY created_at, id`,
		"%"+name+"%")
}

func (r *statementsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Statement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Statement
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanStatement(row rowScanner) (domain.Statement, error) {
	var st domain.Statement
	err := row.Scan(&st.ID, &st.FullName, &st.GroupName, &st.PhoneNumber,
		&st.Kind, &st.Faculty, &st.YearOfBirth, &st.Status,
		&st.CreatedAt, &st.UpdatedAt)
	return st, err
}
