package sqlite

import (
	"context"

	"github.com/unidesk/crmbot/internal/crm/domain"
)

type filesRepo struct {
	q querier
}

func (r *filesRepo) CreateFile(ctx context.Context, info domain.FileInfo, data []byte) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO files (id, statement_id, name, content_type, data)
		 VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.StatementID, info.Name, info.ContentType, data)
	return mapConstraint(err)
}

func (r *filesRepo) ListFilesByStatement(ctx context.Context, statementID string) ([]domain.FileInfo, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, statement_id, name, content_type, LENGTH(data), created_at
		 FROM files WHERE statement_id = ? ORDER BY created_at, id`, statementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FileInfo
	for rows.Next() {
		var info domain.FileInfo
		if err := rows.Scan(&info.ID, &info.StatementID, &info.Name,
			&info.ContentType, &info.Size, &info.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *filesRepo) GetFileData(ctx context.Context, fileID string) (domain.FileInfo, []byte, error) {
	var (
		info domain.FileInfo
		data []byte
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, statement_id, name, content_type, data, created_at
		 FROM files WHERE id = ?`, fileID).
		Scan(&info.ID, &info.StatementID, &info.Name, &info.ContentType,
			&data, &info.CreatedAt)
	if err != nil {
		return domain.FileInfo{}, nil, mapNotFound(err)
	}
	info.Size = int64(len(data))
	return info, data, nil
}
