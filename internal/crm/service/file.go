package service

import (
	"context"
	"errors"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/idx"
)

var (
	ErrEmptyFile    = errors.New("empty_file")
	ErrFileTooLarge = errors.New("file_too_large")
)

// MaxFileSize caps attachment uploads at 10 MiB.
const MaxFileSize = 10 << 20

// FileService stores statement attachments.
type FileService struct {
	Store store.Store
}

// Attach stores an upload against a statement. The statement must exist.
func (s *FileService) Attach(ctx context.Context, statementID, name, contentType string, data []byte) (domain.FileInfo, error) {
	if len(data) == 0 {
		return domain.FileInfo{}, ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return domain.FileInfo{}, ErrFileTooLarge
	}

	if _, err := s.Store.Statements().GetStatementByID(ctx, statementID); err != nil {
		return domain.FileInfo{}, err
	}

	info := domain.FileInfo{
		ID:          idx.New().String(),
		StatementID: statementID,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	if err := s.Store.Files().CreateFile(ctx, info, data); err != nil {
		return domain.FileInfo{}, err
	}
	return info, nil
}

// ListForStatement returns attachment metadata for a statement.
func (s *FileService) ListForStatement(ctx context.Context, statementID string) ([]domain.FileInfo, error) {
	if _, err := s.Store.Statements().GetStatementByID(ctx, statementID); err != nil {
		return nil, err
	}
	return s.Store.Files().ListFilesByStatement(ctx, statementID)
}

// Fetch returns the attachment content for download.
func (s *FileService) Fetch(ctx context.Context, fileID string) (domain.FileInfo, []byte, error) {
	return s.Store.Files().GetFileData(ctx, fileID)
}
