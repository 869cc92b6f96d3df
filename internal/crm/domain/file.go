package domain

import "time"

// FileInfo describes an attachment uploaded for a statement. The blob itself
// is fetched separately so listings stay cheap.
type FileInfo struct {
	ID          string
	StatementID string
	Name        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}
