package domain

import (
	"fmt"
	"time"
)

// StatementStatus tracks a statement through its processing lifecycle.
type StatementStatus string

const (
	StatusPending    StatementStatus = "PENDING"
	StatusInProgress StatementStatus = "IN_PROGRESS"
	StatusReady      StatementStatus = "READY"
)

// ParseStatementStatus validates a raw status value from the wire.
func ParseStatementStatus(s string) (StatementStatus, error) {
	switch StatementStatus(s) {
	case StatusPending, StatusInProgress, StatusReady:
		return StatementStatus(s), nil
	}
	return "", fmt.Errorf("unknown statement status %q", s)
}

// Statement is a request record filed through the chat bot on behalf of a
// student: who is asking, which faculty, and what kind of document they need.
type Statement struct {
	ID          string
	FullName    string
	GroupName   string
	PhoneNumber string
	Kind        string // type of statement requested
	Faculty     string
	YearOfBirth string
	Status      StatementStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
