package crmsdk

import "time"

// TokenGrant is the login response.
type TokenGrant struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

// TokenInfo is the decode response: the payload of a token as the server
// reads it, without consulting the session registry.
type TokenInfo struct {
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
	Expired   bool      `json:"expired"`
}

// User is an account as returned by the admin endpoints.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// Statement is a filed request record.
type Statement struct {
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

// NewStatement is the payload for filing a statement.
type NewStatement struct {
	FullName    string `json:"fullName"`
	GroupName   string `json:"groupName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Faculty     string `json:"faculty,omitempty"`
	YearOfBirth string `json:"yearOfBirth,omitempty"`
}

// FileInfo describes a statement attachment.
type FileInfo struct {
	ID          string    `json:"id"`
	StatementID string    `json:"statementId"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}
