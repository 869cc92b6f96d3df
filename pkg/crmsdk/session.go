package crmsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Session is an authenticated view of the service, created by Client.Login.
type Session struct {
	client *Client
	Grant  TokenGrant
}

// AccessToken returns the session's bearer token.
func (s *Session) AccessToken() string { return s.Grant.AccessToken }

// Logout revokes this session's access token.
func (s *Session) Logout(ctx context.Context) (bool, error) {
	return s.client.Revoke(ctx, s.Grant.AccessToken)
}

// Decode reads a token's payload server-side.
func (s *Session) Decode(ctx context.Context, token string) (TokenInfo, error) {
	var info TokenInfo
	err := s.do(ctx, http.MethodPost, "/api/auth/decode",
		map[string]string{"token": token}, &info)
	return info, err
}

// RegisterUser creates an account. Requires the ADMIN role.
func (s *Session) RegisterUser(ctx context.Context, username, password string, roles []string) (User, error) {
	var user User
	err := s.do(ctx, http.MethodPost, "/api/admin/users", map[string]any{
		"username": username,
		"password": password,
		"roles":    roles,
	}, &user)
	return user, err
}

// ListUsers lists every account. Requires the ADMIN role.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.do(ctx, http.MethodGet, "/api/admin/users", nil, &users)
	return users, err
}

// DeleteUser removes an account and its live sessions. Requires ADMIN.
func (s *Session) DeleteUser(ctx context.Context, username string) error {
	return s.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(username), nil, nil)
}

// ChangePassword rotates an account's password. Requires ADMIN.
func (s *Session) ChangePassword(ctx context.Context, username, newPassword string) error {
	return s.do(ctx, http.MethodPut,
		"/api/admin/users/"+url.PathEscape(username)+"/password",
		map[string]string{"password": newPassword}, nil)
}

// CreateStatement files a new statement.
func (s *Session) CreateStatement(ctx context.Context, st NewStatement) (Statement, error) {
	var created Statement
	err := s.do(ctx, http.MethodPost, "/api/statements", st, &created)
	return created, err
}

// GetStatement fetches one statement.
func (s *Session) GetStatement(ctx context.Context, id string) (Statement, error) {
	var st Statement
	err := s.do(ctx, http.MethodGet, "/api/statements/"+url.PathEscape(id), nil, &st)
	return st, err
}

// ListStatements lists statements by status, optionally narrowed to a
// faculty. Empty faculty means all faculties.
func (s *Session) ListStatements(ctx context.Context, status, faculty string) ([]Statement, error) {
	q := url.Values{"status": {status}}
	if faculty != "" {
		q.Set("faculty", faculty)
	}

	var statements []Statement
	err := s.do(ctx, http.MethodGet, "/api/statements?"+q.Encode(), nil, &statements)
	return statements, err
}

// SearchStatements matches statements by full-name substring.
func (s *Session) SearchStatements(ctx context.Context, name string) ([]Statement, error) {
	q := url.Values{"name": {name}}

	var statements []Statement
	err := s.do(ctx, http.MethodGet, "/api/statements/search?"+q.Encode(), nil, &statements)
	return statements, err
}

// SetStatementStatus moves a statement through its lifecycle.
func (s *Session) SetStatementStatus(ctx context.Context, id, status string) error {
	return s.do(ctx, http.MethodPut,
		"/api/statements/"+url.PathEscape(id)+"/status",
		map[string]string{"status": status}, nil)
}

// DeleteStatement removes a READY statement.
func (s *Session) DeleteStatement(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/statements/"+url.PathEscape(id), nil, nil)
}

// UploadFile attaches a file to a statement.
func (s *Session) UploadFile(ctx context.Context, statementID, filename string, content []byte) (FileInfo, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return FileInfo{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return FileInfo{}, fmt.Errorf("failed to build multipart body: %w", err)
	}

	path := "/api/statements/" + url.PathEscape(statementID) + "/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.BaseURL+path, &buf)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.Grant.AccessToken)

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return FileInfo{}, newAPIError(resp)
	}

	var info FileInfo
	if err := decodeJSON(resp.Body, &info); err != nil {
		return FileInfo{}, err
	}
	return info, nil
}

// ListFiles lists a statement's attachments.
func (s *Session) ListFiles(ctx context.Context, statementID string) ([]FileInfo, error) {
	var infos []FileInfo
	err := s.do(ctx, http.MethodGet,
		"/api/statements/"+url.PathEscape(statementID)+"/files", nil, &infos)
	return infos, err
}

// DownloadFile fetches an attachment's content.
func (s *Session) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.client.BaseURL+"/api/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Grant.AccessToken)

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	return s.client.doJSON(ctx, method, path, s.Grant.AccessToken, body, out)
}
