package domain

// TokenGrant is the result of a successful login: a freshly issued token
// pair plus the user's primary role for the client's convenience.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	Role         string
}
