package jwtx

// Inspector offers cheap, registry-independent reads over access tokens for
// the authorization middleware. Everything here is a pure function of the
// token's payload plus the codec clock: a revoked-but-unexpired token still
// parses fine. Revocation is enforced separately, and only where it matters
// (the revoke path itself).
type Inspector struct {
	Codec *Codec
}

// Username returns the subject claim of the token, or "" if it cannot be
// decoded.
func (i Inspector) Username(token string) string {
	claims, err := i.Codec.Decode(token)
	if err != nil {
		return ""
	}
	return claims.Subject
}

// Roles returns the role set captured at issuance, or nil if the token
// cannot be decoded.
func (i Inspector) Roles(token string) []string {
	claims, err := i.Codec.Decode(token)
	if err != nil {
		return nil
	}
	return claims.Roles
}

// Expired reports whether the token's embedded expiry has passed.
// Undecodable tokens count as expired.
func (i Inspector) Expired(token string) bool {
	claims, err := i.Codec.Decode(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return i.Codec.now().UTC().After(claims.ExpiresAt.Time)
}
