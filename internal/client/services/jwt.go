package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is reported when the stored token carries an exp claim in
// the past.
var ErrTokenExpired = errors.New("session token expired")

// TokenClaims is what can be read from a JWT bearer token without the
// signing key. Opaque tokens yield ok == false.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// InspectToken parses token without verifying the signature. The auth
// service stays the authority; this only lets the client skip a round trip
// for tokens that are certainly dead.
func InspectToken(token string) (TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	var out TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}

// tokenExpired reports whether token is a JWT with an exp claim before now.
func tokenExpired(token string, now time.Time) bool {
	c, ok := InspectToken(token)
	if !ok || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}
