// Package tokenverify inspects Directus-issued access tokens locally.
//
// The tokens are opaque bearer credentials from this service's point of view:
// it does not hold the signing key and cannot verify them. What it can do is
// peek at the registered claims to avoid trusting a cookie whose token has
// already expired, which would only fail downstream anyway.
package tokenverify

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether the token carries an exp claim in the past.
// Malformed tokens and tokens without exp are not reported as expired; they
// are left for the backend to reject.
func Expired(token string, nowFn func() time.Time) bool {
	if token == "" {
		return false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(nowFn())
}
