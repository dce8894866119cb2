package satchel

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NormalizeBearer turns a raw Authorization value into a "Bearer ..." header.
// Values that already carry the prefix, in any casing, pass through
// untouched so the upstream sees exactly what the caller's session uses.
func NormalizeBearer(raw string) string {
	a := strings.TrimSpace(raw)
	if a == "" {
		return ""
	}
	if len(a) >= 7 && strings.EqualFold(a[:7], "bearer ") {
		return a
	}
	return "Bearer " + a
}

// TokenExpiry reports when a bearer token expires, if the token is a JWT
// carrying an exp claim. The signature is deliberately not verified: the
// server never trusts this token itself, it only forwards it upstream, and
// the expiry is used to warn operators before Satchel starts rejecting it.
func TokenExpiry(bearer string) (time.Time, bool) {
	raw := strings.TrimSpace(bearer)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
