package utils

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenUsername reads the username claim of a backend token without verifying it.
// The backend owns the signing key; the value is only used for display.
// Opaque (non-JWT) tokens yield "".
func TokenUsername(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"username", "name", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
