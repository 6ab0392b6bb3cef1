package session

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// Claims is the subset of the bearer token's payload the client relies on.
// The token is never verified here: the backend owns the signing key and
// re-checks every call, so the claims only drive routing decisions.
type Claims struct {
	UserID uint64
	Role   model.Role
}

// ParseClaims decodes the token payload without verifying its signature.
// ok is false when the token is absent or not a well-formed JWT.
func ParseClaims(token string) (Claims, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, false
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}
	var c Claims
	if role, ok := mc["role"].(string); ok {
		c.Role = model.ParseRole(role)
	}
	// user_id is what the backend issues; sub is accepted for tokens minted
	// by other issuers.
	for _, name := range []string{"user_id", "sub"} {
		switch v := mc[name].(type) {
		case float64:
			c.UserID = uint64(v)
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil {
				c.UserID = n
			}
		}
		if c.UserID != 0 {
			break
		}
	}
	return c, true
}

// DeriveRole returns the role claim of the credential, or "" when the
// credential is absent, malformed or carries an unknown role.  It never
// panics and never returns an error.
func DeriveRole(token string) (role model.Role) {
	defer func() {
		if recover() != nil {
			role = ""
		}
	}()
	c, ok := ParseClaims(token)
	if !ok {
		return ""
	}
	return c.Role
}
