// Package testfixtures builds credentials and fake backends for tests.
package testfixtures

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// Token mints an HS256 JWT carrying user_id and role claims, shaped like the
// ones the booking backend issues.  An empty role omits the claim.
func Token(t testing.TB, userID uint64, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": userID}
	if role != "" {
		claims["role"] = role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
