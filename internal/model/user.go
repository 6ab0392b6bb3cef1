package model

import (
	"strings"

	json "github.com/goccy/go-json"
)

// Role is the coarse-grained permission class carried in the token's
// "role" claim.  The zero value means "no role".
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a role string.  The backend has been seen to send
// both "member" and "MEMBER"; anything outside the closed set yields "".
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleMember:
		return RoleMember
	case RoleAdmin:
		return RoleAdmin
	}
	return ""
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleMember || r == RoleAdmin }

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// Identity is the display record of the logged-in user.  It is advisory:
// the role embedded in the credential wins when the two disagree.
//
// Fields:
//
//	ID       – backend user id.
//	Username – login name.
//	Email    – contact address, also accepted as a login identifier.
//	FullName – display name.
//	Role     – member or admin.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// UnmarshalJSON accepts both the snake_case keys of the auth endpoints and
// the CamelCase keys of the admin user listing.
func (i *Identity) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        uint64 `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		FullName  string `json:"full_name"`
		FullName2 string `json:"FullName"`
		Name      string `json:"name"`
		Role      Role   `json:"role"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*i = Identity{ID: raw.ID, Username: raw.Username, Email: raw.Email, FullName: raw.FullName, Role: raw.Role}
	if i.FullName == "" {
		i.FullName = raw.FullName2
	}
	if i.FullName == "" {
		i.FullName = raw.Name
	}
	return nil
}

// DisplayName picks the friendliest non-empty name.
func (i Identity) DisplayName() string {
	switch {
	case i.FullName != "":
		return i.FullName
	case i.Username != "":
		return i.Username
	}
	return i.Email
}
