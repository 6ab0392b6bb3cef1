// Package gate decides whether a navigation is admitted for the current
// session.  Decisions are pure functions of the principal and the route
// class; the gate never mutates session state.
package gate

import (
	"github.com/iliyamo/hotel-booking-web/internal/model"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// Principal is one of Anonymous, Member or Admin.
type Principal interface {
	principal()
}

type Anonymous struct{}

type Member struct {
	Identity model.Identity
}

type Admin struct {
	Identity model.Identity
}

func (Anonymous) principal() {}
func (Member) principal()    {}
func (Admin) principal()     {}

// PrincipalOf classifies a hydrated session.  A nil session, or one whose
// credential has no recognised role, is anonymous.
func PrincipalOf(s *session.Session) Principal {
	if s == nil {
		return Anonymous{}
	}
	switch s.Role() {
	case model.RoleAdmin:
		return Admin{Identity: s.User}
	case model.RoleMember:
		return Member{Identity: s.User}
	default:
		return Anonymous{}
	}
}

// IdentityOf returns the identity of an authenticated principal.
func IdentityOf(p Principal) (model.Identity, bool) {
	switch v := p.(type) {
	case Member:
		return v.Identity, true
	case Admin:
		return v.Identity, true
	default:
		return model.Identity{}, false
	}
}
