package gate

import (
	"fmt"
	"strings"
)

// Well-known destinations.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// RouteClass groups routes with the same admission rules.
type RouteClass int

const (
	Unknown RouteClass = iota
	Public
	// GuestOnly routes (login, register) are public but send authenticated
	// users home.
	GuestOnly
	MemberOnly
	AdminOnly
)

func (c RouteClass) String() string {
	switch c {
	case Public:
		return "public"
	case GuestOnly:
		return "guest-only"
	case MemberOnly:
		return "member-only"
	case AdminOnly:
		return "admin-only"
	}
	return "unknown"
}

// Classify maps a request path to its route class.  Query strings and
// trailing slashes are ignored.
func Classify(path string) RouteClass {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	switch {
	case path == "" || path == "/":
		return Public
	case path == "/rooms" || path == "/rooms/available":
		return Public
	case strings.HasPrefix(path, "/rooms/") && !strings.Contains(path[len("/rooms/"):], "/"):
		return Public
	case path == "/login" || path == "/register":
		return GuestOnly
	case path == "/logout" || path == "/healthz":
		return Public
	case strings.HasPrefix(path, "/member/"):
		return MemberOnly
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return AdminOnly
	}
	return Unknown
}

// Decision is the outcome of a navigation check.  When Allow is false,
// Redirect holds the destination; Remember asks the caller to keep the
// requested path as the one-shot post-login target.
type Decision struct {
	Allow    bool
	Redirect string
	Remember bool
}

var allow = Decision{Allow: true}

func redirect(to string) Decision { return Decision{Redirect: to} }

// Decide applies the admission table.
func Decide(p Principal, class RouteClass) Decision {
	switch p.(type) {
	case Anonymous:
		switch class {
		case Public, GuestOnly:
			return allow
		case MemberOnly:
			return Decision{Redirect: LoginPath, Remember: true}
		case AdminOnly:
			return redirect(LoginPath)
		case Unknown:
			return redirect(HomePath)
		}
	case Member:
		switch class {
		case Public:
			return allow
		case GuestOnly, AdminOnly, Unknown:
			return redirect(HomePath)
		case MemberOnly:
			return allow
		}
	case Admin:
		switch class {
		case Public, AdminOnly:
			return allow
		case GuestOnly, MemberOnly, Unknown:
			return redirect(HomePath)
		}
	}
	panic(fmt.Sprintf("gate: unhandled principal %T / class %v", p, class))
}

// AfterLogin returns where to go after a successful login: the remembered
// destination when it is a local path, home otherwise.
func AfterLogin(remembered string) string {
	if remembered == "" || !strings.HasPrefix(remembered, "/") || strings.HasPrefix(remembered, "//") {
		return HomePath
	}
	return remembered
}
