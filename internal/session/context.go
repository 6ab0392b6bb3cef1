package session

import "context"

type ctxKey int

const (
	sidKey ctxKey = iota
	sessionKey
)

// WithID attaches the browser's session id to ctx so that code far from the
// HTTP layer (the gateway's unauthorized hook) can tear the session down.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey, sid)
}

// IDFrom returns the session id stored by WithID, or "".
func IDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey).(string)
	return sid
}

// WithSession attaches the hydrated session (possibly nil).
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// From returns the hydrated session or nil.
func From(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}
