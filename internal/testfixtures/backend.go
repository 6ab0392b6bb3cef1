package testfixtures

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// Password is the only password Backend accepts.
const Password = "secret1"

// Backend is an in-memory booking API served over httptest.  It knows two
// accounts: "ana" (member, id 7) and "root" (admin, id 1).
type Backend struct {
	URL string

	t            testing.TB
	mu           sync.Mutex
	bookings     map[uint64]model.Booking
	rooms        []model.Room
	reviews      []model.Review
	users        map[uint64]model.Identity
	unauthorized bool
	calls        map[string]int
}

// NewBackend starts a Backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{t: t, bookings: map[uint64]model.Booking{}, calls: map[string]int{}, users: map[uint64]model.Identity{
		1: {ID: 1, Username: "root", Role: model.RoleAdmin},
		7: {ID: 7, Username: "ana", Email: "ana@example.com", FullName: "Ana", Role: model.RoleMember},
	}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("GET /api/rooms", b.listRooms)
	mux.HandleFunc("GET /api/member/bookings", b.listBookings)
	mux.HandleFunc("DELETE /api/member/bookings/{id}", b.deleteBooking)
	mux.HandleFunc("PUT /api/member/bookings/{id}/cancel", b.cancelBooking)
	mux.HandleFunc("GET /api/member/reviews", b.listReviews)
	mux.HandleFunc("GET /api/admin/bookings", b.listBookings)
	mux.HandleFunc("PUT /api/admin/bookings/{id}/status", b.setBookingStatus)
	mux.HandleFunc("PUT /api/admin/bookings/{id}/payment-status", b.setPaymentStatus)
	mux.HandleFunc("GET /api/admin/users", b.listUsers)
	mux.HandleFunc("PUT /api/admin/users/{id}/role", b.setRole)
	srv := httptest.NewServer(b.track(mux))
	t.Cleanup(srv.Close)
	b.URL = srv.URL + "/api"
	return b
}

// AddBooking stores bk for the member account.
func (b *Backend) AddBooking(bk model.Booking) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bookings[bk.ID] = bk
}

func (b *Backend) AddRoom(r model.Room) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, r)
}

// Booking returns the stored booking with the given id.
func (b *Backend) Booking(id uint64) (model.Booking, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.bookings[id]
	return bk, ok
}

// User returns the stored account with the given id.
func (b *Backend) User(id uint64) model.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[id]
}

// Expire makes every authenticated endpoint answer 401.
func (b *Backend) Expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unauthorized = true
}

// Calls counts requests matching "METHOD /path" (the path without /api).
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *Backend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]++
		expired := b.unauthorized && strings.HasPrefix(r.URL.Path, "/api/member/")
		b.mu.Unlock()
		if expired {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	raw, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(raw, &in); err != nil || in.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	var user model.Identity
	switch {
	case in.Username == "ana" || in.Email == "ana@example.com":
		user = model.Identity{ID: 7, Username: "ana", Email: "ana@example.com", FullName: "Ana", Role: model.RoleMember}
	case in.Username == "root":
		user = model.Identity{ID: 1, Username: "root", Role: model.RoleAdmin}
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": Token(b.t, user.ID, string(user.Role)),
		"user":  user,
	})
}

func (b *Backend) listRooms(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"rooms": b.rooms})
}

func (b *Backend) listBookings(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Booking, 0, len(b.bookings))
	for _, bk := range b.bookings {
		out = append(out, bk)
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out})
}

func (b *Backend) listReviews(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"reviews": b.reviews})
}

func (b *Backend) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.bookings[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
		return
	}
	if bk.BookingStatus == model.BookingCompleted || bk.BookingStatus == model.BookingCancelled {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "booking cannot be cancelled"})
		return
	}
	bk.BookingStatus = model.BookingCancelled
	b.bookings[id] = bk
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled"})
}

func (b *Backend) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bookings, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking deleted"})
}

func (b *Backend) setBookingStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status model.BookingStatus `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.bookings[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
		return
	}
	if bk.BookingStatus.Terminal() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "booking status cannot change"})
		return
	}
	bk.BookingStatus = in.Status
	b.bookings[id] = bk
	writeJSON(w, http.StatusOK, map[string]any{"booking": bk})
}

func (b *Backend) setPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PaymentStatus model.PaymentStatus `json:"payment_status"`
	}
	if !decode(w, r, &in) {
		return
	}
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.bookings[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "booking not found"})
		return
	}
	bk.PaymentStatus = in.PaymentStatus
	b.bookings[id] = bk
	writeJSON(w, http.StatusOK, map[string]any{"booking": bk})
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Identity, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, u)
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (b *Backend) setRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role model.Role `json:"role"`
	}
	if !decode(w, r, &in) {
		return
	}
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	u.Role = in.Role
	b.users[id] = u
	writeJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(raw, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
