package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/catalog"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/lifecycle"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/model"
	"github.com/iliyamo/hotel-booking-web/internal/session"
	"github.com/iliyamo/hotel-booking-web/internal/testfixtures"
)

const cookieName = "hb_sid"

type app struct {
	e       *echo.Echo
	store   *session.Store
	backend *testfixtures.Backend
}

func newApp(t *testing.T) *app {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := testfixtures.NewBackend(t)
	gw, err := gateway.New(gateway.Config{BaseURL: backend.URL, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	store := session.NewStore(session.NewMemoryStorage(), logger)
	e := New(Deps{
		Store:    store,
		Gateway:  gw,
		Bookings: lifecycle.NewService(gw, nil, nil, logger),
		Logger:   logger,
		Cookie:   middleware.CookieConfig{Name: cookieName},
	})
	return &app{e: e, store: store, backend: backend}
}

// browser carries the session cookie between requests.
type browser struct {
	app *app
	sid string
}

func (b *browser) do(t *testing.T, method, target string, body url.Values, accept string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = strings.NewReader(body.Encode())
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: b.sid})
	}
	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookieName {
			b.sid = ck.Value
		}
	}
	return rec
}

func (b *browser) login(t *testing.T, username string) *httptest.ResponseRecorder {
	t.Helper()
	return b.do(t, http.MethodPost, "/login", url.Values{"identifier": {username}, "password": {testfixtures.Password}}, "")
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, code int, location string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}
	rec := b.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["session_backend"] != "memory" {
		t.Errorf("body = %v", body)
	}
}

func TestRememberedDestination(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}

	rec := b.do(t, http.MethodGet, "/member/bookings", nil, "")
	expectRedirect(t, rec, http.StatusFound, "/login")
	if b.sid == "" {
		t.Fatal("no session cookie issued")
	}

	rec = b.login(t, "ana")
	expectRedirect(t, rec, http.StatusSeeOther, "/member/bookings")

	rec = b.do(t, http.MethodGet, "/member/bookings", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("bookings status = %d (%s)", rec.Code, rec.Body.String())
	}

	// The destination is one-shot.
	b.do(t, http.MethodPost, "/logout", nil, "")
	rec = b.login(t, "ana")
	expectRedirect(t, rec, http.StatusSeeOther, "/")
}

func TestLoginRejected(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}
	rec := b.do(t, http.MethodPost, "/login", url.Values{"identifier": {"ana"}, "password": {"wrong"}}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid username or password") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLoginValidation(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}
	rec := b.do(t, http.MethodPost, "/login", url.Values{"identifier": {" "}}, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if a.backend.Calls("POST /auth/login") != 0 {
		t.Error("invalid form reached the backend")
	}
}

func TestExpiredCredentialClearsSession(t *testing.T) {
	for _, tc := range []struct {
		name   string
		accept string
		code   int
	}{
		{"browser", "", http.StatusSeeOther},
		{"script", echo.MIMEApplicationJSON, http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := newApp(t)
			b := &browser{app: a}
			b.login(t, "ana")
			a.backend.Expire()

			rec := b.do(t, http.MethodGet, "/member/bookings", nil, tc.accept)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.code, rec.Body.String())
			}
			if tc.accept == "" {
				expectRedirect(t, rec, http.StatusSeeOther, "/login")
			} else if !strings.Contains(rec.Body.String(), `"redirect":"/login"`) {
				t.Errorf("body = %s", rec.Body.String())
			}

			s, err := a.store.Get(t.Context(), b.sid)
			if err != nil || s != nil {
				t.Fatalf("session after 401 = %+v, %v; want cleared", s, err)
			}
			rec = b.do(t, http.MethodGet, "/member/reviews", nil, "")
			expectRedirect(t, rec, http.StatusFound, "/login")
		})
	}
}

func TestDeleteRefusedLocally(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 4, BookingStatus: model.BookingCancelled, PaymentStatus: model.PaymentPaid})
	b := &browser{app: a}
	b.login(t, "ana")

	rec := b.do(t, http.MethodDelete, "/member/bookings/4", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if n := a.backend.Calls("DELETE /member/bookings/4"); n != 0 {
		t.Errorf("backend DELETE calls = %d, want 0", n)
	}
}

func TestCancelThenDelete(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 5, BookingStatus: model.BookingPending, PaymentStatus: model.PaymentPending})
	b := &browser{app: a}
	b.login(t, "ana")

	rec := b.do(t, http.MethodPost, "/member/bookings/5/cancel", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d (%s)", rec.Code, rec.Body.String())
	}
	var got struct {
		Booking model.Booking     `json:"booking"`
		Actions lifecycle.Actions `json:"actions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Booking.BookingStatus != model.BookingCancelled || !got.Actions.Delete || got.Actions.Cancel {
		t.Errorf("after cancel = %+v", got)
	}

	rec = b.do(t, http.MethodDelete, "/member/bookings/5", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCancelCompletedRefusedLocally(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 6, BookingStatus: model.BookingCompleted, PaymentStatus: model.PaymentPaid})
	b := &browser{app: a}
	b.login(t, "ana")

	// Completed bookings are refused before reaching the backend.
	rec := b.do(t, http.MethodPost, "/member/bookings/6/cancel", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if n := a.backend.Calls("PUT /member/bookings/6/cancel"); n != 0 {
		t.Errorf("backend cancel calls = %d, want 0", n)
	}
}

func TestGateRedirects(t *testing.T) {
	a := newApp(t)
	anon := &browser{app: a}
	expectRedirect(t, anon.do(t, http.MethodGet, "/admin", nil, ""), http.StatusFound, "/login")
	expectRedirect(t, anon.do(t, http.MethodGet, "/nowhere", nil, ""), http.StatusFound, "/")

	member := &browser{app: a}
	member.login(t, "ana")
	expectRedirect(t, member.do(t, http.MethodGet, "/admin/users", nil, ""), http.StatusFound, "/")
	expectRedirect(t, member.do(t, http.MethodGet, "/login", nil, ""), http.StatusFound, "/")

	admin := &browser{app: a}
	admin.login(t, "root")
	expectRedirect(t, admin.do(t, http.MethodGet, "/member/bookings", nil, ""), http.StatusFound, "/")
}

func TestAdminNotRememberedForAnonymous(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}
	b.do(t, http.MethodGet, "/admin/bookings", nil, "")
	rec := b.login(t, "root")
	expectRedirect(t, rec, http.StatusSeeOther, "/")
}

func signedInAdmin(t *testing.T, a *app) *browser {
	t.Helper()
	b := &browser{app: a}
	expectRedirect(t, b.login(t, "root"), http.StatusSeeOther, "/")
	return b
}

func TestAdminBookingStatus(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 1, BookingStatus: model.BookingPending, PaymentStatus: model.PaymentPending})
	a.backend.AddBooking(model.Booking{ID: 2, BookingStatus: model.BookingCompleted, PaymentStatus: model.PaymentPaid})
	a.backend.AddBooking(model.Booking{ID: 3, BookingStatus: model.BookingCancelled, PaymentStatus: model.PaymentRefunded})
	a.backend.AddBooking(model.Booking{ID: 4, BookingStatus: model.BookingConfirmed, PaymentStatus: model.PaymentPaid})
	b := signedInAdmin(t, a)

	t.Run("allowed", func(t *testing.T) {
		rec := b.do(t, http.MethodPut, "/admin/bookings/1/status", url.Values{"status": {"confirmed"}}, echo.MIMEApplicationJSON)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		if bk, _ := a.backend.Booking(1); bk.BookingStatus != model.BookingConfirmed {
			t.Errorf("backend status = %q, want confirmed", bk.BookingStatus)
		}
	})

	for _, tc := range []struct {
		name string
		id   string
		to   string
	}{
		{"out of completed", "2", "cancelled"},
		{"out of cancelled", "3", "confirmed"},
		{"backwards", "4", "pending"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			target := "/admin/bookings/" + tc.id + "/status"
			rec := b.do(t, http.MethodPut, target, url.Values{"status": {tc.to}}, echo.MIMEApplicationJSON)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
			}
			if n := a.backend.Calls("PUT " + target); n != 0 {
				t.Errorf("backend calls = %d, want 0", n)
			}
		})
	}

	rec := b.do(t, http.MethodPut, "/admin/bookings/99/status", url.Values{"status": {"confirmed"}}, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown booking status = %d", rec.Code)
	}
}

func TestAdminPaymentStatus(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 1, BookingStatus: model.BookingConfirmed, PaymentStatus: model.PaymentPending})
	b := signedInAdmin(t, a)

	rec := b.do(t, http.MethodPut, "/admin/bookings/1/payment-status", url.Values{"payment_status": {"Paid"}}, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if bk, _ := a.backend.Booking(1); bk.PaymentStatus != model.PaymentPaid {
		t.Errorf("backend payment status = %q, want paid", bk.PaymentStatus)
	}

	rec = b.do(t, http.MethodPut, "/admin/bookings/1/payment-status", url.Values{"payment_status": {"lost"}}, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid payment status = %d", rec.Code)
	}
}

func TestAdminUserRole(t *testing.T) {
	a := newApp(t)
	b := signedInAdmin(t, a)

	rec := b.do(t, http.MethodPut, "/admin/users/7/role", url.Values{"role": {"admin"}}, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if got := a.backend.User(7).Role; got != model.RoleAdmin {
		t.Errorf("role = %q, want admin", got)
	}

	rec = b.do(t, http.MethodPut, "/admin/users/1/role", url.Values{"role": {"member"}}, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("self role change status = %d", rec.Code)
	}
	if n := a.backend.Calls("PUT /admin/users/1/role"); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestAdminDashboard(t *testing.T) {
	a := newApp(t)
	a.backend.AddBooking(model.Booking{ID: 1, TotalPrice: 100, BookingStatus: model.BookingPending, PaymentStatus: model.PaymentPending})
	a.backend.AddBooking(model.Booking{ID: 2, TotalPrice: 250, BookingStatus: model.BookingConfirmed, PaymentStatus: model.PaymentPaid})
	a.backend.AddBooking(model.Booking{ID: 3, TotalPrice: 300, BookingStatus: model.BookingCompleted, PaymentStatus: model.PaymentPaid})
	a.backend.AddRoom(model.Room{ID: 1, RoomNumber: "101", Type: "Deluxe", Price: 120, MaxOccupancy: 2})
	a.backend.AddRoom(model.Room{ID: 2, RoomNumber: "102", Type: "Standard", Price: 80, MaxOccupancy: 2})
	b := signedInAdmin(t, a)

	rec := b.do(t, http.MethodGet, "/admin", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var got struct {
		Stats  catalog.Stats   `json:"stats"`
		Recent []model.Booking `json:"recent_bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := catalog.Stats{TotalBookings: 3, TotalRevenue: 650, PendingPayments: 1, ActiveBookings: 1, TotalRooms: 2, TotalUsers: 2}
	if got.Stats != want {
		t.Errorf("stats = %+v, want %+v", got.Stats, want)
	}
	if len(got.Recent) != 3 {
		t.Errorf("recent bookings = %d, want 3", len(got.Recent))
	}
}

func TestPublicRooms(t *testing.T) {
	a := newApp(t)
	a.backend.AddRoom(model.Room{ID: 1, RoomNumber: "101", Type: "Deluxe", Price: 120, MaxOccupancy: 2})
	a.backend.AddRoom(model.Room{ID: 2, RoomNumber: "102", Type: "Standard", Price: 80, MaxOccupancy: 2})
	b := &browser{app: a}

	rec := b.do(t, http.MethodGet, "/rooms?type=deluxe", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"RoomNumber":"101"`) || strings.Contains(rec.Body.String(), `"RoomNumber":"102"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBadPathID(t *testing.T) {
	a := newApp(t)
	b := &browser{app: a}
	b.login(t, "ana")
	rec := b.do(t, http.MethodDelete, "/member/bookings/abc", nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}
