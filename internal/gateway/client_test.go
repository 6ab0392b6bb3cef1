package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api/", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected an error for an empty BaseURL")
	}
}

func TestListMyBookingsEnvelopes(t *testing.T) {
	bodies := map[string]string{
		"bare array":    `[{"ID":1,"BookingStatus":"pending","PaymentStatus":"pending","CheckInDate":"2030-01-10T00:00:00Z"}]`,
		"keyed":         `{"bookings":[{"ID":1,"BookingStatus":"pending","PaymentStatus":"pending","CheckInDate":"2030-01-10"}]}`,
		"data envelope": `{"data":{"bookings":[{"ID":1,"BookingStatus":"pending","PaymentStatus":"pending","CheckInDate":"2030-01-10"}]}}`,
		"data array":    `{"data":[{"ID":1,"BookingStatus":"pending","PaymentStatus":"pending","CheckInDate":"2030-01-10"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/member/bookings" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("Authorization = %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, body)
			})
			got, err := c.ListMyBookings(context.Background(), "tok")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0].ID != 1 || got[0].BookingStatus != model.BookingPending {
				t.Fatalf("got %+v", got)
			}
			if want := model.NewDate(2030, time.January, 10); !got[0].CheckInDate.Equal(want.Time) {
				t.Errorf("CheckInDate = %v, want %v", got[0].CheckInDate, want)
			}
		})
	}
}

func TestListEmptyWhenNotAnArray(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"bookings":null}`)
	})
	got, err := c.ListMyBookings(context.Background(), "tok")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestUnauthorizedRunsHook(t *testing.T) {
	type ctxKey struct{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"token expired"}`)
	})
	var seen any
	c.SetUnauthorizedHook(func(ctx context.Context) { seen = ctx.Value(ctxKey{}) })

	ctx := context.WithValue(context.Background(), ctxKey{}, "sid-42")
	_, err := c.ListMyBookings(ctx, "tok")

	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindAuth {
		t.Fatalf("err = %v, want auth", err)
	}
	if ae.Message != "token expired" {
		t.Errorf("message = %q", ae.Message)
	}
	if seen != "sid-42" {
		t.Errorf("hook saw %v, want the request context", seen)
	}
}

func TestStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"booking already cancelled"}`)
	})
	err := c.CancelBooking(context.Background(), "tok", 5)

	se, ok := AsStatus(err)
	if !ok {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusConflict || !se.IsClientError() {
		t.Errorf("status = %d", se.StatusCode)
	}
	if se.Message != "booking already cancelled" || se.Method != http.MethodPut || se.Path != "/member/bookings/5/cancel" {
		t.Errorf("got %+v", se)
	}
	if apperr.Is(err, apperr.KindAuth) {
		t.Error("a 409 must not be an auth error")
	}
}

func TestNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.GetRoom(context.Background(), 9)
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListRooms(context.Background())
	if !apperr.Is(err, apperr.KindNetwork) {
		t.Fatalf("err = %v, want network", err)
	}
}

func TestCreatePaymentSendsBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/member/payments" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in struct {
			BookingID     uint64 `json:"booking_id"`
			PaymentMethod string `json:"payment_method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		if in.BookingID != 3 || in.PaymentMethod != "e_wallet" {
			t.Errorf("body = %+v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"created","payment":{"ID":11,"booking_id":3,"payment_method":"e_wallet","status":"pending"}}`)
	})
	p, err := c.CreatePayment(context.Background(), "tok", 3, model.MethodEWallet)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 11 {
		t.Errorf("payment = %+v", p)
	}
}

func TestLoginRoutesIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		want       LoginRequest
	}{
		{"  Ana@Example.COM ", LoginRequest{Email: "ana@example.com", Password: "pw"}},
		{"ana", LoginRequest{Username: "ana", Password: "pw"}},
	}
	for _, tc := range tests {
		if got := NewLoginRequest(tc.identifier, "pw"); got != tc.want {
			t.Errorf("NewLoginRequest(%q) = %+v, want %+v", tc.identifier, got, tc.want)
		}
	}
}

func TestLoginDecodesToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"abc","user":{"id":4,"username":"ana","role":"member"}}`)
	})
	res, err := c.Login(context.Background(), NewLoginRequest("ana", "pw"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Token != "abc" || res.User == nil || res.User.ID != 4 {
		t.Fatalf("res = %+v", res)
	}
}

func TestContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListRooms(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled in chain", err)
	}
}
