package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSQLStorage(t *testing.T) (*SQLStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	st := NewSQLStorage(db, time.Hour)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	return st, mock
}

var (
	replaceSQL = regexp.QuoteMeta("REPLACE INTO client_storage (sid, k, v, expires_at) VALUES (?,?,?,?)")
	selectSQL  = regexp.QuoteMeta("SELECT v, expires_at FROM client_storage WHERE sid=? AND k=? LIMIT 1")
	takeSQL    = regexp.QuoteMeta("SELECT v, expires_at FROM client_storage WHERE sid=? AND k=? FOR UPDATE")
	deleteOne  = regexp.QuoteMeta("DELETE FROM client_storage WHERE sid=? AND k=?")
)

func TestSQLStoragePut(t *testing.T) {
	st, mock := newSQLStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec(replaceSQL).WithArgs("sid", KeyToken, "tok", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(replaceSQL).WithArgs("sid", KeyUser, "{}", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := st.Put(context.Background(), "sid", map[string]string{KeyUser: "{}", KeyToken: "tok"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLStoragePutRollsBack(t *testing.T) {
	st, mock := newSQLStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec(replaceSQL).WithArgs("sid", KeyToken, "tok", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(replaceSQL).WithArgs("sid", KeyUser, "{}", sqlmock.AnyArg()).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := st.Put(context.Background(), "sid", map[string]string{KeyToken: "tok", KeyUser: "{}"}); err == nil {
		t.Fatal("Put succeeded despite a failed write")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLStorageGet(t *testing.T) {
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		st, mock := newSQLStorage(t)
		rows := sqlmock.NewRows([]string{"v", "expires_at"}).AddRow("tok", st.now().Add(time.Minute))
		mock.ExpectQuery(selectSQL).WithArgs("sid", KeyToken).WillReturnRows(rows)
		v, err := st.Get(ctx, "sid", KeyToken)
		if err != nil || v != "tok" {
			t.Fatalf("Get = %q, %v", v, err)
		}
	})

	t.Run("absent", func(t *testing.T) {
		st, mock := newSQLStorage(t)
		mock.ExpectQuery(selectSQL).WithArgs("sid", KeyToken).WillReturnRows(sqlmock.NewRows([]string{"v", "expires_at"}))
		if _, err := st.Get(ctx, "sid", KeyToken); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		st, mock := newSQLStorage(t)
		rows := sqlmock.NewRows([]string{"v", "expires_at"}).AddRow("tok", st.now().Add(-time.Minute))
		mock.ExpectQuery(selectSQL).WithArgs("sid", KeyToken).WillReturnRows(rows)
		if _, err := st.Get(ctx, "sid", KeyToken); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLStorageTake(t *testing.T) {
	st, mock := newSQLStorage(t)
	mock.ExpectBegin()
	mock.ExpectQuery(takeSQL).WithArgs("sid", KeyIntended).
		WillReturnRows(sqlmock.NewRows([]string{"v", "expires_at"}).AddRow("/member/bookings", nil))
	mock.ExpectExec(deleteOne).WithArgs("sid", KeyIntended).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	v, err := st.Take(context.Background(), "sid", KeyIntended)
	if err != nil || v != "/member/bookings" {
		t.Fatalf("Take = %q, %v", v, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLStorageDelete(t *testing.T) {
	st, mock := newSQLStorage(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_storage WHERE sid=? AND k IN (?,?)")).
		WithArgs("sid", KeyToken, KeyUser).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := st.Delete(context.Background(), "sid", KeyToken, KeyUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLStorageBacksStore(t *testing.T) {
	st, mock := newSQLStorage(t)
	store := NewStore(st, quietLogger())
	var cleared bool
	store.OnTeardown(func(context.Context, string) { cleared = true })

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_storage WHERE sid=? AND k IN (?,?)")).
		WithArgs("sid", KeyToken, KeyUser).WillReturnResult(sqlmock.NewResult(0, 2))
	if err := store.Clear(context.Background(), "sid"); err != nil {
		t.Fatal(err)
	}
	if !cleared {
		t.Error("teardown listener not called")
	}
	if store.Backend() != "mysql" {
		t.Errorf("Backend = %q", store.Backend())
	}
}
