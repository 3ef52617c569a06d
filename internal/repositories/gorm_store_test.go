package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"tiyende/internal/config"
	"tiyende/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	store, err := Open(context.Background(), config.DatabaseConfig{
		Type:         "sqlite",
		DBName:       filepath.Join(t.TempDir(), "tiyende.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGormStoreContract(t *testing.T) {
	storeContract(t, newSQLiteStore)
}

func TestOpen_MemoryType(t *testing.T) {
	store, err := Open(context.Background(), config.DatabaseConfig{Type: "memory"}, zap.NewNop())
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}
}

func newMockGormStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return NewGormStore(gdb), mock
}

func TestGormStore_GetVendorNotFound(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vendors`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := store.GetVendor(context.Background(), 7)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "Vendor not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormStore_DeleteRouteReportsRowsAffected(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `routes`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `routes`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := store.DeleteRoute(context.Background(), 3)
	if err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = store.DeleteRoute(context.Background(), 3)
	if err != nil || deleted {
		t.Fatalf("second delete: deleted=%v err=%v", deleted, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormStore_DriverFailureIsInternal(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tickets`")).
		WillReturnError(errors.New("connection reset"))

	_, err := store.ListTickets(context.Background())
	if !domain.IsInternal(err) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if err.Error() != "database error" {
		t.Fatalf("driver detail leaked: %q", err.Error())
	}
}

func TestMapError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'admin' for key 'username'"}
	if err := mapError(dup, "User", errUsernameTaken); err.Error() != "Username already exists" {
		t.Fatalf("expected username conflict, got %v", err)
	}
	if err := mapError(gorm.ErrDuplicatedKey, "Vendor", nil); !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mapError(gorm.ErrRecordNotFound, "Route", nil); err.Error() != "Route not found" {
		t.Fatalf("expected Route not found, got %v", err)
	}
	if err := mapError(nil, "Route", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestGormStore_UpsertSettingExistingRowKeepsID(t *testing.T) {
	store, mock := newMockGormStore(t)
	mock.ExpectBegin()
	// the update branch of ON DUPLICATE KEY still hands back an unrelated insert id
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `settings`")).
		WillReturnResult(sqlmock.NewResult(42, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `settings` WHERE name = ? ORDER BY")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "value", "description"}).
			AddRow(3, "system_name", "Tiyende Express", "Display name"))
	mock.ExpectCommit()

	st, err := store.UpsertSetting(context.Background(), "system_name", "Tiyende Express")
	if err != nil {
		t.Fatalf("upsert setting: %v", err)
	}
	if st.ID != 3 {
		t.Fatalf("expected stored id 3, got %d", st.ID)
	}
	if st.Value != "Tiyende Express" || st.Description != "Display name" {
		t.Fatalf("unexpected setting %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
