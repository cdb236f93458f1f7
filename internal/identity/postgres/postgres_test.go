package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/identity"
)

func newGatewayWithMock(t *testing.T) (*Gateway, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewGateway(db), mock, db
}

func TestFindByNormalizedName_Found(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*salt,\s*password_hash\s+FROM\s+drivers\s+WHERE\s+name\s*=\s*\$1\s+LIMIT\s+1$`

	rows := sqlmock.NewRows([]string{"id", "name", "salt", "password_hash"}).
		AddRow("d1", "JOAO", "ab12", "ffee")
	mock.ExpectQuery(q).WithArgs("JOAO").WillReturnRows(rows)

	rec, err := gw.FindByNormalizedName(context.Background(), identity.CollectionDrivers, "JOAO")
	if err != nil {
		t.Fatalf("FindByNormalizedName error: %v", err)
	}
	if rec == nil || rec.ID != "d1" || rec.Role != identity.RoleDriver || rec.Salt != "ab12" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestFindByNormalizedName_Absent(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM admins`).WithArgs("NOPE").WillReturnError(sql.ErrNoRows)

	rec, err := gw.FindByNormalizedName(context.Background(), identity.CollectionAdmins, "NOPE")
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestFindByNormalizedName_LegacyAccountScansEmpty(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "salt", "password_hash"}).
		AddRow("d2", "PEDRO", nil, nil)
	mock.ExpectQuery(`SELECT .* FROM drivers`).WithArgs("PEDRO").WillReturnRows(rows)

	rec, err := gw.FindByNormalizedName(context.Background(), identity.CollectionDrivers, "PEDRO")
	if err != nil {
		t.Fatalf("FindByNormalizedName error: %v", err)
	}
	if rec.HasCredentials() {
		t.Fatalf("legacy record must not report credentials: %+v", rec)
	}
}

func TestFindByNormalizedName_StoreError(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM drivers`).WithArgs("JOAO").
		WillReturnError(errors.New("connection refused"))

	_, err := gw.FindByNormalizedName(context.Background(), identity.CollectionDrivers, "JOAO")
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM admins WHERE id`).WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := gw.GetByID(context.Background(), identity.CollectionAdmins, "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCredentials_PartialUpdate(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+drivers\s+SET\s+salt\s*=\s*\$1,\s*password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3$`
	mock.ExpectExec(q).WithArgs("newsalt", "newhash", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := gw.UpdateCredentials(context.Background(), identity.CollectionDrivers, "d1", "newsalt", "newhash")
	if err != nil {
		t.Fatalf("UpdateCredentials error: %v", err)
	}
}

func TestUpdateCredentials_UnknownID(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE admins SET`).WithArgs("s", "h", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := gw.UpdateCredentials(context.Background(), identity.CollectionAdmins, "ghost", "s", "h")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_InsertsRecord(t *testing.T) {
	gw, mock, db := newGatewayWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+admins\s*\(id,\s*name,\s*salt,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)$`
	mock.ExpectExec(q).WithArgs("a1", "ANA", "s", "h").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &identity.Record{ID: "a1", Name: "ANA", Salt: "s", PasswordHash: "h"}
	got, err := gw.Create(context.Background(), identity.CollectionAdmins, rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Role != identity.RoleAdmin {
		t.Fatalf("expected admin role, got %q", got.Role)
	}
}

func TestUnknownCollectionRejected(t *testing.T) {
	gw, _, db := newGatewayWithMock(t)
	defer db.Close()

	_, err := gw.FindByNormalizedName(context.Background(), identity.Collection("trucks"), "X")
	if err == nil {
		t.Fatal("expected error for unknown collection")
	}
}
