// Package postgres implements the credential-store gateway over Postgres.
// Admin and driver identities live in separate tables mirroring the two
// store collections; lookups are exact-match on the upper-cased name.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/dbx"
	"github.com/fgodoybr/frotacontrol/internal/identity"
)

type Gateway struct {
	db dbx.DBTX
}

func NewGateway(db dbx.DBTX) *Gateway {
	return &Gateway{db: db}
}

// tableFor maps a collection to its table. The collection value never comes
// from user input, but the switch keeps identifiers out of query building.
func tableFor(c identity.Collection) (string, error) {
	switch c {
	case identity.CollectionAdmins:
		return "admins", nil
	case identity.CollectionDrivers:
		return "drivers", nil
	default:
		return "", fmt.Errorf("unknown collection %q", c)
	}
}

func (g *Gateway) FindByNormalizedName(ctx context.Context, collection identity.Collection, name string) (*identity.Record, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, name, salt, password_hash FROM %s WHERE name = $1 LIMIT 1`, table)

	rec, err := g.scanRecord(g.db.QueryRowContext(ctx, query, name), collection)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (g *Gateway) GetByID(ctx context.Context, collection identity.Collection, id string) (*identity.Record, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, name, salt, password_hash FROM %s WHERE id = $1`, table)

	rec, err := g.scanRecord(g.db.QueryRowContext(ctx, query, id), collection)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (g *Gateway) UpdateCredentials(ctx context.Context, collection identity.Collection, id, salt, passwordHash string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE %s SET salt = $1, password_hash = $2 WHERE id = $3`, table)

	res, err := g.db.ExecContext(ctx, query, salt, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (g *Gateway) Create(ctx context.Context, collection identity.Collection, rec *identity.Record) (*identity.Record, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, salt, password_hash) VALUES ($1, $2, $3, $4)`, table)

	if _, err := g.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Salt, rec.PasswordHash); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	rec.Role = collection.Role()
	return rec, nil
}

// scanRecord reads one identity row. Salt and hash columns are nullable so
// legacy accounts scan as empty strings.
func (g *Gateway) scanRecord(row *sql.Row, collection identity.Collection) (*identity.Record, error) {
	rec := &identity.Record{Role: collection.Role()}
	var salt, hash sql.NullString

	if err := row.Scan(&rec.ID, &rec.Name, &salt, &hash); err != nil {
		return nil, err
	}
	rec.Salt = salt.String
	rec.PasswordHash = hash.String
	return rec, nil
}
