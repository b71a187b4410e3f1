// Package postgres provides a pgx-backed asset repository. The schema is
// a single table with a unique constraint on path and a seq column that
// preserves insertion order for sort tie-breaking:
//
//	CREATE TABLE asset (
//	    id          UUID PRIMARY KEY,
//	    seq         BIGSERIAL NOT NULL,
//	    name        TEXT NOT NULL,
//	    path        TEXT NOT NULL UNIQUE,
//	    mime_type   TEXT NOT NULL,
//	    size        BIGINT NOT NULL,
//	    description TEXT NOT NULL DEFAULT '',
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetkit/assetkit/pkg/assetkit"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements assetkit.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps pg error codes onto friendlier errors
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("asset with the same path already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("asset table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const assetColumns = "id, name, path, mime_type, size, description, created_at, updated_at"

func scanAsset(row pgx.Row) (*assetkit.Asset, error) {
	var asset assetkit.Asset
	err := row.Scan(
		&asset.ID, &asset.Name, &asset.Path, &asset.MimeType,
		&asset.Size, &asset.Description, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assetkit.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *Repository) Create(ctx context.Context, asset *assetkit.Asset) error {
	now := time.Now().UTC()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = now
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = now
	}

	query := `
		INSERT INTO asset (id, name, path, mime_type, size, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		asset.ID, asset.Name, asset.Path, asset.MimeType,
		asset.Size, asset.Description, asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create asset", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*assetkit.Asset, error) {
	query := "SELECT " + assetColumns + " FROM asset WHERE id = $1"
	return scanAsset(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM asset WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return assetkit.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, query assetkit.ListQuery) ([]*assetkit.Asset, int, error) {
	where, args := buildFilters(query)

	countQuery := "SELECT COUNT(*) FROM asset" + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count assets", err)
	}

	page, perPage := query.Normalize()
	args = append(args, perPage, (page-1)*perPage)
	pageQuery := fmt.Sprintf("SELECT %s FROM asset%s%s LIMIT $%d OFFSET $%d",
		assetColumns, where, buildOrder(query), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list assets", err)
	}
	defer rows.Close()

	assets := make([]*assetkit.Asset, 0, perPage)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("list assets", err)
	}
	return assets, total, nil
}

func (r *Repository) Random(ctx context.Context) (*assetkit.Asset, error) {
	query := "SELECT " + assetColumns + " FROM asset ORDER BY random() LIMIT 1"
	return scanAsset(r.db.QueryRow(ctx, query))
}

// buildFilters translates the query's filters into a WHERE clause with
// positional arguments.
func buildFilters(query assetkit.ListQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.MimeType != "" {
		clauses = append(clauses, "mime_type = "+arg(query.MimeType))
	}
	if query.Name != "" {
		clauses = append(clauses, "name ILIKE "+arg("%"+escapeLike(query.Name)+"%"))
	}
	if query.Description != "" {
		clauses = append(clauses, "description ILIKE "+arg("%"+escapeLike(query.Description)+"%"))
	}
	if query.CreatedOn != nil {
		dayStart := time.Date(query.CreatedOn.Year(), query.CreatedOn.Month(), query.CreatedOn.Day(),
			0, 0, 0, 0, query.CreatedOn.Location())
		clauses = append(clauses, "created_at >= "+arg(dayStart))
		clauses = append(clauses, "created_at < "+arg(dayStart.Add(24*time.Hour)))
	}
	if min, max, ok := query.SizeBounds(); ok {
		clauses = append(clauses, "size >= "+arg(min))
		clauses = append(clauses, "size <= "+arg(max))
	}
	if query.CreatedAfter != nil {
		clauses = append(clauses, "created_at >= "+arg(*query.CreatedAfter))
	}
	if query.CreatedBefore != nil {
		clauses = append(clauses, "created_at <= "+arg(*query.CreatedBefore))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrder maps the validated sort vocabulary onto an ORDER BY clause.
// The seq tiebreak keeps equal keys in insertion order.
func buildOrder(query assetkit.ListQuery) string {
	field, descending := query.SortSpec()

	column := "created_at"
	switch field {
	case assetkit.SortByName:
		// lower() keeps name ordering case-insensitive regardless of the
		// database collation, matching the in-memory repository.
		column = "lower(name)"
	case assetkit.SortBySize:
		column = "size"
	case assetkit.SortByUpdatedAt:
		column = "updated_at"
	}

	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, seq ASC", column, direction)
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
