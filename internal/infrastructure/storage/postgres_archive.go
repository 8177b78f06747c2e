package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsClipper/internal/domain"
	"NewsClipper/internal/ports"
)

// PostgresArchive keeps every accepted record across runs for audit. The
// live pipeline never reads it back; the sink collection is rebuilt from
// scratch each run regardless.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecordArchive = (*PostgresArchive)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveAccepted inserts the record snapshot; the same URL seen in a later
// run is left untouched.
func (a *PostgresArchive) SaveAccepted(ctx context.Context, category string, rec domain.AcceptedRecord) error {
	if a.db == nil {
		return nil
	}

	insert := a.builder.
		Insert("clipped_records").
		Columns("category", "tag", "title", "url", "published_at").
		Values(category, rec.Tag, rec.DisplayTitle, rec.URL, nullableTime(rec)).
		Suffix("ON CONFLICT (url) DO NOTHING")

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// CountByCategory reports accumulated archive volume for one category,
// logged at the end of a single-shot run.
func (a *PostgresArchive) CountByCategory(ctx context.Context, category string) (int, error) {
	if a.db == nil {
		return 0, nil
	}

	query, args, err := a.builder.
		Select("COUNT(*)").
		From("clipped_records").
		Where(sq.Eq{"category": category}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func nullableTime(rec domain.AcceptedRecord) any {
	if rec.PublishedDate.IsZero() {
		return nil
	}
	return rec.PublishedDate
}
