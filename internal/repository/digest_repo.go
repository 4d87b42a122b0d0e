package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/submission-digest-api/internal/database"
	"github.com/submission-digest-api/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var summaryColumns = []string{
	"id", "window_start", "window_end", "locale", "record_count",
	"skipped_count", "names", "duration_ms", "created_at",
}

// digestRepo is the Postgres implementation of DigestRepository
type digestRepo struct {
	db *database.DB
}

// NewDigestRepo creates a new digest repository
func NewDigestRepo(db *database.DB) DigestRepository {
	return &digestRepo{db: db}
}

func insertDigest(d *models.Digest) sq.InsertBuilder {
	return psql.Insert("digests").
		Columns("id", "window_start", "window_end", "locale", "record_count",
			"skipped_count", "names", "html", "duration_ms", "created_at").
		Values(d.ID, d.WindowStart.Format(time.DateOnly), d.WindowEnd.Format(time.DateOnly),
			d.Locale, d.RecordCount, d.SkippedCount, pq.StringArray(d.Names),
			d.HTML, d.DurationMs, d.CreatedAt)
}

func selectDigest(id string) sq.SelectBuilder {
	return psql.Select(append(summaryColumns, "html")...).
		From("digests").
		Where(sq.Eq{"id": id})
}

func listDigests(limit, offset int) sq.SelectBuilder {
	return psql.Select(summaryColumns...).
		From("digests").
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
}

// Create inserts an archived digest
func (r *digestRepo) Create(ctx context.Context, d *models.Digest) error {
	query, args, err := insertDigest(d).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a digest including its HTML; a missing row yields nil, nil
func (r *digestRepo) GetByID(ctx context.Context, id string) (*models.Digest, error) {
	query, args, err := selectDigest(id).ToSql()
	if err != nil {
		return nil, err
	}

	var d models.Digest
	var names pq.StringArray
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&d.ID, &d.WindowStart, &d.WindowEnd, &d.Locale, &d.RecordCount,
		&d.SkippedCount, &names, &d.DurationMs, &d.CreatedAt, &d.HTML,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Names = []string(names)

	return &d, nil
}

// List returns digest summaries, newest first, without their HTML
func (r *digestRepo) List(ctx context.Context, limit, offset int) ([]models.Digest, error) {
	query, args, err := listDigests(limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	digests := make([]models.Digest, 0, limit)
	for rows.Next() {
		var d models.Digest
		var names pq.StringArray
		if err := rows.Scan(
			&d.ID, &d.WindowStart, &d.WindowEnd, &d.Locale, &d.RecordCount,
			&d.SkippedCount, &names, &d.DurationMs, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.Names = []string(names)
		digests = append(digests, d)
	}

	return digests, rows.Err()
}

// Count returns the number of archived digests
func (r *digestRepo) Count(ctx context.Context) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("digests").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
