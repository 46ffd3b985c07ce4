package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

const uniqueViolation = "23505"

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotProvider returns a Postgres-backed SnapshotProvider. Bodies are
// kept as TEXT so the stored bytes match what was written.
func NewSnapshotProvider(pool *pgxpool.Pool) repository.SnapshotProvider {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Write(ctx context.Context, name string, body []byte) (repository.Location, error) {
	const query = `
	INSERT INTO site_snapshots (name, body)
	VALUES ($1, $2)
	`
	if _, err := r.pool.Exec(ctx, query, name, string(body)); err != nil {
		return repository.Location{}, writeError(err)
	}
	return repository.NewLocation(name, int64(len(body))), nil
}

func (r *snapshotRepository) Read(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT body FROM site_snapshots WHERE name = $1`
	var body string
	if err := r.pool.QueryRow(ctx, query, name).Scan(&body); err != nil {
		return nil, readError(err)
	}
	return []byte(body), nil
}

func (r *snapshotRepository) List(ctx context.Context, prefix string) ([]repository.Location, error) {
	const query = `
	SELECT name, octet_length(body)
	FROM site_snapshots
	WHERE starts_with(name, $1)
	ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, classify("postgres.SnapshotProvider.List", err)
	}
	defer rows.Close()

	var out []repository.Location
	for rows.Next() {
		var (
			name string
			size int64
		)
		if err := rows.Scan(&name, &size); err != nil {
			return nil, classify("postgres.SnapshotProvider.List", err)
		}
		if repository.IsSnapshotName(name) {
			out = append(out, repository.NewLocation(name, size))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify("postgres.SnapshotProvider.List", err)
	}
	return out, nil
}

func (r *snapshotRepository) Delete(ctx context.Context, name string) error {
	const query = `DELETE FROM site_snapshots WHERE name = $1`
	if _, err := r.pool.Exec(ctx, query, name); err != nil {
		return classify("postgres.SnapshotProvider.Delete", err)
	}
	return nil
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return classify("postgres.SnapshotProvider.Ping", err)
	}
	return nil
}

// writeError maps an insert failure. The primary key on name makes a second
// write of the same snapshot a unique violation.
func writeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrSnapshotExists
	}
	return classify("postgres.SnapshotProvider.Write", err)
}

func readError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSnapshotNotFound
	}
	return classify("postgres.SnapshotProvider.Read", err)
}

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrCodeTimeout, op, err)
	}
	return domain.WrapError(domain.ErrCodeUnavailable, op, err)
}
