package bookinstance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectPopulated = `
	SELECT bi.id::text, bi.book_id::text, bi.imprint, bi.status, bi.due_back,
	       COALESCE(b.id::text, ''), COALESCE(b.title, ''), COALESCE(b.author, ''),
	       COALESCE(b.summary, ''), COALESCE(b.isbn, '')
	FROM book_instances bi
	LEFT JOIN books b ON b.id = bi.book_id`

func scanPopulated(row pgx.Row) (BookInstance, error) {
	var bi BookInstance
	var status string
	err := row.Scan(
		&bi.ID, &bi.BookID, &bi.Imprint, &status, &bi.DueBack,
		&bi.Book.ID, &bi.Book.Title, &bi.Book.Author, &bi.Book.Summary, &bi.Book.ISBN,
	)
	bi.Status = Status(status)
	return bi, err
}

func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]BookInstance, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookInstance
	for rows.Next() {
		bi, err := scanPopulated(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) List(ctx context.Context) ([]BookInstance, error) {
	return r.query(ctx, selectPopulated+` ORDER BY b.title, bi.imprint`)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]BookInstance, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, nil
	}
	return r.query(ctx, selectPopulated+` WHERE bi.book_id = $1 ORDER BY bi.imprint`, bookID)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (BookInstance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BookInstance{}, ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	bi, err := scanPopulated(r.db.QueryRow(timeoutCtx, selectPopulated+` WHERE bi.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookInstance{}, ErrNotFound
		}
		return BookInstance{}, err
	}
	return bi, nil
}

func (r *PostgresRepo) Create(ctx context.Context, bi *BookInstance) error {
	const sql = `
		INSERT INTO book_instances (book_id, imprint, status, due_back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id::text`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql, bi.BookID, bi.Imprint, string(bi.Status), bi.DueBack).Scan(&bi.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, bi BookInstance) error {
	if _, err := uuid.Parse(bi.ID); err != nil {
		return ErrNotFound
	}

	const sql = `
		UPDATE book_instances
		SET book_id = $2, imprint = $3, status = $4, due_back = $5, updated_at = NOW()
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, bi.ID, bi.BookID, bi.Imprint, string(bi.Status), bi.DueBack)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM book_instances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context, status Status) (int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM book_instances WHERE ($1 = '' OR status = $1)`,
		string(status),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
