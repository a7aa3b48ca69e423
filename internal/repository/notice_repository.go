package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// NoticeRepository manages notice persistence.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	Update(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id string) (*domain.Notice, error)
	List(ctx context.Context) ([]domain.Notice, error)
	ListActive(ctx context.Context) ([]domain.Notice, error)
	Delete(ctx context.Context, id string) error
}

type noticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository builds the repository.
func NewNoticeRepository(pool *pgxpool.Pool) NoticeRepository {
	return &noticeRepository{pool: pool}
}

func (r *noticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	const query = `
        INSERT INTO notices (id, title, content, priority, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		notice.ID,
		notice.Title,
		notice.Content,
		notice.Priority,
		notice.IsActive,
	).Scan(&notice.CreatedAt, &notice.UpdatedAt)
}

func (r *noticeRepository) Update(ctx context.Context, notice *domain.Notice) error {
	const query = `
        UPDATE notices SET title=$1, content=$2, priority=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		notice.Title,
		notice.Content,
		notice.Priority,
		notice.IsActive,
		notice.ID,
	).Scan(&notice.UpdatedAt)
}

func (r *noticeRepository) GetByID(ctx context.Context, id string) (*domain.Notice, error) {
	const query = `
        SELECT id, title, content, priority, is_active, created_at, updated_at
        FROM notices WHERE id=$1`
	var notice domain.Notice
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Content,
		&notice.Priority,
		&notice.IsActive,
		&notice.CreatedAt,
		&notice.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) List(ctx context.Context) ([]domain.Notice, error) {
	const query = `
        SELECT id, title, content, priority, is_active, created_at, updated_at
        FROM notices ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *noticeRepository) ListActive(ctx context.Context) ([]domain.Notice, error) {
	const query = `
        SELECT id, title, content, priority, is_active, created_at, updated_at
        FROM notices WHERE is_active = TRUE ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *noticeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *noticeRepository) list(ctx context.Context, query string) ([]domain.Notice, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notice
	for rows.Next() {
		var notice domain.Notice
		if err := rows.Scan(
			&notice.ID,
			&notice.Title,
			&notice.Content,
			&notice.Priority,
			&notice.IsActive,
			&notice.CreatedAt,
			&notice.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notice)
	}
	return result, rows.Err()
}
