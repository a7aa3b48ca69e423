package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	// createRetries bounds how often Create re-runs the allocate-then-insert
	// transaction after losing a sequence race to a concurrent creator.
	createRetries = 3
)

const agentColumns = `id, seq, name, phone, type, status, upline_id, rating,
       whatsapp, messenger, avatar, specialty, experience, success_rate,
       created_at, updated_at`

// AgentRepository encapsulates agent persistence.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	Update(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	ListByType(ctx context.Context, agentType domain.AgentType) ([]domain.Agent, error)
	ListDownline(ctx context.Context, agentID string) ([]domain.Agent, error)
	Delete(ctx context.Context, id string) error
}

type agentRepository struct {
	pool      *pgxpool.Pool
	orgPrefix string
}

// NewAgentRepository instantiates repository. orgPrefix is the leading
// segment of every generated agent id.
func NewAgentRepository(pool *pgxpool.Pool, orgPrefix string) AgentRepository {
	return &agentRepository{pool: pool, orgPrefix: orgPrefix}
}

// Create allocates the next per-type sequence number and inserts the row in
// one transaction. The agents_type_seq_unique constraint makes a lost race
// surface as a unique violation instead of a duplicate id; those are retried.
func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		err := r.tryCreate(ctx, agent)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (r *agentRepository) tryCreate(ctx context.Context, agent *domain.Agent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const seqQuery = `SELECT COALESCE(MAX(seq), 0) + 1 FROM agents WHERE type=$1`
	var seq int
	if err := tx.QueryRow(ctx, seqQuery, agent.Type).Scan(&seq); err != nil {
		return err
	}

	agent.Seq = seq
	agent.ID = domain.ComposeAgentID(r.orgPrefix, agent.Type, seq)

	const insertQuery = `
        INSERT INTO agents (id, seq, name, phone, type, status, upline_id, rating,
                            whatsapp, messenger, avatar, specialty, experience, success_rate)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, insertQuery,
		agent.ID,
		agent.Seq,
		agent.Name,
		agent.Phone,
		agent.Type,
		agent.Status,
		agent.UplineID,
		agent.Rating,
		agent.Whatsapp,
		agent.Messenger,
		agent.Avatar,
		agent.Specialty,
		agent.Experience,
		agent.SuccessRate,
	).Scan(&agent.CreatedAt, &agent.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	const query = `
        UPDATE agents SET name=$1, phone=$2, status=$3, upline_id=$4, rating=$5,
            whatsapp=$6, messenger=$7, avatar=$8, specialty=$9, experience=$10,
            success_rate=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		agent.Name,
		agent.Phone,
		agent.Status,
		agent.UplineID,
		agent.Rating,
		agent.Whatsapp,
		agent.Messenger,
		agent.Avatar,
		agent.Specialty,
		agent.Experience,
		agent.SuccessRate,
		agent.ID,
	).Scan(&agent.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`
	var agent domain.Agent
	if err := scanAgent(r.pool.QueryRow(ctx, query, id), &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) ListByType(ctx context.Context, agentType domain.AgentType) ([]domain.Agent, error) {
	const query = `SELECT ` + agentColumns + `
        FROM agents WHERE type=$1
        ORDER BY created_at DESC, id ASC`
	return r.list(ctx, query, agentType)
}

func (r *agentRepository) ListDownline(ctx context.Context, agentID string) ([]domain.Agent, error) {
	const query = `SELECT ` + agentColumns + `
        FROM agents WHERE upline_id=$1
        ORDER BY created_at DESC, id ASC`
	return r.list(ctx, query, agentID)
}

// Delete removes an agent after verifying it has no downline. Both steps run
// in one transaction with the target row locked, and the ON DELETE RESTRICT
// foreign key backstops the guard against inserts racing the check.
func (r *agentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM agents WHERE id=$1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return err
	}

	var hasDownline bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM agents WHERE upline_id=$1)`, id).Scan(&hasDownline); err != nil {
		return err
	}
	if hasDownline {
		return errorutil.NewHasDownline(id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return errorutil.NewHasDownline(id)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *agentRepository) list(ctx context.Context, query string, arg any) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := scanAgent(rows, &agent); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}

func scanAgent(row pgx.Row, agent *domain.Agent) error {
	return row.Scan(
		&agent.ID,
		&agent.Seq,
		&agent.Name,
		&agent.Phone,
		&agent.Type,
		&agent.Status,
		&agent.UplineID,
		&agent.Rating,
		&agent.Whatsapp,
		&agent.Messenger,
		&agent.Avatar,
		&agent.Specialty,
		&agent.Experience,
		&agent.SuccessRate,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
