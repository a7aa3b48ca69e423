package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// ReportRepository appends and lists agent reports. The table is an
// append-only audit trail; there is deliberately no update or delete.
type ReportRepository interface {
	Append(ctx context.Context, report *domain.Report) error
	List(ctx context.Context) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Append(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO agent_reports (agent_id, agent_name, upline_name, whatsapp_number, reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, timestamp`
	return r.pool.QueryRow(ctx, query,
		report.AgentID,
		report.AgentName,
		report.UplineName,
		report.WhatsappNumber,
		report.Reason,
	).Scan(&report.ID, &report.Timestamp)
}

func (r *reportRepository) List(ctx context.Context) ([]domain.Report, error) {
	const query = `
        SELECT id, agent_id, agent_name, upline_name, whatsapp_number, reason, timestamp
        FROM agent_reports ORDER BY timestamp DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.AgentID,
			&report.AgentName,
			&report.UplineName,
			&report.WhatsappNumber,
			&report.Reason,
			&report.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
