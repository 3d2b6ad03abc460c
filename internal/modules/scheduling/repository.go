package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldops-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface declares the database operations the availability
// solver and conflict checker need.
type RepositoryInterface interface {
	// GetBusinessHours returns the company's hours for one weekday, or
	// models.ErrNotFound if none are configured.
	GetBusinessHours(ctx context.Context, companyID string, weekday time.Weekday) (*models.BusinessHours, error)
	// ListActiveJobs returns non-cancelled, non-completed jobs whose
	// scheduled interval overlaps [start, end). An empty technicianID widens
	// the scope to the whole company.
	ListActiveJobs(ctx context.Context, companyID, technicianID string, start, end time.Time) ([]*models.Job, error)
	// ListConflictingJobs returns active jobs for the company's technician
	// whose interval intersects [start, end), excluding excludeJobID if
	// non-empty.
	ListConflictingJobs(ctx context.Context, companyID, technicianID string, start, end time.Time, excludeJobID string) ([]*models.Job, error)
	// FindJobByID returns a job scoped to the company.
	FindJobByID(ctx context.Context, companyID, jobID string) (*models.Job, error)
	// UpdateJobSchedule writes a job's new scheduled interval.
	UpdateJobSchedule(ctx context.Context, jobID string, start, end time.Time) error
}

// Repository implements RepositoryInterface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new scheduling repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) GetBusinessHours(ctx context.Context, companyID string, weekday time.Weekday) (*models.BusinessHours, error) {
	query := `
		SELECT company_id, weekday, open_time, close_time, closed
		FROM business_hours
		WHERE company_id = $1 AND weekday = $2`

	bh := &models.BusinessHours{}
	err := r.db.QueryRow(ctx, query, companyID, int(weekday)).
		Scan(&bh.CompanyID, &bh.Weekday, &bh.Open, &bh.Close, &bh.Closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.GetBusinessHours: %w", err)
	}
	return bh, nil
}

const jobColumns = `id, company_id, address, scheduled_start, scheduled_end,
	duration_minutes, priority, status, technician_id, route_sequence, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var (
		job   models.Job
		tech  *string
		seq   *int
		start *time.Time
		end   *time.Time
	)
	err := row.Scan(
		&job.ID,
		&job.CompanyID,
		&job.Address,
		&start,
		&end,
		&job.DurationMinutes,
		&job.Priority,
		&job.Status,
		&tech,
		&seq,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	job.ScheduledStart = start
	job.ScheduledEnd = end
	if tech != nil {
		job.TechnicianID = *tech
	}
	job.RouteSequence = seq
	return &job, nil
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...interface{}) ([]*models.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *Repository) ListActiveJobs(ctx context.Context, companyID, technicianID string, start, end time.Time) ([]*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1
		  AND status NOT IN ('cancelled', 'completed')
		  AND scheduled_start < $2 AND scheduled_end > $3
		  AND ($4 = '' OR technician_id = $4)
		ORDER BY scheduled_start`

	jobs, err := r.queryJobs(ctx, query, companyID, end, start, technicianID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListActiveJobs: %w", err)
	}
	return jobs, nil
}

func (r *Repository) ListConflictingJobs(ctx context.Context, companyID, technicianID string, start, end time.Time, excludeJobID string) ([]*models.Job, error) {
	// Half-open overlap test: existing.start < end AND existing.end > start.
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE company_id = $1
		  AND technician_id = $2
		  AND status NOT IN ('cancelled', 'completed')
		  AND scheduled_start < $3 AND scheduled_end > $4
		  AND ($5 = '' OR id <> $5)
		ORDER BY scheduled_start`

	jobs, err := r.queryJobs(ctx, query, companyID, technicianID, end, start, excludeJobID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListConflictingJobs: %w", err)
	}
	return jobs, nil
}

func (r *Repository) FindJobByID(ctx context.Context, companyID, jobID string) (*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = $1 AND company_id = $2`

	job, err := scanJob(r.db.QueryRow(ctx, query, jobID, companyID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindJobByID: %w", err)
	}
	return job, nil
}

func (r *Repository) UpdateJobSchedule(ctx context.Context, jobID string, start, end time.Time) error {
	query := `
		UPDATE jobs
		SET scheduled_start = $1, scheduled_end = $2, updated_at = NOW()
		WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, start, end, jobID)
	if err != nil {
		return fmt.Errorf("repository.UpdateJobSchedule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
