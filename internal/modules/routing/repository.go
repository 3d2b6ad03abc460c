package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fieldops-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface declares persistence for optimization runs.
type RepositoryInterface interface {
	// ListEligibleJobs returns the company's jobs scheduled on the given day
	// with a status eligible for optimization.
	ListEligibleJobs(ctx context.Context, companyID string, date time.Time) ([]*models.Job, error)
	// SaveRoute persists one technician's optimized route and writes the
	// scheduling fields back onto the affected job records in one
	// transaction. It is the synchronization boundary between the optimizer
	// and the CRM job records.
	SaveRoute(ctx context.Context, route *models.OptimizedRoute) error
	// RouteAnalytics aggregates saved routes per technician over the
	// half-open date range [start, end).
	RouteAnalytics(ctx context.Context, companyID string, start, end time.Time) ([]*models.TechnicianRouteStats, error)
}

// Repository implements RepositoryInterface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new routing repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) ListEligibleJobs(ctx context.Context, companyID string, date time.Time) ([]*models.Job, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT id, company_id, address, scheduled_start, scheduled_end,
		       duration_minutes, priority, status, technician_id, route_sequence, created_at, updated_at
		FROM jobs
		WHERE company_id = $1
		  AND status = ANY($2)
		  AND scheduled_start >= $3 AND scheduled_start < $4
		ORDER BY scheduled_start, id`

	rows, err := r.db.Query(ctx, query, companyID, models.EligibleJobStatuses, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("repository.ListEligibleJobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var (
			job  models.Job
			tech *string
		)
		err := rows.Scan(
			&job.ID, &job.CompanyID, &job.Address,
			&job.ScheduledStart, &job.ScheduledEnd,
			&job.DurationMinutes, &job.Priority, &job.Status,
			&tech, &job.RouteSequence, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository.ListEligibleJobs.Scan: %w", err)
		}
		if tech != nil {
			job.TechnicianID = *tech
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (r *Repository) SaveRoute(ctx context.Context, route *models.OptimizedRoute) error {
	stopsJSON, err := json.Marshal(route.Stops)
	if err != nil {
		return fmt.Errorf("repository.SaveRoute marshal stops: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO optimized_routes
				(id, company_id, technician_id, technician_name, route_date, stops,
				 total_distance_miles, total_travel_minutes, total_work_minutes,
				 estimated_completion, efficiency_score, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`
		_, err := tx.Exec(ctx, query,
			route.ID, route.CompanyID, route.TechnicianID, route.TechnicianName,
			route.RouteDate, stopsJSON,
			route.TotalDistanceMiles, route.TotalTravelTimeMinutes, route.TotalWorkTimeMinutes,
			route.EstimatedCompletionTime, route.EfficiencyScore, route.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("insert route: %w", err)
		}

		// Write the computed schedule back onto the job records.
		// Last-writer-wins by design: a re-run supersedes the prior route.
		for _, stop := range route.Stops {
			if stop.Location.JobID == "" {
				continue
			}
			_, err := tx.Exec(ctx, `
				UPDATE jobs
				SET scheduled_start = $1, scheduled_end = $2, route_sequence = $3,
				    technician_id = $4, updated_at = NOW()
				WHERE id = $5 AND company_id = $6`,
				stop.ArrivalTime, stop.DepartureTime, stop.SequenceNumber,
				route.TechnicianID, stop.Location.JobID, route.CompanyID,
			)
			if err != nil {
				return fmt.Errorf("update job %s: %w", stop.Location.JobID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repository.SaveRoute: %w", err)
	}
	return nil
}

func (r *Repository) RouteAnalytics(ctx context.Context, companyID string, start, end time.Time) ([]*models.TechnicianRouteStats, error) {
	query := `
		SELECT technician_id, technician_name,
		       COUNT(*) AS route_count,
		       COALESCE(SUM(jsonb_array_length(stops)), 0) AS total_stops,
		       COALESCE(AVG(efficiency_score), 0) AS avg_efficiency,
		       COALESCE(SUM(total_distance_miles), 0) AS total_distance,
		       COALESCE(SUM(total_travel_minutes), 0) AS total_travel
		FROM optimized_routes
		WHERE company_id = $1 AND route_date >= $2 AND route_date < $3
		GROUP BY technician_id, technician_name
		ORDER BY technician_name, technician_id`

	rows, err := r.db.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("repository.RouteAnalytics: %w", err)
	}
	defer rows.Close()

	var stats []*models.TechnicianRouteStats
	for rows.Next() {
		s := &models.TechnicianRouteStats{}
		err := rows.Scan(&s.TechnicianID, &s.TechnicianName, &s.RouteCount,
			&s.TotalStops, &s.AvgEfficiency, &s.TotalDistanceMiles, &s.TotalTravelMinutes)
		if err != nil {
			return nil, fmt.Errorf("repository.RouteAnalytics.Scan: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
