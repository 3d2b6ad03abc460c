package technicians

import (
	"context"
	"errors"
	"fmt"

	"fieldops-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface declares database operations for the technician roster.
type RepositoryInterface interface {
	// ListActive returns the company's active technicians ordered by name.
	ListActive(ctx context.Context, companyID string) ([]*models.Technician, error)
	// FindByID returns a technician scoped to the company.
	FindByID(ctx context.Context, companyID, technicianID string) (*models.Technician, error)
	// UpdateStatus sets the technician's roster status.
	UpdateStatus(ctx context.Context, companyID, technicianID, status string) error
}

// Repository implements RepositoryInterface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository instance.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) ListActive(ctx context.Context, companyID string) ([]*models.Technician, error) {
	query := `
		SELECT id, company_id, name, status, created_at, updated_at
		FROM technicians
		WHERE company_id = $1 AND status = 'active'
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListActive: %w", err)
	}
	defer rows.Close()

	var techs []*models.Technician
	for rows.Next() {
		t := &models.Technician{}
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListActive.Scan: %w", err)
		}
		techs = append(techs, t)
	}
	return techs, rows.Err()
}

func (r *Repository) FindByID(ctx context.Context, companyID, technicianID string) (*models.Technician, error) {
	query := `
		SELECT id, company_id, name, status, created_at, updated_at
		FROM technicians
		WHERE id = $1 AND company_id = $2`

	t := &models.Technician{}
	err := r.db.QueryRow(ctx, query, technicianID, companyID).
		Scan(&t.ID, &t.CompanyID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return t, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, companyID, technicianID, status string) error {
	query := `
		UPDATE technicians
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, status, technicianID, companyID)
	if err != nil {
		return fmt.Errorf("repository.UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
