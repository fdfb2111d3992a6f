package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruitdesk/internal/domain"
)

type applicationRepository struct {
	DB *sql.DB
}

// NewApplicationRepository returns application storage backed by Postgres.
// It also serves as the application reference resolver consumed by the
// scheduling engine.
func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{DB: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, job_id, candidate_name, candidate_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, app.ID, app.JobID, app.CandidateName, app.CandidateEmail, app.Status, app.CreatedAt, app.UpdatedAt)
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `
		SELECT id, job_id, candidate_name, candidate_email, status, created_at, updated_at
		FROM applications
		WHERE id = $1
	`
	app := &domain.Application{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&app.ID, &app.JobID, &app.CandidateName, &app.CandidateEmail, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *applicationRepository) ListByJobID(ctx context.Context, jobID string, p domain.PaginationParams) ([]*domain.Application, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, job_id, candidate_name, candidate_email, status, created_at, updated_at
		FROM applications
		WHERE job_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, jobID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app := &domain.Application{}
		if err := rows.Scan(&app.ID, &app.JobID, &app.CandidateName, &app.CandidateEmail, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, rows.Err()
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, at time.Time) (*domain.Application, error) {
	query := `
		UPDATE applications
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, job_id, candidate_name, candidate_email, status, created_at, updated_at
	`
	app := &domain.Application{}
	err := r.DB.QueryRowContext(ctx, query, id, status, at).Scan(&app.ID, &app.JobID, &app.CandidateName, &app.CandidateEmail, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) DisplayInfo(ctx context.Context, id string) (*domain.ApplicationDisplayInfo, error) {
	query := `
		SELECT a.candidate_name, a.candidate_email, j.title
		FROM applications a
		INNER JOIN job_postings j ON j.id = a.job_id
		WHERE a.id = $1
	`
	info := &domain.ApplicationDisplayInfo{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&info.CandidateName, &info.CandidateEmail, &info.JobTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return info, nil
}
