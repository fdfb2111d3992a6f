package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruitdesk/internal/domain"
)

type jobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &jobRepository{DB: db}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	query := `
		INSERT INTO job_postings (id, title, department, location, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.Title, job.Department, job.Location, job.Description, job.Status, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	query := `
		SELECT id, title, department, location, description, status, created_at, updated_at
		FROM job_postings
		WHERE id = $1
	`
	job := &domain.JobPosting{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&job.ID, &job.Title, &job.Department, &job.Location, &job.Description, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.JobPosting, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, department, location, description, status, created_at, updated_at
		FROM job_postings
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := make([]*domain.JobPosting, 0)
	for rows.Next() {
		job := &domain.JobPosting{}
		if err := rows.Scan(&job.ID, &job.Title, &job.Department, &job.Location, &job.Description, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepository) Close(ctx context.Context, id string, at time.Time) (*domain.JobPosting, error) {
	query := `
		UPDATE job_postings
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, title, department, location, description, status, created_at, updated_at
	`
	job := &domain.JobPosting{}
	err := r.DB.QueryRowContext(ctx, query, id, domain.JobStatusClosed, at).Scan(&job.ID, &job.Title, &job.Department, &job.Location, &job.Description, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}
