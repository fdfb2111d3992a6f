package domain

import (
	"context"
	"time"
)

// JobStatus is the publication state of a job posting.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// JobPosting represents an advertised position candidates apply for.
// swagger:model JobPosting
type JobPosting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewJobPosting returns a new open JobPosting.
func NewJobPosting(id, title, department, location, description string, createdAt, updatedAt time.Time) *JobPosting {
	return &JobPosting{
		ID:          id,
		Title:       title,
		Department:  department,
		Location:    location,
		Description: description,
		Status:      JobStatusOpen,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// JobRepository defines storage operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id string) (*JobPosting, error)
	List(ctx context.Context, p PaginationParams) ([]*JobPosting, int, error)
	Close(ctx context.Context, id string, at time.Time) (*JobPosting, error)
}

// JobService defines job posting operations.
type JobService interface {
	Create(ctx context.Context, title, department, location, description string) (*JobPosting, error)
	GetByID(ctx context.Context, id string) (*JobPosting, error)
	List(ctx context.Context, p PaginationParams) ([]*JobPosting, int, error)
	Close(ctx context.Context, id string) (*JobPosting, error)
}
