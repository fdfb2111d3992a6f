package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruitdesk/internal/domain"
)

type jobService struct {
	jobRepo        domain.JobRepository
	contextTimeout time.Duration
}

// NewJobService creates a JobService with the given repository.
func NewJobService(jobRepo domain.JobRepository, timeout time.Duration) domain.JobService {
	return &jobService{
		jobRepo:        jobRepo,
		contextTimeout: timeout,
	}
}

func (s *jobService) Create(ctx context.Context, title, department, location, description string) (*domain.JobPosting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	job := domain.NewJobPosting(uuid.NewString(), title, strings.TrimSpace(department), strings.TrimSpace(location), description, now, now)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job posting: %w", err)
	}
	return job, nil
}

func (s *jobService) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job posting: %w", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.JobPosting, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	jobs, total, err := s.jobRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list job postings: %w", err)
	}
	if jobs == nil {
		jobs = []*domain.JobPosting{}
	}
	return jobs, total, nil
}

func (s *jobService) Close(ctx context.Context, id string) (*domain.JobPosting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	job, err := s.jobRepo.Close(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("close job posting: %w", err)
	}
	return job, nil
}
