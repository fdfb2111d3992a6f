package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruitdesk/internal/domain"
)

var candidateEmailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type applicationService struct {
	appRepo        domain.ApplicationRepository
	jobRepo        domain.JobRepository
	contextTimeout time.Duration
}

// NewApplicationService creates an ApplicationService with the given repositories.
func NewApplicationService(appRepo domain.ApplicationRepository, jobRepo domain.JobRepository, timeout time.Duration) domain.ApplicationService {
	return &applicationService{
		appRepo:        appRepo,
		jobRepo:        jobRepo,
		contextTimeout: timeout,
	}
}

func (s *applicationService) Create(ctx context.Context, jobID, candidateName, candidateEmail string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	candidateName = strings.TrimSpace(candidateName)
	candidateEmail = strings.TrimSpace(strings.ToLower(candidateEmail))
	if candidateName == "" {
		return nil, fmt.Errorf("candidate_name is required: %w", domain.ErrInvalidInput)
	}
	if !candidateEmailRegexp.MatchString(candidateEmail) {
		return nil, fmt.Errorf("invalid candidate_email: %w", domain.ErrInvalidInput)
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job posting: %w", err)
	}
	if job.Status != domain.JobStatusOpen {
		return nil, fmt.Errorf("job posting is closed: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	app := domain.NewApplication(uuid.NewString(), jobID, candidateName, candidateEmail, now, now)
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

func (s *applicationService) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func (s *applicationService) ListByJob(ctx context.Context, jobID string, p domain.PaginationParams) ([]*domain.Application, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	apps, total, err := s.appRepo.ListByJobID(ctx, jobID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	return apps, total, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q: %w", status, domain.ErrInvalidInput)
	}
	app, err := s.appRepo.UpdateStatus(ctx, id, status, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return app, nil
}
