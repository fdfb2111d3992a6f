package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the review state of a candidate's application.
type ApplicationStatus string

const (
	ApplicationStatusReceived     ApplicationStatus = "received"
	ApplicationStatusInReview     ApplicationStatus = "in_review"
	ApplicationStatusInterviewing ApplicationStatus = "interviewing"
	ApplicationStatusOffered      ApplicationStatus = "offered"
	ApplicationStatusRejected     ApplicationStatus = "rejected"
)

// IsValid reports whether s is one of the known application statuses.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusReceived, ApplicationStatusInReview,
		ApplicationStatusInterviewing, ApplicationStatusOffered,
		ApplicationStatusRejected:
		return true
	}
	return false
}

// Application represents a candidate's submission for a job posting.
// swagger:model Application
type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"job_id"`
	CandidateName  string            `json:"candidate_name"`
	CandidateEmail string            `json:"candidate_email"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewApplication returns a new Application in the received state.
func NewApplication(id, jobID, candidateName, candidateEmail string, createdAt, updatedAt time.Time) *Application {
	return &Application{
		ID:             id,
		JobID:          jobID,
		CandidateName:  candidateName,
		CandidateEmail: candidateEmail,
		Status:         ApplicationStatusReceived,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// ApplicationDisplayInfo holds the display fields denormalized onto an
// interview slot at occupation time.
type ApplicationDisplayInfo struct {
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	JobTitle       string `json:"job_title"`
}

// ApplicationRepository defines storage operations for applications. It is a
// superset of ApplicationResolver, so the repository can be handed to the
// scheduling engine directly.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByJobID(ctx context.Context, jobID string, p PaginationParams) ([]*Application, int, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, at time.Time) (*Application, error)
	// DisplayInfo returns candidate name, candidate email, and the title of
	// the job applied for. Returns ErrNotFound if the application is absent.
	DisplayInfo(ctx context.Context, id string) (*ApplicationDisplayInfo, error)
}

// ApplicationResolver confirms an application exists and supplies display
// fields. The scheduling engine consumes it during CreateSlot only.
type ApplicationResolver interface {
	Exists(ctx context.Context, applicationID string) (bool, error)
	DisplayInfo(ctx context.Context, applicationID string) (*ApplicationDisplayInfo, error)
}

// ApplicationService defines candidate application operations.
type ApplicationService interface {
	Create(ctx context.Context, jobID, candidateName, candidateEmail string) (*Application, error)
	GetByID(ctx context.Context, id string) (*Application, error)
	ListByJob(ctx context.Context, jobID string, p PaginationParams) ([]*Application, int, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) (*Application, error)
}
