package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"recruitdesk/internal/delivery/http/helpers"
	"recruitdesk/internal/domain"
)

// CreateJobRequest is the request body for POST /jobs.
type CreateJobRequest struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateJobRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Department) == "" {
		errs = append(errs, "department is required")
	}
	return errs
}

// JobSuccessResponse is the success response envelope for single-job operations.
type JobSuccessResponse struct {
	Data  *domain.JobPosting `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListJobsResponse is the data payload for GET /jobs.
type ListJobsResponse struct {
	Items      []*domain.JobPosting   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// JobController handles job posting endpoints.
type JobController struct {
	Logger  *slog.Logger
	Service domain.JobService
}

// NewJobController creates a JobController.
func NewJobController(logger *slog.Logger, svc domain.JobService) *JobController {
	return &JobController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateJob godoc
// @Summary Create a job posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateJobRequest true "Job posting data"
// @Success 201 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs [post]
func (c *JobController) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	job, err := c.Service.Create(r.Context(), req.Title, req.Department, req.Location, req.Description)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, job)
}

// GetJob godoc
// @Summary Get a job posting by ID
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job posting ID (UUID)"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/{jobID} [get]
func (c *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	if !uuidRegex.MatchString(jobID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid jobID")
		return
	}
	job, err := c.Service.GetByID(r.Context(), jobID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, job)
}

// ListJobs godoc
// @Summary List job postings
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs [get]
func (c *JobController) ListJobs(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	jobs, total, err := c.Service.List(r.Context(), p)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListJobsResponse{
		Items:      jobs,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// CloseJob godoc
// @Summary Close a job posting
// @Description Marks the posting closed. Closed jobs no longer accept applications.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job posting ID (UUID)"
// @Success 200 {object} controllers.JobSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/{jobID}/close [post]
func (c *JobController) CloseJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	if !uuidRegex.MatchString(jobID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid jobID")
		return
	}
	job, err := c.Service.Close(r.Context(), jobID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, job)
}

func (c *JobController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "job not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
