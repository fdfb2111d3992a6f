package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"recruitdesk/internal/delivery/http/helpers"
	"recruitdesk/internal/domain"
)

// CreateApplicationRequest is the request body for POST /applications.
type CreateApplicationRequest struct {
	JobID          string `json:"job_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
}

// Validate implements Validator.
func (c CreateApplicationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.JobID) == "" {
		errs = append(errs, "job_id is required")
	} else if !uuidRegex.MatchString(c.JobID) {
		errs = append(errs, "invalid job_id")
	}
	if strings.TrimSpace(c.CandidateName) == "" {
		errs = append(errs, "candidate_name is required")
	}
	if _, err := mail.ParseAddress(c.CandidateEmail); err != nil {
		errs = append(errs, "invalid candidate_email")
	}
	return errs
}

// UpdateApplicationStatusRequest is the request body for PATCH /applications/{applicationID}/status.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (u UpdateApplicationStatusRequest) Validate() []string {
	if !domain.ApplicationStatus(u.Status).IsValid() {
		return []string{"invalid status"}
	}
	return nil
}

// ApplicationSuccessResponse is the success response envelope for single-application operations.
type ApplicationSuccessResponse struct {
	Data  *domain.Application `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListApplicationsResponse is the data payload for GET /jobs/{jobID}/applications.
type ListApplicationsResponse struct {
	Items      []*domain.Application  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ApplicationController handles candidate application endpoints.
type ApplicationController struct {
	Logger  *slog.Logger
	Service domain.ApplicationService
}

// NewApplicationController creates an ApplicationController.
func NewApplicationController(logger *slog.Logger, svc domain.ApplicationService) *ApplicationController {
	return &ApplicationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateApplication godoc
// @Summary Submit a candidate application
// @Description Creates an application for an open job posting.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateApplicationRequest true "Application data"
// @Success 201 {object} controllers.ApplicationSuccessResponse "data contains the created application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (job is closed)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (job does not exist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications [post]
func (c *ApplicationController) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	app, err := c.Service.Create(r.Context(), req.JobID, req.CandidateName, req.CandidateEmail)
	if err != nil {
		c.writeError(w, r, err, "job not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// GetApplication godoc
// @Summary Get an application by ID
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/{applicationID} [get]
func (c *ApplicationController) GetApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := r.PathValue("applicationID")
	if !uuidRegex.MatchString(applicationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid applicationID")
		return
	}
	app, err := c.Service.GetByID(r.Context(), applicationID)
	if err != nil {
		c.writeError(w, r, err, "application not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

// ListJobApplications godoc
// @Summary List applications for a job
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Job posting ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/{jobID}/applications [get]
func (c *ApplicationController) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	if !uuidRegex.MatchString(jobID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid jobID")
		return
	}
	p := helpers.ParsePagination(r)
	apps, total, err := c.Service.ListByJob(r.Context(), jobID, p)
	if err != nil {
		c.writeError(w, r, err, "job not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListApplicationsResponse{
		Items:      apps,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// UpdateApplicationStatus godoc
// @Summary Update an application's pipeline status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Param body body UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} controllers.ApplicationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications/{applicationID}/status [patch]
func (c *ApplicationController) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	applicationID := r.PathValue("applicationID")
	if !uuidRegex.MatchString(applicationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid applicationID")
		return
	}
	var req UpdateApplicationStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	app, err := c.Service.UpdateStatus(r.Context(), applicationID, domain.ApplicationStatus(req.Status))
	if err != nil {
		c.writeError(w, r, err, "application not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}

func (c *ApplicationController) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
