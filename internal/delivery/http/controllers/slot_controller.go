package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"recruitdesk/internal/delivery/http/helpers"
	"recruitdesk/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CreateSlotRequest is the request body for POST /interview-slots.
type CreateSlotRequest struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	ApplicationID string `json:"application_id"`
	CandidateName string `json:"candidate_name"`
	JobTitle      string `json:"job_title"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
}

// Validate implements Validator. Date/time format is checked again by the
// engine; here we only enforce presence and the obvious shape.
func (c CreateSlotRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(c.Time) == "" {
		errs = append(errs, "time is required")
	}
	if strings.TrimSpace(c.ApplicationID) == "" {
		errs = append(errs, "application_id is required")
	} else if !uuidRegex.MatchString(c.ApplicationID) {
		errs = append(errs, "invalid application_id")
	}
	return errs
}

// UpdateSlotRequest is the request body for PATCH /interview-slots/{slotID}.
// All fields are optional; changing date or time moves the interview.
type UpdateSlotRequest struct {
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	ApplicationID *string `json:"application_id"`
	CandidateName *string `json:"candidate_name"`
	JobTitle      *string `json:"job_title"`
	Status        *string `json:"status"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`
}

// Validate implements Validator.
func (u UpdateSlotRequest) Validate() []string {
	var errs []string
	if u.ApplicationID != nil && !uuidRegex.MatchString(*u.ApplicationID) {
		errs = append(errs, "invalid application_id")
	}
	if u.Date != nil && strings.TrimSpace(*u.Date) == "" {
		errs = append(errs, "date cannot be empty")
	}
	if u.Time != nil && strings.TrimSpace(*u.Time) == "" {
		errs = append(errs, "time cannot be empty")
	}
	return errs
}

// SlotSuccessResponse is the success response envelope for single-slot
// operations (200 or 201).
type SlotSuccessResponse struct {
	Data  *domain.InterviewSlot `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListSlotsResponse is the data payload for GET /interview-slots.
type ListSlotsResponse struct {
	Items      []*domain.InterviewSlot `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// SlotStatisticsSuccessResponse is the success response envelope for GET /interview-slots/statistics (200).
type SlotStatisticsSuccessResponse struct {
	Data  *domain.SlotStatistics `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// SlotController handles interview slot scheduling endpoints.
type SlotController struct {
	Logger  *slog.Logger
	Service domain.ScheduleService
}

// NewSlotController creates a SlotController with the given logger and engine.
func NewSlotController(logger *slog.Logger, svc domain.ScheduleService) *SlotController {
	return &SlotController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSlot godoc
// @Summary Book an interview slot
// @Description Books an interview for an application at (date, time). Reuses a previously released row at the same key when one exists. Idempotent: re-submitting the same application for the same slot returns 200 with the existing slot.
// @Tags interview-slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSlotRequest true "Slot data"
// @Success 200 {object} controllers.SlotSuccessResponse "Already booked by this application"
// @Success 201 {object} controllers.SlotSuccessResponse "New booking created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (application does not exist)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot already occupied)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interview-slots [post]
func (c *SlotController) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	slot, created, err := c.Service.CreateSlot(r.Context(), domain.CreateSlotInput{
		Date:          req.Date,
		Time:          req.Time,
		ApplicationID: req.ApplicationID,
		CandidateName: req.CandidateName,
		JobTitle:      req.JobTitle,
		Location:      req.Location,
		Notes:         req.Notes,
	})
	if err != nil {
		c.writeSlotError(w, r, err, "application not found")
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, slot)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// UpdateSlot godoc
// @Summary Update an interview slot
// @Description Applies a partial update to the slot. Changing date or time is a relocation: the old key is released and the new one acquired atomically; on conflict the original booking is left untouched.
// @Tags interview-slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID (UUID)"
// @Param body body UpdateSlotRequest true "Fields to update"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (target slot occupied by another candidature)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interview-slots/{slotID} [patch]
func (c *SlotController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if !uuidRegex.MatchString(slotID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid slotID")
		return
	}
	var req UpdateSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	patch := domain.SlotPatch{
		Date:          req.Date,
		Time:          req.Time,
		ApplicationID: req.ApplicationID,
		CandidateName: req.CandidateName,
		JobTitle:      req.JobTitle,
		Location:      req.Location,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		status := domain.SlotStatus(*req.Status)
		patch.Status = &status
	}

	slot, err := c.Service.UpdateSlot(r.Context(), slotID, patch)
	if err != nil {
		c.writeSlotError(w, r, err, "slot not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// CancelSlot godoc
// @Summary Cancel an interview slot
// @Description Soft-deletes the slot: status becomes cancelled, capacity is released, and the application linkage is cleared. The row is retained for history. Cancelling an already-cancelled slot succeeds.
// @Tags interview-slots
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains {cancelled: true}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interview-slots/{slotID} [delete]
func (c *SlotController) CancelSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if !uuidRegex.MatchString(slotID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid slotID")
		return
	}
	if err := c.Service.CancelSlot(r.Context(), slotID); err != nil {
		c.writeSlotError(w, r, err, "slot not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// ListSlots godoc
// @Summary List interview slots
// @Description Lists slots ordered by date then time. Optional filters: application_id, status, is_available, date_from, date_to (inclusive ISO dates). Requesting is_available=false returns only slots with an application linked.
// @Tags interview-slots
// @Produce json
// @Security BearerAuth
// @Param application_id query string false "Filter by application ID"
// @Param status query string false "Filter by status (scheduled|completed|cancelled)"
// @Param is_available query boolean false "Filter by availability"
// @Param date_from query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param date_to query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interview-slots [get]
func (c *SlotController) ListSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.SlotFilter
	if v := q.Get("application_id"); v != "" {
		filter.ApplicationID = &v
	}
	if v := q.Get("status"); v != "" {
		status := domain.SlotStatus(v)
		filter.Status = &status
	}
	if v := q.Get("is_available"); v != "" {
		switch v {
		case "true":
			b := true
			filter.IsAvailable = &b
		case "false":
			b := false
			filter.IsAvailable = &b
		default:
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "is_available must be true or false")
			return
		}
	}
	if v := q.Get("date_from"); v != "" {
		filter.DateFrom = &v
	}
	if v := q.Get("date_to"); v != "" {
		filter.DateTo = &v
	}

	p := helpers.ParsePagination(r)
	slots, total, err := c.Service.ListSlots(r.Context(), filter, p)
	if err != nil {
		c.writeSlotError(w, r, err, "slot not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSlotsResponse{
		Items:      slots,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// GetStatistics godoc
// @Summary Interview slot statistics
// @Description Counts bookings (rows with is_available=false) grouped by status.
// @Tags interview-slots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SlotStatisticsSuccessResponse "data contains total and by_status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interview-slots/statistics [get]
func (c *SlotController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.GetStatistics(r.Context())
	if err != nil {
		c.writeSlotError(w, r, err, "slot not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// writeSlotError maps engine errors onto the API error envelope.
func (c *SlotController) writeSlotError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrSlotConflict):
		// The engine names the contested (date, time) so the caller can
		// pick another position.
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
