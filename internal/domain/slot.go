package domain

import (
	"context"
	"time"
)

// SlotStatus is the lifecycle state of an interview slot.
type SlotStatus string

const (
	SlotStatusScheduled SlotStatus = "scheduled"
	SlotStatusCompleted SlotStatus = "completed"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// IsValid reports whether s is one of the known slot statuses.
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusScheduled, SlotStatusCompleted, SlotStatusCancelled:
		return true
	}
	return false
}

// InterviewSlot is one row of bookable calendar capacity, identified by its
// (date, time) pair. An occupied slot (is_available = false) always carries a
// non-nil application_id; an available slot never does. Cancelled slots are
// retained for history and behave like free capacity.
// swagger:model InterviewSlot
type InterviewSlot struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"` // ISO-8601 date, e.g. "2025-10-15"
	Time          string     `json:"time"` // "HH:MM:SS"
	Status        SlotStatus `json:"status"`
	IsAvailable   bool       `json:"is_available"`
	ApplicationID *string    `json:"application_id"`
	CandidateName *string    `json:"candidate_name"`
	JobTitle      *string    `json:"job_title"`
	Location      *string    `json:"location"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Occupied reports whether the slot is bound to an active booking.
func (s *InterviewSlot) Occupied() bool {
	return !s.IsAvailable && s.ApplicationID != nil
}

// SlotPatch is a partial update for UpdateSlot. Nil fields are left unchanged.
// Setting Date or Time relocates the slot to a new (date, time) key.
type SlotPatch struct {
	Date          *string     `json:"date"`
	Time          *string     `json:"time"`
	ApplicationID *string     `json:"application_id"`
	CandidateName *string     `json:"candidate_name"`
	JobTitle      *string     `json:"job_title"`
	Status        *SlotStatus `json:"status"`
	Location      *string     `json:"location"`
	Notes         *string     `json:"notes"`
}

// SlotFilter narrows ListSlots results. Nil fields are not applied.
// DateFrom/DateTo are inclusive bounds over the ISO date string.
type SlotFilter struct {
	ApplicationID *string
	Status        *SlotStatus
	IsAvailable   *bool
	DateFrom      *string
	DateTo        *string
}

// SlotStatistics aggregates bookings (rows with is_available = false),
// grouped by status.
type SlotStatistics struct {
	Total    int                `json:"total"`
	ByStatus map[SlotStatus]int `json:"by_status"`
}

// CreateSlotInput carries the caller-supplied fields for CreateSlot.
// CandidateName and JobTitle are optional overrides; when empty the values
// come from the application resolver.
type CreateSlotInput struct {
	Date          string
	Time          string
	ApplicationID string
	CandidateName string
	JobTitle      string
	Location      string
	Notes         string
}

// InterviewSlotRepository is the slot store. It owns durability and the
// uniqueness guarantee for occupied slots: at most one row per (date, time)
// may have is_available = false, enforced by a partial unique index. Book and
// Relocate are each one atomic transaction; no partial state is ever visible.
type InterviewSlotRepository interface {
	GetByID(ctx context.Context, id string) (*InterviewSlot, error)

	// Book creates or reuses the row at (slot.Date, slot.Time) and occupies
	// it with slot's fields, all inside one transaction. If the row is
	// already occupied by the same application, the existing row is
	// returned unchanged with created = false (idempotent re-submission).
	// If it is occupied by a different application, Book returns
	// ErrSlotConflict and mutates nothing. created is true whenever a new
	// booking was made, whether by inserting a row or by occupying a
	// previously released one.
	Book(ctx context.Context, slot *InterviewSlot) (booked *InterviewSlot, created bool, err error)

	// Relocate releases the row identified by slotID and occupies target's
	// (Date, Time) with target's fields, both in one transaction. When the
	// target key is held by a different application the whole transaction
	// is rolled back, leaving the original row untouched, and
	// ErrSlotConflict is returned.
	Relocate(ctx context.Context, slotID string, target *InterviewSlot) (*InterviewSlot, error)

	// UpdateInPlace persists an edit that does not change (date, time).
	UpdateInPlace(ctx context.Context, slot *InterviewSlot) (*InterviewSlot, error)

	// Cancel releases the slot: status = cancelled, is_available = true,
	// application linkage and display fields cleared. Idempotent.
	Cancel(ctx context.Context, id string, at time.Time) error

	List(ctx context.Context, filter SlotFilter, p PaginationParams) ([]*InterviewSlot, int, error)
	Statistics(ctx context.Context) (*SlotStatistics, error)
}

// ScheduleService is the interview slot scheduling engine. It is the sole
// writer of slot state transitions.
type ScheduleService interface {
	// CreateSlot books an interview for an application at (date, time).
	// created is false when the call was an idempotent re-submission.
	CreateSlot(ctx context.Context, in CreateSlotInput) (slot *InterviewSlot, created bool, err error)

	// UpdateSlot applies a partial update. Changing date or time is a
	// relocation: the old key is released and the new one acquired with
	// all-or-nothing semantics.
	UpdateSlot(ctx context.Context, slotID string, patch SlotPatch) (*InterviewSlot, error)

	// CancelSlot soft-deletes the slot, fully releasing its capacity.
	CancelSlot(ctx context.Context, slotID string) error

	ListSlots(ctx context.Context, filter SlotFilter, p PaginationParams) ([]*InterviewSlot, int, error)
	GetStatistics(ctx context.Context) (*SlotStatistics, error)
}
