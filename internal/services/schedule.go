package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"recruitdesk/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	timeLayoutShort = "15:04"
)

type scheduleService struct {
	slotRepo       domain.InterviewSlotRepository
	resolver       domain.ApplicationResolver
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewScheduleService creates the scheduling engine. emailService may be nil;
// candidate notifications are best-effort and never affect booking outcomes.
func NewScheduleService(
	slotRepo domain.InterviewSlotRepository,
	resolver domain.ApplicationResolver,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.ScheduleService {
	return &scheduleService{
		slotRepo:       slotRepo,
		resolver:       resolver,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// normalizeDate validates an ISO-8601 calendar date and returns it in
// canonical YYYY-MM-DD form.
func normalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, domain.ErrInvalidInput)
	}
	return t.Format(dateLayout), nil
}

// normalizeTime validates a time-of-day ("HH:MM" or "HH:MM:SS") and returns
// it in canonical HH:MM:SS form.
func normalizeTime(s string) (string, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.Format(timeLayout), nil
	}
	if t, err := time.Parse(timeLayoutShort, s); err == nil {
		return t.Format(timeLayout), nil
	}
	return "", fmt.Errorf("invalid time %q: %w", s, domain.ErrInvalidInput)
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *scheduleService) CreateSlot(ctx context.Context, in domain.CreateSlotInput) (*domain.InterviewSlot, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.ApplicationID == "" {
		return nil, false, fmt.Errorf("application_id is required: %w", domain.ErrInvalidInput)
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, false, err
	}
	tod, err := normalizeTime(in.Time)
	if err != nil {
		return nil, false, err
	}

	exists, err := s.resolver.Exists(ctx, in.ApplicationID)
	if err != nil {
		return nil, false, fmt.Errorf("resolve application: %w", err)
	}
	if !exists {
		return nil, false, domain.ErrNotFound
	}
	info, err := s.resolver.DisplayInfo(ctx, in.ApplicationID)
	if err != nil {
		return nil, false, fmt.Errorf("resolve application display info: %w", err)
	}

	candidateName := in.CandidateName
	if candidateName == "" {
		candidateName = info.CandidateName
	}
	jobTitle := in.JobTitle
	if jobTitle == "" {
		jobTitle = info.JobTitle
	}

	now := time.Now()
	appID := in.ApplicationID
	slot := &domain.InterviewSlot{
		ID:            uuid.NewString(),
		Date:          date,
		Time:          tod,
		Status:        domain.SlotStatusScheduled,
		IsAvailable:   false,
		ApplicationID: &appID,
		CandidateName: strPtrOrNil(candidateName),
		JobTitle:      strPtrOrNil(jobTitle),
		Location:      strPtrOrNil(in.Location),
		Notes:         strPtrOrNil(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	booked, created, err := s.slotRepo.Book(ctx, slot)
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			return nil, false, fmt.Errorf("%w at %s %s", domain.ErrSlotConflict, date, tod)
		}
		return nil, false, fmt.Errorf("book slot: %w", err)
	}

	if created && s.emailService != nil && info.CandidateEmail != "" {
		data := &domain.InterviewInvitationEmailData{
			Email:         info.CandidateEmail,
			CandidateName: candidateName,
			JobTitle:      jobTitle,
			Date:          booked.Date,
			Time:          booked.Time,
			Location:      in.Location,
		}
		// The booking is already durable; a failed notification must not
		// undo it.
		if err := s.emailService.SendInterviewInvitation(ctx, data); err != nil {
			log.Printf("[EMAIL] interview invitation to %s failed: %v", info.CandidateEmail, err)
		}
	}

	return booked, created, nil
}

func (s *scheduleService) UpdateSlot(ctx context.Context, slotID string, patch domain.SlotPatch) (*domain.InterviewSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("invalid status %q: %w", *patch.Status, domain.ErrInvalidInput)
		}
		// Cancellation always goes through CancelSlot so the capacity
		// release cannot be bypassed.
		if *patch.Status == domain.SlotStatusCancelled {
			return nil, fmt.Errorf("status cannot be set to cancelled via update: %w", domain.ErrInvalidInput)
		}
	}

	// Re-pointing the linkage only makes sense on an occupied row; writing
	// an application onto a released one would mark it both available and
	// linked. The replacement application must also exist.
	if patch.ApplicationID != nil {
		if !current.Occupied() {
			return nil, fmt.Errorf("cannot assign an application to an unoccupied slot: %w", domain.ErrInvalidInput)
		}
		if *patch.ApplicationID != *current.ApplicationID {
			exists, err := s.resolver.Exists(ctx, *patch.ApplicationID)
			if err != nil {
				return nil, fmt.Errorf("resolve application: %w", err)
			}
			if !exists {
				return nil, domain.ErrNotFound
			}
		}
	}

	newDate := current.Date
	if patch.Date != nil {
		if newDate, err = normalizeDate(*patch.Date); err != nil {
			return nil, err
		}
	}
	newTime := current.Time
	if patch.Time != nil {
		if newTime, err = normalizeTime(*patch.Time); err != nil {
			return nil, err
		}
	}

	if newDate == current.Date && newTime == current.Time {
		return s.updateInPlace(ctx, current, patch)
	}
	return s.relocate(ctx, current, patch, newDate, newTime)
}

// updateInPlace applies non-key fields directly to the same row.
func (s *scheduleService) updateInPlace(ctx context.Context, current *domain.InterviewSlot, patch domain.SlotPatch) (*domain.InterviewSlot, error) {
	updated := *current
	if patch.ApplicationID != nil {
		updated.ApplicationID = patch.ApplicationID
	}
	if patch.CandidateName != nil {
		updated.CandidateName = patch.CandidateName
	}
	if patch.JobTitle != nil {
		updated.JobTitle = patch.JobTitle
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.Location != nil {
		updated.Location = patch.Location
	}
	if patch.Notes != nil {
		updated.Notes = patch.Notes
	}
	updated.UpdatedAt = time.Now()

	slot, err := s.slotRepo.UpdateInPlace(ctx, &updated)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return slot, nil
}

// relocate moves the booking to (newDate, newTime): the current row is
// released and the target key acquired in a single store transaction, so a
// conflict at the target leaves the original booking untouched.
func (s *scheduleService) relocate(ctx context.Context, current *domain.InterviewSlot, patch domain.SlotPatch, newDate, newTime string) (*domain.InterviewSlot, error) {
	if !current.Occupied() {
		return nil, fmt.Errorf("cannot move an unoccupied slot: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	target := &domain.InterviewSlot{
		ID:            uuid.NewString(),
		Date:          newDate,
		Time:          newTime,
		Status:        domain.SlotStatusScheduled,
		IsAvailable:   false,
		ApplicationID: current.ApplicationID,
		CandidateName: current.CandidateName,
		JobTitle:      current.JobTitle,
		Location:      current.Location,
		Notes:         current.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if patch.ApplicationID != nil {
		target.ApplicationID = patch.ApplicationID
	}
	if patch.CandidateName != nil {
		target.CandidateName = patch.CandidateName
	}
	if patch.JobTitle != nil {
		target.JobTitle = patch.JobTitle
	}
	if patch.Location != nil {
		target.Location = patch.Location
	}
	if patch.Notes != nil {
		target.Notes = patch.Notes
	}

	moved, err := s.slotRepo.Relocate(ctx, current.ID, target)
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			return nil, fmt.Errorf("%w at %s %s", domain.ErrSlotConflict, newDate, newTime)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("relocate slot: %w", err)
	}
	return moved, nil
}

func (s *scheduleService) CancelSlot(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get slot: %w", err)
	}

	// Cancelling an already-cancelled slot is a no-op that still succeeds.
	if current.Status == domain.SlotStatusCancelled {
		return nil
	}

	// Capture notification data before the linkage is cleared.
	var notice *domain.InterviewCancellationEmailData
	if current.Occupied() && s.emailService != nil {
		if info, err := s.resolver.DisplayInfo(ctx, *current.ApplicationID); err == nil && info.CandidateEmail != "" {
			notice = &domain.InterviewCancellationEmailData{
				Email:         info.CandidateEmail,
				CandidateName: info.CandidateName,
				JobTitle:      info.JobTitle,
				Date:          current.Date,
				Time:          current.Time,
			}
		}
	}

	if err := s.slotRepo.Cancel(ctx, slotID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel slot: %w", err)
	}

	if notice != nil {
		if err := s.emailService.SendInterviewCancellation(ctx, notice); err != nil {
			log.Printf("[EMAIL] interview cancellation to %s failed: %v", notice.Email, err)
		}
	}
	return nil
}

func (s *scheduleService) ListSlots(ctx context.Context, filter domain.SlotFilter, p domain.PaginationParams) ([]*domain.InterviewSlot, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// filter is a value copy, but its date fields point into caller
	// memory; normalize into fresh strings rather than through them.
	if filter.DateFrom != nil {
		from, err := normalizeDate(*filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.DateFrom = &from
	}
	if filter.DateTo != nil {
		to, err := normalizeDate(*filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filter.DateTo = &to
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("invalid status %q: %w", *filter.Status, domain.ErrInvalidInput)
	}

	slots, total, err := s.slotRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	if slots == nil {
		slots = []*domain.InterviewSlot{}
	}
	return slots, total, nil
}

func (s *scheduleService) GetStatistics(ctx context.Context) (*domain.SlotStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stats, err := s.slotRepo.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("slot statistics: %w", err)
	}
	return stats, nil
}
