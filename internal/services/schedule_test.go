package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/domain"
)

// fakeSlotRepo is an in-memory InterviewSlotRepository for tests. It keeps
// the same guarantees as the Postgres store: one occupied row per
// (date, time), released rows reusable, relocation all-or-nothing.
type fakeSlotRepo struct {
	byID  map[string]*domain.InterviewSlot
	byKey map[string]*domain.InterviewSlot

	bookErr    error // if set, Book returns this error
	listErr    error
	lastFilter domain.SlotFilter
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		byID:  make(map[string]*domain.InterviewSlot),
		byKey: make(map[string]*domain.InterviewSlot),
	}
}

func slotKey(date, tod string) string { return date + "T" + tod }

func copySlot(s *domain.InterviewSlot) *domain.InterviewSlot {
	c := *s
	return &c
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	if s, ok := f.byID[id]; ok {
		return copySlot(s), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSlotRepo) Book(ctx context.Context, slot *domain.InterviewSlot) (*domain.InterviewSlot, bool, error) {
	if f.bookErr != nil {
		return nil, false, f.bookErr
	}
	key := slotKey(slot.Date, slot.Time)
	existing, ok := f.byKey[key]
	if !ok {
		stored := copySlot(slot)
		f.byID[stored.ID] = stored
		f.byKey[key] = stored
		return copySlot(stored), true, nil
	}
	if existing.IsAvailable {
		// Reuse the released row; it keeps its id and created_at.
		existing.Status = slot.Status
		existing.IsAvailable = false
		existing.ApplicationID = slot.ApplicationID
		existing.CandidateName = slot.CandidateName
		existing.JobTitle = slot.JobTitle
		existing.Location = slot.Location
		existing.Notes = slot.Notes
		existing.UpdatedAt = slot.UpdatedAt
		return copySlot(existing), true, nil
	}
	if existing.ApplicationID != nil && slot.ApplicationID != nil && *existing.ApplicationID == *slot.ApplicationID {
		return copySlot(existing), false, nil
	}
	return nil, false, domain.ErrSlotConflict
}

func (f *fakeSlotRepo) Relocate(ctx context.Context, slotID string, target *domain.InterviewSlot) (*domain.InterviewSlot, error) {
	origin, ok := f.byID[slotID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if existing, ok := f.byKey[slotKey(target.Date, target.Time)]; ok && !existing.IsAvailable {
		if existing.ApplicationID == nil || target.ApplicationID == nil || *existing.ApplicationID != *target.ApplicationID {
			// Conflict: the origin row must stay untouched.
			return nil, domain.ErrSlotConflict
		}
	}
	f.release(origin, "released during move", target.UpdatedAt)
	moved, _, err := f.Book(ctx, target)
	return moved, err
}

func (f *fakeSlotRepo) release(s *domain.InterviewSlot, notes string, at time.Time) {
	s.Status = domain.SlotStatusCancelled
	s.IsAvailable = true
	s.ApplicationID = nil
	s.CandidateName = nil
	s.JobTitle = nil
	s.Notes = &notes
	s.UpdatedAt = at
}

func (f *fakeSlotRepo) UpdateInPlace(ctx context.Context, slot *domain.InterviewSlot) (*domain.InterviewSlot, error) {
	stored, ok := f.byID[slot.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Same rule as the schema's CHECK: a row is available exactly when it
	// has no application linked.
	if slot.IsAvailable != (slot.ApplicationID == nil) {
		return nil, errors.New("pq: new row violates check constraint on interview_slots")
	}
	stored.Status = slot.Status
	stored.ApplicationID = slot.ApplicationID
	stored.CandidateName = slot.CandidateName
	stored.JobTitle = slot.JobTitle
	stored.Location = slot.Location
	stored.Notes = slot.Notes
	stored.UpdatedAt = slot.UpdatedAt
	return copySlot(stored), nil
}

func (f *fakeSlotRepo) Cancel(ctx context.Context, id string, at time.Time) error {
	stored, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.release(stored, "cancelled", at)
	return nil
}

func (f *fakeSlotRepo) List(ctx context.Context, filter domain.SlotFilter, p domain.PaginationParams) ([]*domain.InterviewSlot, int, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []*domain.InterviewSlot
	for _, s := range f.byID {
		if filter.ApplicationID != nil && (s.ApplicationID == nil || *s.ApplicationID != *filter.ApplicationID) {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.IsAvailable != nil && s.IsAvailable != *filter.IsAvailable {
			continue
		}
		if filter.DateFrom != nil && s.Date < *filter.DateFrom {
			continue
		}
		if filter.DateTo != nil && s.Date > *filter.DateTo {
			continue
		}
		out = append(out, copySlot(s))
	}
	return out, len(out), nil
}

func (f *fakeSlotRepo) Statistics(ctx context.Context) (*domain.SlotStatistics, error) {
	stats := &domain.SlotStatistics{ByStatus: make(map[domain.SlotStatus]int)}
	for _, s := range f.byID {
		if s.IsAvailable {
			continue
		}
		stats.ByStatus[s.Status]++
		stats.Total++
	}
	return stats, nil
}

// fakeResolver is an in-memory ApplicationResolver.
type fakeResolver struct {
	apps map[string]domain.ApplicationDisplayInfo
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{apps: make(map[string]domain.ApplicationDisplayInfo)}
}

func (f *fakeResolver) add(id string, info domain.ApplicationDisplayInfo) {
	f.apps[id] = info
}

func (f *fakeResolver) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.apps[id]
	return ok, nil
}

func (f *fakeResolver) DisplayInfo(ctx context.Context, id string) (*domain.ApplicationDisplayInfo, error) {
	info, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

// fakeEmailService records sends; err makes every send fail.
type fakeEmailService struct {
	invitations   []*domain.InterviewInvitationEmailData
	cancellations []*domain.InterviewCancellationEmailData
	err           error
}

func (f *fakeEmailService) SendInterviewInvitation(ctx context.Context, data *domain.InterviewInvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendInterviewCancellation(ctx context.Context, data *domain.InterviewCancellationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.cancellations = append(f.cancellations, data)
	return nil
}

const testAppID = "11111111-1111-1111-1111-111111111111"

func newTestEngine() (domain.ScheduleService, *fakeSlotRepo, *fakeResolver, *fakeEmailService) {
	repo := newFakeSlotRepo()
	resolver := newFakeResolver()
	resolver.add(testAppID, domain.ApplicationDisplayInfo{
		CandidateName:  "Ada Lovelace",
		CandidateEmail: "ada@example.com",
		JobTitle:       "Backend Engineer",
	})
	emails := &fakeEmailService{}
	svc := NewScheduleService(repo, resolver, emails, 2*time.Second)
	return svc, repo, resolver, emails
}

func TestCreateSlot_NewBooking(t *testing.T) {
	svc, _, _, emails := newTestEngine()

	slot, created, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date:          "2026-09-15",
		Time:          "14:30",
		ApplicationID: testAppID,
		Location:      "Room 2B",
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, slot)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, "2026-09-15", slot.Date)
	assert.Equal(t, "14:30:00", slot.Time, "short time should be normalized")
	assert.Equal(t, domain.SlotStatusScheduled, slot.Status)
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.ApplicationID)
	assert.Equal(t, testAppID, *slot.ApplicationID)
	// Display fields come from the application when not supplied.
	require.NotNil(t, slot.CandidateName)
	assert.Equal(t, "Ada Lovelace", *slot.CandidateName)
	require.NotNil(t, slot.JobTitle)
	assert.Equal(t, "Backend Engineer", *slot.JobTitle)

	require.Len(t, emails.invitations, 1)
	assert.Equal(t, "ada@example.com", emails.invitations[0].Email)
	assert.Equal(t, "2026-09-15", emails.invitations[0].Date)
}

func TestCreateSlot_IdempotentResubmission(t *testing.T) {
	svc, _, _, emails := newTestEngine()
	in := domain.CreateSlotInput{Date: "2026-09-15", Time: "14:30:00", ApplicationID: testAppID}

	first, created, err := svc.CreateSlot(context.Background(), in)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.CreateSlot(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// Only the first booking notifies the candidate.
	assert.Len(t, emails.invitations, 1)
}

func TestCreateSlot_Conflict(t *testing.T) {
	svc, _, resolver, _ := newTestEngine()
	otherApp := "22222222-2222-2222-2222-222222222222"
	resolver.add(otherApp, domain.ApplicationDisplayInfo{
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		JobTitle:       "Backend Engineer",
	})

	_, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	_, _, err = svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: otherApp,
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	// The error names the contested position so the caller can pick another.
	assert.ErrorContains(t, err, "2026-09-15 14:30:00")
}

func TestCreateSlot_ReusesReleasedSlot(t *testing.T) {
	svc, repo, resolver, _ := newTestEngine()
	otherApp := "22222222-2222-2222-2222-222222222222"
	resolver.add(otherApp, domain.ApplicationDisplayInfo{
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		JobTitle:       "Platform Engineer",
	})

	first, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelSlot(context.Background(), first.ID))

	// The released calendar position can be booked again.
	rebooked, created, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: otherApp,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, rebooked.ID, "released row is reused, not duplicated")
	require.NotNil(t, rebooked.ApplicationID)
	assert.Equal(t, otherApp, *rebooked.ApplicationID)
	assert.Equal(t, domain.SlotStatusScheduled, rebooked.Status)
	assert.Len(t, repo.byID, 1)
}

func TestCreateSlot_ApplicationNotFound(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	_, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30",
		ApplicationID: "99999999-9999-9999-9999-999999999999",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSlot_InvalidInput(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	tests := []struct {
		name string
		in   domain.CreateSlotInput
	}{
		{"missing application", domain.CreateSlotInput{Date: "2026-09-15", Time: "14:30"}},
		{"bad date", domain.CreateSlotInput{Date: "15/09/2026", Time: "14:30", ApplicationID: testAppID}},
		{"impossible date", domain.CreateSlotInput{Date: "2026-02-30", Time: "14:30", ApplicationID: testAppID}},
		{"bad time", domain.CreateSlotInput{Date: "2026-09-15", Time: "2pm", ApplicationID: testAppID}},
		{"out of range time", domain.CreateSlotInput{Date: "2026-09-15", Time: "25:00", ApplicationID: testAppID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateSlot(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateSlot_EmailFailureDoesNotUndoBooking(t *testing.T) {
	svc, repo, _, emails := newTestEngine()
	emails.err = errors.New("ses unavailable")

	slot, created, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	stored, err := repo.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}

func TestUpdateSlot_InPlace(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	location := "Room 4A"
	notes := "bring portfolio"
	updated, err := svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{
		Location: &location,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, slot.ID, updated.ID)
	assert.Equal(t, slot.Date, updated.Date)
	assert.Equal(t, slot.Time, updated.Time)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Room 4A", *updated.Location)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "bring portfolio", *updated.Notes)
}

func TestUpdateSlot_MarkCompleted(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	completed := domain.SlotStatusCompleted
	updated, err := svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusCompleted, updated.Status)
	assert.False(t, updated.IsAvailable, "completing must not release the slot")
}

func TestUpdateSlot_CancelledStatusRejected(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	cancelled := domain.SlotStatusCancelled
	_, err = svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{Status: &cancelled})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSlot_AssignApplicationToUnoccupiedSlotRejected(t *testing.T) {
	svc, repo, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelSlot(context.Background(), slot.ID))

	appID := testAppID
	_, err = svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{ApplicationID: &appID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The released row is untouched: still available, still unlinked.
	stored, err := repo.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)
	assert.Nil(t, stored.ApplicationID)
}

func TestUpdateSlot_RepointToAnotherApplication(t *testing.T) {
	svc, _, resolver, _ := newTestEngine()
	otherApp := "22222222-2222-2222-2222-222222222222"
	resolver.add(otherApp, domain.ApplicationDisplayInfo{
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		JobTitle:       "Backend Engineer",
	})

	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{ApplicationID: &otherApp})
	require.NoError(t, err)
	require.NotNil(t, updated.ApplicationID)
	assert.Equal(t, otherApp, *updated.ApplicationID)
	assert.False(t, updated.IsAvailable)
}

func TestUpdateSlot_RepointToUnknownApplication(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	unknown := "99999999-9999-9999-9999-999999999999"
	_, err = svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{ApplicationID: &unknown})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSlot_Relocation(t *testing.T) {
	svc, repo, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID, Location: "Room 2B",
	})
	require.NoError(t, err)

	newDate := "2026-09-16"
	newTime := "10:00"
	moved, err := svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{
		Date: &newDate,
		Time: &newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-16", moved.Date)
	assert.Equal(t, "10:00:00", moved.Time)
	assert.NotEqual(t, slot.ID, moved.ID)
	require.NotNil(t, moved.ApplicationID)
	assert.Equal(t, testAppID, *moved.ApplicationID)
	// Untouched fields carry over to the new position.
	require.NotNil(t, moved.Location)
	assert.Equal(t, "Room 2B", *moved.Location)

	// The original position is released, not deleted.
	origin, err := repo.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.True(t, origin.IsAvailable)
	assert.Equal(t, domain.SlotStatusCancelled, origin.Status)
	assert.Nil(t, origin.ApplicationID)
}

func TestUpdateSlot_RelocationConflictLeavesOriginIntact(t *testing.T) {
	svc, repo, resolver, _ := newTestEngine()
	otherApp := "22222222-2222-2222-2222-222222222222"
	resolver.add(otherApp, domain.ApplicationDisplayInfo{
		CandidateName:  "Grace Hopper",
		CandidateEmail: "grace@example.com",
		JobTitle:       "Backend Engineer",
	})

	mine, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	_, _, err = svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-16", Time: "10:00", ApplicationID: otherApp,
	})
	require.NoError(t, err)

	newDate := "2026-09-16"
	newTime := "10:00"
	_, err = svc.UpdateSlot(context.Background(), mine.ID, domain.SlotPatch{
		Date: &newDate,
		Time: &newTime,
	})
	require.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.ErrorContains(t, err, "2026-09-16 10:00:00")

	origin, err := repo.GetByID(context.Background(), mine.ID)
	require.NoError(t, err)
	assert.False(t, origin.IsAvailable, "failed move must not release the origin")
	assert.Equal(t, domain.SlotStatusScheduled, origin.Status)
	require.NotNil(t, origin.ApplicationID)
	assert.Equal(t, testAppID, *origin.ApplicationID)
}

func TestUpdateSlot_RelocatingUnoccupiedSlotRejected(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelSlot(context.Background(), slot.ID))

	newDate := "2026-09-16"
	_, err = svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{Date: &newDate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSlot_NotFound(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	notes := "x"
	_, err := svc.UpdateSlot(context.Background(), "33333333-3333-3333-3333-333333333333", domain.SlotPatch{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelSlot(t *testing.T) {
	svc, repo, _, emails := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelSlot(context.Background(), slot.ID))

	stored, err := repo.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusCancelled, stored.Status)
	assert.True(t, stored.IsAvailable)
	assert.Nil(t, stored.ApplicationID)
	assert.Nil(t, stored.CandidateName)

	require.Len(t, emails.cancellations, 1)
	assert.Equal(t, "ada@example.com", emails.cancellations[0].Email)
	assert.Equal(t, "2026-09-15", emails.cancellations[0].Date)
}

func TestCancelSlot_AlreadyCancelled(t *testing.T) {
	svc, _, _, emails := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "14:30", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelSlot(context.Background(), slot.ID))
	require.NoError(t, svc.CancelSlot(context.Background(), slot.ID))
	assert.Len(t, emails.cancellations, 1, "repeat cancel is a no-op")
}

func TestCancelSlot_NotFound(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	err := svc.CancelSlot(context.Background(), "33333333-3333-3333-3333-333333333333")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSlots(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	for _, tod := range []string{"09:00", "10:00", "11:00"} {
		_, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
			Date: "2026-09-15", Time: tod, ApplicationID: testAppID,
		})
		require.NoError(t, err)
	}

	slots, total, err := svc.ListSlots(context.Background(), domain.SlotFilter{}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, slots, 3)

	appID := testAppID
	slots, total, err = svc.ListSlots(context.Background(), domain.SlotFilter{ApplicationID: &appID}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, slots, 3)
}

func TestListSlots_InvalidFilter(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	badDate := "not-a-date"
	_, _, err := svc.ListSlots(context.Background(), domain.SlotFilter{DateFrom: &badDate}, domain.PaginationParams{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badStatus := domain.SlotStatus("archived")
	_, _, err = svc.ListSlots(context.Background(), domain.SlotFilter{Status: &badStatus}, domain.PaginationParams{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListSlots_DoesNotMutateCallerFilter(t *testing.T) {
	svc, repo, _, _ := newTestEngine()

	from := "2026-09-01"
	to := "2026-09-30"
	_, _, err := svc.ListSlots(context.Background(), domain.SlotFilter{DateFrom: &from, DateTo: &to}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)

	// Canonicalization happens into fresh strings on the way to the store;
	// the caller's filter is never written through.
	require.NotNil(t, repo.lastFilter.DateFrom)
	assert.Equal(t, "2026-09-01", *repo.lastFilter.DateFrom)
	assert.NotSame(t, &from, repo.lastFilter.DateFrom)
	require.NotNil(t, repo.lastFilter.DateTo)
	assert.Equal(t, "2026-09-30", *repo.lastFilter.DateTo)
	assert.NotSame(t, &to, repo.lastFilter.DateTo)
}

func TestListSlots_EmptyResultIsNotNil(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	slots, total, err := svc.ListSlots(context.Background(), domain.SlotFilter{}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetStatistics(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	slot, _, err := svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "09:00", ApplicationID: testAppID,
	})
	require.NoError(t, err)
	_, _, err = svc.CreateSlot(context.Background(), domain.CreateSlotInput{
		Date: "2026-09-15", Time: "10:00", ApplicationID: testAppID,
	})
	require.NoError(t, err)

	completed := domain.SlotStatusCompleted
	_, err = svc.UpdateSlot(context.Background(), slot.ID, domain.SlotPatch{Status: &completed})
	require.NoError(t, err)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.SlotStatusScheduled])
	assert.Equal(t, 1, stats.ByStatus[domain.SlotStatusCompleted])
}
