package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"recruitdesk/internal/domain"
)

// pqUniqueViolation is the Postgres error code for unique constraint
// violations. The partial unique index on (slot_date, slot_time) WHERE
// is_available = false turns a lost booking race into this code.
const pqUniqueViolation = "23505"

const slotColumns = `id, slot_date, slot_time, status, is_available, application_id, candidate_name, job_title, location, notes, created_at, updated_at`

type interviewSlotRepository struct {
	DB *sql.DB
}

// NewInterviewSlotRepository returns the slot store backed by Postgres.
func NewInterviewSlotRepository(db *sql.DB) domain.InterviewSlotRepository {
	return &interviewSlotRepository{DB: db}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*domain.InterviewSlot, error) {
	s := &domain.InterviewSlot{}
	var appID, candidate, jobTitle, location, notes sql.NullString
	err := row.Scan(
		&s.ID, &s.Date, &s.Time, &s.Status, &s.IsAvailable,
		&appID, &candidate, &jobTitle, &location, &notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if appID.Valid {
		s.ApplicationID = &appID.String
	}
	if candidate.Valid {
		s.CandidateName = &candidate.String
	}
	if jobTitle.Valid {
		s.JobTitle = &jobTitle.String
	}
	if location.Valid {
		s.Location = &location.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return s, nil
}

func (r *interviewSlotRepository) GetByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM interview_slots WHERE id = $1`, slotColumns)
	slot, err := scanSlot(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return slot, nil
}

func (r *interviewSlotRepository) Book(ctx context.Context, slot *domain.InterviewSlot) (*domain.InterviewSlot, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	lockQuery := fmt.Sprintf(`SELECT %s FROM interview_slots WHERE slot_date = $1 AND slot_time = $2 FOR UPDATE`, slotColumns)
	existing, err := scanSlot(tx.QueryRowContext(ctx, lockQuery, slot.Date, slot.Time))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	if existing == nil {
		if err := insertSlot(ctx, tx, slot); err != nil {
			if isUniqueViolation(err) {
				return nil, false, domain.ErrSlotConflict
			}
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return slot, true, nil
	}

	if existing.IsAvailable {
		booked, err := occupySlot(ctx, tx, existing.ID, slot)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, false, domain.ErrSlotConflict
			}
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return booked, true, nil
	}

	// Occupied. Idempotent re-submission returns the row unchanged.
	if existing.ApplicationID != nil && slot.ApplicationID != nil && *existing.ApplicationID == *slot.ApplicationID {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return nil, false, domain.ErrSlotConflict
}

func (r *interviewSlotRepository) Relocate(ctx context.Context, slotID string, target *domain.InterviewSlot) (*domain.InterviewSlot, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lockByID := fmt.Sprintf(`SELECT %s FROM interview_slots WHERE id = $1 FOR UPDATE`, slotColumns)
	if _, err := scanSlot(tx.QueryRowContext(ctx, lockByID, slotID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Release the origin row. Durable only if the acquire below succeeds;
	// otherwise the deferred rollback restores it.
	releaseQuery := `
		UPDATE interview_slots
		SET status = $2, is_available = true, application_id = NULL,
			candidate_name = NULL, job_title = NULL, notes = $3, updated_at = $4
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, releaseQuery, slotID, domain.SlotStatusCancelled, "released during move", target.UpdatedAt); err != nil {
		return nil, err
	}

	lockByKey := fmt.Sprintf(`SELECT %s FROM interview_slots WHERE slot_date = $1 AND slot_time = $2 FOR UPDATE`, slotColumns)
	existing, err := scanSlot(tx.QueryRowContext(ctx, lockByKey, target.Date, target.Time))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var moved *domain.InterviewSlot
	switch {
	case existing == nil:
		if err := insertSlot(ctx, tx, target); err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrSlotConflict
			}
			return nil, err
		}
		moved = target
	case existing.IsAvailable:
		moved, err = occupySlot(ctx, tx, existing.ID, target)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrSlotConflict
			}
			return nil, err
		}
	case existing.ApplicationID != nil && target.ApplicationID != nil && *existing.ApplicationID == *target.ApplicationID:
		// The application already holds the target slot. Keep that row and
		// let the release of the origin stand.
		moved = existing
	default:
		// Held by another candidature. The deferred rollback undoes the
		// release so the origin row is left exactly as before the call.
		return nil, domain.ErrSlotConflict
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return moved, nil
}

// insertSlot inserts a brand-new occupied row inside tx.
func insertSlot(ctx context.Context, tx *sql.Tx, slot *domain.InterviewSlot) error {
	query := `
		INSERT INTO interview_slots (id, slot_date, slot_time, status, is_available, application_id, candidate_name, job_title, location, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		slot.ID, slot.Date, slot.Time, slot.Status, slot.IsAvailable,
		slot.ApplicationID, slot.CandidateName, slot.JobTitle, slot.Location, slot.Notes,
		slot.CreatedAt, slot.UpdatedAt,
	)
	return err
}

// occupySlot re-binds an existing available row to src's booking fields
// inside tx and returns the resulting row. The row keeps its id and
// created_at.
func occupySlot(ctx context.Context, tx *sql.Tx, rowID string, src *domain.InterviewSlot) (*domain.InterviewSlot, error) {
	query := fmt.Sprintf(`
		UPDATE interview_slots
		SET status = $2, is_available = false, application_id = $3,
			candidate_name = $4, job_title = $5, location = $6, notes = $7, updated_at = $8
		WHERE id = $1
		RETURNING %s
	`, slotColumns)
	return scanSlot(tx.QueryRowContext(ctx, query,
		rowID, src.Status, src.ApplicationID, src.CandidateName, src.JobTitle,
		src.Location, src.Notes, src.UpdatedAt,
	))
}

func (r *interviewSlotRepository) UpdateInPlace(ctx context.Context, slot *domain.InterviewSlot) (*domain.InterviewSlot, error) {
	query := fmt.Sprintf(`
		UPDATE interview_slots
		SET status = $2, application_id = $3, candidate_name = $4,
			job_title = $5, location = $6, notes = $7, updated_at = $8
		WHERE id = $1
		RETURNING %s
	`, slotColumns)
	updated, err := scanSlot(r.DB.QueryRowContext(ctx, query,
		slot.ID, slot.Status, slot.ApplicationID, slot.CandidateName,
		slot.JobTitle, slot.Location, slot.Notes, slot.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *interviewSlotRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE interview_slots
		SET status = $2, is_available = true, application_id = NULL,
			candidate_name = NULL, job_title = NULL, notes = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, domain.SlotStatusCancelled, "cancelled", at)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interviewSlotRepository) List(ctx context.Context, filter domain.SlotFilter, p domain.PaginationParams) ([]*domain.InterviewSlot, int, error) {
	where := []string{}
	args := []interface{}{}
	n := 1
	if filter.ApplicationID != nil {
		where = append(where, fmt.Sprintf("application_id = $%d", n))
		args = append(args, *filter.ApplicationID)
		n++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, *filter.Status)
		n++
	}
	if filter.IsAvailable != nil {
		where = append(where, fmt.Sprintf("is_available = $%d", n))
		args = append(args, *filter.IsAvailable)
		n++
		// When asking for occupied slots, exclude rows whose linkage is
		// missing so the result never contradicts the occupancy invariant.
		if !*filter.IsAvailable {
			where = append(where, "application_id IS NOT NULL")
		}
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("slot_date >= $%d", n))
		args = append(args, *filter.DateFrom)
		n++
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("slot_date <= $%d", n))
		args = append(args, *filter.DateTo)
		n++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interview_slots %s`, whereClause)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// id is a tiebreaker so pagination stays reproducible when several
	// available rows share a (date, time).
	query := fmt.Sprintf(`
		SELECT %s FROM interview_slots %s
		ORDER BY slot_date ASC, slot_time ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, slotColumns, whereClause, n, n+1)
	args = append(args, p.PageSize, p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	slots := make([]*domain.InterviewSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, 0, err
		}
		slots = append(slots, slot)
	}
	return slots, total, rows.Err()
}

func (r *interviewSlotRepository) Statistics(ctx context.Context) (*domain.SlotStatistics, error) {
	query := `
		SELECT status, COUNT(*)
		FROM interview_slots
		WHERE is_available = false
		GROUP BY status
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.SlotStatistics{ByStatus: make(map[domain.SlotStatus]int)}
	for rows.Next() {
		var status domain.SlotStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func isUniqueViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == pqUniqueViolation
}
