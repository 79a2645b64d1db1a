package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/anuruddha96/hotelcare-backend/internal/models"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)

	// ListForStaffDate returns every assignment belonging to the staff
	// member on the given work date, in creation order. The prioritizer
	// owns display ordering.
	ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*models.Assignment, error)

	// FindActiveForStaff returns some other in_progress assignment for
	// (staff, date), excluding excludeID, or nil. Advisory fast-path for
	// the concurrency guard; the authoritative check lives inside
	// StartAssignmentAtomic.
	FindActiveForStaff(ctx context.Context, staffID uuid.UUID, date time.Time, excludeID uuid.UUID) (*models.Assignment, error)

	// StartAssignmentAtomic moves assigned → in_progress and sets
	// started_at, inside one transaction. When enforceSingle is true the
	// transition is refused if any other in_progress assignment exists
	// for (staff, date); the conflicting room number is reported via
	// ActiveTaskConflictError.
	StartAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, staffID uuid.UUID, expectedVersion int64, enforceSingle bool) (*models.Assignment, error)

	// CompleteAssignmentAtomic moves in_progress → completed and sets
	// completed_at. Photo policy is checked by the caller against a fresh
	// read; status is re-verified inside the transaction.
	CompleteAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64) (*models.Assignment, error)

	// CancelAssignmentAtomic is the administrative override: any
	// non-cancelled state → cancelled, no other side effects.
	CancelAssignmentAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64) (*models.Assignment, error)

	// AppendCompletionPhotos adds proof-of-work references without
	// dropping previously captured ones.
	AppendCompletionPhotos(ctx context.Context, assignmentID uuid.UUID, refs []string, expectedVersion int64) (*models.Assignment, error)

	// MarkDNDAtomic records a Do-Not-Disturb completion and mirrors the
	// flag onto the room. Both writes happen in one transaction; neither
	// is committed without the other.
	MarkDNDAtomic(ctx context.Context, assignmentID uuid.UUID, staffID uuid.UUID, photoRefs []string, expectedVersion int64) (*models.Assignment, error)

	// RetrieveDNDAtomic reverses a DND mark in one transaction: room
	// is_dnd cleared and set to needs_cleaning, assignment returned to
	// assigned with DND, approval and completion fields unset. The room's
	// DND flag is re-verified inside the transaction. The returned bool
	// reports whether the assignment had been supervisor-approved (the
	// caller emits the manager-notify signal).
	RetrieveDNDAtomic(ctx context.Context, assignmentID uuid.UUID, expectedVersion int64, auditNote string) (*models.Assignment, bool, error)

	// CancelStaleBefore administratively cancels assignments from work
	// dates strictly before the given date that are still assigned or
	// in_progress. Returns how many rows were swept.
	CancelStaleBefore(ctx context.Context, date time.Time) (int64, error)
}

type assignmentRepo struct {
	db DB
}

func NewAssignmentRepository(db DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func baseSelectAssignment() string {
	return `
        SELECT
            id, room_id, assignment_type, status, priority,
            assigned_staff_id, assignment_date, ready_to_clean,
            started_at, completed_at, completion_photos,
            is_dnd, dnd_marked_at, dnd_marked_by,
            supervisor_approved, supervisor_approved_by, supervisor_approved_at,
            notes, row_version, created_at, updated_at
        FROM assignments
    `
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var a models.Assignment
	var photos []string
	err := row.Scan(
		&a.ID,
		&a.RoomID,
		&a.Type,
		&a.Status,
		&a.Priority,
		&a.AssignedStaffID,
		&a.AssignmentDate,
		&a.ReadyToClean,
		&a.StartedAt,
		&a.CompletedAt,
		&photos,
		&a.IsDND,
		&a.DNDMarkedAt,
		&a.DNDMarkedBy,
		&a.SupervisorApproved,
		&a.SupervisorApprovedBy,
		&a.SupervisorApprovedAt,
		&a.Notes,
		&a.RowVersion,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []string{}
	}
	a.CompletionPhotos = photos
	return &a, nil
}

func (r *assignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO assignments (
            id, room_id, assignment_type, status, priority,
            assigned_staff_id, assignment_date, ready_to_clean,
            completion_photos, is_dnd, supervisor_approved, notes,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,'{}',FALSE,FALSE,$9,NOW(),NOW(),1
        )
    `,
		a.ID,
		a.RoomID,
		a.Type,
		a.Status,
		a.Priority,
		a.AssignedStaffID,
		a.AssignmentDate,
		a.ReadyToClean,
		a.Notes,
	)
	return err
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	row := r.db.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", id)
	a, err := scanAssignment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *assignmentRepo) ListForStaffDate(
	ctx context.Context,
	staffID uuid.UUID,
	date time.Time,
) ([]*models.Assignment, error) {
	rows, err := r.db.Query(ctx,
		baseSelectAssignment()+` WHERE assigned_staff_id=$1 AND assignment_date=$2 ORDER BY created_at`,
		staffID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *assignmentRepo) FindActiveForStaff(
	ctx context.Context,
	staffID uuid.UUID,
	date time.Time,
	excludeID uuid.UUID,
) (*models.Assignment, error) {
	row := r.db.QueryRow(ctx,
		baseSelectAssignment()+` WHERE assigned_staff_id=$1 AND assignment_date=$2 AND status=$3 AND id<>$4 LIMIT 1`,
		staffID, date, models.AssignmentStatusInProgress, excludeID,
	)
	a, err := scanAssignment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *assignmentRepo) StartAssignmentAtomic(
	ctx context.Context,
	assignmentID uuid.UUID,
	staffID uuid.UUID,
	expectedVersion int64,
	enforceSingle bool,
) (*models.Assignment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, err
	}
	if a.Status != models.AssignmentStatusAssigned {
		err = utils.ErrWrongStatus
		return a, err
	}

	if enforceSingle {
		// Authoritative single-active-task check, inside the transaction.
		// The advisory service-layer check can race; this one cannot,
		// together with the partial unique index on
		// (assigned_staff_id, assignment_date) WHERE status='in_progress'.
		var conflictingRoom string
		lookupErr := tx.QueryRow(ctx, `
            SELECT r.room_number
            FROM assignments a
            JOIN rooms r ON r.id = a.room_id
            WHERE a.assigned_staff_id=$1
              AND a.assignment_date=$2
              AND a.status=$3
              AND a.id<>$4
            LIMIT 1
        `, staffID, a.AssignmentDate, models.AssignmentStatusInProgress, assignmentID).Scan(&conflictingRoom)
		if lookupErr == nil {
			err = utils.NewActiveTaskConflictError(conflictingRoom)
			return a, err
		}
		if lookupErr != pgx.ErrNoRows {
			err = lookupErr
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            started_at=NOW(),
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, models.AssignmentStatusInProgress, assignmentID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	return scanAssignment(newRow)
}

func (r *assignmentRepo) CompleteAssignmentAtomic(
	ctx context.Context,
	assignmentID uuid.UUID,
	expectedVersion int64,
) (*models.Assignment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, err
	}
	if a.Status != models.AssignmentStatusInProgress {
		err = utils.ErrWrongStatus
		return a, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            completed_at=NOW(),
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, models.AssignmentStatusCompleted, assignmentID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	return scanAssignment(newRow)
}

func (r *assignmentRepo) CancelAssignmentAtomic(
	ctx context.Context,
	assignmentID uuid.UUID,
	expectedVersion int64,
) (*models.Assignment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, err
	}
	if a.Status == models.AssignmentStatusCancelled {
		err = utils.ErrWrongStatus
		return a, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, models.AssignmentStatusCancelled, assignmentID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	return scanAssignment(newRow)
}

func (r *assignmentRepo) AppendCompletionPhotos(
	ctx context.Context,
	assignmentID uuid.UUID,
	refs []string,
	expectedVersion int64,
) (*models.Assignment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET completion_photos = completion_photos || $1,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, refs, assignmentID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	return scanAssignment(newRow)
}

func (r *assignmentRepo) MarkDNDAtomic(
	ctx context.Context,
	assignmentID uuid.UUID,
	staffID uuid.UUID,
	photoRefs []string,
	expectedVersion int64,
) (*models.Assignment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, err
	}
	if a.Status == models.AssignmentStatusCompleted || a.Status == models.AssignmentStatusCancelled {
		err = utils.ErrWrongStatus
		return a, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            is_dnd=TRUE,
            dnd_marked_at=NOW(),
            dnd_marked_by=$2,
            completed_at=NOW(),
            completion_photos = completion_photos || $3,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$4
    `, models.AssignmentStatusCompleted, staffID, photoRefs, assignmentID)
	if err != nil {
		return nil, err
	}

	// Mirror onto the room in the same transaction.
	_, err = tx.Exec(ctx, `
        UPDATE rooms
        SET is_dnd=TRUE,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$1
    `, a.RoomID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	return scanAssignment(newRow)
}

func (r *assignmentRepo) RetrieveDNDAtomic(
	ctx context.Context,
	assignmentID uuid.UUID,
	expectedVersion int64,
	auditNote string,
) (*models.Assignment, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1 FOR UPDATE", assignmentID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, false, err
	}
	if a.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return a, false, err
	}

	// Re-verify the room's DND flag against the locked room row, not the
	// caller's possibly stale view.
	var roomIsDND bool
	err = tx.QueryRow(ctx, `SELECT is_dnd FROM rooms WHERE id=$1 FOR UPDATE`, a.RoomID).Scan(&roomIsDND)
	if err != nil {
		return nil, false, err
	}
	if !roomIsDND || !a.IsDND {
		err = utils.ErrNotDND
		return a, false, err
	}

	wasApproved := a.SupervisorApproved

	notes := a.Notes
	if wasApproved && auditNote != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += auditNote
	}

	_, err = tx.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            is_dnd=FALSE,
            dnd_marked_at=NULL,
            dnd_marked_by=NULL,
            completed_at=NULL,
            supervisor_approved=FALSE,
            supervisor_approved_by=NULL,
            supervisor_approved_at=NULL,
            notes=$2,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$3
    `, models.AssignmentStatusAssigned, notes, assignmentID)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE rooms
        SET is_dnd=FALSE,
            status=$1,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE id=$2
    `, models.RoomStatusNeedsClean, a.RoomID)
	if err != nil {
		return nil, false, err
	}

	newRow := tx.QueryRow(ctx, baseSelectAssignment()+" WHERE id=$1", assignmentID)
	updated, err := scanAssignment(newRow)
	return updated, wasApproved, err
}

func (r *assignmentRepo) CancelStaleBefore(ctx context.Context, date time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE assignments
        SET status=$1,
            row_version=row_version+1,
            updated_at=NOW()
        WHERE assignment_date < $2
          AND status IN ($3, $4)
    `, models.AssignmentStatusCancelled, date,
		models.AssignmentStatusAssigned, models.AssignmentStatusInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
