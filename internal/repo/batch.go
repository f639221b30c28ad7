package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// Batch accumulates document mutations that are committed together: either
// every queued write is durably applied or none is. Queue methods never touch
// the database; all I/O happens in Commit. A Batch is single-use and not safe
// for concurrent use.
type Batch interface {
	// CreateTrip queues the insert of a new trip document.
	CreateTrip(trip domain.Trip)

	// CreateInvitation queues the insert of a new invitation document.
	CreateInvitation(inv domain.Invitation)

	// AddTripMember queues an add-if-absent of username to the trip's members.
	// The trip must exist at commit time.
	AddTripMember(tripID, username string)

	// RemoveTripInvitee queues a remove-if-present of username from the trip's
	// invitees. The trip must exist at commit time.
	RemoveTripInvitee(tripID, username string)

	// DeleteInvitation queues the delete of an invitation that must still exist
	// at commit time and match guard. A zero guard matches any invitation.
	DeleteInvitation(id string, guard InvitationGuard)

	// Commit applies every queued write atomically. If any write fails, or a
	// write that must touch a document touches none, nothing is applied and the
	// error wraps domain.ErrNotFound for the latter case.
	Commit(ctx context.Context) error
}

// InvitationGuard narrows DeleteInvitation to an invitation addressed to
// Invitee for TripID. Empty fields are not checked.
type InvitationGuard struct {
	Invitee string
	TripID  string
}

// Batcher starts new batches. The service layer depends on this interface so
// tests can substitute an in-memory store.
type Batcher interface {
	NewBatch() Batch
}

// pgBatcher is the Postgres implementation of Batcher.
type pgBatcher struct {
	db db
}

// NewBatcher constructs a Batcher whose batches commit in a transaction on db.
// In tests pass a pgx.Tx: each commit then runs inside a savepoint.
func NewBatcher(db db) Batcher {
	return &pgBatcher{db: db}
}

func (b *pgBatcher) NewBatch() Batch {
	return &pgBatch{db: b.db}
}

// batchOp is one queued statement. mustAffect marks statements whose target
// document has to exist for the batch to succeed.
type batchOp struct {
	name       string
	sql        string
	args       pgx.NamedArgs
	mustAffect bool
}

type pgBatch struct {
	db  db
	ops []batchOp
}

func (b *pgBatch) queue(op batchOp) {
	b.ops = append(b.ops, op)
}

func (b *pgBatch) CreateTrip(t domain.Trip) {
	b.queue(batchOp{
		name: "create trip",
		sql: `
			INSERT INTO trip (id, title, location, planned_dates, created_by, start_date, members, invitees)
			VALUES (@id, @title, @location, @planned_dates, @created_by, @start_date, @members, @invitees)`,
		args: pgx.NamedArgs{
			"id":            t.ID,
			"title":         t.Title,
			"location":      t.Location,
			"planned_dates": t.PlannedDates,
			"created_by":    t.CreatedBy,
			"start_date":    t.StartDate,
			"members":       t.Members.Slice(),
			"invitees":      t.Invitees.Slice(),
		},
		mustAffect: true,
	})
}

func (b *pgBatch) CreateInvitation(inv domain.Invitation) {
	b.queue(batchOp{
		name: "create invitation",
		sql: `
			INSERT INTO invitation (id, trip_id, trip_title, trip_location, trip_start_date, invitee, invited_by)
			VALUES (@id, @trip_id, @trip_title, @trip_location, @trip_start_date, @invitee, @invited_by)`,
		args: pgx.NamedArgs{
			"id":              inv.ID,
			"trip_id":         inv.Trip.ID,
			"trip_title":      inv.Trip.Title,
			"trip_location":   inv.Trip.Location,
			"trip_start_date": inv.Trip.StartDate,
			"invitee":         inv.Invitee,
			"invited_by":      inv.InvitedBy,
		},
		mustAffect: true,
	})
}

// AddTripMember is evaluated against the row as it stands at commit, so two
// concurrent accepts on the same trip both land.
func (b *pgBatch) AddTripMember(tripID, username string) {
	b.queue(batchOp{
		name: "add trip member",
		sql: `
			UPDATE trip
			SET members = CASE
				WHEN members @> ARRAY[@username]::text[] THEN members
				ELSE array_append(members, @username::text)
			END
			WHERE id = @id`,
		args:       pgx.NamedArgs{"id": tripID, "username": username},
		mustAffect: true,
	})
}

func (b *pgBatch) RemoveTripInvitee(tripID, username string) {
	b.queue(batchOp{
		name: "remove trip invitee",
		sql: `
			UPDATE trip
			SET invitees = array_remove(invitees, @username::text)
			WHERE id = @id`,
		args:       pgx.NamedArgs{"id": tripID, "username": username},
		mustAffect: true,
	})
}

func (b *pgBatch) DeleteInvitation(id string, guard InvitationGuard) {
	b.queue(batchOp{
		name: "delete invitation",
		sql: `
			DELETE FROM invitation
			WHERE id = @id
			  AND (@invitee::text = '' OR invitee = @invitee::text)
			  AND (@trip_id::text = '' OR trip_id = @trip_id::text)`,
		args:       pgx.NamedArgs{"id": id, "invitee": guard.Invitee, "trip_id": guard.TripID},
		mustAffect: true,
	})
}

// Commit sends the queued statements as one pgx.Batch inside a transaction.
// pgx.BeginFunc rolls back whenever the callback returns an error.
func (b *pgBatch) Commit(ctx context.Context) error {
	ops := b.ops
	b.ops = nil
	if len(ops) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, b.db, func(tx pgx.Tx) error {
		pb := &pgx.Batch{}
		for _, op := range ops {
			pb.Queue(op.sql, op.args)
		}

		br := tx.SendBatch(ctx, pb)
		defer br.Close()

		for _, op := range ops {
			tag, err := br.Exec()
			if err != nil {
				return fmt.Errorf("%s: %w", op.name, err)
			}
			if op.mustAffect && tag.RowsAffected() == 0 {
				return fmt.Errorf("%s: %w", op.name, domain.ErrNotFound)
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("repo.Batch.Commit: %w", err)
	}
	return nil
}
