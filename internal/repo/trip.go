// Package repo is the persistence adapter for the trip expense service.
// Each collection (trip, expense, invitation) is a flat Postgres table with
// its own file holding an interface and a pgx implementation; multi-document
// writes go through Batch. No business logic lives here, only SQL and type
// mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so batches nest inside the test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the read operations on the trip collection.
// Trips are written only through Batch.
type TripRepo interface {
	// GetForMember returns the trip with the given id if username is one of its
	// members. Returns domain.ErrNotFound otherwise, whether the trip is missing
	// or merely not visible.
	GetForMember(ctx context.Context, id, username string) (domain.Trip, error)

	// ListByMember returns every trip whose members contain username.
	// No ordering is guaranteed.
	ListByMember(ctx context.Context, username string) ([]domain.Trip, error)

	// Members returns the member list of the trip with the given id.
	// Returns domain.ErrNotFound if no such trip exists.
	Members(ctx context.Context, id string) ([]string, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, title, location, planned_dates, created_by, start_date, members, invitees, created_at`

// GetForMember applies the id and array-membership filters together, so a
// non-member cannot tell a hidden trip from a missing one.
func (r *pgTripRepo) GetForMember(ctx context.Context, id, username string) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE id = @id
		  AND members @> ARRAY[@username]::text[]`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "username": username})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetForMember: %w", err)
	}
	return result, nil
}

// ListByMember uses the GIN index on members.
func (r *pgTripRepo) ListByMember(ctx context.Context, username string) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE members @> ARRAY[@username]::text[]`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"username": username})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByMember: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByMember: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByMember: rows: %w", err)
	}
	return trips, nil
}

// Members selects only the members column.
func (r *pgTripRepo) Members(ctx context.Context, id string) ([]string, error) {
	const q = `SELECT members FROM trip WHERE id = @id`

	var members []string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&members)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.TripRepo.Members: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.TripRepo.Members: %w", err)
	}
	if members == nil {
		members = []string{}
	}
	return members, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		startDate pgtype.Date
		members   []string
		invitees  []string
	)

	err := s.Scan(&t.ID, &t.Title, &t.Location, &t.PlannedDates, &t.CreatedBy,
		&startDate, &members, &invitees, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.StartDate = startDate.Time
	t.Members = domain.NewUsernameSet(members...)
	t.Invitees = domain.NewUsernameSet(invitees...)
	return t, nil
}
