package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// InvitationRepo defines the read operations on the invitation collection.
// Invitations are written and deleted only through Batch.
type InvitationRepo interface {
	// GetByID returns a single invitation. Returns domain.ErrNotFound if it
	// does not exist (never created, or already resolved).
	GetByID(ctx context.Context, id string) (domain.Invitation, error)

	// ListByInvitee returns every pending invitation addressed to username,
	// oldest first.
	ListByInvitee(ctx context.Context, username string) ([]domain.Invitation, error)

	// CountByInvitee returns how many invitations are pending for username
	// without materialising them.
	CountByInvitee(ctx context.Context, username string) (int64, error)
}

// pgInvitationRepo is the Postgres implementation of InvitationRepo.
type pgInvitationRepo struct {
	db db
}

// NewInvitationRepo constructs an InvitationRepo backed by the provided db connection.
func NewInvitationRepo(db db) InvitationRepo {
	return &pgInvitationRepo{db: db}
}

const invitationColumns = `id, trip_id, trip_title, trip_location, trip_start_date, invitee, invited_by, created_at`

func (r *pgInvitationRepo) GetByID(ctx context.Context, id string) (domain.Invitation, error) {
	const q = `SELECT ` + invitationColumns + ` FROM invitation WHERE id = @id`

	inv, err := scanInvitation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("repo.InvitationRepo.GetByID: %w", err)
	}
	return inv, nil
}

func (r *pgInvitationRepo) ListByInvitee(ctx context.Context, username string) ([]domain.Invitation, error) {
	const q = `
		SELECT ` + invitationColumns + `
		FROM invitation
		WHERE invitee = @invitee
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"invitee": username})
	if err != nil {
		return nil, fmt.Errorf("repo.InvitationRepo.ListByInvitee: %w", err)
	}
	defer rows.Close()

	invitations := []domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.InvitationRepo.ListByInvitee: scan: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.InvitationRepo.ListByInvitee: rows: %w", err)
	}
	return invitations, nil
}

func (r *pgInvitationRepo) CountByInvitee(ctx context.Context, username string) (int64, error) {
	const q = `SELECT COUNT(*) FROM invitation WHERE invitee = @invitee`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"invitee": username}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.InvitationRepo.CountByInvitee: %w", err)
	}
	return n, nil
}

// scanInvitation maps a single database row into a domain.Invitation,
// reassembling the embedded trip snapshot from its flattened columns.
func scanInvitation(s scanner) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		startDate pgtype.Date
	)
	err := s.Scan(&inv.ID, &inv.Trip.ID, &inv.Trip.Title, &inv.Trip.Location,
		&startDate, &inv.Invitee, &inv.InvitedBy, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invitation{}, domain.ErrNotFound
		}
		return domain.Invitation{}, err
	}
	inv.Trip.StartDate = startDate.Time
	return inv, nil
}
