package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// ExpenseRepo defines the persistence operations for the expense collection.
// A single expense is one document, so writes here need no Batch.
type ExpenseRepo interface {
	// Create inserts a new expense and returns the persisted record with
	// created_at populated.
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// GetByID retrieves a single expense. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (domain.Expense, error)

	// ListByTrip returns the trip's expenses ordered by date descending, newest
	// entries first within a day. A non-nil createdBy narrows the result to
	// expenses logged by that user.
	ListByTrip(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error)

	// Delete removes an expense by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Totals returns the number of expenses on a trip and the sum of their amounts.
	Totals(ctx context.Context, tripID string) (count, total int64, err error)
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, title, description, amount, date, created_by, members, created_at`

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expense (id, trip_id, title, description, amount, date, created_by, members)
		VALUES (@id, @trip_id, @title, @description, @amount, @date, @created_by, @members)
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"id":          e.ID,
		"trip_id":     e.TripID,
		"title":       e.Title,
		"description": e.Description,
		"amount":      e.Amount,
		"date":        e.Date,
		"created_by":  e.CreatedBy,
		"members":     e.Members.Slice(),
	}

	result, err := scanExpense(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expense WHERE id = @id`

	result, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip passes a nil createdBy through as SQL NULL, which disables the
// second filter.
func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expense
		WHERE trip_id = @trip_id
		  AND (@created_by::text IS NULL OR created_by = @created_by::text)
		ORDER BY date DESC, created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "created_by": createdBy})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: rows: %w", err)
	}
	return expenses, nil
}

// Delete ignores RowsAffected: delete-if-exists.
func (r *pgExpenseRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM expense WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgExpenseRepo) Totals(ctx context.Context, tripID string) (int64, int64, error) {
	const q = `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)::bigint
		FROM expense
		WHERE trip_id = @trip_id`

	var count, total int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&count, &total); err != nil {
		return 0, 0, fmt.Errorf("repo.ExpenseRepo.Totals: %w", err)
	}
	return count, total, nil
}

// scanExpense maps a single database row into a domain.Expense.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e       domain.Expense
		date    pgtype.Date
		members []string
	)
	err := s.Scan(&e.ID, &e.TripID, &e.Title, &e.Description, &e.Amount,
		&date, &e.CreatedBy, &members, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}
	e.Date = date.Time
	e.Members = domain.NewUsernameSet(members...)
	return e, nil
}
