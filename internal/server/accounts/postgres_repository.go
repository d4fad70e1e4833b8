package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ktkar/maintron/internal/dbx"
	"github.com/ktkar/maintron/internal/shared"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// isPhoneConflict reports whether err is the unique-index violation on the
// accounts phone column.
func isPhoneConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, acc *Account) (*Account, error) {

	query :=
		`INSERT INTO accounts (name, building, floor, flat, phone, password_hash, code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		acc.Name, acc.Building, acc.Floor, acc.Flat, acc.Phone, acc.PasswordHash, acc.Code).
		Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)

	if err != nil {
		if isPhoneConflict(err) {
			return nil, shared.ErrPhoneTaken
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query :=
		`SELECT id, name, building, floor, flat, phone, password_hash, code, created_at, updated_at
		 FROM accounts
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*Account, error) {
	query :=
		`SELECT id, name, building, floor, flat, phone, password_hash, code, created_at, updated_at
		 FROM accounts
		 WHERE phone = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, phone))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	acc := &Account{}
	err := row.Scan(&acc.ID, &acc.Name, &acc.Building, &acc.Floor, &acc.Flat,
		&acc.Phone, &acc.PasswordHash, &acc.Code, &acc.CreatedAt, &acc.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return acc, nil
}

// Update applies the non-secret fields. The uniqueness re-check and the
// write run in one transaction; the unique index still backstops a race.
func (r *PostgresRepository) Update(ctx context.Context, acc *Account) (*Account, error) {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		var taken bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE phone = $1 AND id <> $2)`,
			acc.Phone, acc.ID).Scan(&taken)
		if err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}
		if taken {
			return shared.ErrPhoneTaken
		}

		query :=
			`UPDATE accounts
			 SET name = $1, building = $2, floor = $3, flat = $4, phone = $5, code = $6, updated_at = now()
			 WHERE id = $7
			 RETURNING created_at, updated_at
			 `

		err = tx.QueryRowContext(ctx, query,
			acc.Name, acc.Building, acc.Floor, acc.Flat, acc.Phone, acc.Code, acc.ID).
			Scan(&acc.CreatedAt, &acc.UpdatedAt)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return shared.ErrNotFound
			}
			if isPhoneConflict(err) {
				return shared.ErrPhoneTaken
			}
			return fmt.Errorf("error performing sql request: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return acc, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {

	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`,
		hash, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) PhoneInUse(ctx context.Context, phone, excludeID string) (bool, error) {

	var taken bool
	var err error

	if excludeID == "" {
		err = r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE phone = $1)`, phone).Scan(&taken)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE phone = $1 AND id <> $2)`,
			phone, excludeID).Scan(&taken)
	}

	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	return taken, nil
}
