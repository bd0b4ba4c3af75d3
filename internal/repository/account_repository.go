package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
)

// AccountFilter captures directory search parameters.
type AccountFilter struct {
	Role  *domain.Role
	Query string
}

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Search(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, newHash string, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, role, specialization, phone, department,
               reset_token, reset_token_exp, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = domain.NewID()
	}
	const query = `
        INSERT INTO users (id, name, email, password_hash, role, specialization, phone, department)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Specialization,
		account.Phone,
		account.Department,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Specialization,
		&account.Phone,
		&account.Department,
		&account.ResetToken,
		&account.ResetTokenExp,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Search(ctx context.Context, filter AccountFilter) ([]domain.Account, error) {
	base := `SELECT ` + accountColumns + ` FROM users`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY name", base, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Email,
			&account.PasswordHash,
			&account.Role,
			&account.Specialization,
			&account.Phone,
			&account.Department,
			&account.ResetToken,
			&account.ResetTokenExp,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func (r *accountRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
        UPDATE users SET reset_token=$1, reset_token_exp=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeResetToken atomically matches the token, checks expiry, installs the
// new hash and clears both reset fields in one statement. Two concurrent
// attempts with the same token can therefore yield at most one success.
func (r *accountRepository) ConsumeResetToken(ctx context.Context, token, newHash string, now time.Time) (bool, error) {
	const query = `
        UPDATE users SET password_hash=$2, reset_token=NULL, reset_token_exp=NULL, updated_at=NOW()
        WHERE reset_token=$1 AND reset_token_exp > $3`
	cmd, err := r.pool.Exec(ctx, query, token, newHash, now)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
