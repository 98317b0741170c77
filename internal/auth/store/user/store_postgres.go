package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lifecover/internal/auth/models"
	"lifecover/internal/platform/postgres"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// PostgresUserStore persists credentials in the users table.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const credentialColumns = `id, email, password_hash, role, created_at, updated_at`

func (s *PostgresUserStore) Create(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		cred.UserID, cred.Email, cred.PasswordHash, string(cred.Role), cred.CreatedAt, cred.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("credential %s: %w", cred.Email, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// Save upserts by email. The stored user ID and created_at win on conflict
// and are written back into cred.
func (s *PostgresUserStore) Save(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		cred.UserID, cred.Email, cred.PasswordHash, string(cred.Role), cred.CreatedAt, cred.UpdatedAt,
	).Scan(&cred.UserID, &cred.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+credentialColumns+` FROM users WHERE email = $1`, email)
	return scanCredential(row)
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID uuid.UUID) (*models.Credential, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+credentialColumns+` FROM users WHERE id = $1`, userID)
	return scanCredential(row)
}

func scanCredential(row *sql.Row) (*models.Credential, error) {
	var (
		cred models.Credential
		role string
	)
	err := row.Scan(&cred.UserID, &cred.Email, &cred.PasswordHash, &role, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	cred.Role = models.Role(role)
	return &cred, nil
}
