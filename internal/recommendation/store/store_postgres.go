package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lifecover/internal/platform/postgres"
	"lifecover/internal/recommendation"
	"lifecover/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore persists submissions in the recommendations table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const submissionColumns = `id, age, income, dependents, risk_tolerance, recommendation_type,
	multiplier, coverage, coverage_amount, term_years, term_length, explanation,
	ip_address, user_agent, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, sub *recommendation.Submission) error {
	query := `INSERT INTO recommendations (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	rec := sub.Recommendation
	_, err := s.db.ExecContext(ctx, query,
		sub.ID,
		sub.Profile.Age,
		sub.Profile.Income,
		sub.Profile.Dependents,
		string(sub.Profile.RiskTolerance),
		string(rec.ProductType),
		rec.Multiplier,
		rec.Coverage,
		rec.CoverageAmount,
		rec.TermYears,
		rec.TermLength,
		rec.Explanation,
		nullString(sub.ClientIP),
		nullString(sub.UserAgent),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("submission %s: %w", sub.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM recommendations WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

// List returns submissions newest first. An empty risk filter matches all rows.
func (s *PostgresStore) List(ctx context.Context, filter recommendation.ListFilter) ([]*recommendation.Submission, error) {
	var risks []string
	for _, r := range filter.RiskTolerances {
		risks = append(risks, string(r))
	}
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	query := `SELECT ` + submissionColumns + `
		FROM recommendations
		WHERE ($1::text[] IS NULL OR risk_tolerance = ANY($1::text[]))
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(risks), limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]*recommendation.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*recommendation.Submission, error) {
	var (
		sub       recommendation.Submission
		risk      string
		product   string
		clientIP  sql.NullString
		userAgent sql.NullString
	)
	rec := &sub.Recommendation
	err := row.Scan(
		&sub.ID,
		&sub.Profile.Age,
		&sub.Profile.Income,
		&sub.Profile.Dependents,
		&risk,
		&product,
		&rec.Multiplier,
		&rec.Coverage,
		&rec.CoverageAmount,
		&rec.TermYears,
		&rec.TermLength,
		&rec.Explanation,
		&clientIP,
		&userAgent,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Profile.RiskTolerance = recommendation.RiskTolerance(risk)
	rec.ProductType = recommendation.ProductType(product)
	sub.ClientIP = clientIP.String
	sub.UserAgent = userAgent.String
	return &sub, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
