package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var profileColumns = []string{
	"id", "owner_id", "handle", "company", "website", "location", "bio", "status",
	"github_username", "skills", "social", "experience", "education", "created_at",
}

type postgresProfileRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	logger  logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, timeout time.Duration, log logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, timeout: timeout, logger: log}
}

func (r *postgresProfileRepo) scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var socialBytes, experienceBytes, educationBytes []byte

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Handle,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Bio,
		&p.Status,
		&p.GithubUsername,
		&p.Skills,
		&socialBytes,
		&experienceBytes,
		&educationBytes,
		&p.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile row: %w", err)
	}

	// Unmarshal JSONB
	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		r.logger.Warn("Failed to unmarshal social", zap.String("owner_id", p.OwnerID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		p.Education = []profile.Education{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Select(profileColumns...).From("profiles").Where("owner_id = ?", ownerID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, sql, args...))
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Select(profileColumns...).From("profiles").OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}

// Save replaces the whole row keyed by id. A second profile for the same owner trips the
// owner_id unique constraint.
func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return fmt.Errorf("failed to marshal social: %w", err)
	}
	experienceBytes, err := json.Marshal(p.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationBytes, err := json.Marshal(p.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO profiles (id, owner_id, handle, company, website, location, bio, status,
			github_username, skills, social, experience, education, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			handle = EXCLUDED.handle,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education
	`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status,
		p.GithubUsername, skills, socialBytes, experienceBytes, educationBytes, p.Date,
	)
	if err != nil {
		if isUniqueViolation(err, "profiles_owner_id_key") {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
