package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

// ProfileRepository manages persistence for profile records.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = "id, name, email, cpf, phone, role, function_title, work_schedule, created_at, updated_at"

// List returns profiles matching the provided filters.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		profileColumns, where, size, offset)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM profiles WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	return profiles, total, nil
}

// FindByID fetches a profile by its id (the paired identity id).
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1 LIMIT 1", profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// Create inserts a single profile record.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO profiles (id, name, email, cpf, phone, role, function_title, work_schedule, created_at, updated_at)
        VALUES (:id, :name, :email, :cpf, :phone, :role, :function_title, :work_schedule, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// BulkInsert persists a batch of staged profiles in a single statement.
// Grouping the insert keeps round trips down; its all-or-nothing failure mode
// is what the import pipeline's compensation logic relies on.
func (r *ProfileRepository) BulkInsert(ctx context.Context, profiles []models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range profiles {
		if profiles[i].CreatedAt.IsZero() {
			profiles[i].CreatedAt = now
		}
		profiles[i].UpdatedAt = now
	}
	const query = `INSERT INTO profiles (id, name, email, cpf, phone, role, function_title, work_schedule, created_at, updated_at)
        VALUES (:id, :name, :email, :cpf, :phone, :role, :function_title, :work_schedule, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profiles); err != nil {
		return fmt.Errorf("bulk insert profiles: %w", err)
	}
	return nil
}

// Update modifies the mutable attributes of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE profiles SET name = :name, cpf = :cpf, phone = :phone, role = :role,
        function_title = :function_title, work_schedule = :work_schedule, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Delete removes a profile row.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
