package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

// AssignmentRepository manages the guardians_students relationship table.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByGuardian returns the assignments of one guardian, primary first.
func (r *AssignmentRepository) ListByGuardian(ctx context.Context, guardianID string) ([]models.Assignment, error) {
	const query = `SELECT id, guardian_id, student_id, relationship, is_primary, created_at
        FROM guardians_students WHERE guardian_id = $1 ORDER BY is_primary DESC, created_at ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, guardianID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListStudentsByGuardian returns the student records linked to a guardian.
func (r *AssignmentRepository) ListStudentsByGuardian(ctx context.Context, guardianID string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s
        JOIN guardians_students gs ON gs.student_id = s.id
        WHERE gs.guardian_id = $1 ORDER BY gs.is_primary DESC, s.name ASC`, prefixedStudentColumns("s"))
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, guardianID); err != nil {
		return nil, fmt.Errorf("list guardian students: %w", err)
	}
	return students, nil
}

// Replace swaps a guardian's assignment set wholesale: every existing row is
// deleted, then the new set is inserted, all inside one transaction. Full
// replacement is deliberate - the sets are small and infrequently written, so
// the extra churn buys simpler logic than diffing old against new.
func (r *AssignmentRepository) Replace(ctx context.Context, guardianID string, assignments []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM guardians_students WHERE guardian_id = $1", guardianID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	if len(assignments) > 0 {
		now := time.Now().UTC()
		for i := range assignments {
			if assignments[i].ID == "" {
				assignments[i].ID = uuid.NewString()
			}
			assignments[i].GuardianID = guardianID
			if assignments[i].CreatedAt.IsZero() {
				assignments[i].CreatedAt = now
			}
		}
		const query = `INSERT INTO guardians_students (id, guardian_id, student_id, relationship, is_primary, created_at)
            VALUES (:id, :guardian_id, :student_id, :relationship, :is_primary, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, assignments); err != nil {
			return fmt.Errorf("insert assignments: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments: %w", err)
	}
	return nil
}

func prefixedStudentColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.name, %[1]s.cpf, %[1]s.birth_date, %[1]s.class_name, %[1]s.school_year, %[1]s.diagnosis, %[1]s.special_needs, %[1]s.medical_info, %[1]s.status, %[1]s.created_at, %[1]s.updated_at", alias)
}
