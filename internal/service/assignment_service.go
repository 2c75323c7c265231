package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

type assignmentRepository interface {
	ListByGuardian(ctx context.Context, guardianID string) ([]models.Assignment, error)
	ListStudentsByGuardian(ctx context.Context, guardianID string) ([]models.Student, error)
	Replace(ctx context.Context, guardianID string, assignments []models.Assignment) error
}

// AssignmentService maintains guardian-student links. The link set is
// declarative: callers state the complete desired set and Replace swaps the
// stored set for it in one transaction, with no diffing.
type AssignmentService struct {
	repo   assignmentRepository
	logger *zap.Logger
}

// NewAssignmentService constructs an assignment service.
func NewAssignmentService(repo assignmentRepository, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, logger: logger}
}

// ListStudents returns the students linked to the guardian.
func (s *AssignmentService) ListStudents(ctx context.Context, guardianID string) ([]models.Student, error) {
	return s.repo.ListStudentsByGuardian(ctx, guardianID)
}

// Replace swaps the guardian's link set for the given student ids. Duplicate
// ids collapse to one link; the first id becomes the primary contact. An
// empty set clears every link.
func (s *AssignmentService) Replace(ctx context.Context, guardianID string, studentIDs []string, relationship string) error {
	if guardianID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "guardian id is required")
	}
	if relationship == "" {
		relationship = "responsavel"
	}

	seen := make(map[string]struct{}, len(studentIDs))
	assignments := make([]models.Assignment, 0, len(studentIDs))
	for _, id := range studentIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		assignments = append(assignments, models.Assignment{
			GuardianID:   guardianID,
			StudentID:    id,
			Relationship: relationship,
			IsPrimary:    len(assignments) == 0,
		})
	}

	if err := s.repo.Replace(ctx, guardianID, assignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace guardian links")
	}
	s.logger.Info("guardian links replaced",
		zap.String("guardian_id", guardianID), zap.Int("links", len(assignments)))
	return nil
}
