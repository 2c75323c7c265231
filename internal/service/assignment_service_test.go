package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

type fakeAssignmentRepo struct {
	byGuardian map[string][]models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byGuardian: make(map[string][]models.Assignment)}
}

func (f *fakeAssignmentRepo) ListByGuardian(_ context.Context, guardianID string) ([]models.Assignment, error) {
	return f.byGuardian[guardianID], nil
}

func (f *fakeAssignmentRepo) ListStudentsByGuardian(_ context.Context, guardianID string) ([]models.Student, error) {
	students := make([]models.Student, 0, len(f.byGuardian[guardianID]))
	for _, a := range f.byGuardian[guardianID] {
		students = append(students, models.Student{ID: a.StudentID})
	}
	return students, nil
}

func (f *fakeAssignmentRepo) Replace(_ context.Context, guardianID string, assignments []models.Assignment) error {
	f.byGuardian[guardianID] = assignments
	return nil
}

func TestAssignmentServiceReplace(t *testing.T) {
	repo := newFakeAssignmentRepo()
	repo.byGuardian["g1"] = []models.Assignment{{GuardianID: "g1", StudentID: "old"}}
	svc := NewAssignmentService(repo, zap.NewNop())

	err := svc.Replace(context.Background(), "g1", []string{"s1", "s2", "s1"}, "mae")
	require.NoError(t, err)

	stored := repo.byGuardian["g1"]
	require.Len(t, stored, 2)
	assert.Equal(t, "s1", stored[0].StudentID)
	assert.True(t, stored[0].IsPrimary)
	assert.Equal(t, "s2", stored[1].StudentID)
	assert.False(t, stored[1].IsPrimary)
	assert.Equal(t, "mae", stored[0].Relationship)
}

func TestAssignmentServiceReplaceEmptyClearsLinks(t *testing.T) {
	repo := newFakeAssignmentRepo()
	repo.byGuardian["g1"] = []models.Assignment{{GuardianID: "g1", StudentID: "s1"}}
	svc := NewAssignmentService(repo, zap.NewNop())

	require.NoError(t, svc.Replace(context.Background(), "g1", nil, ""))
	assert.Empty(t, repo.byGuardian["g1"])
}

func TestAssignmentServiceReplaceDefaultsRelationship(t *testing.T) {
	repo := newFakeAssignmentRepo()
	svc := NewAssignmentService(repo, zap.NewNop())

	require.NoError(t, svc.Replace(context.Background(), "g1", []string{"s1"}, ""))
	require.Len(t, repo.byGuardian["g1"], 1)
	assert.Equal(t, "responsavel", repo.byGuardian["g1"][0].Relationship)
}

func TestAssignmentServiceListStudents(t *testing.T) {
	repo := newFakeAssignmentRepo()
	repo.byGuardian["g1"] = []models.Assignment{
		{GuardianID: "g1", StudentID: "s1"},
		{GuardianID: "g1", StudentID: "s2"},
	}
	svc := NewAssignmentService(repo, zap.NewNop())

	students, err := svc.ListStudents(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
}
