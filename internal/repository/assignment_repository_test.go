package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

func TestAssignmentReplaceDeletesThenInserts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guardians_students WHERE guardian_id = $1")).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO guardians_students").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	assignments := []models.Assignment{
		{StudentID: "s1", Relationship: "mãe", IsPrimary: true},
		{StudentID: "s2", Relationship: "mãe"},
		{StudentID: "s3", Relationship: "mãe"},
	}
	err := repo.Replace(context.Background(), "g1", assignments)
	require.NoError(t, err)
	for _, a := range assignments {
		assert.Equal(t, "g1", a.GuardianID)
		assert.NotEmpty(t, a.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentReplaceEmptySetOnlyDeletes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guardians_students WHERE guardian_id = $1")).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), "g1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM guardians_students WHERE guardian_id = $1")).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO guardians_students").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "g1", []models.Assignment{{StudentID: "s1", IsPrimary: true}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentListByGuardian(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "guardian_id", "student_id", "relationship", "is_primary", "created_at"}).
		AddRow("a1", "g1", "s1", "pai", true, now).
		AddRow("a2", "g1", "s2", "pai", false, now)
	mock.ExpectQuery("FROM guardians_students WHERE guardian_id = ").
		WithArgs("g1").
		WillReturnRows(rows)

	assignments, err := repo.ListByGuardian(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.True(t, assignments[0].IsPrimary)
	assert.False(t, assignments[1].IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
