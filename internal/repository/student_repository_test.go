package repository

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

func studentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "cpf", "birth_date", "class_name", "school_year", "diagnosis", "special_needs", "medical_info", "status", "created_at", "updated_at"}).
		AddRow("s1", "Ana", nil, now, nil, nil, nil, nil, nil, string(models.StudentStatusAtivo), now, now)
}

func TestStudentList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(studentRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{Name: "Ana", Status: models.StudentStatusAtivo}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentBulkInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(0, 3))

	students := []models.Student{
		{Name: "Ana", Status: models.StudentStatusAtivo},
		{Name: "Bruno", Status: models.StudentStatusInativo},
		{Name: "Carla", Status: models.StudentStatusTransferido},
	}
	require.NoError(t, repo.BulkInsert(context.Background(), students))
	for _, s := range students {
		assert.NotEmpty(t, s.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentFindByIDMissingMapsToNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	empty := sqlmock.NewRows([]string{"id", "name", "cpf", "birth_date", "class_name", "school_year", "diagnosis", "special_needs", "medical_info", "status", "created_at", "updated_at"})
	mock.ExpectQuery("SELECT .+ FROM students WHERE id = ").
		WithArgs("ghost").
		WillReturnRows(empty)

	_, err := repo.FindByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
