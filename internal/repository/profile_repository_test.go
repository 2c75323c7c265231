package repository

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func profileRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "cpf", "phone", "role", "function_title", "work_schedule", "created_at", "updated_at"}).
		AddRow("p1", "Maria", "maria@example.com", nil, nil, string(models.RoleGestor), nil, nil, now, now)
}

func TestProfileFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, cpf, phone, role, function_title, work_schedule, created_at, updated_at FROM profiles WHERE id = $1 LIMIT 1")).
		WithArgs("p1").
		WillReturnRows(profileRows(now))

	profile, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGestor, profile.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileListWithRoleFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE 1=1 AND role = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(models.RoleResponsavel).
		WillReturnRows(profileRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles WHERE 1=1 AND role = $1")).
		WithArgs(models.RoleResponsavel).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	role := models.RoleResponsavel
	profiles, total, err := repo.List(context.Background(), models.ProfileFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileBulkInsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec("INSERT INTO profiles").WillReturnResult(sqlmock.NewResult(0, 2))

	profiles := []models.Profile{
		{ID: "id-1", Name: "Ana", Email: "a@x.com", Role: models.RoleCuidador},
		{ID: "id-2", Name: "Bia", Email: "b@x.com", Role: models.RoleResponsavel},
	}
	err := repo.BulkInsert(context.Background(), profiles)
	require.NoError(t, err)
	assert.False(t, profiles[0].UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileBulkInsertEmptyBatchIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	require.NoError(t, repo.BulkInsert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM profiles WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileFindByIDMissingMapsToNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	empty := sqlmock.NewRows([]string{"id", "name", "email", "cpf", "phone", "role", "function_title", "work_schedule", "created_at", "updated_at"})
	mock.ExpectQuery("SELECT .+ FROM profiles WHERE id = ").
		WithArgs("ghost").
		WillReturnRows(empty)

	_, err := repo.FindByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
