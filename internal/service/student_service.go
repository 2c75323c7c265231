package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

const studentsCacheKeyPattern = "students:*"

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// studentListPayload is the cached shape of one student listing.
type studentListPayload struct {
	Students []models.Student `json:"students"`
	Total    int              `json:"total"`
}

// StudentService exposes student CRUD. Listings are served through the cache
// when enabled; every write invalidates the whole listing keyspace rather
// than tracking which pages a change affects.
type StudentService struct {
	repo   studentRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewStudentService constructs a student service.
func NewStudentService(repo studentRepository, cache *CacheService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, logger: logger}
}

// List returns students matching the filter plus the total match count.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	key := studentListCacheKey(filter)
	var cached studentListPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Students, cached.Total, nil
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	s.cache.Set(ctx, key, studentListPayload{Students: students, Total: total})
	return students, total, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Create validates and persists a new student.
func (s *StudentService) Create(ctx context.Context, student *models.Student) error {
	if err := validateStudent(student); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.cache.Invalidate(ctx, studentsCacheKeyPattern)
	return nil
}

// Update validates and persists changes to an existing student.
func (s *StudentService) Update(ctx context.Context, student *models.Student) error {
	if err := validateStudent(student); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, student.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.cache.Invalidate(ctx, studentsCacheKeyPattern)
	return nil
}

// Delete removes a student. Relationship rows referencing the student are
// removed by the database cascade.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.cache.Invalidate(ctx, studentsCacheKeyPattern)
	return nil
}

func validateStudent(student *models.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	// Rune count, not bytes: accented names must behave the same here as
	// under the import path's min=3 tag.
	if utf8.RuneCountInString(student.Name) < 3 {
		return appErrors.Clone(appErrors.ErrValidation, "Nome deve ter pelo menos 3 caracteres")
	}
	if student.Status == "" {
		student.Status = models.StudentStatusAtivo
	}
	if !models.ValidStudentStatus(student.Status) {
		return appErrors.Clone(appErrors.ErrValidation, "Status deve ser 'ativo', 'inativo' ou 'transferido'")
	}
	return nil
}

func studentListCacheKey(filter models.StudentFilter) string {
	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	return fmt.Sprintf("students:list:%s:%s:%d:%d", status, filter.Search, filter.Page, filter.PageSize)
}
