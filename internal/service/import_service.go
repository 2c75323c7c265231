package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/identity"
	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

const (
	// headerOffset turns a 0-based row index into the spreadsheet line the
	// operator sees: 1-based, plus one for the header row.
	headerOffset = 2

	// batchErrorLine marks diagnostics that apply to the whole batch
	// rather than to a single row.
	batchErrorLine = 0
)

type identityProvider interface {
	CreateUser(ctx context.Context, email, password string) (*identity.Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

type profileBulkRepository interface {
	BulkInsert(ctx context.Context, profiles []models.Profile) error
}

type studentBulkRepository interface {
	BulkInsert(ctx context.Context, students []models.Student) error
}

// ImportService runs the bulk provisioning pipeline: validate each row,
// provision paired identity+profile records, and aggregate per-row outcomes.
//
// Account imports are a two-step saga per row (identity at the provider,
// then profile locally) with batch-level compensation: staged profiles are
// committed in one bulk insert, and if that insert fails every identity
// created during the run is deleted again. The compensation is best effort -
// a crash between identity creation and the bulk insert, or mid-compensation,
// can leave orphaned identities with no matching profile. There is no shared
// transaction coordinator between the two stores, so this window is a known
// limitation rather than a bug.
type ImportService struct {
	profiles  profileBulkRepository
	students  studentBulkRepository
	identity  identityProvider
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewImportService constructs the import service.
func NewImportService(profiles profileBulkRepository, students studentBulkRepository, provider identityProvider, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		profiles:  profiles,
		students:  students,
		identity:  provider,
		validator: validate,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// ImportUsers provisions one identity+profile pair per valid row. Rows are
// processed strictly in input order, one at a time; a row failure never
// aborts the batch, a bulk-persistence failure aborts and compensates.
func (s *ImportService) ImportUsers(ctx context.Context, rows []models.RawRow) models.ImportResult {
	result := models.ImportResult{Errors: []models.RowError{}}

	staged := make([]models.Profile, 0, len(rows))
	createdIDs := make([]string, 0, len(rows))

	for i, raw := range rows {
		line := i + headerOffset

		row := userRowFromRaw(raw)
		if err := s.validator.Struct(row); err != nil {
			result.AddError(line, firstViolation(err))
			continue
		}

		ident, err := s.identity.CreateUser(ctx, row.Email, row.Password)
		if err != nil {
			result.AddError(line, fmt.Sprintf("Email %s: %s", row.Email, providerMessage(err)))
			continue
		}

		createdIDs = append(createdIDs, ident.ID)
		staged = append(staged, row.toProfile(ident.ID))
	}

	if len(staged) > 0 {
		if err := s.profiles.BulkInsert(ctx, staged); err != nil {
			s.logger.Error("bulk profile insert failed, compensating identities",
				zap.Int("identities", len(createdIDs)), zap.Error(err))
			s.compensate(ctx, createdIDs)
			s.metrics.RecordImportBatch("users", "compensated")
			// The whole batch is treated as failed: per-row accounting is
			// discarded and one batch-level message takes its place.
			return models.ImportResult{
				SuccessCount: 0,
				ErrorCount:   len(rows),
				Errors: []models.RowError{{
					Line:  batchErrorLine,
					Error: fmt.Sprintf("Falha ao gravar perfis em lote, importação desfeita: %v", err),
				}},
			}
		}
	}

	result.SuccessCount = len(staged)
	s.metrics.RecordImportRows("users", result.SuccessCount, result.ErrorCount)
	s.metrics.RecordImportBatch("users", "completed")
	s.logger.Info("user import finished",
		zap.Int("success", result.SuccessCount), zap.Int("errors", result.ErrorCount))
	return result
}

// ImportStudents bulk-inserts valid student rows. Students are pure data with
// no paired external resource, so there is nothing to compensate: the bulk
// insert either lands as a whole or fails as a whole.
func (s *ImportService) ImportStudents(ctx context.Context, rows []models.RawRow) models.ImportResult {
	result := models.ImportResult{Errors: []models.RowError{}}

	staged := make([]models.Student, 0, len(rows))
	for i, raw := range rows {
		line := i + headerOffset

		row := studentRowFromRaw(raw)
		if err := s.validator.Struct(row); err != nil {
			result.AddError(line, firstViolation(err))
			continue
		}
		staged = append(staged, row.toStudent())
	}

	if len(staged) > 0 {
		if err := s.students.BulkInsert(ctx, staged); err != nil {
			s.logger.Error("bulk student insert failed", zap.Error(err))
			s.metrics.RecordImportBatch("students", "failed")
			return models.ImportResult{
				SuccessCount: 0,
				ErrorCount:   len(rows),
				Errors: []models.RowError{{
					Line:  batchErrorLine,
					Error: fmt.Sprintf("Falha ao gravar estudantes em lote: %v", err),
				}},
			}
		}
	}

	result.SuccessCount = len(staged)
	s.cache.Invalidate(ctx, studentsCacheKeyPattern)
	s.metrics.RecordImportRows("students", result.SuccessCount, result.ErrorCount)
	s.metrics.RecordImportBatch("students", "completed")
	s.logger.Info("student import finished",
		zap.Int("success", result.SuccessCount), zap.Int("errors", result.ErrorCount))
	return result
}

// compensate deletes every identity created during this run. Guardians
// provisioned by bulk import carry no student links yet (relationship wiring
// exists only on the single-record path), so identity deletion is the only
// external side effect to unwind.
func (s *ImportService) compensate(ctx context.Context, identityIDs []string) {
	for _, id := range identityIDs {
		if err := s.identity.DeleteUser(ctx, id); err != nil {
			s.logger.Warn("compensating identity delete failed",
				zap.String("identity_id", id), zap.Error(err))
		}
	}
}

func providerMessage(err error) string {
	var perr *identity.ProviderError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}
