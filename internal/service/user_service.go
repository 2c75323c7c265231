package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
	appErrors "github.com/z12guilherme/gestao-atipicos/pkg/errors"
)

type profileRepository interface {
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
}

type linkReconciler interface {
	Replace(ctx context.Context, guardianID string, studentIDs []string, relationship string) error
}

// CreateUserInput carries the fields for single-account provisioning.
type CreateUserInput struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=6"`
	Role          string   `json:"role" validate:"required,oneof=gestor cuidador responsavel"`
	CPF           string   `json:"cpf"`
	Phone         string   `json:"phone"`
	FunctionTitle string   `json:"function_title"`
	WorkSchedule  string   `json:"work_schedule"`
	StudentIDs    []string `json:"student_ids"`
	Relationship  string   `json:"relationship"`
}

// UpdateUserInput carries the mutable profile fields. StudentIDs nil leaves
// the guardian's links untouched; non-nil replaces them wholesale.
type UpdateUserInput struct {
	Name          string    `json:"name" validate:"required,min=2"`
	Role          string    `json:"role" validate:"required,oneof=gestor cuidador responsavel"`
	CPF           string    `json:"cpf"`
	Phone         string    `json:"phone"`
	FunctionTitle string    `json:"function_title"`
	WorkSchedule  string    `json:"work_schedule"`
	StudentIDs    *[]string `json:"student_ids"`
	Relationship  string    `json:"relationship"`
}

// UserService provisions and maintains accounts. An account is an identity
// at the external provider paired with a local profile keyed by the identity
// id; create and delete touch both stores, in opposite orders.
type UserService struct {
	repo      profileRepository
	identity  identityProvider
	links     linkReconciler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a user service.
func NewUserService(repo profileRepository, provider identityProvider, links linkReconciler, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, identity: provider, links: links, validator: validate, logger: logger}
}

// List returns profiles matching the filter plus the total match count.
func (s *UserService) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	profiles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return profiles, total, nil
}

// Get returns one profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// Create provisions identity then profile. A profile insert failure rolls the
// identity back so the provider is not left with an account the application
// cannot see. Guardian accounts with student ids get their links reconciled
// after the profile lands.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.Profile, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, firstViolationInput(err))
	}

	ident, err := s.identity.CreateUser(ctx, input.Email, input.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, providerMessage(err))
	}

	profile := &models.Profile{
		ID:            ident.ID,
		Name:          strings.TrimSpace(input.Name),
		Email:         input.Email,
		CPF:           optional(input.CPF),
		Phone:         optional(input.Phone),
		Role:          models.Role(input.Role),
		FunctionTitle: optional(input.FunctionTitle),
		WorkSchedule:  optional(input.WorkSchedule),
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if derr := s.identity.DeleteUser(ctx, ident.ID); derr != nil {
			s.logger.Warn("identity rollback failed after profile insert",
				zap.String("identity_id", ident.ID), zap.Error(derr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user profile")
	}

	if profile.Role == models.RoleResponsavel && len(input.StudentIDs) > 0 {
		if err := s.links.Replace(ctx, profile.ID, input.StudentIDs, input.Relationship); err != nil {
			// The account exists and is usable; links can be retried.
			s.logger.Error("guardian link reconciliation failed after create",
				zap.String("guardian_id", profile.ID), zap.Error(err))
		}
	}

	s.logger.Info("user created", zap.String("id", profile.ID), zap.String("role", string(profile.Role)))
	return profile, nil
}

// Update mutates profile fields and, for guardians, optionally replaces the
// link set.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*models.Profile, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, firstViolationInput(err))
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.Name = strings.TrimSpace(input.Name)
	profile.Role = models.Role(input.Role)
	profile.CPF = optional(input.CPF)
	profile.Phone = optional(input.Phone)
	profile.FunctionTitle = optional(input.FunctionTitle)
	profile.WorkSchedule = optional(input.WorkSchedule)

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user profile")
	}

	if profile.Role == models.RoleResponsavel && input.StudentIDs != nil {
		if err := s.links.Replace(ctx, profile.ID, *input.StudentIDs, input.Relationship); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Delete removes identity then profile. Identity goes first: a dangling
// profile is invisible dead data, a dangling identity is a live login.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.identity.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, providerMessage(err))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user profile")
	}
	s.logger.Info("user deleted", zap.String("id", id))
	return nil
}

// firstViolationInput mirrors the import row diagnostics for the single-record
// path, reusing the same field messages where names line up.
func firstViolationInput(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "Name":
			return "Nome deve ter pelo menos 2 caracteres"
		case "Email":
			return "Email inválido"
		case "Password":
			return "Senha deve ter pelo menos 6 caracteres"
		case "Role":
			return "Perfil deve ser 'gestor', 'cuidador' ou 'responsavel'"
		}
	}
	return "Dados inválidos"
}
