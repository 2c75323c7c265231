package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/z12guilherme/gestao-atipicos/internal/ingest"
	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

// studentRow is the typed form of one imported student line. Coercion from
// the loose RawRow happens before validation, so everything past this point
// is parse-don't-validate: downstream code only ever sees checked values.
type studentRow struct {
	Name         string `validate:"required,min=3"`
	BirthDate    string `validate:"required"`
	Status       string `validate:"required,oneof=ativo inativo transferido"`
	CPF          string
	ClassName    string
	SchoolYear   string
	Diagnosis    string
	SpecialNeeds string
	MedicalInfo  string
}

// userRow is the typed form of one imported account line.
type userRow struct {
	Name          string `validate:"required,min=2"`
	Email         string `validate:"required,email"`
	Password      string `validate:"required,min=6"`
	Role          string `validate:"required,oneof=gestor cuidador responsavel"`
	CPF           string
	Phone         string
	FunctionTitle string
	WorkSchedule  string
	// StudentIDs is accepted for guardian rows but not acted on: bulk import
	// provisions accounts only, and student links are wired through the
	// single-record create/update path.
	StudentIDs string
}

func studentRowFromRaw(raw models.RawRow) studentRow {
	return studentRow{
		Name:         raw.String("name"),
		BirthDate:    ingest.NormalizeDate(raw["birth_date"]),
		Status:       raw.String("status"),
		CPF:          raw.String("cpf"),
		ClassName:    raw.String("class_name"),
		SchoolYear:   raw.String("school_year"),
		Diagnosis:    raw.String("diagnosis"),
		SpecialNeeds: raw.String("special_needs"),
		MedicalInfo:  raw.String("medical_info"),
	}
}

func userRowFromRaw(raw models.RawRow) userRow {
	return userRow{
		Name:          raw.String("name"),
		Email:         strings.ToLower(raw.String("email")),
		Password:      raw.String("password"),
		Role:          raw.String("role"),
		CPF:           raw.String("cpf"),
		Phone:         raw.String("phone"),
		FunctionTitle: raw.String("function_title"),
		WorkSchedule:  raw.String("work_schedule"),
		StudentIDs:    raw.String("student_ids"),
	}
}

func (r studentRow) toStudent() models.Student {
	// BirthDate already passed validation; a parse failure here cannot
	// happen for rows the validator accepted.
	birth, _ := time.Parse("2006-01-02", r.BirthDate)
	return models.Student{
		Name:         r.Name,
		CPF:          optional(r.CPF),
		BirthDate:    &birth,
		ClassName:    optional(r.ClassName),
		SchoolYear:   optional(r.SchoolYear),
		Diagnosis:    optional(r.Diagnosis),
		SpecialNeeds: optional(r.SpecialNeeds),
		MedicalInfo:  optional(r.MedicalInfo),
		Status:       models.StudentStatus(r.Status),
	}
}

func (r userRow) toProfile(identityID string) models.Profile {
	return models.Profile{
		ID:            identityID,
		Name:          r.Name,
		Email:         r.Email,
		CPF:           optional(r.CPF),
		Phone:         optional(r.Phone),
		Role:          models.Role(r.Role),
		FunctionTitle: optional(r.FunctionTitle),
		WorkSchedule:  optional(r.WorkSchedule),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rowMessages maps a struct field to its user-facing diagnostic. Only the
// first violated constraint is reported per row - a deliberate trade of
// diagnostic completeness for simplicity.
var rowMessages = map[string]string{
	"studentRow.Name":      "Nome deve ter pelo menos 3 caracteres",
	"studentRow.BirthDate": "Data de nascimento inválida",
	"studentRow.Status":    "Status deve ser 'ativo', 'inativo' ou 'transferido'",
	"userRow.Name":         "Nome deve ter pelo menos 2 caracteres",
	"userRow.Email":        "Email inválido",
	"userRow.Password":     "Senha deve ter pelo menos 6 caracteres",
	"userRow.Role":         "Perfil deve ser 'gestor', 'cuidador' ou 'responsavel'",
}

func firstViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := rowMessages[fe.StructNamespace()]; ok {
			return msg
		}
		return fmt.Sprintf("Campo '%s' inválido", fe.StructField())
	}
	return "Dados inválidos"
}
