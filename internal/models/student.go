package models

import "time"

// StudentStatus enumerates the enrollment states of a student.
type StudentStatus string

const (
	StudentStatusAtivo       StudentStatus = "ativo"
	StudentStatusInativo     StudentStatus = "inativo"
	StudentStatusTransferido StudentStatus = "transferido"
)

// ValidStudentStatus reports whether the value is a recognised status.
func ValidStudentStatus(s StudentStatus) bool {
	switch s {
	case StudentStatusAtivo, StudentStatusInativo, StudentStatusTransferido:
		return true
	}
	return false
}

// Student represents a student record.
type Student struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	CPF          *string       `db:"cpf" json:"cpf,omitempty"`
	BirthDate    *time.Time    `db:"birth_date" json:"birth_date,omitempty"`
	ClassName    *string       `db:"class_name" json:"class_name,omitempty"`
	SchoolYear   *string       `db:"school_year" json:"school_year,omitempty"`
	Diagnosis    *string       `db:"diagnosis" json:"diagnosis,omitempty"`
	SpecialNeeds *string       `db:"special_needs" json:"special_needs,omitempty"`
	MedicalInfo  *string       `db:"medical_info" json:"medical_info,omitempty"`
	Status       StudentStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Status   *StudentStatus
	Search   string
	Page     int
	PageSize int
}
