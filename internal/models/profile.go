package models

import "time"

// Role enumerates the access profiles recognised by the institution.
type Role string

const (
	RoleGestor      Role = "gestor"
	RoleCuidador    Role = "cuidador"
	RoleResponsavel Role = "responsavel"
)

// ValidRole reports whether the value is one of the recognised roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleGestor, RoleCuidador, RoleResponsavel:
		return true
	}
	return false
}

// Profile is the internal record describing a person. Its primary key is the
// id of the paired identity at the external provider (1:1, same lifetime
// intent, not transactionally enforced).
type Profile struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	CPF           *string   `db:"cpf" json:"cpf,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Role          Role      `db:"role" json:"role"`
	FunctionTitle *string   `db:"function_title" json:"function_title,omitempty"`
	WorkSchedule  *string   `db:"work_schedule" json:"work_schedule,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileFilter captures filtering criteria for listing profiles.
type ProfileFilter struct {
	Role     *Role
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
