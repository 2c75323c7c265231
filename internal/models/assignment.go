package models

import "time"

// Assignment links a responsavel profile to a student. Uniqueness is per
// (guardian, student) pair; the first assignment of a reconciliation batch is
// the primary contact.
type Assignment struct {
	ID           string    `db:"id" json:"id"`
	GuardianID   string    `db:"guardian_id" json:"guardian_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Relationship string    `db:"relationship" json:"relationship"`
	IsPrimary    bool      `db:"is_primary" json:"is_primary"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
