package models

import "time"

type User struct {
	ID           string    `json:"id" db:"id"`
	TenantID     string    `json:"tenant_id" db:"tenant_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Plan         string    `json:"plan" db:"plan"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserProjection is the shape returned to clients (no password hash, no timestamps).
type UserProjection struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Role  string `json:"role" db:"role"`
	Plan  string `json:"plan" db:"plan"`
}

func (u *User) Projection() UserProjection {
	return UserProjection{ID: u.ID, Email: u.Email, Role: u.Role, Plan: u.Plan}
}
