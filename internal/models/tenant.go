package models

import "time"

type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Plan      string    `db:"plan" json:"plan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TenantView is the admin dashboard projection: the tenant plus its members.
type TenantView struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Slug  string           `json:"slug"`
	Plan  string           `json:"plan"`
	Users []UserProjection `json:"users"`
}
