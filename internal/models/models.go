package models

// Role and plan values as stored. Plans are held independently by a tenant
// and by each of its users; roles never change after seeding.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// FreeNoteLimit is the number of notes a FREE-plan member may own.
const FreeNoteLimit = 3

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

func ValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanPro
}
