package domain

import "strings"

// Role is the closed set of roles driving every authorization decision.
// Parsing is case-insensitive and happens once at the boundary (JWT claims,
// request DTOs); downstream code compares Role values directly.
type Role string

const (
	RoleCEO      Role = "CEO"
	RoleHR       Role = "HR"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
	RoleUnknown  Role = ""
)

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ceo":
		return RoleCEO
	case "hr":
		return RoleHR
	case "manager":
		return RoleManager
	case "employee":
		return RoleEmployee
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r != RoleUnknown
}

// ApproverFilter describes one class of users allowed to decide on a leave
// request: a role, optionally narrowed to the requester's department.
type ApproverFilter struct {
	Role           Role
	SameDepartment bool
}

// ApproverFilters is the static routing table from the requesting
// employee's role to the users who may approve. It is a lookup, not a
// traversal: callers turn each filter into a query.
func ApproverFilters(requester Role) []ApproverFilter {
	switch requester {
	case RoleEmployee:
		return []ApproverFilter{
			{Role: RoleCEO},
			{Role: RoleHR},
			{Role: RoleManager, SameDepartment: true},
		}
	case RoleManager:
		return []ApproverFilter{
			{Role: RoleCEO},
			{Role: RoleHR},
		}
	case RoleHR:
		return []ApproverFilter{
			{Role: RoleCEO},
		}
	case RoleCEO:
		return []ApproverFilter{
			{Role: RoleHR},
		}
	default:
		return nil
	}
}

// PromotionLadder orders the roles a user can be promoted/demoted through.
// Admin sits outside the ladder.
var PromotionLadder = []Role{RoleEmployee, RoleManager, RoleHR, RoleCEO}

// NextRole returns the role one step up the ladder, or RoleUnknown at the top.
func NextRole(r Role) Role {
	for i, step := range PromotionLadder {
		if step == r && i+1 < len(PromotionLadder) {
			return PromotionLadder[i+1]
		}
	}
	return RoleUnknown
}

// PrevRole returns the role one step down the ladder, or RoleUnknown at the bottom.
func PrevRole(r Role) Role {
	for i, step := range PromotionLadder {
		if step == r && i > 0 {
			return PromotionLadder[i-1]
		}
	}
	return RoleUnknown
}
