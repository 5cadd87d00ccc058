package rbac

import "github.com/fenan-yosef/hrms-backend/internal/domain"

// Predicate answers a single role question for an actor. Predicates are
// pure; object scoping happens through the object-level variants below.
type Predicate func(actor Actor) bool

// Actor is the minimal authenticated-user view predicates operate on.
type Actor struct {
	ID           string
	Role         domain.Role
	DepartmentID string
}

func IsCEO(actor Actor) bool      { return actor.Role == domain.RoleCEO }
func IsHR(actor Actor) bool       { return actor.Role == domain.RoleHR }
func IsManager(actor Actor) bool  { return actor.Role == domain.RoleManager }
func IsEmployee(actor Actor) bool { return actor.Role == domain.RoleEmployee }
func IsAdmin(actor Actor) bool    { return actor.Role == domain.RoleAdmin }

// AnyOf is true iff any one of the given predicates is true.
func AnyOf(predicates ...Predicate) Predicate {
	return func(actor Actor) bool {
		for _, p := range predicates {
			if p(actor) {
				return true
			}
		}
		return false
	}
}

// IsManagerOfDepartment is the object-level check: a Manager acting on an
// object belonging to their own department. An empty object department
// never matches.
func IsManagerOfDepartment(actor Actor, objectDepartmentID string) bool {
	return actor.Role == domain.RoleManager &&
		objectDepartmentID != "" &&
		actor.DepartmentID == objectDepartmentID
}

// IsSelf allows a user to act on their own record.
func IsSelf(actor Actor, ownerID string) bool {
	return ownerID != "" && actor.ID == ownerID
}
