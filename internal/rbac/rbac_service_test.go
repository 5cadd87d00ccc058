package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/rbac/infra"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	svc, err := rbac.NewService(enforcer)
	assert.NoError(t, err)
	return svc
}

func TestService_Enforce(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name     string
		role     domain.Role
		resource string
		action   string
		allowed  bool
	}{
		{"employee reads departments", domain.RoleEmployee, rbac.ResourceDepartment, rbac.ActionRead, true},
		{"employee cannot create department", domain.RoleEmployee, rbac.ResourceDepartment, rbac.ActionCreate, false},
		{"manager creates department", domain.RoleManager, rbac.ResourceDepartment, rbac.ActionCreate, true},
		{"hr promotes user", domain.RoleHR, rbac.ResourceUser, rbac.ActionPromote, true},
		{"manager cannot promote user", domain.RoleManager, rbac.ResourceUser, rbac.ActionPromote, false},
		{"employee creates leave", domain.RoleEmployee, rbac.ResourceLeave, rbac.ActionCreate, true},
		{"employee cannot approve leave", domain.RoleEmployee, rbac.ResourceLeave, rbac.ActionApprove, false},
		{"manager approves leave", domain.RoleManager, rbac.ResourceLeave, rbac.ActionApprove, true},
		{"employee cannot read audit logs", domain.RoleEmployee, rbac.ResourceAudit, rbac.ActionRead, false},
		{"ceo reads audit logs", domain.RoleCEO, rbac.ResourceAudit, rbac.ActionRead, true},
		{"manager cannot reset attendance", domain.RoleManager, rbac.ResourceAttendance, rbac.ActionReset, false},
		{"hr resets attendance", domain.RoleHR, rbac.ResourceAttendance, rbac.ActionReset, true},
		{"unknown role denied everywhere", domain.RoleUnknown, rbac.ResourceLeave, rbac.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				ActorID:  "actor",
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestPredicates(t *testing.T) {
	ceo := rbac.Actor{ID: "1", Role: domain.RoleCEO}
	mgr := rbac.Actor{ID: "2", Role: domain.RoleManager, DepartmentID: "dept-a"}
	emp := rbac.Actor{ID: "3", Role: domain.RoleEmployee, DepartmentID: "dept-a"}

	assert.True(t, rbac.IsCEO(ceo))
	assert.False(t, rbac.IsCEO(mgr))
	assert.True(t, rbac.IsManager(mgr))
	assert.True(t, rbac.IsEmployee(emp))

	anyCEOorHR := rbac.AnyOf(rbac.IsCEO, rbac.IsHR)
	assert.True(t, anyCEOorHR(ceo))
	assert.False(t, anyCEOorHR(emp))

	assert.True(t, rbac.IsManagerOfDepartment(mgr, "dept-a"))
	assert.False(t, rbac.IsManagerOfDepartment(mgr, "dept-b"))
	assert.False(t, rbac.IsManagerOfDepartment(mgr, ""))
	assert.False(t, rbac.IsManagerOfDepartment(emp, "dept-a"))

	assert.True(t, rbac.IsSelf(emp, "3"))
	assert.False(t, rbac.IsSelf(emp, "1"))
}

func TestApproverFilters(t *testing.T) {
	t.Run("employee routes to ceo, hr and own-department managers", func(t *testing.T) {
		filters := domain.ApproverFilters(domain.RoleEmployee)
		assert.Len(t, filters, 3)
		assert.Equal(t, domain.RoleCEO, filters[0].Role)
		assert.Equal(t, domain.RoleHR, filters[1].Role)
		assert.Equal(t, domain.RoleManager, filters[2].Role)
		assert.True(t, filters[2].SameDepartment)
	})

	t.Run("ceo routes to hr only", func(t *testing.T) {
		filters := domain.ApproverFilters(domain.RoleCEO)
		assert.Len(t, filters, 1)
		assert.Equal(t, domain.RoleHR, filters[0].Role)
		assert.False(t, filters[0].SameDepartment)
	})

	t.Run("unknown role routes nowhere", func(t *testing.T) {
		assert.Empty(t, domain.ApproverFilters(domain.RoleUnknown))
	})
}
