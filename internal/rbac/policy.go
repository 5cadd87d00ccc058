package rbac

import "github.com/fenan-yosef/hrms-backend/internal/domain"

// Resource and action names used across route registrations.
const (
	ResourceUser        = "user"
	ResourceDepartment  = "department"
	ResourceLeave       = "leave"
	ResourceLeaveType   = "leave_type"
	ResourcePerformance = "performance"
	ResourceAttendance  = "attendance"
	ResourceTask        = "task"
	ResourceComplaint   = "complaint"
	ResourceSetting     = "setting"
	ResourceAudit       = "audit"
	ResourceAnalytics   = "analytics"
	ResourceReport      = "report"

	ActionRead      = "read"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionRestore   = "restore"
	ActionApprove   = "approve"
	ActionAssign    = "assign"
	ActionFinalize  = "finalize"
	ActionSetStatus = "set_status"
	ActionPromote   = "promote"
	ActionExport    = "export"
	ActionReset     = "reset"
)

var everyone = []domain.Role{
	domain.RoleCEO, domain.RoleHR, domain.RoleManager, domain.RoleEmployee, domain.RoleAdmin,
}

var ceoHR = []domain.Role{domain.RoleCEO, domain.RoleHR, domain.RoleAdmin}

var ceoHRManager = []domain.Role{
	domain.RoleCEO, domain.RoleHR, domain.RoleManager, domain.RoleAdmin,
}

// policyRule grants an action on a resource to a set of roles. The table
// is the whole authorization matrix; services narrow further by ownership
// and department where object-level checks apply.
type policyRule struct {
	Resource string
	Action   string
	Roles    []domain.Role
}

// DefaultPolicy is loaded into the enforcer at startup. Reads default to
// every authenticated role; writes require an explicit grant.
func DefaultPolicy() []policyRule {
	return []policyRule{
		{ResourceUser, ActionRead, everyone},
		{ResourceUser, ActionCreate, ceoHR},
		{ResourceUser, ActionUpdate, ceoHR},
		{ResourceUser, ActionDelete, ceoHR},
		{ResourceUser, ActionRestore, ceoHR},
		{ResourceUser, ActionPromote, ceoHR},

		{ResourceDepartment, ActionRead, everyone},
		{ResourceDepartment, ActionCreate, ceoHRManager},
		{ResourceDepartment, ActionUpdate, ceoHRManager},
		{ResourceDepartment, ActionDelete, ceoHRManager},

		{ResourceLeave, ActionRead, everyone},
		{ResourceLeave, ActionCreate, everyone},
		{ResourceLeave, ActionUpdate, everyone},
		{ResourceLeave, ActionDelete, everyone},
		{ResourceLeave, ActionRestore, ceoHR},
		{ResourceLeave, ActionApprove, ceoHRManager},

		{ResourceLeaveType, ActionRead, everyone},
		{ResourceLeaveType, ActionCreate, ceoHR},
		{ResourceLeaveType, ActionUpdate, ceoHR},
		{ResourceLeaveType, ActionDelete, ceoHR},

		{ResourcePerformance, ActionRead, everyone},
		{ResourcePerformance, ActionCreate, ceoHRManager},
		{ResourcePerformance, ActionUpdate, ceoHRManager},
		{ResourcePerformance, ActionDelete, ceoHR},
		{ResourcePerformance, ActionFinalize, ceoHRManager},

		{ResourceAttendance, ActionRead, everyone},
		{ResourceAttendance, ActionCreate, everyone},
		{ResourceAttendance, ActionReset, ceoHR},
		{ResourceAttendance, ActionExport, ceoHRManager},

		{ResourceTask, ActionRead, everyone},
		{ResourceTask, ActionCreate, everyone},
		{ResourceTask, ActionUpdate, everyone},
		{ResourceTask, ActionDelete, everyone},
		{ResourceTask, ActionAssign, everyone},

		{ResourceComplaint, ActionRead, everyone},
		{ResourceComplaint, ActionCreate, everyone},
		{ResourceComplaint, ActionUpdate, everyone},
		{ResourceComplaint, ActionDelete, ceoHR},
		{ResourceComplaint, ActionSetStatus, ceoHR},

		{ResourceSetting, ActionRead, everyone},
		{ResourceSetting, ActionCreate, ceoHR},
		{ResourceSetting, ActionUpdate, ceoHR},
		{ResourceSetting, ActionDelete, ceoHR},

		{ResourceAudit, ActionRead, ceoHR},

		{ResourceAnalytics, ActionRead, everyone},

		{ResourceReport, ActionRead, ceoHR},
		{ResourceReport, ActionCreate, ceoHR},
	}
}
