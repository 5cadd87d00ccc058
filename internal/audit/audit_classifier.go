package audit

import (
	"net/http"
	"strings"
)

// Verbosity modes. Unknown values fall back to minimal.
const (
	ModeOff       = "off"
	ModeMinimal   = "minimal"
	ModeImportant = "important"
	ModeAll       = "all"
)

const ActionAPICall = "api_call"

var authActions = map[string]struct{}{
	"login_success":  {},
	"login_failed":   {},
	"token_refresh":  {},
	"token_rejected": {},
}

var importantActions = map[string]struct{}{
	"login_success":     {},
	"login_failed":      {},
	"token_refresh":     {},
	"token_rejected":    {},
	"user_promoted":     {},
	"user_demoted":      {},
	"user_disabled":     {},
	"user_enabled":      {},
	"complaint_created": {},
	"task_created":      {},
	"leave_approved":    {},
	"leave_denied":      {},
	"setting_changed":   {},
}

// ClassifyAction derives an action code from the request shape. It is a
// heuristic over path+verb patterns, not a registry; unmatched requests
// get no specific action.
func ClassifyAction(method, path string, statusCode int) string {
	failed := statusCode >= http.StatusBadRequest

	switch {
	case strings.HasSuffix(path, "/auth/login"):
		if failed {
			return "login_failed"
		}
		return "login_success"
	case strings.HasSuffix(path, "/auth/refresh"):
		if failed {
			return "token_rejected"
		}
		return "token_refresh"
	case strings.HasSuffix(path, "/promote") && method == http.MethodPost:
		return "user_promoted"
	case strings.HasSuffix(path, "/demote") && method == http.MethodPost:
		return "user_demoted"
	case strings.HasSuffix(path, "/disable") && method == http.MethodPost:
		return "user_disabled"
	case strings.HasSuffix(path, "/enable") && method == http.MethodPost:
		return "user_enabled"
	case strings.HasSuffix(path, "/approve") && strings.Contains(path, "/leaves/"):
		return "leave_approved"
	case strings.HasSuffix(path, "/deny") && strings.Contains(path, "/leaves/"):
		return "leave_denied"
	case strings.Contains(path, "/complaints") && method == http.MethodPost && !strings.HasSuffix(path, "/set-status"):
		return "complaint_created"
	case strings.Contains(path, "/tasks") && method == http.MethodPost &&
		!strings.HasSuffix(path, "/assign") && !strings.HasSuffix(path, "/unassign") && !strings.HasSuffix(path, "/mark-done"):
		return "task_created"
	case strings.Contains(path, "/settings") && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch):
		return "setting_changed"
	default:
		return ""
	}
}

// ShouldLog applies the verbosity mode to a classified action.
func ShouldLog(mode, action string, statusCode int) bool {
	switch mode {
	case ModeOff:
		return false
	case ModeAll:
		return true
	case ModeImportant:
		if _, ok := importantActions[action]; ok {
			return true
		}
		return statusCode >= http.StatusInternalServerError
	default: // minimal, or unknown mode treated as minimal
		if _, ok := authActions[action]; ok {
			return true
		}
		return statusCode >= http.StatusInternalServerError
	}
}
