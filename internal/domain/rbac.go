package domain

// EnforceRequest is the question asked of the RBAC layer for every
// mutating route: may this role perform this action on this resource.
type EnforceRequest struct {
	ActorID  string `json:"actor_id" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
