package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// The model is fixed: a flat role/resource/action tuple match. Policies
// come from the static table in the rbac package, not from storage.
const modelText = `
[request_definition]
r = role, resource, act

[policy_definition]
p = role, resource, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.role == p.role && r.resource == p.resource && r.act == p.act
`

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
