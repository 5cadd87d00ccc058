package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewService loads the static policy matrix into the enforcer once.
// The policy never changes at runtime; the mutex guards casbin's
// internal state against concurrent Enforce calls.
func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	for _, rule := range DefaultPolicy() {
		for _, role := range rule.Roles {
			if _, err := enforcer.AddPolicy(role.String(), rule.Resource, rule.Action); err != nil {
				return nil, err
			}
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role.String(), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("role", req.Role.String()),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	if !allowed {
		s.logger.Debug("enforce denied",
			zap.String("actor_id", req.ActorID),
			zap.String("role", req.Role.String()),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
		)
	}

	return allowed, nil
}
