package department_test

import (
	"context"
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/department"
	departmenterrors "github.com/fenan-yosef/hrms-backend/internal/department/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeDeptRepo struct {
	createFn     func(ctx context.Context, d *department.Department) error
	findAllFn    func(ctx context.Context, includeDeleted bool) ([]department.Department, error)
	findByIDFn   func(ctx context.Context, id string, includeDeleted bool) (*department.Department, error)
	findByCodeFn func(ctx context.Context, code string) (*department.Department, error)
	updateFn     func(ctx context.Context, d *department.Department) error
	softDeleteFn func(ctx context.Context, id string) error
	restoreFn    func(ctx context.Context, id string) error
}

func (f *fakeDeptRepo) Create(ctx context.Context, d *department.Department) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

func (f *fakeDeptRepo) FindAll(ctx context.Context, includeDeleted bool) ([]department.Department, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, includeDeleted)
	}
	return nil, nil
}

func (f *fakeDeptRepo) FindByID(ctx context.Context, id string, includeDeleted bool) (*department.Department, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id, includeDeleted)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) FindByCode(ctx context.Context, code string) (*department.Department, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeptRepo) Update(ctx context.Context, d *department.Department) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
	}
	return nil
}

func (f *fakeDeptRepo) SoftDelete(ctx context.Context, id string) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeDeptRepo) Restore(ctx context.Context, id string) error {
	if f.restoreFn != nil {
		return f.restoreFn(ctx, id)
	}
	return nil
}

type fakeUserLookup struct {
	findByIDFn func(ctx context.Context, id string, includeDeleted bool) (*user.User, error)
}

func (f *fakeUserLookup) WithTx(tx *gorm.DB) user.Repository             { return f }
func (f *fakeUserLookup) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserLookup) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserLookup) FindAll(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserLookup) Update(ctx context.Context, u *user.User) error  { return nil }
func (f *fakeUserLookup) SoftDelete(ctx context.Context, id string) error { return nil }
func (f *fakeUserLookup) Restore(ctx context.Context, id string) error    { return nil }

func (f *fakeUserLookup) FindByID(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id, includeDeleted)
	}
	return nil, gorm.ErrRecordNotFound
}

func hrActor() rbac.Actor {
	return rbac.Actor{ID: uuid.New().String(), Role: domain.RoleHR}
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate code returns existing id", func(t *testing.T) {
		existing := &department.Department{ID: uuid.New(), Name: "Engineering", Code: "ENG"}
		repo := &fakeDeptRepo{
			findByCodeFn: func(ctx context.Context, code string) (*department.Department, error) {
				return existing, nil
			},
		}
		svc := department.NewService(repo, &fakeUserLookup{}, zap.NewNop())

		_, err := svc.Create(ctx, hrActor(), department.CreateDepartmentRequest{Name: "Engineering", Code: "ENG"})
		assert.ErrorIs(t, err, departmenterrors.ErrCodeTaken)
	})

	t.Run("assigning a non-manager logs a warning but succeeds", func(t *testing.T) {
		core, observed := observer.New(zap.WarnLevel)
		logger := zap.New(core)

		manager := &user.User{ID: uuid.New(), Role: domain.RoleEmployee, IsActive: true}
		users := &fakeUserLookup{
			findByIDFn: func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
				return manager, nil
			},
		}
		var created *department.Department
		repo := &fakeDeptRepo{
			createFn: func(ctx context.Context, d *department.Department) error {
				created = d
				return nil
			},
		}
		svc := department.NewService(repo, users, logger)

		resp, err := svc.Create(ctx, hrActor(), department.CreateDepartmentRequest{
			Name:      "Sales",
			Code:      "SAL",
			ManagerID: manager.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, manager.ID.String(), resp.ManagerID)
		require.NotNil(t, created)

		warned := false
		for _, entry := range observed.All() {
			if entry.Message == "department manager does not hold the Manager role" {
				warned = true
			}
		}
		assert.True(t, warned)
	})

	t.Run("unknown manager is rejected", func(t *testing.T) {
		repo := &fakeDeptRepo{}
		svc := department.NewService(repo, &fakeUserLookup{}, zap.NewNop())

		_, err := svc.Create(ctx, hrActor(), department.CreateDepartmentRequest{
			Name:      "Sales",
			Code:      "SAL",
			ManagerID: uuid.New().String(),
		})
		assert.ErrorIs(t, err, departmenterrors.ErrManagerNotFound)
	})
}

func TestDepartmentService_GetAllScopesDeleted(t *testing.T) {
	ctx := context.Background()

	var gotIncludeDeleted bool
	repo := &fakeDeptRepo{
		findAllFn: func(ctx context.Context, includeDeleted bool) ([]department.Department, error) {
			gotIncludeDeleted = includeDeleted
			return nil, nil
		},
	}
	svc := department.NewService(repo, &fakeUserLookup{}, zap.NewNop())

	employee := rbac.Actor{ID: uuid.New().String(), Role: domain.RoleEmployee}
	_, err := svc.GetAll(ctx, employee, true)
	require.NoError(t, err)
	assert.False(t, gotIncludeDeleted, "non-privileged roles never see deleted departments")

	_, err = svc.GetAll(ctx, hrActor(), true)
	require.NoError(t, err)
	assert.True(t, gotIncludeDeleted)
}

func TestDepartmentService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects restore of live department", func(t *testing.T) {
		live := &department.Department{ID: uuid.New(), Name: "Ops", Code: "OPS"}
		repo := &fakeDeptRepo{
			findByIDFn: func(ctx context.Context, id string, includeDeleted bool) (*department.Department, error) {
				return live, nil
			},
		}
		svc := department.NewService(repo, &fakeUserLookup{}, zap.NewNop())

		_, err := svc.Restore(ctx, hrActor(), live.ID.String())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotDeleted)
	})
}
