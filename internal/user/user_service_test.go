package user_test

import (
	"context"
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/events"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/user"
	usererrors "github.com/fenan-yosef/hrms-backend/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeUserRepository struct {
	createFn      func(ctx context.Context, u *user.User) error
	findByIDFn    func(ctx context.Context, id string, includeDeleted bool) (*user.User, error)
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
	findAllFn     func(ctx context.Context, scope user.ListScope) ([]user.User, int64, error)
	updateFn      func(ctx context.Context, u *user.User) error
	softDeleteFn  func(ctx context.Context, id string) error
	restoreFn     func(ctx context.Context, id string) error
}

func (f *fakeUserRepository) WithTx(tx *gorm.DB) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id, includeDeleted)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAll(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, scope)
	}
	return nil, 0, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) SoftDelete(ctx context.Context, id string) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeUserRepository) Restore(ctx context.Context, id string) error {
	if f.restoreFn != nil {
		return f.restoreFn(ctx, id)
	}
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type userServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service user.Service
	repo    *fakeUserRepository
	outbox  *fakeOutbox
}

func setupUserServiceTest(t *testing.T) *userServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	repo := &fakeUserRepository{}
	outbox := &fakeOutbox{}
	svc := user.NewService(gdb, repo, outbox, zap.NewNop())

	return &userServiceDeps{sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func hrActor() rbac.Actor {
	return rbac.Actor{ID: uuid.New().String(), Role: domain.RoleHR}
}

func activeUser(role domain.Role) *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "dana@example.com",
		FirstName: "Dana",
		LastName:  "Kebede",
		Role:      role,
		IsActive:  true,
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and enqueues lifecycle event", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		var stored *user.User
		deps.repo.createFn = func(ctx context.Context, u *user.User) error {
			stored = u
			return nil
		}

		resp, err := deps.service.Create(ctx, hrActor(), user.CreateUserRequest{
			Email:     "dana@example.com",
			Password:  "correct horse",
			FirstName: "Dana",
			LastName:  "Kebede",
		})

		require.NoError(t, err)
		assert.Equal(t, "Employee", resp.Role)
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))

		require.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.UserLifecycleTopic, deps.outbox.created[0].Topic)
		assert.Equal(t, events.UserCreated, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email returns existing id", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		existing := activeUser(domain.RoleEmployee)
		deps.repo.findByEmailFn = func(ctx context.Context, email string) (*user.User, error) {
			return existing, nil
		}

		_, err := deps.service.Create(ctx, hrActor(), user.CreateUserRequest{
			Email:     existing.Email,
			Password:  "correct horse",
			FirstName: "Dana",
			LastName:  "Kebede",
		})

		require.ErrorIs(t, err, usererrors.ErrEmailTaken)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, existing.ID.String(), details["id"])
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		_, err := deps.service.Create(ctx, hrActor(), user.CreateUserRequest{
			Email:     "x@example.com",
			Password:  "correct horse",
			FirstName: "X",
			LastName:  "Y",
			Role:      "Overlord",
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})
}

func TestUserService_GetAllScoping(t *testing.T) {
	ctx := context.Background()

	t.Run("employee sees only self", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		actor := rbac.Actor{ID: uuid.New().String(), Role: domain.RoleEmployee}

		var gotScope user.ListScope
		deps.repo.findAllFn = func(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
			gotScope = scope
			return nil, 0, nil
		}

		_, _, err := deps.service.GetAll(ctx, actor, user.ListOptions{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, actor.ID, gotScope.SelfID)
		assert.False(t, gotScope.IncludeDeleted, "employees never see deleted rows")
	})

	t.Run("manager sees own department", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		dept := uuid.New().String()
		actor := rbac.Actor{ID: uuid.New().String(), Role: domain.RoleManager, DepartmentID: dept}

		var gotScope user.ListScope
		deps.repo.findAllFn = func(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
			gotScope = scope
			return nil, 0, nil
		}

		_, _, err := deps.service.GetAll(ctx, actor, user.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, dept, gotScope.DepartmentID)
		assert.Empty(t, gotScope.SelfID)
	})

	t.Run("hr sees all including deleted", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		var gotScope user.ListScope
		deps.repo.findAllFn = func(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
			gotScope = scope
			return nil, 0, nil
		}

		_, _, err := deps.service.GetAll(ctx, hrActor(), user.ListOptions{IncludeDeleted: true})
		require.NoError(t, err)
		assert.True(t, gotScope.IncludeDeleted)
		assert.Empty(t, gotScope.SelfID)
		assert.Empty(t, gotScope.DepartmentID)
	})
}

func TestUserService_PromoteDemote(t *testing.T) {
	ctx := context.Background()

	t.Run("employee promotes to manager", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleEmployee)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			return u, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Promote(ctx, hrActor(), u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Manager", resp.Role)
		require.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.UserPromoted, deps.outbox.created[0].EventType)
	})

	t.Run("ceo cannot be promoted further", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleCEO)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			return u, nil
		}

		_, err := deps.service.Promote(ctx, hrActor(), u.ID.String())
		assert.ErrorIs(t, err, usererrors.ErrAlreadyTopRole)
	})

	t.Run("employee cannot be demoted further", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleEmployee)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			return u, nil
		}

		_, err := deps.service.Demote(ctx, hrActor(), u.ID.String())
		assert.ErrorIs(t, err, usererrors.ErrAlreadyBottomRole)
	})

	t.Run("admin is off the ladder", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleAdmin)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			return u, nil
		}

		_, err := deps.service.Promote(ctx, hrActor(), u.ID.String())
		assert.ErrorIs(t, err, usererrors.ErrNotPromotable)

		_, err = deps.service.Demote(ctx, hrActor(), u.ID.String())
		assert.ErrorIs(t, err, usererrors.ErrNotPromotable)
	})
}

func TestUserService_DisableEnable(t *testing.T) {
	ctx := context.Background()

	deps := setupUserServiceTest(t)
	u := activeUser(domain.RoleEmployee)
	deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
		return u, nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Disable(ctx, hrActor(), u.ID.String())
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	expectTx(t, deps.sqlMock, true)
	resp, err = deps.service.Enable(ctx, hrActor(), u.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	require.Len(t, deps.outbox.created, 2)
	assert.Equal(t, events.UserDisabled, deps.outbox.created[0].EventType)
	assert.Equal(t, events.UserEnabled, deps.outbox.created[1].EventType)
}

func TestUserService_DeleteRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete enqueues event", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleEmployee)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			return u, nil
		}
		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, hrActor(), u.ID.String())
		require.NoError(t, err)
		require.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.UserDeleted, deps.outbox.created[0].EventType)
	})

	t.Run("restore rejects a user that is not deleted", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := activeUser(domain.RoleEmployee)
		deps.repo.findByIDFn = func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
			assert.True(t, includeDeleted)
			return u, nil
		}

		_, err := deps.service.Restore(ctx, hrActor(), u.ID.String())
		assert.ErrorIs(t, err, usererrors.ErrUserNotDeleted)
	})
}
