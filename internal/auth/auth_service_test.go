package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/auth"
	autherrors "github.com/fenan-yosef/hrms-backend/internal/auth/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
	findByIDFn    func(ctx context.Context, id string, includeDeleted bool) (*user.User, error)
	updateFn      func(ctx context.Context, u *user.User) error
}

func (f *fakeUserRepository) WithTx(tx *gorm.DB) user.Repository             { return f }
func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

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
	return nil, 0, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) SoftDelete(ctx context.Context, id string) error { return nil }
func (f *fakeUserRepository) Restore(ctx context.Context, id string) error    { return nil }

var testOpts = auth.Options{
	JWTSecret:       "test-secret",
	AccessTokenTTL:  15 * time.Minute,
	RefreshTokenTTL: 7 * 24 * time.Hour,
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func testUser(t *testing.T, password string) *user.User {
	dept := uuid.New()
	return &user.User{
		ID:           uuid.New(),
		Email:        "lily@example.com",
		Password:     hashFor(t, password),
		FirstName:    "Lily",
		LastName:     "Abebe",
		Role:         domain.RoleManager,
		DepartmentID: &dept,
		IsActive:     true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	const ip = "203.0.113.7"

	t.Run("success issues pair with role and department claims", func(t *testing.T) {
		u := testUser(t, "open sesame")
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, u.Email, email)
				return u, nil
			},
		}
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("auth:failures:" + ip).RedisNil()
		mock.ExpectDel("auth:failures:" + ip).SetVal(0)

		svc := auth.NewService(repo, rdb, testOpts, zap.NewNop())
		pair, profile, err := svc.Login(ctx, u.Email, "open sesame", ip)

		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), profile.ID)
		assert.Equal(t, "Manager", profile.Role)

		token, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(testOpts.JWTSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, u.ID.String(), claims["user_id"])
		assert.Equal(t, "Manager", claims["role"])
		assert.Equal(t, u.DepartmentID.String(), claims["department_id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password records a failure", func(t *testing.T) {
		u := testUser(t, "open sesame")
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("auth:failures:" + ip).RedisNil()
		mock.ExpectIncr("auth:failures:" + ip).SetVal(1)
		mock.ExpectExpire("auth:failures:"+ip, 15*time.Minute).SetVal(true)

		svc := auth.NewService(repo, rdb, testOpts, zap.NewNop())
		_, _, err := svc.Login(ctx, u.Email, "wrong", ip)

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disabled account is rejected after password check", func(t *testing.T) {
		u := testUser(t, "open sesame")
		u.IsActive = false
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("auth:failures:" + ip).RedisNil()

		svc := auth.NewService(repo, rdb, testOpts, zap.NewNop())
		_, _, err := svc.Login(ctx, u.Email, "open sesame", ip)

		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})

	t.Run("throttled after too many failures", func(t *testing.T) {
		repo := &fakeUserRepository{}
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("auth:failures:" + ip).SetVal("10")

		svc := auth.NewService(repo, rdb, testOpts, zap.NewNop())
		_, _, err := svc.Login(ctx, "lily@example.com", "open sesame", ip)

		assert.ErrorIs(t, err, autherrors.ErrTooManyAttempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		u := testUser(t, "open sesame")
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
			findByIDFn: func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
				assert.Equal(t, u.ID.String(), id)
				return u, nil
			},
		}
		svc := auth.NewService(repo, nil, testOpts, zap.NewNop())

		pair, _, err := svc.Login(ctx, u.Email, "open sesame", "")
		require.NoError(t, err)

		newPair, profile, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newPair.AccessToken)
		assert.Equal(t, u.ID.String(), profile.ID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		u := testUser(t, "open sesame")
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": u.ID.String(),
			"role":    "Manager",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := expired.SignedString([]byte(testOpts.JWTSecret))
		require.NoError(t, err)

		svc := auth.NewService(&fakeUserRepository{}, nil, testOpts, zap.NewNop())
		_, _, err = svc.Refresh(ctx, signed)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, nil, testOpts, zap.NewNop())
		_, _, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong current password", func(t *testing.T) {
		u := testUser(t, "open sesame")
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, nil, testOpts, zap.NewNop())

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "brand new pass",
		})
		assert.ErrorIs(t, err, autherrors.ErrWrongPassword)
	})

	t.Run("stores a fresh hash", func(t *testing.T) {
		u := testUser(t, "open sesame")
		var updated *user.User
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
				return u, nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				updated = u
				return nil
			},
		}
		svc := auth.NewService(repo, nil, testOpts, zap.NewNop())

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{
			CurrentPassword: "open sesame",
			NewPassword:     "brand new pass",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("brand new pass")))
	})
}
