package auth

import (
	"context"
	"time"

	autherrors "github.com/fenan-yosef/hrms-backend/internal/auth/errors"
	"github.com/fenan-yosef/hrms-backend/internal/user"
	usererrors "github.com/fenan-yosef/hrms-backend/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginFailureKeyPrefix = "auth:failures:"
	loginFailureWindow    = 15 * time.Minute
	maxLoginFailures      = 10
)

// Options carries the token parameters the service signs with.
type Options struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password, clientIP string) (TokenPair, AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	users  user.Repository
	rdb    *redis.Client
	opts   Options
	logger *zap.Logger
}

func NewService(users user.Repository, rdb *redis.Client, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, rdb: rdb, opts: opts, logger: l}
}

func (s *service) Login(ctx context.Context, email, password, clientIP string) (TokenPair, AuthResponse, error) {
	if err := s.checkThrottle(ctx, clientIP); err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, clientIP)
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.recordFailure(ctx, clientIP)
		s.logger.Info("login failed", zap.String("email", email), zap.String("ip", clientIP))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// soft-deleted users never reach here: FindByEmail excludes them
	if !u.IsActive {
		s.logger.Info("login rejected for disabled account", zap.String("user_id", u.ID.String()))
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.clearFailures(ctx, clientIP)
	s.logger.Info("login succeeded", zap.String("user_id", u.ID.String()))
	return pair, profileOf(u), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidToken
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, userID.String(), false)
	if err != nil {
		return TokenPair{}, AuthResponse{}, usererrors.ErrUserNotFound
	}
	if !u.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return pair, profileOf(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.users.FindByID(ctx, userID, false)
	if err != nil {
		return AuthResponse{}, usererrors.ErrUserNotFound
	}
	return profileOf(u), nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if _, err := uuid.Parse(userID); err != nil {
		return usererrors.ErrInvalidUserID
	}
	u, err := s.users.FindByID(ctx, userID, false)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return autherrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)

	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("change password failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *service) issuePair(u *user.User) (TokenPair, error) {
	access, err := s.generateToken(u, s.opts.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.generateToken(u, s.opts.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) generateToken(u *user.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"role":    u.Role.String(),
		"exp":     time.Now().Add(expiry).Unix(),
	}
	if u.DepartmentID != nil {
		claims["department_id"] = u.DepartmentID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.JWTSecret))
}

func (s *service) checkThrottle(ctx context.Context, clientIP string) error {
	if s.rdb == nil || clientIP == "" {
		return nil
	}
	count, err := s.rdb.Get(ctx, loginFailureKeyPrefix+clientIP).Int()
	if err != nil {
		// redis being down never blocks logins
		return nil
	}
	if count >= maxLoginFailures {
		return autherrors.ErrTooManyAttempts.WithDetails(map[string]string{
			"retry_after": loginFailureWindow.String(),
		})
	}
	return nil
}

func (s *service) recordFailure(ctx context.Context, clientIP string) {
	if s.rdb == nil || clientIP == "" {
		return
	}
	key := loginFailureKeyPrefix + clientIP
	if err := s.rdb.Incr(ctx, key).Err(); err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
		return
	}
	s.rdb.Expire(ctx, key, loginFailureWindow)
}

func (s *service) clearFailures(ctx context.Context, clientIP string) {
	if s.rdb == nil || clientIP == "" {
		return
	}
	s.rdb.Del(ctx, loginFailureKeyPrefix+clientIP)
}

func profileOf(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
	}
	if u.DepartmentID != nil {
		resp.DepartmentID = u.DepartmentID.String()
	}
	return resp
}
