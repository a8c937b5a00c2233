package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/hash"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/tokens"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        events.Publisher
}

func (s *AuthService) SignUp(ctx context.Context, req transport.SignUpRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RoleCustomer)
}

func (s *AuthService) createUser(ctx context.Context, req transport.SignUpRequest, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("username or email already taken: %w", ErrConflict)
		}
		return nil, err
	}

	publishEvent(ctx, s.Events, events.TopicUser, user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
	return &user, nil
}

// EnsureAdmin creates the bootstrap administrator, or promotes an existing
// account with that username.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			return nil
		}
		return s.Repo.SetUserRole(ctx, user.ID, models.RoleAdmin)
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err := s.createUser(ctx, transport.SignUpRequest{
			Username: username,
			Email:    email,
			Password: password,
		}, models.RoleAdmin)
		return err
	default:
		return err
	}
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*transport.LoginResult, *models.RefreshToken, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user.ID, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, jti, err := tokens.SignRefreshToken(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	stored := &models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshToken),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}

	return &transport.LoginResult{
		UserID:       user.ID,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == models.RoleAdmin,
	}, stored, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.UserExist(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	res, stored, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, stored); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	return res, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued with the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidRefreshToken)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad subject: %w", ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown user: %w", ErrInvalidRefreshToken)
		}
		return nil, err
	}

	res, stored, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, stored); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidRefreshToken)
		}
		return nil, err
	}

	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	return s.Repo.LogOut(ctx, refreshToken)
}
