package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the operator's role.
// The subject is the operator's username.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID int        `json:"operator_id"`
	Role       model.Role `json:"role"`
}

// AuthService handles passwords, bearer tokens and login.
type AuthService struct {
	cfg       *config.Config
	operators repository.OperatorRepository
	denylist  repository.TokenDenylist
	activity  *ActivityService
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	operators repository.OperatorRepository,
	denylist repository.TokenDenylist,
	activity *ActivityService,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:       cfg,
		operators: operators,
		denylist:  denylist,
		activity:  activity,
		log:       log.With().Str("component", "auth").Logger(),
		now:       time.Now,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken issues a signed bearer token for op.
func (s *AuthService) GenerateToken(op *model.Operator) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   op.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		OperatorID: op.ID,
		Role:       op.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Authenticate resolves the claims to a fresh operator record.
// A revoked token or a vanished subject is unauthenticated; a deactivated
// operator is forbidden.
func (s *AuthService) Authenticate(ctx context.Context, claims *Claims) (*model.Operator, error) {
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	op, err := s.operators.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !op.IsActive {
		return nil, ErrOperatorDeactivated
	}
	return op, nil
}

// Login checks credentials and issues a token. Updating last login and the
// LOGIN activity entry are best-effort side effects.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	op, err := s.operators.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.CheckPassword(op.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	if !op.IsActive {
		return nil, ErrAccountDisabled
	}

	token, expiresAt, err := s.GenerateToken(op)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.operators.TouchLastLogin(ctx, op.ID, now); err != nil {
		s.log.Warn().Err(err).Int("operator_id", op.ID).Msg("Failed to update last login")
	} else {
		op.LastLoginAt = &now
	}
	s.activity.Record(ctx, op.ID, model.ActionLogin, fmt.Sprintf("%s hat sich angemeldet", op.DisplayName), nil)

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Operator:    op,
	}, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

// ChangePassword replaces actor's password after checking the current one.
// The master account's password is owned by configuration.
func (s *AuthService) ChangePassword(ctx context.Context, actor *model.Operator, req *model.ChangePasswordRequest) error {
	if !authz.CanChangePassword(actor) {
		return ErrMasterPasswordImmutable
	}
	if err := s.CheckPassword(actor.PasswordHash, req.CurrentPassword); err != nil {
		return ErrWrongCurrentPassword
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.operators.UpdatePassword(ctx, actor.ID, hash); err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, model.ActionPasswordChange, "Passwort geändert", target("admin", actor.ID))
	return nil
}
