package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oeh-wirtschaft/oeh-backend/internal/authz"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/rs/zerolog"
)

// OperatorService manages operator accounts.
type OperatorService struct {
	master   config.MasterConfig
	repo     repository.OperatorRepository
	auth     *AuthService
	activity *ActivityService
	log      zerolog.Logger
}

// NewOperatorService creates a new OperatorService.
func NewOperatorService(
	master config.MasterConfig,
	repo repository.OperatorRepository,
	auth *AuthService,
	activity *ActivityService,
	log zerolog.Logger,
) *OperatorService {
	return &OperatorService{
		master:   master,
		repo:     repo,
		auth:     auth,
		activity: activity,
		log:      log.With().Str("component", "operators").Logger(),
	}
}

// EnsureMaster reconciles the master-flagged operator with configuration.
// An existing row gets its username, email and password hash overwritten;
// otherwise the row is created.
func (s *OperatorService) EnsureMaster(ctx context.Context) (*model.Operator, error) {
	hash, err := s.auth.HashPassword(s.master.Password)
	if err != nil {
		return nil, fmt.Errorf("hash master password: %w", err)
	}

	op, err := s.repo.GetMaster(ctx)
	switch {
	case err == nil:
		op.Username = s.master.Username
		op.Email = strings.ToLower(s.master.Email)
		op.PasswordHash = hash
		op.Role = model.RoleMaster
		op.IsActive = true
		if err := s.repo.Update(ctx, op); err != nil {
			return nil, fmt.Errorf("update master operator: %w", err)
		}
		s.log.Info().Str("username", op.Username).Msg("Master operator reconciled")
		return op, nil

	case errors.Is(err, repository.ErrNotFound):
		op = &model.Operator{
			Username:     s.master.Username,
			Email:        strings.ToLower(s.master.Email),
			PasswordHash: hash,
			DisplayName:  s.master.DisplayName,
			Role:         model.RoleMaster,
			IsActive:     true,
			IsMaster:     true,
		}
		if err := s.repo.Create(ctx, op); err != nil {
			return nil, fmt.Errorf("create master operator: %w", err)
		}
		s.log.Info().Str("username", op.Username).Msg("Master operator created")
		return op, nil

	default:
		return nil, fmt.Errorf("load master operator: %w", err)
	}
}

// List returns every operator, master first.
func (s *OperatorService) List(ctx context.Context) ([]*model.Operator, error) {
	return s.repo.List(ctx)
}

// Get returns one operator.
func (s *OperatorService) Get(ctx context.Context, id int) (*model.Operator, error) {
	op, err := s.repo.GetByID(ctx, id)
	return op, fromRepo(err, ErrNotFound)
}

// Create adds an operator. Only a master may create operators, and the
// master flag itself is never granted here.
func (s *OperatorService) Create(ctx context.Context, actor *model.Operator, req *model.CreateOperatorRequest) (*model.Operator, error) {
	if !authz.CanManageOperators(actor) {
		return nil, ErrForbidden
	}

	role := req.Role
	if role == "" {
		role = model.RoleEditor
	}
	if !role.Valid() {
		return nil, invalidInput("Ungültige Rolle")
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	op := &model.Operator{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionAdminCreate,
		fmt.Sprintf("Admin '%s' erstellt", op.Username), target("admin", op.ID))
	return op, nil
}

// Update applies req to the operator with id after the authorization check.
func (s *OperatorService) Update(ctx context.Context, actor *model.Operator, id int, req *model.UpdateOperatorRequest) (*model.Operator, error) {
	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	if !authz.CanUpdateOperator(actor, op, authz.ChangeOf(req)) {
		if op.IsMaster {
			return nil, ErrMasterImmutable
		}
		return nil, ErrForbidden
	}

	if req.Email != nil {
		op.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.DisplayName != nil {
		op.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, invalidInput("Ungültige Rolle")
		}
		op.Role = *req.Role
	}
	if req.IsActive != nil {
		op.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, op); err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionAdminUpdate,
		fmt.Sprintf("Admin '%s' aktualisiert", op.Username), target("admin", op.ID))
	return op, nil
}

// Delete removes an operator. The master-flagged record cannot be deleted.
func (s *OperatorService) Delete(ctx context.Context, actor *model.Operator, id int) error {
	if !authz.CanManageOperators(actor) {
		return ErrForbidden
	}

	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if op.IsMaster {
		return ErrMasterImmutable
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	s.activity.Record(ctx, actor.ID, model.ActionAdminDelete,
		fmt.Sprintf("Admin '%s' gelöscht", op.Username), target("admin", op.ID))
	return nil
}
