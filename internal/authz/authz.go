// Package authz holds the per-action authorization predicates for operators.
//
// Route-level gating by permission lives in middleware; these predicates cover
// the decisions that depend on the target record.
package authz

import (
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// OperatorChange lists which fields an operator update touches.
type OperatorChange struct {
	Email       bool
	DisplayName bool
	Role        bool
	IsActive    bool
}

// ChangeOf reports the fields set in req.
func ChangeOf(req *model.UpdateOperatorRequest) OperatorChange {
	return OperatorChange{
		Email:       req.Email != nil,
		DisplayName: req.DisplayName != nil,
		Role:        req.Role != nil,
		IsActive:    req.IsActive != nil,
	}
}

// privileged reports whether the change touches role or active state.
func (c OperatorChange) privileged() bool {
	return c.Role || c.IsActive
}

// CanManageOperators reports whether actor may create or delete operators.
func CanManageOperators(actor *model.Operator) bool {
	return actor != nil && actor.Role == model.RoleMaster
}

// CanUpdateOperator reports whether actor may apply change to target.
//
// A master may update any operator; everyone else only their own record, and
// then only email and display name. The master-flagged record keeps its role,
// active flag and configured email no matter who asks.
func CanUpdateOperator(actor, target *model.Operator, change OperatorChange) bool {
	if actor == nil || target == nil {
		return false
	}
	if target.IsMaster && (change.privileged() || change.Email) {
		return false
	}
	if actor.Role == model.RoleMaster {
		return true
	}
	if actor.ID != target.ID {
		return false
	}
	return !change.privileged()
}

// CanChangePassword reports whether actor may change their own password.
// The master account's credential is owned by configuration.
func CanChangePassword(actor *model.Operator) bool {
	return actor != nil && !actor.IsMaster
}

// CanModifyAuthored reports whether actor may edit or delete an item
// authored by authorID. A nil author means the author was deleted; such
// items are left to moderators.
func CanModifyAuthored(actor *model.Operator, authorID *int) bool {
	if actor == nil {
		return false
	}
	if model.HasPermission(actor.Role, model.PermissionContentModerate) {
		return true
	}
	return authorID != nil && *authorID == actor.ID
}

// CanMutateSettings reports whether actor may write application settings.
func CanMutateSettings(actor *model.Operator) bool {
	return actor != nil && actor.Role == model.RoleMaster
}

// CanReadDashboard reports whether actor may see the admin-only listings.
func CanReadDashboard(actor *model.Operator) bool {
	return actor != nil && actor.IsActive && actor.Role.AtLeast(model.RoleAdmin)
}
