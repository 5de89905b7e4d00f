package authz

import (
	"testing"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func op(id int, role model.Role, master bool) *model.Operator {
	return &model.Operator{ID: id, Role: role, IsMaster: master, IsActive: true}
}

func TestCanManageOperators(t *testing.T) {
	assert.True(t, CanManageOperators(op(1, model.RoleMaster, true)))
	assert.True(t, CanManageOperators(op(2, model.RoleMaster, false)))
	assert.False(t, CanManageOperators(op(3, model.RoleAdmin, false)))
	assert.False(t, CanManageOperators(op(4, model.RoleEditor, false)))
	assert.False(t, CanManageOperators(nil))
}

func TestCanUpdateOperator(t *testing.T) {
	master := op(1, model.RoleMaster, true)
	admin := op(2, model.RoleAdmin, false)
	editor := op(3, model.RoleEditor, false)

	nameOnly := OperatorChange{DisplayName: true}
	emailAndName := OperatorChange{Email: true, DisplayName: true}
	role := OperatorChange{Role: true}
	active := OperatorChange{IsActive: true}

	tests := []struct {
		name   string
		actor  *model.Operator
		target *model.Operator
		change OperatorChange
		want   bool
	}{
		{"master edits admin role", master, admin, role, true},
		{"master deactivates editor", master, editor, active, true},
		{"master renames self", master, master, nameOnly, true},
		{"master changes own role", master, master, role, false},
		{"master deactivates self", master, master, active, false},
		{"master changes own email", master, master, emailAndName, false},
		{"admin edits own email and name", admin, admin, emailAndName, true},
		{"admin changes own role", admin, admin, role, false},
		{"admin deactivates self", admin, admin, active, false},
		{"admin edits other admin", admin, op(9, model.RoleAdmin, false), nameOnly, false},
		{"admin edits master record", admin, master, nameOnly, false},
		{"editor edits own name", editor, editor, nameOnly, true},
		{"editor edits admin", editor, admin, nameOnly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdateOperator(tt.actor, tt.target, tt.change))
		})
	}
}

func TestChangeOf(t *testing.T) {
	name := "New Name"
	role := model.RoleEditor
	ch := ChangeOf(&model.UpdateOperatorRequest{DisplayName: &name, Role: &role})
	assert.Equal(t, OperatorChange{DisplayName: true, Role: true}, ch)
}

func TestCanChangePassword(t *testing.T) {
	assert.False(t, CanChangePassword(op(1, model.RoleMaster, true)))
	assert.True(t, CanChangePassword(op(2, model.RoleMaster, false)))
	assert.True(t, CanChangePassword(op(3, model.RoleEditor, false)))
}

func TestCanModifyAuthored(t *testing.T) {
	five, six := 5, 6

	assert.True(t, CanModifyAuthored(op(5, model.RoleEditor, false), &five))
	assert.False(t, CanModifyAuthored(op(5, model.RoleEditor, false), &six))
	assert.False(t, CanModifyAuthored(op(5, model.RoleAdmin, false), &six))
	assert.True(t, CanModifyAuthored(op(1, model.RoleMaster, true), &six))
	assert.False(t, CanModifyAuthored(nil, &five))
}

func TestCanModifyAuthoredWithoutAuthor(t *testing.T) {
	assert.False(t, CanModifyAuthored(op(5, model.RoleEditor, false), nil))
	assert.False(t, CanModifyAuthored(op(5, model.RoleAdmin, false), nil))
	assert.True(t, CanModifyAuthored(op(1, model.RoleMaster, true), nil))
}

func TestModerationFollowsPermission(t *testing.T) {
	for _, role := range []model.Role{model.RoleMaster, model.RoleAdmin, model.RoleEditor} {
		six := 6
		assert.Equal(t,
			model.HasPermission(role, model.PermissionContentModerate),
			CanModifyAuthored(op(5, role, false), &six),
			string(role))
	}
}

func TestCanMutateSettings(t *testing.T) {
	assert.True(t, CanMutateSettings(op(1, model.RoleMaster, true)))
	assert.False(t, CanMutateSettings(op(2, model.RoleAdmin, false)))
	assert.False(t, CanMutateSettings(op(3, model.RoleEditor, false)))
}

func TestCanReadDashboard(t *testing.T) {
	assert.True(t, CanReadDashboard(op(1, model.RoleMaster, true)))
	assert.True(t, CanReadDashboard(op(2, model.RoleAdmin, false)))
	assert.False(t, CanReadDashboard(op(3, model.RoleEditor, false)))

	inactive := op(4, model.RoleAdmin, false)
	inactive.IsActive = false
	assert.False(t, CanReadDashboard(inactive))
}
