package service

import (
	"context"
	"testing"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMasterCreatesThenReconciles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created := e.master(t)
	assert.True(t, created.IsMaster)
	assert.True(t, created.IsActive)
	assert.Equal(t, model.RoleMaster, created.Role)
	assert.Equal(t, "master@oeh.jku.at", created.Email)
	assert.Equal(t, "Master Administrator", created.DisplayName)

	e.operatorSvc.master.Username = "root"
	e.operatorSvc.master.Password = "rotated-pass"
	again, err := e.operatorSvc.EnsureMaster(ctx)
	require.NoError(t, err)

	assert.Equal(t, created.ID, again.ID)
	stored, err := e.operators.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", stored.Username)
	assert.NoError(t, e.auth.CheckPassword(stored.PasswordHash, "rotated-pass"))

	all, err := e.operatorSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateOperator(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	ctx := context.Background()

	req := &model.CreateOperatorRequest{
		Username:    "editor1",
		Email:       "Editor1@OEH.jku.at",
		Password:    "password1",
		DisplayName: "Editor Eins",
	}

	_, err := e.operatorSvc.Create(ctx, admin, req)
	assert.ErrorIs(t, err, ErrForbidden)

	op, err := e.operatorSvc.Create(ctx, master, req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, op.Role)
	assert.Equal(t, "editor1@oeh.jku.at", op.Email)
	assert.False(t, op.IsMaster)

	_, err = e.operatorSvc.Create(ctx, master, req)
	assert.ErrorIs(t, err, ErrConflict)

	last := e.db.Activity()[len(e.db.Activity())-1]
	assert.Equal(t, model.ActionAdminCreate, last.Action)
	require.NotNil(t, last.OperatorID)
	assert.Equal(t, master.ID, *last.OperatorID)
}

func TestUpdateOperatorRules(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	editor := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   *model.Operator
		target  *model.Operator
		req     model.UpdateOperatorRequest
		wantErr error
	}{
		{"self display name", editor, editor, model.UpdateOperatorRequest{DisplayName: strPtr("Ed")}, nil},
		{"self email", admin, admin, model.UpdateOperatorRequest{Email: strPtr("new@oeh.jku.at")}, nil},
		{"self role", editor, editor, model.UpdateOperatorRequest{Role: rolePtr(model.RoleAdmin)}, ErrForbidden},
		{"self deactivate", admin, admin, model.UpdateOperatorRequest{IsActive: boolPtr(false)}, ErrForbidden},
		{"admin edits other", admin, editor, model.UpdateOperatorRequest{DisplayName: strPtr("x")}, ErrForbidden},
		{"master edits other", master, editor, model.UpdateOperatorRequest{Role: rolePtr(model.RoleAdmin)}, nil},
		{"master renames self", master, master, model.UpdateOperatorRequest{DisplayName: strPtr("Chef")}, nil},
		{"master email immutable", master, master, model.UpdateOperatorRequest{Email: strPtr("x@oeh.jku.at")}, ErrMasterImmutable},
		{"master role immutable", master, master, model.UpdateOperatorRequest{Role: rolePtr(model.RoleAdmin)}, ErrMasterImmutable},
		{"master active immutable", master, master, model.UpdateOperatorRequest{IsActive: boolPtr(false)}, ErrMasterImmutable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := e.operatorSvc.Update(ctx, tt.actor, tt.target.ID, &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	stored, err := e.operators.GetByID(ctx, editor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
	assert.Equal(t, "Ed", stored.DisplayName)

	m, err := e.operators.GetByID(ctx, master.ID)
	require.NoError(t, err)
	assert.True(t, m.IsActive)
	assert.Equal(t, model.RoleMaster, m.Role)
}

func TestUpdateOperatorMissing(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)

	_, err := e.operatorSvc.Update(context.Background(), master, 999, &model.UpdateOperatorRequest{DisplayName: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOperator(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	admin := e.operator(t, "admin1", model.RoleAdmin)
	editor := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	assert.ErrorIs(t, e.operatorSvc.Delete(ctx, admin, editor.ID), ErrForbidden)
	assert.ErrorIs(t, e.operatorSvc.Delete(ctx, master, master.ID), ErrMasterImmutable)

	before, err := e.operatorSvc.List(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, e.operatorSvc.Delete(ctx, master, 999), ErrNotFound)
	after, err := e.operatorSvc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, e.operatorSvc.Delete(ctx, master, editor.ID))
	_, err = e.operators.GetByID(ctx, editor.ID)
	assert.Error(t, err)
}

func TestDeleteOperatorKeepsAuthoredRecords(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	editor := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	n, err := e.newsSvc.Create(ctx, editor, &model.CreateNewsRequest{Title: "Info", Content: "Kurz"})
	require.NoError(t, err)
	ev, err := e.eventSvc.Create(ctx, editor, &model.CreateEventRequest{Title: "Punsch", StartDate: testNow})
	require.NoError(t, err)

	require.NoError(t, e.operatorSvc.Delete(ctx, master, editor.ID))

	var editorEntries []model.ActivityEntry
	for _, entry := range e.db.Activity() {
		if entry.ActorName == editor.DisplayName {
			editorEntries = append(editorEntries, entry)
		}
	}
	require.Len(t, editorEntries, 2)
	for _, entry := range editorEntries {
		assert.Nil(t, entry.OperatorID)
	}

	stored, err := e.newsSvc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AuthorID)
	assert.Empty(t, stored.AuthorName)

	event, err := e.eventSvc.Get(ctx, ev.ID, true)
	require.NoError(t, err)
	assert.Nil(t, event.CreatedBy)

	// Orphaned items stay editable by moderators only.
	admin := e.operator(t, "admin1", model.RoleAdmin)
	assert.ErrorIs(t, e.newsSvc.Delete(ctx, admin, n.ID), ErrForbidden)
	require.NoError(t, e.newsSvc.Delete(ctx, master, n.ID))
}

func rolePtr(r model.Role) *model.Role { return &r }
