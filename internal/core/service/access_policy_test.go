package service

import (
	"testing"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
)

func TestAccessPolicyScopes(t *testing.T) {
	policy := NewAccessPolicy()

	admin := model.Actor{ID: "admin", Role: model.RoleAdmin}
	user := model.Actor{ID: "alice", Role: model.RoleUser}

	testCases := []struct {
		Name     string
		Scope    port.TaskScope
		Expected port.TaskScope
	}{
		{
			Name:     "AdminListSeesAll",
			Scope:    policy.ListScope(admin),
			Expected: port.ScopeAll(),
		},
		{
			Name:     "UserListSeesOwnCreated",
			Scope:    policy.ListScope(user),
			Expected: port.ScopeCreatedBy(user.ID),
		},
		{
			Name:     "AssignedViewIsAssigneeOnly",
			Scope:    policy.AssignedScope(user),
			Expected: port.ScopeAssignedTo(user.ID),
		},
		{
			Name:     "AdminReadsAll",
			Scope:    policy.ReadScope(admin),
			Expected: port.ScopeAll(),
		},
		{
			Name:     "UserReadsCreatedOrAssigned",
			Scope:    policy.ReadScope(user),
			Expected: port.ScopeCreatedByOrAssignedTo(user.ID),
		},
		{
			Name:     "UserWritesCreatedOrAssigned",
			Scope:    policy.WriteScope(user),
			Expected: port.ScopeCreatedByOrAssignedTo(user.ID),
		},
		{
			Name:     "UserDeletesCreatedOnly",
			Scope:    policy.DeleteScope(user),
			Expected: port.ScopeCreatedBy(user.ID),
		},
		{
			Name:     "AdminDeletesAll",
			Scope:    policy.DeleteScope(admin),
			Expected: port.ScopeAll(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if e, g := scopeKey(tc.Expected), scopeKey(tc.Scope); e != g {
				t.Errorf("scope: expected %s, got %s", e, g)
			}
		})
	}
}

// scopeKey flattens a scope into a comparable form, pointers included.
func scopeKey(scope port.TaskScope) string {
	key := ""

	if scope.All {
		key += "all;"
	}

	if scope.CreatedBy != nil {
		key += "createdBy=" + string(*scope.CreatedBy) + ";"
	}

	if scope.AssignedTo != nil {
		key += "assignedTo=" + string(*scope.AssignedTo) + ";"
	}

	return key
}

func TestAccessPolicyCapabilities(t *testing.T) {
	policy := NewAccessPolicy()

	admin := model.Actor{ID: "admin", Role: model.RoleAdmin}
	user := model.Actor{ID: "alice", Role: model.RoleUser}

	if e, g := true, policy.CanAssign(admin); e != g {
		t.Errorf("CanAssign(admin): expected %v, got %v", e, g)
	}

	if e, g := false, policy.CanAssign(user); e != g {
		t.Errorf("CanAssign(user): expected %v, got %v", e, g)
	}

	if e, g := true, policy.CanViewAnalytics(admin); e != g {
		t.Errorf("CanViewAnalytics(admin): expected %v, got %v", e, g)
	}

	if e, g := false, policy.CanViewAnalytics(user); e != g {
		t.Errorf("CanViewAnalytics(user): expected %v, got %v", e, g)
	}
}
