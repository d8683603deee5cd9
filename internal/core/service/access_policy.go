package service

import (
	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
)

// AccessPolicy computes the visibility and mutability scope of an actor.
// Every read and write path goes through it before touching storage; it
// performs no I/O itself.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// ListScope restricts the default task listing: admins see everything,
// users only the tasks they created. Tasks assigned to a user are
// exposed through AssignedScope, never mixed into this view.
func (p *AccessPolicy) ListScope(actor model.Actor) port.TaskScope {
	if actor.IsAdmin() {
		return port.ScopeAll()
	}

	return port.ScopeCreatedBy(actor.ID)
}

// AssignedScope exposes the "assigned to me" view, for any role.
func (p *AccessPolicy) AssignedScope(actor model.Actor) port.TaskScope {
	return port.ScopeAssignedTo(actor.ID)
}

// ReadScope restricts single-task reads: admins reach any task, users
// only tasks they created or were assigned.
func (p *AccessPolicy) ReadScope(actor model.Actor) port.TaskScope {
	if actor.IsAdmin() {
		return port.ScopeAll()
	}

	return port.ScopeCreatedByOrAssignedTo(actor.ID)
}

// WriteScope restricts task mutations; same ownership rule as reads.
func (p *AccessPolicy) WriteScope(actor model.Actor) port.TaskScope {
	if actor.IsAdmin() {
		return port.ScopeAll()
	}

	return port.ScopeCreatedByOrAssignedTo(actor.ID)
}

// DeleteScope is narrower than WriteScope: a user may only delete tasks
// they created, not tasks they were merely assigned.
func (p *AccessPolicy) DeleteScope(actor model.Actor) port.TaskScope {
	if actor.IsAdmin() {
		return port.ScopeAll()
	}

	return port.ScopeCreatedBy(actor.ID)
}

// CanAssign reports whether the actor may set a task's assignee.
func (p *AccessPolicy) CanAssign(actor model.Actor) bool {
	return actor.IsAdmin()
}

// CanViewAnalytics reports whether the actor may request reports.
func (p *AccessPolicy) CanViewAnalytics(actor model.Actor) bool {
	return actor.IsAdmin()
}
