package services

import "github.com/todocollab/backend/internal/models"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   uint64
	Role models.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanAccessTask decides read/write permission for a task. The task must
// be loaded with its assignee rows before calling; the predicate itself
// performs no I/O.
func CanAccessTask(actor Actor, task *models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	if task.CreatorID == actor.ID {
		return true
	}
	return task.IsAssignee(actor.ID)
}

// CanAccessAttachment decides whether the actor may read an attachment.
// The uploader always may; otherwise the attachment inherits its parent
// task's access rule. The parent task must be loaded with assignees.
func CanAccessAttachment(actor Actor, att *models.Attachment) bool {
	if att.UploaderID == actor.ID {
		return true
	}
	return CanAccessTask(actor, &att.Task)
}
