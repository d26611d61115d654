package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todocollab/backend/internal/models"
)

func TestCanAccessTask(t *testing.T) {
	task := &models.Task{
		ID:        1,
		CreatorID: 10,
		Assignees: []models.TaskAssignee{
			{TaskID: 1, UserID: 20},
		},
	}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"creator", Actor{ID: 10, Role: models.RoleMember}, true},
		{"assignee", Actor{ID: 20, Role: models.RoleMember}, true},
		{"admin", Actor{ID: 99, Role: models.RoleAdmin}, true},
		{"unrelated member", Actor{ID: 30, Role: models.RoleMember}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessTask(tt.actor, task))
		})
	}
}

func TestCanAccessAttachment(t *testing.T) {
	att := &models.Attachment{
		ID:         1,
		UploaderID: 40,
		Task: models.Task{
			ID:        1,
			CreatorID: 10,
			Assignees: []models.TaskAssignee{
				{TaskID: 1, UserID: 20},
			},
		},
	}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"uploader", Actor{ID: 40, Role: models.RoleMember}, true},
		{"task creator", Actor{ID: 10, Role: models.RoleMember}, true},
		{"task assignee", Actor{ID: 20, Role: models.RoleMember}, true},
		{"admin", Actor{ID: 99, Role: models.RoleAdmin}, true},
		{"unrelated member", Actor{ID: 30, Role: models.RoleMember}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessAttachment(tt.actor, att))
		})
	}
}
