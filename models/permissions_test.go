package models

import "testing"

func TestCanEditField(t *testing.T) {
	tests := []struct {
		name    string
		role    UserRole
		isOwner bool
		status  IssueStatus
		field   string
		want    bool
	}{
		{"owner edits title while open", RoleCitizen, true, StatusOpen, FieldTitle, true},
		{"owner edits priority while in progress", RoleCitizen, true, StatusInProgress, FieldPriority, true},
		{"owner cannot edit after close", RoleCitizen, true, StatusClosed, FieldTitle, false},
		{"owner cannot set status", RoleCitizen, true, StatusOpen, FieldStatus, false},
		{"owner cannot assign worker", RoleCitizen, true, StatusOpen, FieldAssignedWorker, false},
		{"non-owner citizen cannot edit", RoleCitizen, false, StatusOpen, FieldTitle, false},
		{"admin edits anything", RoleAdmin, false, StatusClosed, FieldTitle, true},
		{"admin sets status", RoleAdmin, false, StatusOpen, FieldStatus, true},
		{"worker sets status", RoleWorker, false, StatusAssigned, FieldStatus, true},
		{"worker sets assignment", RoleWorker, false, StatusOpen, FieldAssignedWorker, true},
		{"worker sets estimate", RoleWorker, false, StatusInProgress, FieldEstimatedResolution, true},
		{"worker cannot edit content", RoleWorker, false, StatusOpen, FieldDescription, false},
		{"worker who owns the issue edits content while open", RoleWorker, true, StatusOpen, FieldTitle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanEditField(tt.role, tt.isOwner, tt.status, tt.field)
			if got != tt.want {
				t.Errorf("CanEditField(%s, owner=%v, %s, %s) = %v, want %v",
					tt.role, tt.isOwner, tt.status, tt.field, got, tt.want)
			}
		})
	}
}

func TestCanViewPrivateComment(t *testing.T) {
	tests := []struct {
		name    string
		role    UserRole
		isOwner bool
		want    bool
	}{
		{"issue owner", RoleCitizen, true, true},
		{"admin", RoleAdmin, false, true},
		{"worker", RoleWorker, false, true},
		{"unrelated citizen", RoleCitizen, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewPrivateComment(tt.role, tt.isOwner); got != tt.want {
				t.Errorf("CanViewPrivateComment(%s, owner=%v) = %v, want %v",
					tt.role, tt.isOwner, got, tt.want)
			}
		})
	}
}

func TestCanDeleteIssue(t *testing.T) {
	if !CanDeleteIssue(RoleCitizen, true) {
		t.Error("owner should be able to delete")
	}
	if !CanDeleteIssue(RoleAdmin, false) {
		t.Error("admin should be able to delete")
	}
	if CanDeleteIssue(RoleWorker, false) {
		t.Error("worker should not be able to delete")
	}
	if CanDeleteIssue(RoleCitizen, false) {
		t.Error("unrelated citizen should not be able to delete")
	}
}
