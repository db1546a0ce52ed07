package models

import "testing"

func TestCanTransitionStatus(t *testing.T) {
	tests := []struct {
		name string
		from IssueStatus
		to   IssueStatus
		want bool
	}{
		{"open to assigned", StatusOpen, StatusAssigned, true},
		{"open to closed shortcut", StatusOpen, StatusClosed, true},
		{"assigned to in_progress", StatusAssigned, StatusInProgress, true},
		{"in_progress to resolved", StatusInProgress, StatusResolved, true},
		{"resolved to closed", StatusResolved, StatusClosed, true},
		{"same status is a no-op", StatusAssigned, StatusAssigned, true},
		{"open cannot jump to resolved", StatusOpen, StatusResolved, false},
		{"open cannot jump to in_progress", StatusOpen, StatusInProgress, false},
		{"closed is terminal", StatusClosed, StatusOpen, false},
		{"resolved cannot reopen without admin", StatusResolved, StatusOpen, false},
		{"assigned cannot skip to resolved", StatusAssigned, StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionStatus(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionStatus(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, valid := range []string{"pothole", "streetlight", "garbage", "water", "graffiti", "road", "other"} {
		if !ValidCategory(valid) {
			t.Errorf("%q should be a valid category", valid)
		}
	}
	for _, invalid := range []string{"", "Pothole", "sinkhole"} {
		if ValidCategory(invalid) {
			t.Errorf("%q should not be a valid category", invalid)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "critical"} {
		if !ValidPriority(valid) {
			t.Errorf("%q should be a valid priority", valid)
		}
	}
	if ValidPriority("urgent") || ValidPriority("") {
		t.Error("unknown priorities should be invalid")
	}
}

func TestValidStatus(t *testing.T) {
	for _, valid := range []string{"open", "assigned", "in_progress", "resolved", "closed"} {
		if !ValidStatus(valid) {
			t.Errorf("%q should be a valid status", valid)
		}
	}
	if ValidStatus("pending") || ValidStatus("") {
		t.Error("unknown statuses should be invalid")
	}
}

func TestValidRole(t *testing.T) {
	for _, valid := range []string{"citizen", "admin", "worker"} {
		if !ValidRole(valid) {
			t.Errorf("%q should be a valid role", valid)
		}
	}
	if ValidRole("superadmin") || ValidRole("") {
		t.Error("unknown roles should be invalid")
	}
}
