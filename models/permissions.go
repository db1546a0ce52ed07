package models

// Field names accepted by issue updates. The permission tables below are
// keyed on these, so handlers check one table instead of scattering
// role conditionals.
const (
	FieldTitle               = "title"
	FieldDescription         = "description"
	FieldCategory            = "category"
	FieldPriority            = "priority"
	FieldAddress             = "address"
	FieldLatitude            = "latitude"
	FieldLongitude           = "longitude"
	FieldImageURL            = "imageUrl"
	FieldStatus              = "status"
	FieldAssignedWorker      = "assignedWorker"
	FieldEstimatedResolution = "estimatedResolution"
)

// ownerFields are the content fields a reporter may edit on their own
// issue while it is not closed.
var ownerFields = map[string]bool{
	FieldTitle:       true,
	FieldDescription: true,
	FieldCategory:    true,
	FieldPriority:    true,
	FieldAddress:     true,
	FieldLatitude:    true,
	FieldLongitude:   true,
	FieldImageURL:    true,
}

// workerFields are the fields an assigned worker may write.
var workerFields = map[string]bool{
	FieldStatus:              true,
	FieldAssignedWorker:      true,
	FieldEstimatedResolution: true,
}

// CanEditField decides whether a caller may write one issue field.
// Admins may write anything. Owners may write content fields until the
// issue is closed. Workers may write assignment and progress fields.
func CanEditField(role UserRole, isOwner bool, status IssueStatus, field string) bool {
	if role == RoleAdmin {
		return true
	}
	if role == RoleWorker && workerFields[field] {
		return true
	}
	if isOwner && status != StatusClosed && ownerFields[field] {
		return true
	}
	return false
}

// CanViewPrivateComment gates private comment visibility: only the
// issue owner, admins, and workers may read or create private comments.
func CanViewPrivateComment(role UserRole, isOwner bool) bool {
	return isOwner || role == RoleAdmin || role == RoleWorker
}

// CanDeleteIssue allows the reporter or an admin to remove an issue.
func CanDeleteIssue(role UserRole, isOwner bool) bool {
	return isOwner || role == RoleAdmin
}
