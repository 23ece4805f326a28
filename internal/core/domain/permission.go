package domain

// Permission names an action an actor may be granted.
type Permission string

const (
	PermJournalEdit    Permission = "journal.edit"
	PermJournalSubmit  Permission = "journal.submit"
	PermJournalApprove Permission = "journal.approve"
	PermJournalReject  Permission = "journal.reject"
	PermJournalPost    Permission = "journal.post"
	PermJournalReverse Permission = "journal.reverse"
	PermJournalRead    Permission = "journal.read"
	PermPeriodClose    Permission = "period.close"
	PermPeriodReopen   Permission = "period.reopen"
	PermRateManage     Permission = "rate.manage"
	PermTypeManage     Permission = "journal_type.manage"
)

var statusPermissions = map[JournalStatus]Permission{
	StatusDraft:            PermJournalEdit,
	StatusAwaitingApproval: PermJournalSubmit,
	StatusApproved:         PermJournalApprove,
	StatusRejected:         PermJournalReject,
	StatusPosted:           PermJournalPost,
	StatusReversed:         PermJournalReverse,
}

// PermissionForStatus returns the permission bound to entering target.
func PermissionForStatus(target JournalStatus) Permission {
	return statusPermissions[target]
}

// Role is a coarse grouping of permissions carried in access tokens.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleApprover   Role = "APPROVER"
	RoleReadOnly   Role = "READONLY"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermJournalEdit, PermJournalSubmit, PermJournalApprove, PermJournalReject,
		PermJournalPost, PermJournalReverse, PermJournalRead,
		PermPeriodClose, PermPeriodReopen, PermRateManage, PermTypeManage,
	},
	RoleAccountant: {PermJournalEdit, PermJournalSubmit, PermJournalPost, PermJournalRead, PermRateManage},
	RoleApprover:   {PermJournalApprove, PermJournalReject, PermJournalRead},
	RoleReadOnly:   {PermJournalRead},
}

// PermissionsForRole returns the default grant of a role.
func PermissionsForRole(r Role) []Permission {
	return rolePermissions[r]
}

// Actor is the authenticated caller of an engine operation.
type Actor struct {
	UserID         string
	OrganizationID string
	permissions    map[Permission]struct{}
}

// NewActor builds an actor holding perms.
func NewActor(userID, organizationID string, perms ...Permission) Actor {
	a := Actor{UserID: userID, OrganizationID: organizationID, permissions: make(map[Permission]struct{}, len(perms))}
	for _, p := range perms {
		a.permissions[p] = struct{}{}
	}
	return a
}

// Can reports whether the actor holds p.
func (a Actor) Can(p Permission) bool {
	_, ok := a.permissions[p]
	return ok
}

// Permissions lists the actor's grants.
func (a Actor) Permissions() []Permission {
	out := make([]Permission, 0, len(a.permissions))
	for p := range a.permissions {
		out = append(out, p)
	}
	return out
}
