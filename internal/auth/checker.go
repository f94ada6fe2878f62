package auth

// AdminChecker decides whether a user may run admin-only commands.
// The allow-list is static and comes from configuration.
type AdminChecker struct {
	adminIDs map[int64]struct{}
}

// NewAdminChecker creates an AdminChecker for the given user IDs.
// An empty list is valid and means nobody is an admin.
func NewAdminChecker(adminIDs []int64) *AdminChecker {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &AdminChecker{adminIDs: ids}
}

// IsAdmin reports whether userID is in the allow-list.
func (ac *AdminChecker) IsAdmin(userID int64) bool {
	if ac == nil {
		return false
	}
	_, ok := ac.adminIDs[userID]
	return ok
}
