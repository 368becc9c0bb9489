// Package policy holds the authorization decision predicates. They are pure
// functions of the acting user (and, for owned content, the resource author)
// so they can be exercised without any request or storage machinery.
//
// Two disjoint tiers exist and are never combined into one rule:
// a platform-admin tier gating user management and catalog writes, and a
// content-ownership tier gating review/comment writes. All reads are public
// and ungated by routing.
package policy

import "yamdb/proj/internal/domain/models"

func isAuthenticated(u *models.User) bool {
	return u != nil && !u.IsAnonymous()
}

// IsAdmin reports whether u acts with administrator authority.
// Superusers are admins regardless of their stored role.
func IsAdmin(u *models.User) bool {
	return isAuthenticated(u) && (u.Role == models.RoleAdmin || u.IsSuperuser)
}

func IsModerator(u *models.User) bool {
	return isAuthenticated(u) && u.Role == models.RoleModerator
}

// CanAdminister gates user management, category/genre create and delete,
// and title create/update/delete.
func CanAdminister(u *models.User) bool {
	return IsAdmin(u)
}

// CanModifyAuthored gates update/delete of reviews and comments: the author
// may touch their own content, moderators and admins may touch anyone's.
func CanModifyAuthored(u *models.User, authorID int64) bool {
	if !isAuthenticated(u) {
		return false
	}
	return u.ID == authorID || IsModerator(u) || IsAdmin(u)
}
