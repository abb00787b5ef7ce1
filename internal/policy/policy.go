// Package policy holds the ownership rules applied before every mutation.
package policy

import "cryptohub/internal/domain"

// CanManage reports whether actor may update or delete a record owned by
// ownerID: the owner always can, and so can an admin.
func CanManage(actor *domain.User, ownerID uint) bool {
	return actor.ID == ownerID || actor.Role == domain.RoleAdmin
}

// IsOwner reports strict ownership with no admin override. Comment edits use
// this: an admin may delete any comment but may not rewrite one.
func IsOwner(actor *domain.User, ownerID uint) bool {
	return actor.ID == ownerID
}

// CanDeleteUser reports whether actor may delete the target account.
// Self-deletion is always rejected, including by admins.
func CanDeleteUser(actor *domain.User, target *domain.User) bool {
	return actor.ID != target.ID
}
