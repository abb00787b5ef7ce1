package policy

import (
	"testing"

	"cryptohub/internal/domain"
)

func TestCanManage(t *testing.T) {
	owner := &domain.User{Role: domain.RoleUser}
	owner.ID = 1
	stranger := &domain.User{Role: domain.RoleUser}
	stranger.ID = 2
	admin := &domain.User{Role: domain.RoleAdmin}
	admin.ID = 3

	if !CanManage(owner, 1) {
		t.Fatal("owner must manage their own record")
	}
	if CanManage(stranger, 1) {
		t.Fatal("stranger must not manage another's record")
	}
	if !CanManage(admin, 1) {
		t.Fatal("admin must manage any record")
	}
}

func TestIsOwnerIgnoresRole(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin}
	admin.ID = 3
	if IsOwner(admin, 1) {
		t.Fatal("admin role must not grant ownership")
	}
	if !IsOwner(admin, 3) {
		t.Fatal("actual owner must pass")
	}
}

func TestCanDeleteUserRejectsSelf(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin}
	admin.ID = 3
	other := &domain.User{Role: domain.RoleUser}
	other.ID = 4

	if CanDeleteUser(admin, admin) {
		t.Fatal("self-delete must be rejected")
	}
	if !CanDeleteUser(admin, other) {
		t.Fatal("deleting another account must pass")
	}
}
