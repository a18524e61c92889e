// Package authz holds the owner-or-admin predicate shared by every
// entity kind (posts, discussions, users) and every destructive or
// profile-changing operation on them.
package authz

import "github.com/ermnvldmr/wboard/internal/domain"

// CanDelete reports whether actor may delete (or otherwise modify)
// something owned by ownerId. Owners act on their own entities, admins
// on anything.
func CanDelete(actorId domain.UserId, actorIsAdmin bool, ownerId domain.UserId) bool {
	return actorId == ownerId || actorIsAdmin
}
