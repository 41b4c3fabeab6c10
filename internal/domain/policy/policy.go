package policy

import "algolens/internal/domain/identity"

// Pure visibility/mutation predicates. Handlers map a false result to
// 404 (unpublished content is hidden, not revealed) or 403 (mutation).

// CanViewUnpublished decides read access to a resource that may be
// unpublished. Published resources are visible to everyone, including
// anonymous callers. Unpublished resources are visible only to their
// owner or an admin.
func CanViewUnpublished(viewer *identity.User, ownerID string, published bool) bool {
	if published {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == ownerID || viewer.Role == identity.RoleAdmin
}

// CanMutate decides whether actor may update or delete a resource
// owned by ownerID. Anonymous callers can never mutate.
func CanMutate(actor *identity.User, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.Role == identity.RoleAdmin
}
