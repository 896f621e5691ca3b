// Package ownership holds the single authorization rule shared by the profile and post
// aggregates: a mutation is allowed only when the verified identity owns the target.
package ownership

import "github.com/google/uuid"

// Owned is anything that carries a reference to the user that owns it.
type Owned interface {
	OwnerRef() uuid.UUID
}

// IsOwner reports whether identity owns o. A nil identity never owns anything.
func IsOwner(o Owned, identity uuid.UUID) bool {
	if o == nil || identity == uuid.Nil {
		return false
	}
	return o.OwnerRef() == identity
}
