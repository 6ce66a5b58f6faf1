package treasury

import "github.com/google/uuid"

// PermissionCode identifies a lifecycle permission
type PermissionCode string

const (
	// PermApprove allows approving or rejecting submitted transactions
	PermApprove PermissionCode = "transaction:approve"
	// PermPay allows paying approved expenses and confirming income
	PermPay PermissionCode = "transaction:pay"
)

// Actor is the identity performing a lifecycle transition.
// Permissions are carried explicitly so the aggregate can be exercised
// deterministically in tests, without ambient session state.
type Actor struct {
	ID          uuid.UUID
	permissions map[PermissionCode]struct{}
}

// NewActor creates an actor with the given permission codes
func NewActor(id uuid.UUID, permissions ...PermissionCode) Actor {
	set := make(map[PermissionCode]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return Actor{ID: id, permissions: set}
}

// NewActorFromStrings creates an actor from raw permission strings (e.g. JWT claims)
func NewActorFromStrings(id uuid.UUID, permissions []string) Actor {
	set := make(map[PermissionCode]struct{}, len(permissions))
	for _, p := range permissions {
		set[PermissionCode(p)] = struct{}{}
	}
	return Actor{ID: id, permissions: set}
}

// HasPermission returns true if the actor carries the given permission
func (a Actor) HasPermission(code PermissionCode) bool {
	_, ok := a.permissions[code]
	return ok
}
