package kernel

import (
	"errors"
	"strings"

	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/guard"
)

// SystemActorID identifies the scheduler when it acts on orders.
const SystemActorID = "system"

// ErrActorIsNotConstructed is returned when an Actor was not created via NewActor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the caller of a use case: who they are and what they may do.
//
// Example:
//
//	actor, err := kernel.NewActor("U1", kernel.RoleUser)
//	if err != nil {
//	    return err
//	}
//	actor.CanAccess("U1") // true
//	actor.CanAccess("U2") // false
type Actor struct {
	id    string
	role  Role
	guard guard.ConstructorGuard
}

// NewActor validates and builds an Actor. The id must not be blank.
func NewActor(id string, role Role) (Actor, error) {
	if strings.TrimSpace(id) == "" {
		return Actor{}, errs.NewValueIsRequiredError("actorId")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{
		id:    id,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// SystemActor is the administrator identity used by background jobs.
func SystemActor() Actor {
	return Actor{
		id:    SystemActorID,
		role:  RoleAdmin,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate reports whether the Actor was built by a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// CanAccess reports whether the actor may act on a resource owned by ownerID.
// Administrators may access everything; users only what they own.
func (a Actor) CanAccess(ownerID string) bool {
	if a.Validate() != nil {
		return false
	}
	return a.IsAdmin() || a.id == ownerID
}
