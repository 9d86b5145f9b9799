// AngelaMos | 2026
// actor.go

package permission

// Actor is the resolved identity of a caller: who they are and what they
// may do. It is built once per request from the authenticated claims.
type Actor struct {
	ID   string
	Role Role
	Caps CapabilitySet
}

func NewActor(id, role string) (Actor, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, err
	}

	caps, err := Resolve(r)
	if err != nil {
		return Actor{}, err
	}

	return Actor{ID: id, Role: r, Caps: caps}, nil
}

func (a Actor) Can(c Capability) bool {
	return a.Caps.Has(c)
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
