// AngelaMos | 2026
// permission.go

// Package permission maps the four staff roles onto their fixed capability
// sets. The table is the single source of truth for what a role may do.
package permission

import (
	"fmt"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleTechnician Role = "technician"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff, RoleTechnician}

func (r Role) Valid() bool {
	_, ok := table[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// ParseRole validates a role string at the boundary.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("parse role %q: %w", s, core.ErrInvalidRole)
	}
	return r, nil
}

type Capability string

const (
	CanViewAllUsers               Capability = "canViewAllUsers"
	CanManageUsers                Capability = "canManageUsers"
	CanAddUsers                   Capability = "canAddUsers"
	CanViewAllRepairs             Capability = "canViewAllRepairs"
	CanViewOwnRepairs             Capability = "canViewOwnRepairs"
	CanCreateRepairs              Capability = "canCreateRepairs"
	CanUpdateRepairStatus         Capability = "canUpdateRepairStatus"
	CanAcceptJobs                 Capability = "canAcceptJobs"
	CanCancelJobs                 Capability = "canCancelJobs"
	CanReceiveNewJobNotifications Capability = "canReceiveNewJobNotifications"
	CanViewDashboard              Capability = "canViewDashboard"
	CanViewAnalytics              Capability = "canViewAnalytics"
)

type CapabilitySet struct {
	CanViewAllUsers               bool `json:"canViewAllUsers"`
	CanManageUsers                bool `json:"canManageUsers"`
	CanAddUsers                   bool `json:"canAddUsers"`
	CanViewAllRepairs             bool `json:"canViewAllRepairs"`
	CanViewOwnRepairs             bool `json:"canViewOwnRepairs"`
	CanCreateRepairs              bool `json:"canCreateRepairs"`
	CanUpdateRepairStatus         bool `json:"canUpdateRepairStatus"`
	CanAcceptJobs                 bool `json:"canAcceptJobs"`
	CanCancelJobs                 bool `json:"canCancelJobs"`
	CanReceiveNewJobNotifications bool `json:"canReceiveNewJobNotifications"`
	CanViewDashboard              bool `json:"canViewDashboard"`
	CanViewAnalytics              bool `json:"canViewAnalytics"`
}

// Has reports whether the set grants c. Unknown capabilities are never granted.
func (s CapabilitySet) Has(c Capability) bool {
	switch c {
	case CanViewAllUsers:
		return s.CanViewAllUsers
	case CanManageUsers:
		return s.CanManageUsers
	case CanAddUsers:
		return s.CanAddUsers
	case CanViewAllRepairs:
		return s.CanViewAllRepairs
	case CanViewOwnRepairs:
		return s.CanViewOwnRepairs
	case CanCreateRepairs:
		return s.CanCreateRepairs
	case CanUpdateRepairStatus:
		return s.CanUpdateRepairStatus
	case CanAcceptJobs:
		return s.CanAcceptJobs
	case CanCancelJobs:
		return s.CanCancelJobs
	case CanReceiveNewJobNotifications:
		return s.CanReceiveNewJobNotifications
	case CanViewDashboard:
		return s.CanViewDashboard
	case CanViewAnalytics:
		return s.CanViewAnalytics
	}
	return false
}

var table = map[Role]CapabilitySet{
	RoleAdmin: {
		CanViewAllUsers:               true,
		CanManageUsers:                true,
		CanAddUsers:                   true,
		CanViewAllRepairs:             true,
		CanViewOwnRepairs:             true,
		CanCreateRepairs:              true,
		CanUpdateRepairStatus:         true,
		CanAcceptJobs:                 true,
		CanCancelJobs:                 true,
		CanReceiveNewJobNotifications: true,
		CanViewDashboard:              true,
		CanViewAnalytics:              true,
	},
	RoleManager: {
		CanViewAllUsers:               true,
		CanManageUsers:                true,
		CanViewAllRepairs:             true,
		CanViewOwnRepairs:             true,
		CanCreateRepairs:              true,
		CanUpdateRepairStatus:         true,
		CanAcceptJobs:                 true,
		CanCancelJobs:                 true,
		CanReceiveNewJobNotifications: true,
		CanViewDashboard:              true,
		CanViewAnalytics:              true,
	},
	RoleStaff: {
		CanViewOwnRepairs: true,
		CanCreateRepairs:  true,
		CanViewDashboard:  true,
	},
	RoleTechnician: {
		CanViewAllRepairs:             true,
		CanViewOwnRepairs:             true,
		CanUpdateRepairStatus:         true,
		CanAcceptJobs:                 true,
		CanReceiveNewJobNotifications: true,
		CanViewDashboard:              true,
	},
}

// Resolve returns the capability set for role or ErrInvalidRole.
func Resolve(role Role) (CapabilitySet, error) {
	caps, ok := table[role]
	if !ok {
		return CapabilitySet{}, fmt.Errorf(
			"resolve %q: %w",
			string(role),
			core.ErrInvalidRole,
		)
	}
	return caps, nil
}

// ResolveString is Resolve for a role read from storage or a token claim.
func ResolveString(role string) (CapabilitySet, error) {
	return Resolve(Role(role))
}

// RolesWith returns every role whose set grants c, in Roles order.
func RolesWith(c Capability) []Role {
	roles := make([]Role, 0, len(Roles))
	for _, r := range Roles {
		if table[r].Has(c) {
			roles = append(roles, r)
		}
	}
	return roles
}
