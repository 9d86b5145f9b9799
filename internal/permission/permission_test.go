// AngelaMos | 2026
// permission_test.go

package permission_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role permission.Role
		want permission.CapabilitySet
	}{
		{
			role: permission.RoleAdmin,
			want: permission.CapabilitySet{
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
		},
		{
			role: permission.RoleManager,
			want: permission.CapabilitySet{
				CanViewAllUsers:               true,
				CanManageUsers:                true,
				CanAddUsers:                   false,
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
		},
		{
			role: permission.RoleStaff,
			want: permission.CapabilitySet{
				CanViewOwnRepairs: true,
				CanCreateRepairs:  true,
				CanViewDashboard:  true,
			},
		},
		{
			role: permission.RoleTechnician,
			want: permission.CapabilitySet{
				CanViewAllRepairs:             true,
				CanViewOwnRepairs:             true,
				CanUpdateRepairStatus:         true,
				CanAcceptJobs:                 true,
				CanReceiveNewJobNotifications: true,
				CanViewDashboard:              true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()

			got, err := permission.Resolve(tt.role)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknownRole(t *testing.T) {
	t.Parallel()

	for _, role := range []string{"", "user", "Admin", "guest"} {
		_, err := permission.ResolveString(role)
		require.ErrorIs(t, err, core.ErrInvalidRole, role)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := permission.ParseRole("technician")
	require.NoError(t, err)
	require.Equal(t, permission.RoleTechnician, role)

	_, err = permission.ParseRole("janitor")
	require.ErrorIs(t, err, core.ErrInvalidRole)
}

func TestHasMatchesFields(t *testing.T) {
	t.Parallel()

	caps, err := permission.Resolve(permission.RoleTechnician)
	require.NoError(t, err)

	require.True(t, caps.Has(permission.CanAcceptJobs))
	require.True(t, caps.Has(permission.CanUpdateRepairStatus))
	require.False(t, caps.Has(permission.CanCancelJobs))
	require.False(t, caps.Has(permission.CanCreateRepairs))
	require.False(t, caps.Has(permission.Capability("canFly")))
}

func TestRolesWith(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]permission.Role{
			permission.RoleAdmin,
			permission.RoleManager,
			permission.RoleTechnician,
		},
		permission.RolesWith(permission.CanReceiveNewJobNotifications),
	)
	require.Equal(t,
		[]permission.Role{permission.RoleAdmin},
		permission.RolesWith(permission.CanAddUsers),
	)
	require.Len(t, permission.RolesWith(permission.CanViewDashboard), 4)
}
