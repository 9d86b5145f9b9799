// AngelaMos | 2026
// scope_test.go

package repair_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
	"github.com/carterperez-dev/hotel-maintenance/internal/repair"
)

func seedRepairs(n int, requesters ...string) []repair.Repair {
	categories := []repair.Category{
		repair.CategoryElectrical,
		repair.CategoryPlumbing,
		repair.CategoryFurniture,
	}
	statuses := []repair.Status{
		repair.StatusPending,
		repair.StatusInProgress,
		repair.StatusCompleted,
	}

	out := make([]repair.Repair, 0, n)
	for i := range n {
		out = append(out, repair.Repair{
			ID:          int64(i + 1),
			Room:        fmt.Sprintf("%d", 100+i),
			Category:    categories[i%len(categories)],
			Urgency:     repair.UrgencyLow,
			Description: fmt.Sprintf("issue number %d in the room", i),
			Status:      statuses[i%len(statuses)],
			RequesterID: requesters[i%len(requesters)],
		})
	}
	return out
}

func TestViewScopeStaffSeesOnlyOwn(t *testing.T) {
	t.Parallel()

	staff := actor(t, "staff-a", permission.RoleStaff)

	for _, n := range []int{0, 1, 5, 30, 150} {
		repairs := seedRepairs(n, "staff-a", "staff-b", "manager-1")
		got := repair.ViewScope(staff.Caps, staff.ID, repairs, repair.Filter{Limit: repair.MaxLimit})

		for _, r := range got {
			require.Equal(t, "staff-a", r.RequesterID)
		}

		want := 0
		for _, r := range repairs {
			if r.RequesterID == "staff-a" {
				want++
			}
		}
		if want > repair.MaxLimit {
			want = repair.MaxLimit
		}
		require.Len(t, got, want)
	}
}

func TestViewScopeAllWithFilters(t *testing.T) {
	t.Parallel()

	tech := actor(t, "tech-1", permission.RoleTechnician)
	repairs := seedRepairs(9, "staff-a", "staff-b")

	all := repair.ViewScope(tech.Caps, tech.ID, repairs, repair.Filter{})
	require.Len(t, all, 9)

	pending := repair.ViewScope(tech.Caps, tech.ID, repairs, repair.Filter{
		Status: repair.StatusPending,
	})
	require.Len(t, pending, 3)
	for _, r := range pending {
		require.Equal(t, repair.StatusPending, r.Status)
	}

	search := repair.ViewScope(tech.Caps, tech.ID, repairs, repair.Filter{Search: "104"})
	require.Len(t, search, 1)
	require.Equal(t, int64(5), search[0].ID)
}

func TestViewScopePagination(t *testing.T) {
	t.Parallel()

	admin := actor(t, "admin-1", permission.RoleAdmin)
	repairs := seedRepairs(120, "staff-a")

	first := repair.ViewScope(admin.Caps, admin.ID, repairs, repair.Filter{})
	require.Len(t, first, repair.DefaultLimit)
	require.Equal(t, int64(1), first[0].ID)

	capped := repair.ViewScope(admin.Caps, admin.ID, repairs, repair.Filter{Limit: 500})
	require.Len(t, capped, repair.MaxLimit)

	tail := repair.ViewScope(admin.Caps, admin.ID, repairs, repair.Filter{Limit: 50, Offset: 100})
	require.Len(t, tail, 20)
	require.Equal(t, int64(101), tail[0].ID)

	past := repair.ViewScope(admin.Caps, admin.ID, repairs, repair.Filter{Offset: 1000})
	require.Empty(t, past)
}

func TestViewScopeWithoutCapabilityIsEmpty(t *testing.T) {
	t.Parallel()

	repairs := seedRepairs(10, "nobody")
	got := repair.ViewScope(permission.CapabilitySet{}, "nobody", repairs, repair.Filter{})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestScopeFor(t *testing.T) {
	t.Parallel()

	staff := actor(t, "staff-a", permission.RoleStaff)
	tech := actor(t, "tech-1", permission.RoleTechnician)

	require.Equal(t, repair.Scope{RequesterID: "staff-a"}, repair.ScopeFor(staff.Caps, staff.ID))
	require.Equal(t, repair.Scope{All: true}, repair.ScopeFor(tech.Caps, tech.ID))
	require.True(t, repair.ScopeFor(permission.CapabilitySet{}, "x").None())
}

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, repair.Filter{}.Validate())
	require.NoError(t, repair.Filter{
		Status:   repair.StatusCompleted,
		Category: repair.CategoryAirConditioning,
		Urgency:  repair.UrgencyHigh,
	}.Validate())

	require.ErrorIs(t, repair.Filter{Status: "done"}.Validate(), core.ErrValidationFailed)
	require.ErrorIs(t, repair.Filter{Category: "roof"}.Validate(), core.ErrValidationFailed)
	require.ErrorIs(t, repair.Filter{Urgency: "asap"}.Validate(), core.ErrValidationFailed)
}
