// AngelaMos | 2026
// scope.go

package repair

import (
	"fmt"
	"strings"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type Filter struct {
	Status   Status
	Category Category
	Urgency  Urgency
	Search   string
	Limit    int
	Offset   int
}

func (f *Filter) Normalize() {
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
}

// Validate rejects enumerated filter values the system does not know.
func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", f.Status, core.ErrValidationFailed)
	}
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", f.Category, core.ErrValidationFailed)
	}
	if f.Urgency != "" && !f.Urgency.Valid() {
		return fmt.Errorf("unknown urgency %q: %w", f.Urgency, core.ErrValidationFailed)
	}
	return nil
}

func (f Filter) matches(r *Repair) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Urgency != "" && r.Urgency != f.Urgency {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Room), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
	}
	return true
}

// Scope is the slice of repairs a caller may read.
type Scope struct {
	All         bool
	RequesterID string
}

// None reports a scope that grants nothing.
func (s Scope) None() bool {
	return !s.All && s.RequesterID == ""
}

func (s Scope) Includes(r *Repair) bool {
	if s.All {
		return true
	}
	return s.RequesterID != "" && r.IsRequestedBy(s.RequesterID)
}

func ScopeFor(caps permission.CapabilitySet, callerID string) Scope {
	switch {
	case caps.CanViewAllRepairs:
		return Scope{All: true}
	case caps.CanViewOwnRepairs && callerID != "":
		return Scope{RequesterID: callerID}
	default:
		return Scope{}
	}
}

// ViewScope returns the page of repairs the caller may see, preserving the
// input order. A caller without any view capability gets an empty slice.
func ViewScope(
	caps permission.CapabilitySet,
	callerID string,
	repairs []Repair,
	f Filter,
) []Repair {
	f.Normalize()

	scope := ScopeFor(caps, callerID)
	if scope.None() {
		return []Repair{}
	}

	visible := make([]Repair, 0, len(repairs))
	for i := range repairs {
		if scope.Includes(&repairs[i]) && f.matches(&repairs[i]) {
			visible = append(visible, repairs[i])
		}
	}

	if f.Offset >= len(visible) {
		return []Repair{}
	}

	end := f.Offset + f.Limit
	if end > len(visible) {
		end = len(visible)
	}

	return visible[f.Offset:end]
}
