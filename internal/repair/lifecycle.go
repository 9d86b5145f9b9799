// AngelaMos | 2026
// lifecycle.go

package repair

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

// The functions in this file hold no state and do no I/O. They decide
// whether an operation is legal, compute the next repair value and declare
// the notifications it implies. Callers persist and deliver.

// transitions lists the legal status changes made through UpdateStatus.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusPending},
	StatusCompleted:  {},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Result is the outcome of a state-changing operation. Changed is false for
// idempotent no-ops, which must not be written. From is the status the
// stored row is expected to have when the update is applied.
type Result struct {
	Repair  Repair
	From    Status
	Changed bool
	Intents []notification.Intent
}

type CreateInput struct {
	Room        string
	Category    Category
	Urgency     Urgency
	Description string
	Images      []string
}

// Create validates input and builds a new pending repair owned by actor.
// The returned intents carry no RelatedID until the repair has an id; see
// BindRelated.
func Create(
	actor permission.Actor,
	in CreateInput,
	now time.Time,
) (Repair, []notification.Intent, error) {
	if !actor.Caps.CanCreateRepairs {
		return Repair{}, nil, fmt.Errorf("create repair: %w", core.ErrForbidden)
	}

	if err := validateCreate(in); err != nil {
		return Repair{}, nil, fmt.Errorf("create repair: %w", err)
	}

	images := make(Images, len(in.Images))
	copy(images, in.Images)

	r := Repair{
		Room:        strings.TrimSpace(in.Room),
		Category:    in.Category,
		Urgency:     in.Urgency,
		Description: strings.TrimSpace(in.Description),
		Status:      StatusPending,
		RequesterID: actor.ID,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	intents := []notification.Intent{{
		Type:  notification.TypeNewRequest,
		Title: "New repair request",
		Description: fmt.Sprintf(
			"Room %s: %s (%s urgency)",
			r.Room,
			categoryLabel(r.Category),
			r.Urgency,
		),
		Audience: notification.ToCapability(
			permission.CanReceiveNewJobNotifications,
		),
	}}

	return r, intents, nil
}

func validateCreate(in CreateInput) error {
	if strings.TrimSpace(in.Room) == "" {
		return fmt.Errorf("room is required: %w", core.ErrValidationFailed)
	}
	if !in.Category.Valid() {
		return fmt.Errorf(
			"unknown category %q: %w",
			in.Category,
			core.ErrValidationFailed,
		)
	}
	if !in.Urgency.Valid() {
		return fmt.Errorf(
			"unknown urgency %q: %w",
			in.Urgency,
			core.ErrValidationFailed,
		)
	}

	minLen := MinDescriptionLen
	if in.Urgency == UrgencyHigh {
		minLen = MinHighUrgencyDescLen
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) < minLen {
		return fmt.Errorf(
			"description must be at least %d characters for %s urgency: %w",
			minLen,
			in.Urgency,
			core.ErrValidationFailed,
		)
	}

	return nil
}

// BindRelated points every intent at the persisted repair id.
func BindRelated(intents []notification.Intent, id int64) {
	related := strconv.FormatInt(id, 10)
	for i := range intents {
		intents[i].RelatedID = related
	}
}

// UpdateStatus moves r to the requested status. Moving to in_progress
// assigns the actor when nobody holds the job; moving back to pending
// clears the assignee.
func UpdateStatus(
	actor permission.Actor,
	r Repair,
	to Status,
	now time.Time,
) (Result, error) {
	if !actor.Caps.CanUpdateRepairStatus {
		return Result{}, fmt.Errorf("update status: %w", core.ErrForbidden)
	}

	if !to.Valid() {
		return Result{}, fmt.Errorf(
			"update status: unknown status %q: %w",
			to,
			core.ErrValidationFailed,
		)
	}

	from := r.Status
	if from == to {
		return Result{Repair: r, From: from}, nil
	}

	if !CanTransition(from, to) {
		return Result{}, fmt.Errorf(
			"update status from %s to %s: %w",
			from,
			to,
			core.ErrIllegalTransition,
		)
	}

	r.Status = to
	r.UpdatedAt = now

	var intent notification.Intent
	switch to {
	case StatusInProgress:
		if !r.IsAssigned() {
			id := actor.ID
			r.AssigneeID = &id
		}
		intent = notification.Intent{
			Type:        notification.TypeStatusUpdate,
			Title:       "Repair in progress",
			Description: fmt.Sprintf("Work has started on room %s", r.Room),
		}
	case StatusPending:
		r.AssigneeID = nil
		r.AssigneeName = nil
		intent = notification.Intent{
			Type:        notification.TypeStatusUpdate,
			Title:       "Repair returned to queue",
			Description: fmt.Sprintf("The repair for room %s is pending again", r.Room),
		}
	case StatusCompleted:
		intent = notification.Intent{
			Type:        notification.TypeCompleted,
			Title:       "Repair completed",
			Description: fmt.Sprintf("The repair for room %s has been completed", r.Room),
		}
	}

	intent.RelatedID = strconv.FormatInt(r.ID, 10)
	intent.Audience = notification.ToUser(r.RequesterID)

	return Result{
		Repair:  r,
		From:    from,
		Changed: true,
		Intents: []notification.Intent{intent},
	}, nil
}

// Accept hands a pending repair to the actor.
func Accept(
	actor permission.Actor,
	r Repair,
	now time.Time,
) (Result, error) {
	if !actor.Caps.CanAcceptJobs {
		return Result{}, fmt.Errorf("accept repair: %w", core.ErrForbidden)
	}

	if r.Status != StatusPending {
		return Result{}, fmt.Errorf(
			"accept repair in status %s: %w",
			r.Status,
			core.ErrIllegalTransition,
		)
	}

	from := r.Status
	id := actor.ID
	r.AssigneeID = &id
	r.AssigneeName = nil
	r.Status = StatusInProgress
	r.UpdatedAt = now

	return Result{
		Repair:  r,
		From:    from,
		Changed: true,
		Intents: []notification.Intent{{
			Type:        notification.TypeAssigned,
			Title:       "Technician assigned",
			Description: fmt.Sprintf("A technician accepted the repair for room %s", r.Room),
			RelatedID:   strconv.FormatInt(r.ID, 10),
			Audience:    notification.ToUser(r.RequesterID),
		}},
	}, nil
}

// Cancel drops the current assignee and puts the job back in the queue.
// The requester is told, and so is everyone who could pick the job up.
func Cancel(
	actor permission.Actor,
	r Repair,
	now time.Time,
) (Result, error) {
	if !actor.Caps.CanCancelJobs {
		return Result{}, fmt.Errorf("cancel repair: %w", core.ErrForbidden)
	}

	if r.Status == StatusCompleted {
		return Result{}, fmt.Errorf(
			"cancel completed repair: %w",
			core.ErrIllegalTransition,
		)
	}

	if r.Status == StatusPending {
		return Result{Repair: r, From: r.Status}, nil
	}

	from := r.Status
	r.AssigneeID = nil
	r.AssigneeName = nil
	r.Status = StatusPending
	r.UpdatedAt = now

	related := strconv.FormatInt(r.ID, 10)
	description := fmt.Sprintf(
		"The job for room %s was cancelled and is available again",
		r.Room,
	)

	return Result{
		Repair:  r,
		From:    from,
		Changed: true,
		Intents: []notification.Intent{
			{
				Type:        notification.TypeStatusUpdate,
				Title:       "Job cancelled",
				Description: description,
				RelatedID:   related,
				Audience:    notification.ToUser(r.RequesterID),
			},
			{
				Type:        notification.TypeStatusUpdate,
				Title:       "Job available",
				Description: description,
				RelatedID:   related,
				Audience: notification.ToCapability(
					permission.CanAcceptJobs,
					actor.ID,
					r.RequesterID,
				),
			},
		},
	}, nil
}

func categoryLabel(c Category) string {
	return strings.ReplaceAll(string(c), "_", " ")
}
