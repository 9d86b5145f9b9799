// AngelaMos | 2026
// entity.go

package repair

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Category string

const (
	CategoryElectrical      Category = "electrical"
	CategoryPlumbing        Category = "plumbing"
	CategoryAirConditioning Category = "air_conditioning"
	CategoryFurniture       Category = "furniture"
	CategoryOther           Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectrical,
		CategoryPlumbing,
		CategoryAirConditioning,
		CategoryFurniture,
		CategoryOther:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

const (
	MinDescriptionLen     = 10
	MinHighUrgencyDescLen = 20
)

type Repair struct {
	ID            int64     `db:"id"`
	Room          string    `db:"room"`
	Category      Category  `db:"category"`
	Urgency       Urgency   `db:"urgency"`
	Description   string    `db:"description"`
	Status        Status    `db:"status"`
	RequesterID   string    `db:"requester_id"`
	AssigneeID    *string   `db:"assignee_id"`
	Images        Images    `db:"images"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	RequesterName string    `db:"requester_name"`
	AssigneeName  *string   `db:"assignee_name"`
}

func (r *Repair) IsAssigned() bool {
	return r.AssigneeID != nil && *r.AssigneeID != ""
}

func (r *Repair) IsRequestedBy(userID string) bool {
	return r.RequesterID == userID
}

// Images is an ordered list of opaque image URLs stored as a JSONB array.
type Images []string

func (i Images) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(i))
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}
	return b, nil
}

func (i *Images) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*i = Images{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan images: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan images: %w", err)
	}
	*i = out
	return nil
}
