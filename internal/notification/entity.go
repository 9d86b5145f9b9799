// AngelaMos | 2026
// entity.go

package notification

import (
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type Type string

const (
	TypeNewRequest   Type = "new_request"
	TypeStatusUpdate Type = "status_update"
	TypeCompleted    Type = "completed"
	TypeAssigned     Type = "assigned"
	TypeUserCreated  Type = "user_created"
)

type Notification struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Type        Type      `db:"type"`
	IsRead      bool      `db:"is_read"`
	RelatedID   *string   `db:"related_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Audience selects who receives an intent: one user, or every user whose
// role grants Capability. Exclude removes ids from a capability audience.
type Audience struct {
	UserID     string
	Capability permission.Capability
	Exclude    []string
}

func ToUser(userID string) Audience {
	return Audience{UserID: userID}
}

func ToCapability(c permission.Capability, exclude ...string) Audience {
	return Audience{Capability: c, Exclude: exclude}
}

func (a Audience) IsBroadcast() bool {
	return a.UserID == "" && a.Capability != ""
}

func (a Audience) excludes(userID string) bool {
	for _, id := range a.Exclude {
		if id == userID {
			return true
		}
	}
	return false
}

// Intent is a notification that an operation wants delivered. It is data
// only; Service.Dispatch turns it into stored rows and outbound events.
type Intent struct {
	Type        Type
	Title       string
	Description string
	RelatedID   string
	Audience    Audience
}

func (in Intent) notificationFor(userID string) Notification {
	n := Notification{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
	}
	if in.RelatedID != "" {
		related := in.RelatedID
		n.RelatedID = &related
	}
	return n
}

// Contact is the mail-relevant slice of a user.
type Contact struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

// Event is the payload published for every stored notification.
type Event struct {
	Event          string    `json:"event"`
	NotificationID int64     `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           Type      `json:"type"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RelatedID      *string   `json:"related_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

const EventCreated = "notification.created"

func newEvent(n Notification) Event {
	return Event{
		Event:          EventCreated,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Description:    n.Description,
		RelatedID:      n.RelatedID,
		CreatedAt:      n.CreatedAt,
	}
}

// emailed reports whether the type is also delivered by mail.
func (t Type) emailed() bool {
	return t == TypeAssigned || t == TypeCompleted
}
