// AngelaMos | 2026
// dto.go

package notification

import (
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListParams struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

func (p *ListParams) Normalize() {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type NotificationResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	IsRead      bool      `json:"is_read"`
	RelatedID   *string   `json:"related_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Type:        n.Type,
		IsRead:      n.IsRead,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt,
	}
}

func ToNotificationResponseList(ns []Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(ns))
	for i := range ns {
		responses = append(responses, ToNotificationResponse(&ns[i]))
	}
	return responses
}
