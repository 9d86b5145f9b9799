// AngelaMos | 2026
// dto.go

package repair

import (
	"time"
)

type CreateRepairRequest struct {
	Room        string   `json:"room"        validate:"required,min=1,max=50"`
	Category    string   `json:"category"    validate:"required,oneof=electrical plumbing air_conditioning furniture other"`
	Urgency     string   `json:"urgency"     validate:"required,oneof=low medium high"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Images      []string `json:"images"      validate:"omitempty,max=10,dive,required,url"`
}

func (r CreateRepairRequest) ToInput() CreateInput {
	return CreateInput{
		Room:        r.Room,
		Category:    Category(r.Category),
		Urgency:     Urgency(r.Urgency),
		Description: r.Description,
		Images:      r.Images,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

type RepairResponse struct {
	ID            int64     `json:"id"`
	Room          string    `json:"room"`
	Category      Category  `json:"category"`
	Urgency       Urgency   `json:"urgency"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	RequesterID   string    `json:"requester_id"`
	RequesterName string    `json:"requester_name,omitempty"`
	AssigneeID    *string   `json:"assignee_id"`
	AssigneeName  *string   `json:"assignee_name,omitempty"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToRepairResponse(r *Repair) RepairResponse {
	images := []string(r.Images)
	if images == nil {
		images = []string{}
	}

	return RepairResponse{
		ID:            r.ID,
		Room:          r.Room,
		Category:      r.Category,
		Urgency:       r.Urgency,
		Description:   r.Description,
		Status:        r.Status,
		RequesterID:   r.RequesterID,
		RequesterName: r.RequesterName,
		AssigneeID:    r.AssigneeID,
		AssigneeName:  r.AssigneeName,
		Images:        images,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToRepairResponseList(repairs []Repair) []RepairResponse {
	responses := make([]RepairResponse, 0, len(repairs))
	for i := range repairs {
		responses = append(responses, ToRepairResponse(&repairs[i]))
	}
	return responses
}
