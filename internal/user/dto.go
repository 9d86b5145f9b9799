// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type CreateUserRequest struct {
	Email    string  `json:"email"              validate:"required,email,max=255"`
	Password string  `json:"password"           validate:"required,min=8,max=128"`
	Name     string  `json:"name"               validate:"required,min=1,max=100"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,e164"`
	Language string  `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Role     string  `json:"role"               validate:"required,oneof=admin manager staff technician"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,e164"`
	Language *string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager staff technician"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Language  string    `json:"language"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PermissionsResponse struct {
	Role        permission.Role          `json:"role"`
	Permissions permission.CapabilitySet `json:"permissions"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Language:  u.Language,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
