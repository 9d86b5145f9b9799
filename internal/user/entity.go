// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

const DefaultLanguage = "en"

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Phone        *string    `db:"phone"`
	Language     string     `db:"language"`
	Role         string     `db:"role"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return permission.Role(u.Role) == permission.RoleAdmin
}
