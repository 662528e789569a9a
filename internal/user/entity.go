// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type User struct {
	ID         string     `db:"id"`
	CognitoSub string     `db:"cognito_sub"`
	Email      string     `db:"email"`
	Username   string     `db:"username"`
	Role       string     `db:"role"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == core.RoleAdmin
}
