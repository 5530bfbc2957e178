package models

import (
	"time"

	"tunematch/tools"
)

// User representa um usuario no sistema. Cada usuário possui exatamente
// uma Preference, criada junto com o cadastro.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Username  string     `gorm:"not null;unique" json:"username" form:"username"`
	Password  string     `gorm:"not null" json:"password,omitempty" form:"password"`
	CreatedAt *time.Time `json:"created_at" form:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" form:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Username == "" {
		return "username"
	} else if !tools.ValidateUsername(user.Username) {
		return "username"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}
