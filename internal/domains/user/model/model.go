package model

import (
	"time"

	"resort/shared/constant"
	"resort/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldLevel     = "level"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Level     string     `db:"level"`
	FullName  *string    `db:"full_name"`
	Phone     *string    `db:"phone"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

// rank orders account levels; a higher rank may manage every lower one.
var rank = map[string]int{
	constant.RoleUser:       0,
	constant.RoleStaff:      1,
	constant.RoleAdmin:      2,
	constant.RoleSuperAdmin: 3,
}

// CanManage reports whether an account with level actor may modify an account with level target.
// Superadmins manage everyone, admins manage staff and guests, nobody else manages accounts.
func CanManage(actor, target string) bool {
	if actor == constant.RoleSuperAdmin {
		return true
	}

	return rank[actor] >= rank[constant.RoleAdmin] && rank[actor] > rank[target]
}
