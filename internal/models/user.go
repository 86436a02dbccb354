package models

import "time"

// Role names stored in UserModel.Roles.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// UserModel represents a registered account.
type UserModel struct {
	Base
	Email         string      `json:"email"           gorm:"uniqueIndex;not null"`
	Username      string      `json:"username"        gorm:"uniqueIndex;not null"`
	Password      string      `json:"-"               gorm:"not null"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	FullName      string      `json:"full_name"`
	DateOfBirth   *time.Time  `json:"date_of_birth"`
	PhoneNumber   string      `json:"phone_number"`
	Active        bool        `json:"active"          gorm:"default:true"`
	Roles         StringArray `json:"roles"           gorm:"type:longtext"`
	LastLoginTime *time.Time  `json:"last_login_time"`
	LastLoginIP   string      `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// HasRole reports set membership in the user's role set.
func (u *UserModel) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
