package models

import (
	"fmt"
	"time"
)

// Role is the closed set of personnel roles. Anything outside it is a
// construction-time error, never a silent default.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleBoss       Role = "BOSS"
	RoleTeamLeader Role = "TEAM_LEADER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleIntern     Role = "INTERN"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleBoss, RoleTeamLeader, RoleEmployee, RoleIntern:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Role        Role           `json:"role" gorm:"not null"`
	Designation string         `json:"designation"`
	Photo       string         `json:"photo"`
	Birthdate   string         `json:"birthdate"`
	JoinDate    string         `json:"join_date"`
	Score       int            `json:"score"`
	TeamID      string         `json:"team_id"`
	Tours       []string       `json:"tours" gorm:"serializer:json"`
	Leaves      []LeaveRequest `json:"leaves" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeaveRequest struct {
	ID        string `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	DateRange string `json:"date_range"`
}

// CanCreateGroup reports whether the user may create groups and assign
// tasks to other users.
func (u *User) CanCreateGroup() bool {
	return u.Role == RoleBoss || u.Role == RoleAdmin || u.Role == RoleTeamLeader
}

// CanManageEmployees reports whether the user may onboard, edit, or remove
// entries in the employee directory.
func (u *User) CanManageEmployees() bool {
	return u.Role == RoleBoss || u.Role == RoleAdmin
}

// HasBirthdayOn compares the month-day portion of the birthdate against the
// given day. Birthdates are stored as YYYY-MM-DD strings.
func (u *User) HasBirthdayOn(t time.Time) bool {
	if len(u.Birthdate) < 10 {
		return false
	}
	return u.Birthdate[5:10] == t.Format("01-02")
}
