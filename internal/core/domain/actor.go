package domain

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
	// RoleSystem is used by in-process jobs such as the status sweeper.
	RoleSystem Role = "system"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleTrainer, RoleMember:
		return r, true
	}
	return "", false
}

// Actor is the authenticated caller passed into every mutating operation.
type Actor struct {
	UserID      string
	DisplayName string
	Email       string
	Role        Role
}

func SystemActor() Actor {
	return Actor{UserID: "system", DisplayName: "system", Role: RoleSystem}
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleTrainer || a.Role == RoleSystem
}

// CanSchedule reports whether the actor may create classes.
func (a Actor) CanSchedule() bool {
	return a.Role == RoleAdmin || a.Role == RoleTrainer
}

// CanManage reports whether the actor may edit, transition or take
// attendance for c. Trainers only manage the classes they teach.
func (a Actor) CanManage(c GymClass) bool {
	switch a.Role {
	case RoleAdmin, RoleSystem:
		return true
	case RoleTrainer:
		return a.UserID != "" && a.UserID == c.InstructorID
	}
	return false
}

// CanActOnBooking reports whether the actor may cancel or mark b.
func (a Actor) CanActOnBooking(b Booking, c GymClass) bool {
	if a.UserID != "" && a.UserID == b.UserID {
		return true
	}
	return a.CanManage(c)
}
