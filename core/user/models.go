package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tafakari/core"
)

type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var AllRoles = []Role{RoleStudent, RoleTeacher}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Role Role   `json:"role" db:"role"`
	// StudentID is the human-facing cohort identifier (students only).
	StudentID string `json:"student_id,omitempty" db:"student_id"`
	// Resolution is set once at signup (students only).
	Resolution string    `json:"resolution,omitempty" db:"resolution"`
	Email      string    `json:"email,omitempty" db:"email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

// Students keeps the students of users, in order.
func Students(users []User) []User {
	students := make([]User, 0, len(users))
	for _, u := range users {
		if u.IsStudent() {
			students = append(students, u)
		}
	}
	return students
}

// NewStudent contains information needed to sign up a new student.
type NewStudent struct {
	Name       string `json:"name" validate:"required,notblank,max=100"`
	StudentID  string `json:"student_id" validate:"omitempty,max=32"`
	Resolution string `json:"resolution" validate:"omitempty,max=500"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Resolution = core.CleanString(ns.Resolution)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}

// NewTeacher contains information needed to create a new teacher.
type NewTeacher struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return validate.Struct(nt)
}

type QueryFilter struct {
	Role   Role   `query:"role" validate:"omitempty,role"`
	Search string `query:"search"`
}

func (f *QueryFilter) Clean() {
	f.Role = Role(core.CleanString(string(f.Role), true /* lower */))
	f.Search = core.CleanString(f.Search, true /* lower */)
}
