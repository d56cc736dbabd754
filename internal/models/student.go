package models

import "time"

// Student is the persisted row shape. JSON tags follow the column names so
// API payloads match the table exactly.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Course       string    `db:"course" json:"course"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// StudentInput carries the client-owned mutable fields of a student. The id
// and registration timestamp are server-assigned and never accepted here.
type StudentInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Course    string `json:"course"`
}

// StudentView is the camelCase UI-facing shape of a Student.
type StudentView struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Course         string `json:"course"`
	RegisteredDate string `json:"registeredDate"`
}

// View reshapes the persisted row into its UI form. A pure rename, no
// semantic difference.
func (s Student) View() StudentView {
	return StudentView{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Course:         s.Course,
		RegisteredDate: s.RegisteredAt.UTC().Format(time.RFC3339),
	}
}

// FullName joins first and last name for display and search.
func (v StudentView) FullName() string {
	return v.FirstName + " " + v.LastName
}

// Courses offered on the registration form.
var Courses = []string{"Java", ".Net", "Angular"}
