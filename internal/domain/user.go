package domain

import "strings"

type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	GraduatingYear string `json:"graduating_year"`
	Major          string `json:"major"`
	Description    string `json:"description"`
	ProfilePicture string `json:"profile_picture"`
	Title          string `json:"title"`
	Role           Role   `json:"role"`
	IsMain         bool   `json:"is_main"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfilePatch is a partial profile update. Nil fields are not sent.
type ProfilePatch struct {
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	GraduatingYear *string `json:"graduating_year,omitempty"`
	Major          *string `json:"major,omitempty"`
	Description    *string `json:"description,omitempty"`
	Title          *string `json:"title,omitempty"`
	Role           *Role   `json:"role,omitempty"`
	IsMain         *bool   `json:"is_main,omitempty"`
}

type Registration struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Password2      string `json:"password2"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	GraduatingYear string `json:"graduating_year"`
	Major          string `json:"major"`
	Description    string `json:"description"`
	Title          string `json:"title"`
	Role           Role   `json:"role"`
}
