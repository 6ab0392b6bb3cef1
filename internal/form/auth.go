package form

import "strings"

type LoginForm struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" form:"identifier" validate:"notblank"`
	Password   string `json:"password" form:"password" validate:"required"`
}

func (f *LoginForm) Validate() error {
	f.Identifier = strings.TrimSpace(f.Identifier)
	return check(f, nil)
}

type RegisterForm struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=50,alphanum"`
	FullName        string `json:"full_name" form:"full_name" validate:"notblank,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (f *RegisterForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	extra := map[string]string{}
	if f.ConfirmPassword != "" && f.ConfirmPassword != f.Password {
		extra["confirm_password"] = "passwords do not match"
	}
	return check(f, extra)
}

// ProfileForm edits the member's own record.  Empty fields are left
// unchanged.
type ProfileForm struct {
	FullName string `json:"full_name" form:"full_name" validate:"omitempty,max=100"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"omitempty,min=6"`
}

func (f *ProfileForm) Validate() error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	extra := map[string]string{}
	if f.FullName == "" && f.Email == "" && f.Password == "" {
		extra["full_name"] = "nothing to update"
	}
	return check(f, extra)
}
