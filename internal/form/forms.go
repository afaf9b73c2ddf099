// Package form declares the field sets bound from submitted pages and turns
// validator failures into per-field messages for re-rendered forms.
package form

import (
	"fmt"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username    string `form:"username" validate:"required,max=150"`
	Email       string `form:"email" validate:"required,email"`
	FirstName   string `form:"first_name" validate:"required,max=50"`
	LastName    string `form:"last_name" validate:"required,max=50"`
	DateOfBirth string `form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Password    string `form:"password1" validate:"required,min=8,strongpwd"`
	Password2   string `form:"password2" validate:"required,eqfield=Password"`
}

// BirthDate parses the optional date-of-birth field. Call only after validation.
func (f *RegisterForm) BirthDate() *time.Time {
	if f.DateOfBirth == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", f.DateOfBirth)
	if err != nil {
		return nil
	}
	return &t
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ProfileForm edits first and last name.
type ProfileForm struct {
	FirstName string `form:"first_name" validate:"required,max=50"`
	LastName  string `form:"last_name" validate:"required,max=50"`
}

// UsernameEmailForm edits username and email; the current password is
// required for verification.
type UsernameEmailForm struct {
	Username        string `form:"username" validate:"required,max=150"`
	Email           string `form:"email" validate:"required,email"`
	CurrentPassword string `form:"current_password" validate:"required"`
}

// PasswordChangeForm sets a new password; the current password is required.
type PasswordChangeForm struct {
	CurrentPassword    string `form:"current_password" validate:"required"`
	NewPassword        string `form:"new_password" validate:"required,min=8,strongpwd"`
	ConfirmNewPassword string `form:"confirm_new_password" validate:"required,eqfield=NewPassword"`
}

// BookForm creates or edits a catalog entry.
type BookForm struct {
	Title           string `form:"title" validate:"required,max=200"`
	ISBN            string `form:"isbn" validate:"required,min=10,max=17"`
	TotalCopies     uint   `form:"total_copies" validate:"required,min=1"`
	AvailableCopies uint   `form:"available_copies" validate:"ltefield=TotalCopies"`
	AuthorIDs       []uint `form:"authors" validate:"required,min=1"`
	GenreIDs        []uint `form:"genres" validate:"required,min=1"`
}

// ReviewForm submits a book review.
type ReviewForm struct {
	Rating int    `form:"rating" validate:"required,min=1,max=5"`
	Text   string `form:"review_text" validate:"required"`
}

// RegisterStrongPassword installs the strongpwd rule: at least one uppercase
// letter, one lowercase letter, one digit, and one symbol.
func RegisterStrongPassword(v *validator.Validate) error {
	return v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		var upper, lower, digit, symbol bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			default:
				symbol = true
			}
		}
		return upper && lower && digit && symbol
	})
}

// Errors converts a validation error into per-field messages keyed by the
// struct field name.
func Errors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[""] = "invalid form submission"
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "eqfield":
		return "Passwords don't match."
	case "ltefield":
		return "Available copies cannot exceed total copies."
	case "strongpwd":
		return "Password must contain at least one uppercase letter, one lowercase letter, one digit, and one symbol."
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	default:
		return "Invalid value."
	}
}
