// Package form declares the HTML forms accepted by the blog and the rules
// their fields must satisfy.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

type Register struct {
	Username string `form:"username" validate:"required,max=100,username"`
	Email    string `form:"email" validate:"required,max=100,email"`
	Password string `form:"password" validate:"required,min=8,max=20,password"`
}

type Login struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type Post struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImageURL string `form:"img_url" validate:"required,max=250,url"`
	Body     string `form:"body" validate:"required"`
}

type Comment struct {
	Text string `form:"comment" validate:"required"`
}

type Contact struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"required"`
	Message string `form:"message" validate:"required"`
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f + ": " + e[f])
	}
	return b.String()
}

// Validator checks the forms above. It satisfies echo.Validator.
type Validator struct {
	v *validator.Validate
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const passwordSpecials = "@$!%*?&"

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Both registrations only fail on an empty tag or a nil func.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate returns nil or Errors holding the first failed rule of every
// invalid field.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	errs := Errors{}
	for _, fe := range failures {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "username":
		return "Username must contain only letters, numbers, underscores, or hyphens."
	case "password":
		return "Password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character."
	case "min", "max":
		if fe.Field() == "password" {
			return "Password must contain 8 to 20 characters"
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
		}
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	}
	return "Invalid value."
}

// strongPassword requires a lowercase and an uppercase ASCII letter, a digit
// and one of passwordSpecials, and allows nothing else.
func strongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
