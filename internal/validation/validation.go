// Package validation holds the field rules of every console form. Rules run
// on each field change and again on submit; a form with any error is never
// sent to the backend.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.(com|org|net|edu|gov|in|io|co|me|info|biz|xyz)$`)
	phonePattern = regexp.MustCompile(`^[1-9]\d{9}$`)
)

// Errors maps a field name to the message of its first failing rule.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// Form is implemented by every form in this package.
type Form interface {
	// Normalize trims every submitted value.
	Normalize()
	messages() map[string]string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	return v
}

// IsEmail reports whether s is an address the backend accepts.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhone reports whether s is a ten digit number not starting with 0.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Check normalizes f and returns its errors, or nil when the form is valid.
func Check(f Form) Errors {
	f.Normalize()

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": "Form could not be validated"}
	}

	msgs := f.messages()
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := msgs[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else {
			out[field] = field + " is invalid"
		}
	}
	return out
}

// New returns an empty form by its route name.
func New(name string) (Form, bool) {
	switch name {
	case "login":
		return &Login{}, true
	case "addhospital":
		return &AddHospital{}, true
	case "edithospital":
		return &EditHospital{}, true
	case "addsuperadmin":
		return &AddSuperAdmin{}, true
	case "editsuperadmin":
		return &EditSuperAdmin{}, true
	case "resetpassword":
		return &ResetPassword{}, true
	}
	return nil, false
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
