// Package validation checks request payloads and shared field formats.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("validation failed")

var (
	usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9._-]{2,29}$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidSlug(fl.Field().String())
	})
	v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		return ValidTimezone(fl.Field().String())
	})
	v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return ValidHTTPURL(fl.Field().String())
	})
	return v
}

// Struct validates s against its `validate` tags
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+param+" characters")
		case "max":
			msgs = append(msgs, field+" must be at most "+param+" characters")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+param)
		case "username":
			msgs = append(msgs, field+" must start with a letter and contain 3-30 lowercase letters, digits, '.', '_' or '-'")
		case "slug":
			msgs = append(msgs, field+" may only contain lowercase letters, digits and hyphens")
		case "timezone":
			msgs = append(msgs, field+" must be a valid time zone")
		case "httpurl":
			msgs = append(msgs, field+" must be an absolute http or https URL")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}

// CanonicalUsername lowercases and trims a username
func CanonicalUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidUsername(s string) bool { return usernamePattern.MatchString(s) }

func ValidSlug(s string) bool { return slugPattern.MatchString(s) }

// ValidTimezone accepts IANA location names; empty means unset
func ValidTimezone(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.LoadLocation(s)
	return err == nil
}

func ValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
