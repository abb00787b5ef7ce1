package validate

import (
	"fmt"     // Message formatting
	"reflect" // Field kind inspection
	"regexp"  // Username pattern
	"strings" // String manipulation

	"github.com/go-playground/validator/v10" // Declarative struct validation
)

// FieldError is a single violated rule, tagged with the offending field
type FieldError struct {
	Field   string `json:"field"`   // Field name as it appears in the request payload
	Message string `json:"message"` // Human-readable reason
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var v = newValidator()

// newValidator builds the shared validator instance with custom rules
func newValidator() *validator.Validate {
	vd := validator.New()
	// Report fields by their json tag so errors match the wire format
	vd.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Usernames allow letters, digits and underscores only
	_ = vd.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return vd
}

// Struct validates s against its `validate` tags and returns the complete
// list of violations, one entry per failed rule, never just the first.
func Struct(s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath strips the root struct name from the error namespace, keeping
// element indexes for per-element slice rules (e.g. "items[1].amount").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// message maps a validator tag to a human-readable reason
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "eth_addr":
		return "must be a valid wallet address (0x followed by 40 hex characters)"
	case "username":
		return "may only contain letters, numbers and underscores"
	default:
		return "is invalid"
	}
}
