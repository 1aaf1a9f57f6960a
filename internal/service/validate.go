package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation error")
)

const (
	MsgRequired = "This field is required."
	MsgInvalid  = "Enter a valid value."
)

// ValidationError carries messages per JSON field.
type ValidationError struct {
	Fields map[string][]string
}

func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation error: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs v over in and converts failures to a *ValidationError. Fields
// listed in invalid had a value of the wrong type; they are reported as
// invalid instead of whatever the zero value they decoded to produced.
func check(v *validator.Validate, in any, invalid []string) error {
	out := &ValidationError{Fields: make(map[string][]string)}

	if err := v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			msg := MsgInvalid
			switch fe.Tag() {
			case "required", "min":
				msg = MsgRequired
			}
			out.Fields[fe.Field()] = append(out.Fields[fe.Field()], msg)
		}
	}

	for _, field := range invalid {
		out.Fields[field] = []string{MsgInvalid}
	}

	if len(out.Fields) == 0 {
		return nil
	}
	return out
}
