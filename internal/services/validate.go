package services

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. Struct metadata is cached
// by the validator, so one instance serves every request.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// messageFunc renders one failed rule as a user-facing sentence.
type messageFunc func(fe validator.FieldError) string

// validateStruct runs the struct tags of v and converts failures into a
// *ValidationError using msgs keyed by JSON field name. Fields without an
// entry fall back to a generic sentence.
func validateStruct(v any, msgs map[string]messageFunc) *ValidationError {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	out := &ValidationError{}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		out.add("", err.Error())
		return out
	}
	for _, fe := range fes {
		field := fe.Field()
		if fn, ok := msgs[field]; ok {
			out.add(field, fn(fe))
			continue
		}
		out.add(field, field+" is invalid.")
	}
	return out
}
