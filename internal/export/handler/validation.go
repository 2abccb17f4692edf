package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// FieldBody is the field error key used when the body itself cannot be decoded.
const FieldBody = "body"

var registerValidationsOnce sync.Once

// RegisterValidations adds the custom rules to gin's validator and makes it report fields by
// their JSON name.
func RegisterValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Panic().Msg("Unexpected validator engine")
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("scalarmap", validateScalarMap); err != nil {
			log.Panic().Err(err).Msg("Failed to register scalarmap validation")
		}
	})
}

// validateScalarMap accepts maps whose values are all null, strings, numbers or booleans.
func validateScalarMap(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	iter := field.MapRange()
	for iter.Next() {
		if !isScalar(iter.Value().Interface()) {
			return false
		}
	}
	return true
}

// FieldErrors turns a binding error into field -> message.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = "must be " + jsonTypeName(typeErr.Type)
		return fields
	}

	fields[FieldBody] = "invalid JSON body: " + err.Error()
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "scalarmap":
		return "values must be strings, numbers, booleans or null"
	default:
		return "is invalid"
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a " + t.String()
	}
}
