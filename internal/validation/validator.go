// Package validation validates request bodies with validator/v10 and converts
// failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/plan"
)

var (
	// Accepts #RGB and #RRGGBB in either case; handlers normalise afterwards.
	hexColorPattern = regexp.MustCompile(`^#(?i:[0-9a-f]{3}|[0-9a-f]{6})$`)
	tagPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the palette-specific tags registered:
// "palettecolor", "palettetag" and "plan".
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("palettecolor", func(fl validator.FieldLevel) bool {
		return hexColorPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("palettetag", func(fl validator.FieldLevel) bool {
		return tagPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return plan.Plan(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		// Field() drops slice indexes; the namespace keeps them ("colors[2]").
		field := e.Field()
		if ns := e.Namespace(); strings.Contains(ns, "[") {
			if _, after, ok := strings.Cut(ns, "."); ok {
				field = after
			}
		}
		fieldErrors[field] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func friendlyMessage(e validator.FieldError) string {
	isSlice := e.Kind() == reflect.Slice
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if isSlice {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if isSlice {
			return fmt.Sprintf("must not contain more than %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		if isSlice {
			return fmt.Sprintf("must contain exactly %s items", e.Param())
		}
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "palettecolor":
		return "must be a hex color like #AABBCC"
	case "palettetag":
		return "must be lowercase letters, digits and hyphens"
	case "plan":
		return "must be one of: free pro ultra individual"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
