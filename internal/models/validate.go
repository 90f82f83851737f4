package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shelfmap/internal/location"
)

// ValidationError carries per-field messages for a rejected record. The
// submission is blocked as a whole; there is no partial save.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator is the single record validator shared by every mutation entry
// point. Entry points differ only in which input struct (and therefore which
// tag set) they submit, never in validation logic.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the shared validator with the custom category rule
// registered and field names taken from json tags.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// "oneof" cannot express values containing spaces ("Dairy & Eggs"),
	// so category membership is a registered custom rule.
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return KnownCategory(fl.Field().String())
	})
	return &Validator{validate: v}
}

// coordinated is implemented by inputs whose location must satisfy the
// strict bounds. Loose entry points simply do not implement it.
type coordinated interface {
	Coordinate() location.Coordinate
}

// Check validates s and returns a *ValidationError describing every failed
// field, or nil when s passes. Coordinate bounds are delegated to the
// location package so the 1..999 range lives in exactly one place.
func (v *Validator) Check(s interface{}) *ValidationError {
	fields := make(map[string]string)
	if err := v.validate.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ValidationError{Fields: map[string]string{"_": err.Error()}}
		}
		for _, e := range validationErrors {
			fields[e.Field()] = fieldMessage(e)
		}
	}
	if c, ok := s.(coordinated); ok {
		for _, fe := range c.Coordinate().Validate() {
			if _, taken := fields[fe.Field]; !taken {
				fields[fe.Field] = fe.Message
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// fieldMessage renders the user-facing message for a failed constraint,
// matching the wording shown next to the form fields.
func fieldMessage(e validator.FieldError) string {
	switch e.Field() {
	case "name":
		switch e.Tag() {
		case "required":
			return "Product name is required"
		case "max":
			return "Name too long"
		}
	case "category":
		switch e.Tag() {
		case "required":
			return "Category is required"
		case "category":
			return "Unknown category"
		}
	case "photo_url":
		if e.Tag() == "url" {
			return "Photo URL must be a valid URL"
		}
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
}
