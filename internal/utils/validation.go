package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError describes a single failed rule on a struct field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates all failed rules for one input struct
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, ", ")
}

// ValidateStruct checks every exported field of s against the rules in
// its `validate` tag. Supported rules: required, email, min=N, max=N.
// min and max compare string length for strings, element count for
// slices and the numeric value for number fields.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	var failures ValidationErrors
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("validate")
		if tag == "" || !v.Field(i).CanInterface() {
			continue
		}
		for _, rule := range strings.Split(tag, ",") {
			name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
			if msg := checkRule(v.Field(i), name, arg); msg != "" {
				failures = append(failures, ValidationError{Field: t.Field(i).Name, Message: msg})
			}
		}
	}

	// Slices of structs are validated element by element so rules on
	// nested fields, like a line item's quantity, are enforced too
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.Struct || !field.CanInterface() {
			continue
		}
		for j := 0; j < field.Len(); j++ {
			err := ValidateStruct(field.Index(j).Interface())
			var nested ValidationErrors
			if errors.As(err, &nested) {
				for _, e := range nested {
					failures = append(failures, ValidationError{
						Field:   fmt.Sprintf("%s[%d].%s", t.Field(i).Name, j, e.Field),
						Message: e.Message,
					})
				}
			}
		}
	}

	if len(failures) > 0 {
		return failures
	}
	return nil
}

// checkRule returns an empty string when the field satisfies the rule
func checkRule(field reflect.Value, name, arg string) string {
	switch name {
	case "required":
		if isZeroValue(field) {
			return "is required"
		}
	case "email":
		if field.Kind() == reflect.String {
			if addr := field.String(); addr != "" && !IsValidEmail(addr) {
				return "must be a valid email address"
			}
		}
	case "min":
		limit := ParseIntOrDefault(arg, 0)
		if size, counted := fieldSize(field); counted {
			if size < limit {
				return fmt.Sprintf("must be at least %s characters", arg)
			}
		} else if num, ok := numericValue(field); ok && num < float64(limit) {
			return fmt.Sprintf("must be at least %s", arg)
		}
	case "max":
		limit := ParseIntOrDefault(arg, 0)
		if size, counted := fieldSize(field); counted {
			if size > limit {
				return fmt.Sprintf("must be at most %s characters", arg)
			}
		} else if num, ok := numericValue(field); ok && num > float64(limit) {
			return fmt.Sprintf("must be at most %s", arg)
		}
	}
	return ""
}

func isZeroValue(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.String:
		return field.String() == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return field.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}

// fieldSize returns the length of string and slice fields
func fieldSize(field reflect.Value) (int, bool) {
	switch field.Kind() {
	case reflect.String, reflect.Slice:
		return field.Len(), true
	}
	return 0, false
}

// numericValue widens any numeric field to float64
func numericValue(field reflect.Value) (float64, bool) {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(field.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(field.Uint()), true
	case reflect.Float32, reflect.Float64:
		return field.Float(), true
	}
	return 0, false
}

// ParseIntOrDefault parses s as an integer, falling back to def when s
// is empty or not a number
func ParseIntOrDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// IsValidEmail reports whether the address has a plausible mailbox form
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail lowercases and trims an address so lookups and the
// unique index compare consistently
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
