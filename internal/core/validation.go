package core

// validation.go provides the field validators used by Create, Update, and
// Search, plus the struct-level validator that applies them to NewStudent.
//
// Each field validator returns the accepted value and ok == false when the
// input is rejected. Validators never trim or normalize text fields; the value
// returned is the value stored.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// GPA bounds enforced on every validated entry path.
const (
	MinGPA = 0.00
	MaxGPA = 5.00
)

// ZipLength is the exact length of an accepted zip code.
const ZipLength = 5

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Column name
	Value   string // The rejected input
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every field that failed validation.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "invalid student: " + strings.Join(msgs, "; ")
}

// ValidateAlphaSpace accepts text made only of letters and whitespace. The
// empty string is accepted.
func ValidateAlphaSpace(s string) (string, bool) {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "", false
		}
	}
	return s, true
}

// ValidateAlphaNumSpace accepts text made only of letters, numbers and
// whitespace. The empty string is accepted.
func ValidateAlphaNumSpace(s string) (string, bool) {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) {
			return "", false
		}
	}
	return s, true
}

// ValidateRealInRange accepts a decimal number between MinGPA and MaxGPA
// inclusive. Surrounding whitespace is allowed. NaN is out of range.
func ValidateRealInRange(s string) (float64, bool) {
	f, ok := parseReal(s)
	if !ok || !(f >= MinGPA && f <= MaxGPA) {
		return 0, false
	}
	return f, true
}

// ValidateInteger accepts a base-10 integer with an optional sign.
// Surrounding whitespace is allowed.
func ValidateInteger(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidateZip accepts exactly ZipLength characters that also pass
// ValidateInteger. The raw text is returned so leading zeros survive.
func ValidateZip(s string) (string, bool) {
	if len(s) != ZipLength {
		return "", false
	}
	if _, ok := ValidateInteger(s); !ok {
		return "", false
	}
	return s, true
}

// parseReal parses a decimal float. Hexadecimal notation is rejected.
func parseReal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StateSet is the enumeration of accepted state names.
type StateSet map[string]struct{}

// NewStateSet builds a set from the given names.
func NewStateSet(names []string) StateSet {
	set := make(StateSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Validate accepts exact, case-sensitive members of the set.
func (s StateSet) Validate(name string) (string, bool) {
	if _, ok := s[name]; !ok {
		return "", false
	}
	return name, true
}

// Messages reported for each validator tag.
var tagMessages = map[string]string{
	"alphaspace": "must contain only letters and spaces",
	"alnumspace": "must contain only letters, digits or spaces",
	"gpa":        fmt.Sprintf("must be a number between %.2f and %.2f", MinGPA, MaxGPA),
	"usstate":    "must be the full name of a US state",
	"zipcode":    fmt.Sprintf("must be exactly %d digits", ZipLength),
	"integer":    "must be a whole number",
}

// newStructValidator returns a validator with the field validators registered
// as tags. The usstate tag checks membership in states.
func newStructValidator(states StateSet) *validator.Validate {
	v := validator.New()

	register := func(tag string, fn func(string) bool) {
		// Tag names are constants; registration only fails on an empty tag.
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}

	register("alphaspace", func(s string) bool { _, ok := ValidateAlphaSpace(s); return ok })
	register("alnumspace", func(s string) bool { _, ok := ValidateAlphaNumSpace(s); return ok })
	register("gpa", func(s string) bool { _, ok := ValidateRealInRange(s); return ok })
	register("usstate", func(s string) bool { _, ok := states.Validate(s); return ok })
	register("zipcode", func(s string) bool { _, ok := ValidateZip(s); return ok })
	register("integer", func(s string) bool { _, ok := ValidateInteger(s); return ok })

	return v
}

// toValidationErrors converts validator field errors into ValidationErrors.
// Other errors are returned unchanged.
func toValidationErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Value:   fmt.Sprint(fe.Value()),
			Message: msg,
		})
	}
	return out
}
