package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// StateCount is the number of recognized state names.
const StateCount = 50

// Reference is the fixed lookup data the record service validates against:
// the recognized state names and the advisor roster used for import.
// It is loaded once at startup and treated as read-only afterwards.
type Reference struct {
	States   []string `yaml:"states"`
	Advisors []string `yaml:"advisors"`
}

// DefaultStates lists the full names of the 50 US states.
var DefaultStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
	"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri",
	"Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

// DefaultAdvisors is the built-in faculty advisor roster.
var DefaultAdvisors = []string{
	"Rene", "Cap'n Thomas", "Jake from State Farm", "Kobe",
}

// DefaultReference returns a copy of the built-in reference data.
func DefaultReference() Reference {
	return Reference{
		States:   slices.Clone(DefaultStates),
		Advisors: slices.Clone(DefaultAdvisors),
	}
}

// LoadReference reads reference data from a YAML file of the form
//
//	states: [Alabama, Alaska, ...]
//	advisors: [Rene, Kobe, ...]
//
// An empty path returns the defaults. A list omitted from the file keeps its default.
func LoadReference(path string) (Reference, error) {
	ref := DefaultReference()
	if path == "" {
		return ref, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("read reference file: %w", err)
	}

	var file Reference
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Reference{}, fmt.Errorf("parse reference file %s: %w", path, err)
	}

	if len(file.States) > 0 {
		ref.States = file.States
	}
	if len(file.Advisors) > 0 {
		ref.Advisors = file.Advisors
	}

	if err := ref.Validate(); err != nil {
		return Reference{}, fmt.Errorf("reference file %s: %w", path, err)
	}

	return ref, nil
}

// Validate checks that the state list has exactly StateCount unique, non-empty
// names and that the roster is non-empty.
func (r Reference) Validate() error {
	var errs []string

	if len(r.States) != StateCount {
		errs = append(errs, fmt.Sprintf("states must list %d names, got %d", StateCount, len(r.States)))
	}
	seen := make(map[string]bool, len(r.States))
	for _, s := range r.States {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, "states must not contain empty names")
			continue
		}
		if seen[s] {
			errs = append(errs, fmt.Sprintf("duplicate state %q", s))
		}
		seen[s] = true
	}

	if len(r.Advisors) == 0 {
		errs = append(errs, "advisors must list at least one name")
	}
	for _, a := range r.Advisors {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, "advisors must not contain empty names")
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid reference data:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
