package core

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/studentdb/internal/store"
)

// Student is one row of the Students table.
type Student struct {
	ID                int64
	FirstName         string
	LastName          string
	GPA               pgtype.Float8 // Invalid when an import could not parse the source value
	Major             string
	FacultyAdvisor    string
	Address           string
	City              string
	State             string
	ZipCode           string
	MobilePhoneNumber string
	IsDeleted         bool
}

// NewStudent carries the raw operator input for Create. Every field is
// validated before anything is stored.
type NewStudent struct {
	FirstName         string `validate:"alphaspace"`
	LastName          string `validate:"alphaspace"`
	GPA               string `validate:"gpa"`
	Major             string `validate:"alphaspace"`
	FacultyAdvisor    string `validate:"alphaspace"`
	Address           string `validate:"alnumspace"`
	City              string `validate:"alphaspace"`
	State             string `validate:"usstate"`
	ZipCode           string `validate:"zipcode"`
	MobilePhoneNumber string `validate:"integer"`
}

// SourceRow is one import record keyed by column header.
type SourceRow map[string]string

// ImportColumns are the headers an import source must provide. A
// FacultyAdvisor column may be present but is ignored.
var ImportColumns = []string{
	store.ColFirstName,
	store.ColLastName,
	store.ColGPA,
	store.ColMajor,
	store.ColAddress,
	store.ColCity,
	store.ColState,
	store.ColZipCode,
	store.ColMobilePhoneNumber,
}

// ImportResult summarizes one import run.
type ImportResult struct {
	RunID    string // Operation ID attached to the run's log records
	Inserted int    // Rows committed
	NullGPA  int    // Rows whose GPA did not parse and was stored as NULL
}

// UpdateField is a column that Update may change.
type UpdateField int

const (
	UpdateMajor UpdateField = iota + 1
	UpdateFacultyAdvisor
	UpdateMobilePhoneNumber
)

// UpdateFields lists the update targets in menu order.
var UpdateFields = []UpdateField{UpdateMajor, UpdateFacultyAdvisor, UpdateMobilePhoneNumber}

// Column returns the literal column identifier, or "" for an unknown field.
func (f UpdateField) Column() string {
	switch f {
	case UpdateMajor:
		return store.ColMajor
	case UpdateFacultyAdvisor:
		return store.ColFacultyAdvisor
	case UpdateMobilePhoneNumber:
		return store.ColMobilePhoneNumber
	}
	return ""
}

func (f UpdateField) String() string {
	if c := f.Column(); c != "" {
		return c
	}
	return "unknown"
}

// SearchField is a column that Search may match on.
type SearchField int

const (
	SearchMajor SearchField = iota + 1
	SearchGPA
	SearchCity
	SearchState
	SearchFacultyAdvisor
)

// SearchFields lists the search fields in menu order.
var SearchFields = []SearchField{SearchMajor, SearchGPA, SearchCity, SearchState, SearchFacultyAdvisor}

// Column returns the literal column identifier, or "" for an unknown field.
func (f SearchField) Column() string {
	switch f {
	case SearchMajor:
		return store.ColMajor
	case SearchGPA:
		return store.ColGPA
	case SearchCity:
		return store.ColCity
	case SearchState:
		return store.ColState
	case SearchFacultyAdvisor:
		return store.ColFacultyAdvisor
	}
	return ""
}

func (f SearchField) String() string {
	if c := f.Column(); c != "" {
		return c
	}
	return "unknown"
}
