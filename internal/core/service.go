package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/studentdb/internal/config"
	"github.com/JonMunkholm/studentdb/internal/logging"
	"github.com/JonMunkholm/studentdb/internal/store"
)

// Service provides the record operations over the Students table.
type Service struct {
	db       *store.DB
	states   StateSet
	advisors []string
	rng      *rand.Rand
	validate *validator.Validate
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used to assign faculty advisors on import.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed seeds the advisor random source. A zero seed keeps the default
// randomly seeded source.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// NewService creates a Service over db using the given reference data.
func NewService(db *store.DB, ref config.Reference, opts ...Option) *Service {
	states := NewStateSet(ref.States)
	s := &Service{
		db:       db,
		states:   states,
		advisors: append([]string(nil), ref.Advisors...),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		validate: newStructValidator(states),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateState accepts exact members of the configured state list.
func (s *Service) ValidateState(name string) (string, bool) {
	return s.states.Validate(name)
}

// ValidateID parses raw as a StudentId and checks that exactly one row has it.
// Returns ErrNotInteger or ErrNotFound on rejection.
func (s *Service) ValidateID(ctx context.Context, raw string) (int64, error) {
	id, ok := ValidateInteger(raw)
	if !ok {
		return 0, ErrNotInteger
	}
	if err := s.requireStudent(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

// requireStudent returns ErrNotFound unless exactly one row has id.
func (s *Service) requireStudent(ctx context.Context, id int64) error {
	var n int64
	stmt := s.db.Builder().
		Select("COUNT(*)").
		From(store.Table).
		Where(sq.Eq{store.ColStudentID: id})
	if err := s.db.QueryRow(ctx, stmt, &n); err != nil {
		return fmt.Errorf("look up student %d: %w", id, err)
	}
	if n != 1 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Service) selectStudents() sq.SelectBuilder {
	return s.db.Builder().Select(store.Columns...).From(store.Table)
}

// Get returns the student with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Student, error) {
	var row studentRow
	err := s.db.QueryRow(ctx, s.selectStudents().Where(sq.Eq{store.ColStudentID: id}), row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Student{}, fmt.Errorf("get student %d: %w", id, err)
	}
	return row.student(), nil
}

// ListAll yields every row, including soft-deleted ones, in storage order.
// Each range over the returned sequence runs the query again. The store's
// single connection is held until iteration ends, so the loop body must not
// call back into the service.
func (s *Service) ListAll(ctx context.Context) iter.Seq2[Student, error] {
	return func(yield func(Student, error) bool) {
		rows, err := s.db.Query(ctx, s.selectStudents())
		if err != nil {
			yield(Student{}, fmt.Errorf("list students: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row studentRow
			if err := rows.Scan(row.dest()...); err != nil {
				yield(Student{}, fmt.Errorf("scan student: %w", err))
				return
			}
			if !yield(row.student(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Student{}, fmt.Errorf("list students: %w", err))
		}
	}
}

// Create validates every field of n and inserts the student. Nothing is
// stored unless every field is valid; failures are returned as
// ValidationErrors.
func (s *Service) Create(ctx context.Context, n NewStudent) (int64, error) {
	if err := s.validate.StructCtx(ctx, n); err != nil {
		return 0, toValidationErrors(err)
	}

	// Both already passed the struct check.
	gpa, _ := ValidateRealInRange(n.GPA)
	phone, _ := ValidateInteger(n.MobilePhoneNumber)

	stmt := s.db.Builder().
		Insert(store.Table).
		Columns(
			store.ColFirstName,
			store.ColLastName,
			store.ColGPA,
			store.ColMajor,
			store.ColFacultyAdvisor,
			store.ColAddress,
			store.ColCity,
			store.ColState,
			store.ColZipCode,
			store.ColMobilePhoneNumber,
		).
		Values(
			n.FirstName,
			n.LastName,
			gpa,
			n.Major,
			n.FacultyAdvisor,
			n.Address,
			n.City,
			n.State,
			n.ZipCode,
			strconv.FormatInt(phone, 10),
		).
		Suffix("RETURNING " + store.ColStudentID)

	var id int64
	if err := s.db.QueryRow(ctx, stmt, &id); err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}

	logging.FromContext(ctx).Info("student created", "student_id", id)
	return id, nil
}

// Update sets one whitelisted field of student id. The value is validated
// for the field: AlphaSpace for Major and FacultyAdvisor, Integer for
// MobilePhoneNumber.
func (s *Service) Update(ctx context.Context, id int64, field UpdateField, value string) error {
	col := field.Column()
	if col == "" {
		return fmt.Errorf("update student %d: unknown field %d", id, int(field))
	}

	stored, ok := s.validateUpdate(field, value)
	if !ok {
		return ValidationError{Field: col, Value: value, Message: updateMessage(field)}
	}

	if err := s.requireStudent(ctx, id); err != nil {
		return err
	}

	stmt := s.db.Builder().
		Update(store.Table).
		Set(col, stored).
		Where(sq.Eq{store.ColStudentID: id})
	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("update student %d %s: %w", id, col, err)
	}

	logging.FromContext(ctx).Info("student updated", "student_id", id, "field", col)
	return nil
}

// ValidateUpdate checks value against the validator of field and returns the
// text that would be stored.
func (s *Service) ValidateUpdate(field UpdateField, value string) (string, bool) {
	return s.validateUpdate(field, value)
}

func (s *Service) validateUpdate(field UpdateField, value string) (string, bool) {
	switch field {
	case UpdateMajor, UpdateFacultyAdvisor:
		return ValidateAlphaSpace(value)
	case UpdateMobilePhoneNumber:
		n, ok := ValidateInteger(value)
		if !ok {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

func updateMessage(field UpdateField) string {
	if field == UpdateMobilePhoneNumber {
		return tagMessages["integer"]
	}
	return tagMessages["alphaspace"]
}

// SoftDelete marks student id deleted. The row stays in the table and keeps
// appearing in ListAll and Search. Deleting twice is not an error.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	if err := s.requireStudent(ctx, id); err != nil {
		return err
	}

	stmt := s.db.Builder().
		Update(store.Table).
		Set(store.ColIsDeleted, true).
		Where(sq.Eq{store.ColStudentID: id})
	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}

	logging.FromContext(ctx).Info("student deleted", "student_id", id)
	return nil
}

// ValidateSearch checks value against the validator of field and returns the
// value bound in the search statement.
func (s *Service) ValidateSearch(field SearchField, value string) (any, bool) {
	switch field {
	case SearchMajor, SearchCity, SearchFacultyAdvisor:
		return ValidateAlphaSpace(value)
	case SearchGPA:
		return ValidateRealInRange(value)
	case SearchState:
		return s.states.Validate(value)
	}
	return nil, false
}

// Search returns the students whose field equals value exactly. The value is
// validated first and nothing is queried when it is rejected.
func (s *Service) Search(ctx context.Context, field SearchField, value string) ([]Student, error) {
	col := field.Column()
	if col == "" {
		return nil, fmt.Errorf("search: unknown field %d", int(field))
	}

	arg, ok := s.ValidateSearch(field, value)
	if !ok {
		return nil, ValidationError{Field: col, Value: value, Message: searchMessage(field)}
	}

	rows, err := s.db.Query(ctx, s.selectStudents().Where(sq.Eq{col: arg}))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", col, err)
	}
	defer rows.Close()

	var found []Student
	for rows.Next() {
		var row studentRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		found = append(found, row.student())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", col, err)
	}

	logging.FromContext(ctx).Debug("search complete", "field", col, "matches", len(found))
	return found, nil
}

func searchMessage(field SearchField) string {
	switch field {
	case SearchGPA:
		return tagMessages["gpa"]
	case SearchState:
		return tagMessages["usstate"]
	}
	return tagMessages["alphaspace"]
}
