package core

// convert.go maps between Go values and the nullable column types of the
// Students table.

import (
	"database/sql"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToFloat8 coerces imported GPA text to a real. No range check is applied.
// Returns invalid (stored as NULL) when the text does not parse or is not a
// finite number.
func ToFloat8(s string) pgtype.Float8 {
	f, ok := parseReal(s)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// FormatGPA renders a GPA for display. NULL renders as "None".
func FormatGPA(g pgtype.Float8) string {
	if !g.Valid {
		return "None"
	}
	return strconv.FormatFloat(g.Float64, 'f', -1, 64)
}

// FromText returns the string of a nullable text column, "" for NULL.
func FromText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// studentRow holds scan targets for one Students row. Every column except the
// key is nullable.
type studentRow struct {
	id                int64
	firstName         pgtype.Text
	lastName          pgtype.Text
	gpa               pgtype.Float8
	major             pgtype.Text
	facultyAdvisor    pgtype.Text
	address           pgtype.Text
	city              pgtype.Text
	state             pgtype.Text
	zipCode           pgtype.Text
	mobilePhoneNumber pgtype.Text
	isDeleted         sql.NullBool
}

// dest returns pointers in store.Columns order.
func (r *studentRow) dest() []any {
	return []any{
		&r.id,
		&r.firstName,
		&r.lastName,
		&r.gpa,
		&r.major,
		&r.facultyAdvisor,
		&r.address,
		&r.city,
		&r.state,
		&r.zipCode,
		&r.mobilePhoneNumber,
		&r.isDeleted,
	}
}

func (r *studentRow) student() Student {
	return Student{
		ID:                r.id,
		FirstName:         FromText(r.firstName),
		LastName:          FromText(r.lastName),
		GPA:               r.gpa,
		Major:             FromText(r.major),
		FacultyAdvisor:    FromText(r.facultyAdvisor),
		Address:           FromText(r.address),
		City:              FromText(r.city),
		State:             FromText(r.state),
		ZipCode:           FromText(r.zipCode),
		MobilePhoneNumber: FromText(r.mobilePhoneNumber),
		IsDeleted:         r.isDeleted.Valid && r.isDeleted.Bool,
	}
}
