package core

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestToFloat8(t *testing.T) {
	tests := []struct {
		in   string
		want pgtype.Float8
	}{
		{"3.2", pgtype.Float8{Float64: 3.2, Valid: true}},
		{" 4 ", pgtype.Float8{Float64: 4, Valid: true}},
		{"7.5", pgtype.Float8{Float64: 7.5, Valid: true}},
		{"-1", pgtype.Float8{Float64: -1, Valid: true}},
		{"N/A", pgtype.Float8{}},
		{"", pgtype.Float8{}},
		{"nan", pgtype.Float8{}},
		{"inf", pgtype.Float8{}},
	}

	for _, tt := range tests {
		if got := ToFloat8(tt.in); got != tt.want {
			t.Errorf("ToFloat8(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFormatGPA(t *testing.T) {
	tests := []struct {
		in   pgtype.Float8
		want string
	}{
		{pgtype.Float8{Float64: 3.5, Valid: true}, "3.5"},
		{pgtype.Float8{Float64: 4, Valid: true}, "4"},
		{pgtype.Float8{}, "None"},
	}

	for _, tt := range tests {
		if got := FormatGPA(tt.in); got != tt.want {
			t.Errorf("FormatGPA(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStudentRow_NullColumns(t *testing.T) {
	row := studentRow{
		id:        5,
		firstName: pgtype.Text{String: "Ada", Valid: true},
		isDeleted: sql.NullBool{},
	}

	got := row.student()
	if got.ID != 5 || got.FirstName != "Ada" {
		t.Errorf("student() = %+v", got)
	}
	if got.LastName != "" || got.IsDeleted || got.GPA.Valid {
		t.Errorf("NULL columns = %+v, want zero values", got)
	}
	if n := len(row.dest()); n != 12 {
		t.Errorf("len(dest()) = %d, want 12", n)
	}
}
