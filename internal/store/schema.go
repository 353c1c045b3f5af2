package store

import (
	"context"
	"fmt"
)

// Table and column identifiers of the Students table. These literals are the
// only identifiers ever placed in statement text.
const (
	Table = "Students"

	ColStudentID         = "StudentId"
	ColFirstName         = "FirstName"
	ColLastName          = "LastName"
	ColGPA               = "GPA"
	ColMajor             = "Major"
	ColFacultyAdvisor    = "FacultyAdvisor"
	ColAddress           = "Address"
	ColCity              = "City"
	ColState             = "State"
	ColZipCode           = "ZipCode"
	ColMobilePhoneNumber = "MobilePhoneNumber"
	ColIsDeleted         = "isDeleted"
)

// Columns lists every column in table order.
var Columns = []string{
	ColStudentID,
	ColFirstName,
	ColLastName,
	ColGPA,
	ColMajor,
	ColFacultyAdvisor,
	ColAddress,
	ColCity,
	ColState,
	ColZipCode,
	ColMobilePhoneNumber,
	ColIsDeleted,
}

// INTEGER PRIMARY KEY aliases the rowid, so SQLite assigns StudentId.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS Students (
    StudentId INTEGER PRIMARY KEY,
    FirstName TEXT,
    LastName TEXT,
    GPA REAL,
    Major TEXT,
    FacultyAdvisor TEXT,
    Address TEXT,
    City TEXT,
    State TEXT,
    ZipCode TEXT,
    MobilePhoneNumber TEXT,
    isDeleted INTEGER DEFAULT 0
)`

const postgresSchema = `CREATE TABLE IF NOT EXISTS Students (
    StudentId BIGSERIAL PRIMARY KEY,
    FirstName TEXT,
    LastName TEXT,
    GPA DOUBLE PRECISION,
    Major TEXT,
    FacultyAdvisor TEXT,
    Address TEXT,
    City TEXT,
    State TEXT,
    ZipCode TEXT,
    MobilePhoneNumber TEXT,
    isDeleted BOOLEAN DEFAULT FALSE
)`

// EnsureSchema creates the Students table if it does not exist. Idempotent.
func (d *DB) EnsureSchema(ctx context.Context) error {
	ddl := sqliteSchema
	if d.dialect == Postgres {
		ddl = postgresSchema
	}

	if _, err := d.conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s table: %w", Table, err)
	}
	return nil
}
