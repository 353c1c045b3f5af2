// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When the shell reports a failed operation it prints the mapped
// message and code; the original error goes to the log.
//
// # Storage Errors (DB001-DB099)
//
//	DB001 - Store unavailable: Unable to open the student database
//	        Action: Check STUDENTDB_DSN and that the database file's directory exists
//	        Patterns: "connect to store", "connection refused", "unable to open database"
//
//	DB002 - Store busy: The student database is locked by another process
//	        Action: Close other programs using the database and try again
//	        Patterns: "database is locked", "database is busy"
//
//	DB003 - Read-only: The student database cannot be written
//	        Action: Check file permissions on the database file
//	        Patterns: "readonly", "read-only"
//
//	DB004 - Missing table: The Students table was not found
//	        Action: Restart the program to recreate the table
//	        Patterns: "no such table", "does not exist"
//
//	DB005 - Timeout: The operation timed out
//	        Action: Please try again
//	        Patterns: "timeout", "deadline exceeded"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid field: One or more fields are invalid
//	         Action: Re-enter the rejected values
//	         Matched by type: ValidationError, ValidationErrors
//
//	VAL002 - Non-integer: Non-integer input
//	         Action: Enter a whole number
//	         Matched by sentinel: ErrNotInteger
//
// # Student Errors (STU001-STU099)
//
//	STU001 - Unknown student: That student id does not currently exist in the database
//	         Action: List students to find a valid id
//	         Matched by sentinel: ErrNotFound
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - File not found: The import file could not be opened
//	         Action: Place students.csv in the working directory or set STUDENTDB_IMPORT_FILE
//	         Patterns: "no such file", "cannot find the file"
//
//	IMP002 - Missing columns: The import file header is missing required columns
//	         Action: Check that the header names every student column
//	         Patterns: "missing required column"
//
//	IMP003 - Malformed file: The import file is not valid CSV
//	         Action: Check the file for stray quotes or rows with the wrong number of fields
//	         Patterns: "wrong number of fields", "bare \"", "extraneous or missing \"", "parse error"
//
// # Default
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log for details
//
// Typed errors and sentinels are checked with errors.Is and errors.As first.
// Patterns are then matched case-insensitively using strings.Contains, and the
// first matching pattern wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a StudentId does not resolve to a row.
	ErrNotFound = errors.New("student not found")

	// ErrNotInteger is returned when an id is not a base-10 integer.
	ErrNotInteger = errors.New("non-integer input")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	invalidFieldMessage = UserMessage{
		Message: "One or more fields are invalid",
		Action:  "Re-enter the rejected values",
		Code:    "VAL001",
	}
	notIntegerMessage = UserMessage{
		Message: "Non-integer input",
		Action:  "Enter a whole number",
		Code:    "VAL002",
	}
	notFoundMessage = UserMessage{
		Message: "That student id does not currently exist in the database",
		Action:  "List students to find a valid id",
		Code:    "STU001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Storage Errors (DB001-DB005)
	// =========================================================================
	{
		pattern: "connect to store",
		msg: UserMessage{
			Message: "Unable to open the student database",
			Action:  "Check STUDENTDB_DSN and that the database file's directory exists",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to open the student database",
			Action:  "Check STUDENTDB_DSN and that the database server is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "unable to open database",
		msg: UserMessage{
			Message: "Unable to open the student database",
			Action:  "Check STUDENTDB_DSN and that the database file's directory exists",
			Code:    "DB001",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "The student database is locked by another process",
			Action:  "Close other programs using the database and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "database is busy",
		msg: UserMessage{
			Message: "The student database is locked by another process",
			Action:  "Close other programs using the database and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "readonly",
		msg: UserMessage{
			Message: "The student database cannot be written",
			Action:  "Check file permissions on the database file",
			Code:    "DB003",
		},
	},
	{
		pattern: "read-only",
		msg: UserMessage{
			Message: "The student database cannot be written",
			Action:  "Check file permissions on the database file",
			Code:    "DB003",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The Students table was not found",
			Action:  "Restart the program to recreate the table",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP003)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The import file could not be opened",
			Action:  "Place students.csv in the working directory or set STUDENTDB_IMPORT_FILE",
			Code:    "IMP001",
		},
	},
	{
		pattern: "cannot find the file",
		msg: UserMessage{
			Message: "The import file could not be opened",
			Action:  "Place students.csv in the working directory or set STUDENTDB_IMPORT_FILE",
			Code:    "IMP001",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "The import file header is missing required columns",
			Action:  "Check that the header names every student column",
			Code:    "IMP002",
		},
	},
	{
		pattern: "wrong number of fields",
		msg: UserMessage{
			Message: "The import file is not valid CSV",
			Action:  "Check the file for stray quotes or rows with the wrong number of fields",
			Code:    "IMP003",
		},
	},
	{
		pattern: `bare "`,
		msg: UserMessage{
			Message: "The import file is not valid CSV",
			Action:  "Check the file for stray quotes or rows with the wrong number of fields",
			Code:    "IMP003",
		},
	},
	{
		pattern: `extraneous or missing "`,
		msg: UserMessage{
			Message: "The import file is not valid CSV",
			Action:  "Check the file for stray quotes or rows with the wrong number of fields",
			Code:    "IMP003",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The import file is not valid CSV",
			Action:  "Check the file for stray quotes or rows with the wrong number of fields",
			Code:    "IMP003",
		},
	},

	// Postgres reports a missing relation this way. Kept last because the
	// phrase is generic.
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The Students table was not found",
			Action:  "Restart the program to recreate the table",
			Code:    "DB004",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("update student 9: %w", ErrNotFound))
//	// msg.Code == "STU001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return notFoundMessage
	case errors.Is(err, ErrNotInteger):
		return notIntegerMessage
	}

	var ve ValidationError
	var ves ValidationErrors
	if errors.As(err, &ve) || errors.As(err, &ves) {
		return invalidFieldMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
