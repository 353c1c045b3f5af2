// Package core provides the business logic of the student records manager.
//
// This package has no console dependencies. The interactive shell, tests, and
// any other frontend drive it through [Service].
//
// # Operations
//
// The service exposes the record operations over the Students table:
//
//   - [Service.Import] bulk-loads rows from an import source in one transaction.
//   - [Service.ListAll] streams every row lazily, in storage order.
//   - [Service.Create] validates and inserts one student.
//   - [Service.Update] changes one of the whitelisted fields of a student.
//   - [Service.SoftDelete] marks a student deleted without removing the row.
//   - [Service.Search] matches students by exact equality on one field.
//
// # Validation
//
// Every field entered by an operator passes through one of the validators in
// validation.go. Each returns the accepted value and ok == false when the input
// is rejected; there is no error message to parse. Reprompting on rejection is
// the caller's job.
//
// Import is the exception: imported rows are stored as given, except for GPA,
// which is coerced to a real and stored as NULL when it does not parse.
//
// # Column Dispatch
//
// Update and Search select a column through the closed enums [UpdateField] and
// [SearchField]. Each maps to a literal column identifier from the store
// package; operator input is only ever bound as a value.
package core
