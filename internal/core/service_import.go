package core

import (
	"context"
	"errors"
	"fmt"
	"iter"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/studentdb/internal/logging"
	"github.com/JonMunkholm/studentdb/internal/store"
)

// importColumns is the insert column list for imported rows.
var importColumns = []string{
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
}

// Import inserts every row of rows in one transaction.
//
// Each row gets a faculty advisor drawn uniformly from the roster; any
// advisor in the source is ignored. GPA is coerced to a real and stored as
// NULL when it does not parse. The other fields are stored as given, without
// validation; a cell missing from a short row is stored as NULL.
//
// When reading or inserting a row fails, the rows inserted so far are
// committed and the error is returned together with the partial result.
func (s *Service) Import(ctx context.Context, rows iter.Seq2[SourceRow, error]) (ImportResult, error) {
	if len(s.advisors) == 0 {
		return ImportResult{}, errors.New("import: advisor roster is empty")
	}

	ctx, runID := logging.NewOperation(ctx)
	log := logging.FromContext(ctx)
	result := ImportResult{RunID: runID}

	log.Info("import started")

	var rowErr error
	err := s.db.WithTx(ctx, func(r store.Runner) error {
		line := 0
		for row, err := range rows {
			line++
			if err != nil {
				rowErr = fmt.Errorf("import row %d: %w", line, err)
				return nil
			}

			gpa := ToFloat8(row[store.ColGPA])
			stmt := r.Builder().
				Insert(store.Table).
				Columns(importColumns...).
				Values(
					row.value(store.ColFirstName),
					row.value(store.ColLastName),
					gpa,
					row.value(store.ColMajor),
					s.pickAdvisor(),
					row.value(store.ColAddress),
					row.value(store.ColCity),
					row.value(store.ColState),
					row.value(store.ColZipCode),
					row.value(store.ColMobilePhoneNumber),
				)
			if err := insertRow(ctx, r, stmt); err != nil {
				rowErr = fmt.Errorf("import row %d: %w", line, err)
				return nil
			}

			result.Inserted++
			if !gpa.Valid {
				result.NullGPA++
				log.Debug("gpa stored as NULL", "row", line, "value", row[store.ColGPA])
			}
		}
		return nil
	})
	if err != nil {
		log.Error("import rolled back", "error", err)
		return ImportResult{RunID: runID}, fmt.Errorf("import: %w", err)
	}

	if rowErr != nil {
		log.Warn("import stopped early",
			"inserted", result.Inserted,
			"null_gpa", result.NullGPA,
			"error", rowErr,
		)
		return result, rowErr
	}

	log.Info("import complete", "inserted", result.Inserted, "null_gpa", result.NullGPA)
	return result, nil
}

// insertRow runs stmt under a savepoint so a failed insert leaves the
// enclosing transaction usable for commit.
func insertRow(ctx context.Context, r store.Runner, stmt sq.Sqlizer) error {
	if _, err := r.Exec(ctx, sq.Expr("SAVEPOINT import_row")); err != nil {
		return err
	}
	if _, err := r.Exec(ctx, stmt); err != nil {
		if _, rbErr := r.Exec(ctx, sq.Expr("ROLLBACK TO SAVEPOINT import_row")); rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
		}
		return err
	}
	_, err := r.Exec(ctx, sq.Expr("RELEASE SAVEPOINT import_row"))
	return err
}

// value returns the cell for col, or nil (stored as NULL) when the source row
// has no such cell.
func (r SourceRow) value(col string) any {
	if v, ok := r[col]; ok {
		return v
	}
	return nil
}

func (s *Service) pickAdvisor() string {
	return s.advisors[s.rng.IntN(len(s.advisors))]
}
