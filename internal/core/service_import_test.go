package core

import (
	"context"
	"errors"
	"iter"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/studentdb/internal/config"
	"github.com/JonMunkholm/studentdb/internal/store"
)

func rowsOf(rows ...SourceRow) iter.Seq2[SourceRow, error] {
	return func(yield func(SourceRow, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func sourceRow(first, gpa string) SourceRow {
	return SourceRow{
		"FirstName":         first,
		"LastName":          "Student",
		"GPA":               gpa,
		"Major":             "Biology",
		"FacultyAdvisor":    "Should Be Ignored",
		"Address":           "1 College Ave",
		"City":              "Springfield",
		"State":             "IL",
		"ZipCode":           "01234",
		"MobilePhoneNumber": "5551234",
	}
}

func TestImport_UnparseableGPAStoredAsNull(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Import(ctx, rowsOf(
		sourceRow("Ann", "3.2"),
		sourceRow("Ben", "N/A"),
		sourceRow("Cal", "7.5"),
	))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Inserted != 3 || res.NullGPA != 1 {
		t.Errorf("Import() = %+v, want 3 inserted, 1 null GPA", res)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}

	byName := map[string]Student{}
	for _, st := range collect(t, svc.ListAll(ctx)) {
		byName[st.FirstName] = st
	}
	if len(byName) != 3 {
		t.Fatalf("rows = %d, want 3", len(byName))
	}

	if byName["Ben"].GPA.Valid {
		t.Errorf("Ben GPA = %+v, want NULL", byName["Ben"].GPA)
	}
	// Import does not range-check.
	if g := byName["Cal"].GPA; !g.Valid || g.Float64 != 7.5 {
		t.Errorf("Cal GPA = %+v, want 7.5", g)
	}

	for name, st := range byName {
		if !slices.Contains(config.DefaultAdvisors, st.FacultyAdvisor) {
			t.Errorf("%s advisor = %q, want a roster member", name, st.FacultyAdvisor)
		}
		if st.State != "IL" || st.ZipCode != "01234" {
			t.Errorf("%s stored %q/%q, want source values unchanged", name, st.State, st.ZipCode)
		}
	}
}

func TestImport_PartialCommitOnSourceError(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	boom := errors.New("read failed")

	rows := func(yield func(SourceRow, error) bool) {
		if !yield(sourceRow("Ann", "3.0"), nil) {
			return
		}
		if !yield(sourceRow("Ben", "2.0"), nil) {
			return
		}
		if !yield(nil, boom) {
			return
		}
		yield(sourceRow("Cal", "1.0"), nil)
	}

	res, err := svc.Import(ctx, rows)
	if !errors.Is(err, boom) {
		t.Fatalf("Import() error = %v, want %v", err, boom)
	}
	if res.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", res.Inserted)
	}
	if n := len(collect(t, svc.ListAll(ctx))); n != 2 {
		t.Errorf("committed rows = %d, want 2", n)
	}
}

func TestImport_PartialCommitOnInsertError(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trigger := sq.Expr(`CREATE TRIGGER reject_bad BEFORE INSERT ON Students
		WHEN NEW.FirstName = 'Bad'
		BEGIN SELECT RAISE(ABORT, 'rejected row'); END`)
	if _, err := svc.db.Exec(ctx, trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	res, err := svc.Import(ctx, rowsOf(
		sourceRow("Ann", "3.0"),
		sourceRow("Ben", "N/A"),
		sourceRow("Bad", "2.0"),
		sourceRow("Cal", "1.0"),
	))
	if err == nil {
		t.Fatal("Import() expected error from rejected insert")
	}
	if !strings.Contains(err.Error(), "import row 3") {
		t.Errorf("Import() error = %v, want row 3 named", err)
	}
	if res.Inserted != 2 || res.NullGPA != 1 {
		t.Errorf("Import() = %+v, want 2 inserted, 1 null GPA", res)
	}

	var names []string
	for _, st := range collect(t, svc.ListAll(ctx)) {
		names = append(names, st.FirstName)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"Ann", "Ben"}) {
		t.Errorf("committed rows = %v, want [Ann Ben]", names)
	}
}

func TestImport_Empty(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Import(context.Background(), rowsOf())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Inserted != 0 {
		t.Errorf("Inserted = %d, want 0", res.Inserted)
	}
}

func TestImport_SeededAdvisorsRepeat(t *testing.T) {
	advisors := func(opt Option) []string {
		svc := newTestService(t, opt)
		ctx := context.Background()

		var rows []SourceRow
		for range 8 {
			rows = append(rows, sourceRow("Ann", "3.0"))
		}
		if _, err := svc.Import(ctx, rowsOf(rows...)); err != nil {
			t.Fatalf("Import() error = %v", err)
		}

		var out []string
		for _, st := range collect(t, svc.ListAll(ctx)) {
			out = append(out, st.FacultyAdvisor)
		}
		return out
	}

	a := advisors(WithSeed(42))
	b := advisors(WithRand(rand.New(rand.NewPCG(42, 42))))
	if !slices.Equal(a, b) {
		t.Errorf("advisors differ for the same seed: %v vs %v", a, b)
	}
}

func TestImport_EmptyRoster(t *testing.T) {
	svc := newTestService(t)
	svc.advisors = nil

	if _, err := svc.Import(context.Background(), rowsOf(sourceRow("Ann", "3.0"))); err == nil {
		t.Error("Import() expected error for empty roster")
	}
}

func TestImport_MissingCellStoredAsNull(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	row := sourceRow("Ann", "3.0")
	delete(row, store.ColLastName)

	if _, err := svc.Import(ctx, rowsOf(row)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var n int
	stmt := svc.db.Builder().
		Select("COUNT(*)").
		From(store.Table).
		Where(sq.Eq{store.ColLastName: nil})
	if err := svc.db.QueryRow(ctx, stmt, &n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows with NULL LastName = %d, want 1", n)
	}
}
