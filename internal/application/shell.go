// Package application is the interactive console shell of the student
// records manager. It prints a numbered menu, reprompts until each input is
// accepted, and dispatches to the record service.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/studentdb/internal/core"
	"github.com/JonMunkholm/studentdb/internal/logging"
	"github.com/JonMunkholm/studentdb/internal/source"
)

// Prompts shown to the operator.
const (
	promptContinue = "Enter any input to continue back to main menu"

	promptFirstName = "Please enter student's first name. No numbers or special characters will be accepted."
	promptLastName  = "Please enter student's last name. No numbers or special characters will be accepted."
	promptGPA       = "Please enter student's GPA. Only real numbers between 0.00 and 5.00 will be accepted"
	promptMajor     = "Please enter student's major. No numbers or special characters will be accepted."
	promptAdvisor   = "Please enter student's faculty advisor. No numbers or special characters will be accepted."
	promptAddress   = "Please enter student's address. No special characters will be accepted."
	promptCity      = "Please enter student's city of residence. No numbers or special characters will be accepted."
	promptState     = "Please enter student's state of residence, in full. " +
		"Make sure the first letter is capitalized. Only valid states will be accepted."
	promptZip   = "Please enter student's zipCode. Only 5 integer sequences will be accepted."
	promptPhone = "Please enter student's mobile number. Enter only as a numerical sequence - " +
		"no dashes or other special characters will be accepted."

	promptNewMajor   = "Please enter student's new major. No numbers or special characters will be accepted."
	promptNewAdvisor = "Please enter student's new faculty advisor. No numbers or special characters will be accepted."
	promptNewPhone   = "Please enter student's new mobile number. Enter only as a numerical sequence - " +
		"no dashes or other special characters will be accepted."

	promptUpdateID = "Please enter the student ID of the student you would like to update"
	promptDeleteID = "Please enter the student ID of the student you would like to delete"

	msgNonInteger = "Non-integer input. "
	msgUnknownID  = "That student id does not currently exist in the database."
)

// action runs one menu operation. A nil action ends the shell.
type action func(ctx context.Context) error

// Shell is the interactive menu loop.
type Shell struct {
	svc        *core.Service
	con        *Console
	importPath string
	menu       Menu[action]
}

// NewShell returns a shell driving svc through con. Option 1 imports the CSV
// file at importPath.
func NewShell(svc *core.Service, con *Console, importPath string) *Shell {
	s := &Shell{
		svc:        svc,
		con:        con,
		importPath: importPath,
	}
	s.menu = Menu[action]{
		Title:  "\n\n\nWhat would you like to do?",
		Footer: "Enter an integer 1-7",
		Retry:  "Invalid input. Only integers between 1-7 will be accepted, referencing the 7 different options.",
		Items: []MenuItem[action]{
			{Label: "Import students csv file", Value: logged("import", s.importStudents)},
			{Label: "Display all students", Value: logged("list", s.displayAll)},
			{Label: "Add new student", Value: logged("create", s.addStudent)},
			{Label: "Update a student record", Value: logged("update", s.updateStudent)},
			{Label: "Soft delete student record", Value: logged("delete", s.softDelete)},
			{Label: "Search students by common attribute", Value: logged("search", s.search)},
			{Label: "Exit program", Value: nil},
		},
	}
	return s
}

var updateMenu = Menu[core.UpdateField]{
	Title:  "Only some features are editable. Would you like to update: ",
	Footer: "Please type the number of the attribute you wish to change.",
	Retry:  "Invalid input. Please type only 1, 2, or 3",
	Items: []MenuItem[core.UpdateField]{
		{Label: "Major", Value: core.UpdateMajor},
		{Label: "Advisor", Value: core.UpdateFacultyAdvisor},
		{Label: "Mobile Phone Number", Value: core.UpdateMobilePhoneNumber},
	},
}

var updatePrompts = map[core.UpdateField]string{
	core.UpdateMajor:             promptNewMajor,
	core.UpdateFacultyAdvisor:    promptNewAdvisor,
	core.UpdateMobilePhoneNumber: promptNewPhone,
}

var searchMenu = Menu[core.SearchField]{
	Title:  "Will you be searching the student database by:",
	Footer: "Enter the integer corresponding to your goal.\n",
	Retry:  "Invalid input. Please choose an integer 1-5 corresponding to your desired functionality.",
	Items: []MenuItem[core.SearchField]{
		{Label: "Major", Value: core.SearchMajor},
		{Label: "GPA", Value: core.SearchGPA},
		{Label: "City", Value: core.SearchCity},
		{Label: "State", Value: core.SearchState},
		{Label: "Advisor", Value: core.SearchFacultyAdvisor},
	},
}

var searchPrompts = map[core.SearchField]string{
	core.SearchMajor:          promptMajor,
	core.SearchGPA:            promptGPA,
	core.SearchCity:           promptCity,
	core.SearchState:          promptState,
	core.SearchFacultyAdvisor: promptAdvisor,
}

// Run shows the menu until the operator picks Exit or input ends. Failed
// operations are logged and reported, and the loop continues. Run returns an
// error only when reading input fails.
func (s *Shell) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("shell started", "import_file", s.importPath)

	s.con.Println("Database connection has been established.")

	for {
		act, err := choose(s.con, s.menu)
		if err != nil {
			return endOfInput(ctx, err)
		}
		if act == nil {
			log.Info("shell exited")
			return nil
		}

		opCtx, _ := logging.NewOperation(ctx)
		if err := act(opCtx); err != nil {
			if errors.Is(err, io.EOF) {
				return endOfInput(ctx, err)
			}
			s.report(opCtx, err)
		}

		s.con.Println(promptContinue)
		if _, err := s.con.ReadLine(); err != nil {
			return endOfInput(ctx, err)
		}
	}
}

// logged wraps an action so its duration and outcome are logged.
//
// Log fields:
//   - operation: menu operation name
//   - duration_ms: time spent, including time waiting on operator input
//   - ok: whether the action returned without error
func logged(name string, act action) action {
	return func(ctx context.Context) error {
		start := time.Now()
		err := act(ctx)

		logging.FromContext(ctx).Info("operation",
			"operation", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"ok", err == nil,
		)
		return err
	}
}

func endOfInput(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		logging.FromContext(ctx).Info("input closed, leaving shell")
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}

func (s *Shell) report(ctx context.Context, err error) {
	ue := core.NewUserError(err)
	logging.FromContext(ctx).Error("operation failed", "code", ue.User.Code, "error", err)
	s.con.Println(core.FormatUserError(err))
}

func (s *Shell) importStudents(ctx context.Context) error {
	f, err := source.Open(s.importPath)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := s.svc.Import(ctx, f.Rows())
	if res.Inserted > 0 || err == nil {
		s.con.Printf("Imported %d students from %s (%d without a GPA). Run %s.\n",
			res.Inserted, f.Path(), res.NullGPA, res.RunID)
	}
	return err
}

func (s *Shell) displayAll(ctx context.Context) error {
	for st, err := range s.svc.ListAll(ctx) {
		if err != nil {
			return err
		}
		s.con.Println(formatStudent(st))
	}
	return nil
}

func (s *Shell) addStudent(ctx context.Context) error {
	var n core.NewStudent

	fields := []struct {
		dst      *string
		prompt   string
		validate func(string) (string, bool)
	}{
		{&n.FirstName, promptFirstName, core.ValidateAlphaSpace},
		{&n.LastName, promptLastName, core.ValidateAlphaSpace},
		{&n.GPA, promptGPA, rawText(core.ValidateRealInRange)},
		{&n.Major, promptMajor, core.ValidateAlphaSpace},
		{&n.FacultyAdvisor, promptAdvisor, core.ValidateAlphaSpace},
		{&n.Address, promptAddress, core.ValidateAlphaNumSpace},
		{&n.City, promptCity, core.ValidateAlphaSpace},
		{&n.State, promptState, s.svc.ValidateState},
		{&n.ZipCode, promptZip, core.ValidateZip},
		{&n.MobilePhoneNumber, promptPhone, rawText(core.ValidateInteger)},
	}

	for _, f := range fields {
		v, err := ask(s.con, f.prompt, f.validate)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if _, err := s.svc.Create(ctx, n); err != nil {
		return err
	}
	s.con.Println("Insertion successful")
	return nil
}

// askID reads lines until one names an existing student.
func (s *Shell) askID(ctx context.Context, prompt string) (int64, error) {
	for {
		s.con.Println(prompt)
		line, err := s.con.ReadLine()
		if err != nil {
			return 0, err
		}

		id, err := s.svc.ValidateID(ctx, line)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, core.ErrNotInteger):
			s.con.Println(msgNonInteger)
		case errors.Is(err, core.ErrNotFound):
			s.con.Println(msgUnknownID)
		default:
			return 0, err
		}
	}
}

func (s *Shell) updateStudent(ctx context.Context) error {
	id, err := s.askID(ctx, promptUpdateID)
	if err != nil {
		return err
	}

	field, err := choose(s.con, updateMenu)
	if err != nil {
		return err
	}

	value, err := ask(s.con, updatePrompts[field], func(in string) (string, bool) {
		_, ok := s.svc.ValidateUpdate(field, in)
		return in, ok
	})
	if err != nil {
		return err
	}

	if err := s.svc.Update(ctx, id, field, value); err != nil {
		return err
	}
	s.con.Println("Update has been successfully completed.")
	return nil
}

func (s *Shell) softDelete(ctx context.Context) error {
	id, err := s.askID(ctx, promptDeleteID)
	if err != nil {
		return err
	}

	if err := s.svc.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.con.Println("Deletion successful.")
	return nil
}

func (s *Shell) search(ctx context.Context) error {
	field, err := choose(s.con, searchMenu)
	if err != nil {
		return err
	}

	value, err := ask(s.con, searchPrompts[field], func(in string) (string, bool) {
		_, ok := s.svc.ValidateSearch(field, in)
		return in, ok
	})
	if err != nil {
		return err
	}

	found, err := s.svc.Search(ctx, field, value)
	if err != nil {
		return err
	}
	for _, st := range found {
		s.con.Println(formatStudent(st))
	}
	return nil
}

// formatStudent renders every column of a row on one line, in table order.
func formatStudent(st core.Student) string {
	deleted := 0
	if st.IsDeleted {
		deleted = 1
	}

	cols := []string{
		strconv.FormatInt(st.ID, 10),
		quote(st.FirstName),
		quote(st.LastName),
		core.FormatGPA(st.GPA),
		quote(st.Major),
		quote(st.FacultyAdvisor),
		quote(st.Address),
		quote(st.City),
		quote(st.State),
		quote(st.ZipCode),
		quote(st.MobilePhoneNumber),
		strconv.Itoa(deleted),
	}
	return "(" + strings.Join(cols, ", ") + ")"
}

func quote(s string) string {
	return "'" + s + "'"
}
