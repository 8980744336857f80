// Package cli implements the interactive terminal application: the
// login screen, one menu flow per role, and the prompt and table
// helpers they share.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/epicevents/crm/internal/crm/auth"
	"github.com/epicevents/crm/internal/crm/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// dateTimeLayout is the input and display format for event dates.
const dateTimeLayout = "2006-01-02 15:04"

var (
	titleColor   = color.New(color.FgYellow, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
)

// View renders output and reads validated input. Prompts loop until
// the input passes, so an error from any of them means the input
// stream itself failed.
type View struct {
	in  *bufio.Reader
	out io.Writer

	// readPassword reads a line without echo. Swapped in tests where
	// no terminal is attached.
	readPassword func() (string, error)
}

// NewView constructs a View reading from in and writing to out. When
// in is the process stdin, passwords are read without echo.
func NewView(in io.Reader, out io.Writer) *View {
	v := &View{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		v.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	} else {
		v.readPassword = v.readLine
	}
	return v
}

// Title renders a section heading.
func (v *View) Title(text string) {
	fmt.Fprintln(v.out)
	titleColor.Fprintln(v.out, text)
}

// Success renders a green confirmation line.
func (v *View) Success(text string) {
	successColor.Fprintln(v.out, text)
}

// Error renders a red failure line.
func (v *View) Error(text string) {
	errorColor.Fprintln(v.out, text)
}

// Info renders a neutral informational line.
func (v *View) Info(text string) {
	infoColor.Fprintln(v.out, text)
}

func (v *View) readLine() (string, error) {
	line, err := v.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

func (v *View) prompt(label string) (string, error) {
	fmt.Fprintf(v.out, "%s: ", label)
	return v.readLine()
}

// PromptText asks for a mandatory value of at most max characters.
func (v *View) PromptText(label string, max int) (string, error) {
	for {
		input, err := v.prompt(label)
		if err != nil {
			return "", err
		}
		if input == "" {
			v.Error("A value is required.")
			continue
		}
		if len(input) > max {
			v.Error(fmt.Sprintf("No more than %d characters.", max))
			continue
		}
		return input, nil
	}
}

// PromptFreeText reads one line as-is; empty is allowed.
func (v *View) PromptFreeText(label string) (string, error) {
	return v.prompt(label)
}

// PromptOptionalText asks for a value of at most max characters.
// Leaving it blank keeps the current one and returns nil.
func (v *View) PromptOptionalText(label string, max int) (*string, error) {
	for {
		input, err := v.prompt(label + " (blank to keep)")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		if len(input) > max {
			v.Error(fmt.Sprintf("No more than %d characters.", max))
			continue
		}
		return &input, nil
	}
}

// PromptEmail asks for a well-formed email address.
func (v *View) PromptEmail(label string) (string, error) {
	for {
		input, err := v.prompt(label)
		if err != nil {
			return "", err
		}
		if !models.ValidEmail(input) {
			v.Error("Enter a valid email address.")
			continue
		}
		return input, nil
	}
}

// PromptOptionalEmail asks for an email address, blank keeping the
// current one.
func (v *View) PromptOptionalEmail(label string) (*string, error) {
	for {
		input, err := v.prompt(label + " (blank to keep)")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		if !models.ValidEmail(input) {
			v.Error("Enter a valid email address.")
			continue
		}
		return &input, nil
	}
}

// PromptInt asks for a non-negative whole number.
func (v *View) PromptInt(label string) (int, error) {
	for {
		input, err := v.prompt(label)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 0 {
			v.Error("Enter a non-negative whole number.")
			continue
		}
		return n, nil
	}
}

// PromptOptionalInt asks for a non-negative whole number, blank
// keeping the current one.
func (v *View) PromptOptionalInt(label string) (*int, error) {
	for {
		input, err := v.prompt(label + " (blank to keep)")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 0 {
			v.Error("Enter a non-negative whole number.")
			continue
		}
		return &n, nil
	}
}

// PromptID asks for a record identifier.
func (v *View) PromptID(label string) (uint, error) {
	for {
		n, err := v.PromptInt(label)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			v.Error("Enter one of the listed IDs.")
			continue
		}
		return uint(n), nil
	}
}

// PromptDecimal asks for a non-negative amount.
func (v *View) PromptDecimal(label string) (decimal.Decimal, error) {
	for {
		input, err := v.prompt(label)
		if err != nil {
			return decimal.Zero, err
		}
		d, convErr := decimal.NewFromString(input)
		if convErr != nil || d.IsNegative() {
			v.Error("Enter a non-negative amount, e.g. 1250.50.")
			continue
		}
		return d, nil
	}
}

// PromptOptionalDecimal asks for a non-negative amount, blank keeping
// the current one.
func (v *View) PromptOptionalDecimal(label string) (*decimal.Decimal, error) {
	for {
		input, err := v.prompt(label + " (blank to keep)")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		d, convErr := decimal.NewFromString(input)
		if convErr != nil || d.IsNegative() {
			v.Error("Enter a non-negative amount, e.g. 1250.50.")
			continue
		}
		return &d, nil
	}
}

// PromptDateTime asks for a date and time.
func (v *View) PromptDateTime(label string) (time.Time, error) {
	for {
		input, err := v.prompt(label + " (YYYY-MM-DD HH:MM)")
		if err != nil {
			return time.Time{}, err
		}
		t, convErr := time.ParseInLocation(dateTimeLayout, input, time.Local)
		if convErr != nil {
			v.Error("Use the format YYYY-MM-DD HH:MM, e.g. 2026-06-04 13:00.")
			continue
		}
		return t, nil
	}
}

// PromptOptionalDateTime asks for a date and time, blank keeping the
// current one.
func (v *View) PromptOptionalDateTime(label string) (*time.Time, error) {
	for {
		input, err := v.prompt(label + " (YYYY-MM-DD HH:MM, blank to keep)")
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		t, convErr := time.ParseInLocation(dateTimeLayout, input, time.Local)
		if convErr != nil {
			v.Error("Use the format YYYY-MM-DD HH:MM, e.g. 2026-06-04 13:00.")
			continue
		}
		return &t, nil
	}
}

// PromptYesNo asks a yes/no question.
func (v *View) PromptYesNo(label string) (bool, error) {
	for {
		input, err := v.prompt(label + " (y/n)")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		v.Error("Answer y or n.")
	}
}

// PromptMenu renders numbered options under a heading and returns the
// picked 1-based choice.
func (v *View) PromptMenu(title string, options []string) (int, error) {
	v.Title(title)
	for i, option := range options {
		fmt.Fprintf(v.out, "  %d) %s\n", i+1, option)
	}
	for {
		choice, err := v.PromptInt("Choice")
		if err != nil {
			return 0, err
		}
		if choice >= 1 && choice <= len(options) {
			return choice, nil
		}
		v.Error("Pick one of the listed numbers.")
	}
}

// PromptPassword asks for a password without echoing it.
func (v *View) PromptPassword(label string) (string, error) {
	fmt.Fprintf(v.out, "%s: ", label)
	password, err := v.readPassword()
	fmt.Fprintln(v.out)
	if err != nil {
		return "", err
	}
	return password, nil
}

// PromptNewPassword asks for a password passing the strength rule and
// a matching confirmation.
func (v *View) PromptNewPassword() (string, error) {
	for {
		password, err := v.PromptPassword("Password")
		if err != nil {
			return "", err
		}
		if err := auth.ValidatePassword(password); err != nil {
			v.Error("At least 8 characters with an upper case letter, a lower case letter and a digit.")
			continue
		}
		confirm, err := v.PromptPassword("Confirm password")
		if err != nil {
			return "", err
		}
		if password != confirm {
			v.Error("Passwords do not match.")
			continue
		}
		return password, nil
	}
}

// CollaboratorsTable renders collaborators.
func (v *View) CollaboratorsTable(collaborators []models.Collaborator) {
	if len(collaborators) == 0 {
		v.Info("No collaborators to show.")
		return
	}
	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"ID", "Username", "Name", "Email", "Employee #", "Role"})
	for i := range collaborators {
		c := &collaborators[i]
		table.Append([]string{
			formatID(c.ID),
			c.Username,
			c.FullName(),
			c.Email,
			c.EmployeeNumber,
			string(c.Role),
		})
	}
	table.Render()
}

// ClientsTable renders clients.
func (v *View) ClientsTable(clients []models.Client) {
	if len(clients) == 0 {
		v.Info("No clients to show.")
		return
	}
	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"ID", "Full Name", "Email", "Phone", "Company", "Sales Contact"})
	for i := range clients {
		c := &clients[i]
		table.Append([]string{
			formatID(c.ID),
			c.FullName,
			c.Email,
			c.Phone,
			c.CompanyName,
			collaboratorName(c.SalesContact),
		})
	}
	table.Render()
}

// ContractsTable renders contracts.
func (v *View) ContractsTable(contracts []models.Contract) {
	if len(contracts) == 0 {
		v.Info("No contracts to show.")
		return
	}
	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"ID", "Client", "Total", "Remaining", "Status", "Sales Contact"})
	for i := range contracts {
		c := &contracts[i]
		table.Append([]string{
			formatID(c.ID),
			c.Client.FullName,
			c.TotalAmount.StringFixed(2),
			c.AmountRemaining.StringFixed(2),
			string(c.Status),
			collaboratorName(c.SalesContact),
		})
	}
	table.Render()
}

// EventsTable renders events.
func (v *View) EventsTable(events []models.Event) {
	if len(events) == 0 {
		v.Info("No events to show.")
		return
	}
	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"ID", "Name", "Client", "Start", "End", "Location", "Attendees", "Support Contact"})
	for i := range events {
		ev := &events[i]
		table.Append([]string{
			formatID(ev.ID),
			ev.Name,
			ev.ClientName,
			ev.StartDate.Format(dateTimeLayout),
			ev.EndDate.Format(dateTimeLayout),
			ev.Location,
			strconv.Itoa(ev.Attendees),
			collaboratorName(ev.SupportContact),
		})
	}
	table.Render()
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func collaboratorName(c *models.Collaborator) string {
	if c == nil {
		return "-"
	}
	return c.FullName()
}
