package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/gartstein/bizniz/internal/bizniz/contract"
)

var (
	borderColor = lipgloss.Color("#2a3850")
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderCompanies(w io.Writer, companies []client.Company) {
	if len(companies) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No companies found."))
		return
	}
	t := newTable("ID", "Name", "Location", "Employees", "Contract")
	for _, c := range companies {
		t.Row(c.ID, c.Name, c.Location, strconv.Itoa(c.EmployeeCount), contractLabel(c.ContractLengthLabel, c.ContractLength))
	}
	fmt.Fprintln(w, t.Render())
}

func renderEmployees(w io.Writer, employees []client.Employee) {
	if len(employees) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No employees found."))
		return
	}
	t := newTable("ID", "Name", "Position", "Company", "Start", "Contract", "End Date", "Review Date")
	for _, emp := range employees {
		t.Row(
			emp.ID,
			fullName(emp),
			emp.Position,
			companyName(emp),
			displayDate(emp.StartDate),
			contractLabel(emp.ContractLengthLabel, emp.ContractLength),
			displayDate(emp.ContractEndDate),
			reviewLabel(emp),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func renderCompany(w io.Writer, c *client.Company) {
	fields := [][2]string{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Location", c.Location},
		{"Description", c.Description},
		{"Contract", contractLabel(c.ContractLengthLabel, c.ContractLength)},
		{"Employees", strconv.Itoa(c.EmployeeCount)},
	}
	renderFields(w, fields)
}

func renderEmployee(w io.Writer, emp *client.Employee) {
	fields := [][2]string{
		{"ID", emp.ID},
		{"Name", fullName(*emp)},
		{"Position", emp.Position},
		{"Company", companyName(*emp)},
		{"Start", displayDate(emp.StartDate)},
		{"Contract", contractLabel(emp.ContractLengthLabel, emp.ContractLength)},
		{"End Date", displayDate(emp.ContractEndDate)},
		{"Review Date", reviewLabel(*emp)},
	}
	renderFields(w, fields)
}

func renderFields(w io.Writer, fields [][2]string) {
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", f[0]+":")), f[1])
	}
}

func renderReconciliations(w io.Writer, results []client.Reconciliation) {
	if len(results) == 0 {
		fmt.Fprintln(w, "All employee counts are consistent.")
		return
	}
	t := newTable("Company", "Stored", "Actual")
	for _, r := range results {
		t.Row(r.CompanyID, strconv.Itoa(r.Previous), strconv.Itoa(r.Current))
	}
	fmt.Fprintln(w, t.Render())
}

func fullName(emp client.Employee) string {
	return emp.FirstName + " " + emp.LastName
}

func companyName(emp client.Employee) string {
	if emp.Company != nil && emp.Company.Name != "" {
		return emp.Company.Name
	}
	return emp.CompanyID
}

// contractLabel prefers the server label and falls back to formatting the total.
func contractLabel(label string, total int) string {
	if label != "" {
		return label
	}
	return contract.FormatLength(total)
}

// displayDate turns a wire date into the DD.MM.YYYY list format.
func displayDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := contract.ParseDate(s)
	if err != nil {
		return s
	}
	return contract.FormatDate(t)
}

func reviewLabel(emp client.Employee) string {
	date := displayDate(emp.EffectiveReviewDate)
	if emp.ReviewDateOverridden {
		return date + " (manual)"
	}
	return date
}
