package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var (
	userHeaders = []string{
		"First Name", "Last Name", "Gender", "Email", "City",
		"Income", "Car Brand", "Phone Price", "Quote",
	}
	cityHeaders = []string{"City", "Users", "Average Income"}
)

// Table is a rendered result: column headers and one row of cells per item.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func UsersTable(users []types.UserRecord) Table {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.FirstName,
			u.LastName,
			string(u.Gender),
			u.Email,
			u.City,
			formatNumber(u.Income),
			u.CarBrand,
			formatNumber(u.PhonePrice),
			u.Quote,
		})
	}
	return Table{Headers: userHeaders, Rows: rows}
}

func CitiesTable(cities []types.CityAggregate) Table {
	rows := make([][]string, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []string{
			c.City,
			strconv.Itoa(c.Count),
			strconv.FormatFloat(c.AverageIncome, 'f', 2, 64),
		})
	}
	return Table{Headers: cityHeaders, Rows: rows}
}

// HTML writes a standalone page holding one table.
func HTML(w io.Writer, title string, table Table) error {
	if err := templates.ExecuteTemplate(w, "table.html", tablePage{Title: title, Table: table}); err != nil {
		return fmt.Errorf("rendering %q: %w", title, err)
	}
	return nil
}

// ReportHTML writes every section of a report into one page.
func ReportHTML(w io.Writer, report *types.Report) error {
	page := reportPage{
		Report: report,
		Sections: []section{
			{Title: "Income below threshold and selected cars", Table: UsersTable(report.IncomeAndCar)},
			{Title: "Gender and phone price", Table: UsersTable(report.GenderAndPhonePrice)},
			{Title: "Last name prefix, long quote, email contains last name", Table: UsersTable(report.NameQuoteEmail)},
			{Title: "Selected cars and digit-free email", Table: UsersTable(report.CarAndDigitFreeEmail)},
			{Title: "Top cities", Table: CitiesTable(report.TopCities)},
		},
	}
	if err := templates.ExecuteTemplate(w, "report.html", page); err != nil {
		return fmt.Errorf("rendering report %s: %w", report.ID, err)
	}
	return nil
}

type tablePage struct {
	Title string
	Table Table
}

type section struct {
	Title string
	Table Table
}

type reportPage struct {
	Report   *types.Report
	Sections []section
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
