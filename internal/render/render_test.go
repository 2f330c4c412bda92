package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

var users = []types.UserRecord{
	{
		FirstName: "Ann", LastName: "Miller", Gender: types.GenderFemale, Email: "ann.miller@mail.com",
		City: "Lisbon", Income: 3, CarBrand: "BMW", PhonePrice: 12000.5, Quote: "Stay hungry, stay foolish.",
	},
	{
		FirstName: "Bob", LastName: "<script>alert(1)</script>", Gender: types.GenderMale, Email: "bob@mail.com",
		City: "Porto", Income: 4.25, CarBrand: "Mercedes", PhonePrice: 15000, Quote: "Short one",
	},
}

func TestUsersTable(t *testing.T) {
	table := UsersTable(users)

	assert.Equal(t, []string{
		"First Name", "Last Name", "Gender", "Email", "City",
		"Income", "Car Brand", "Phone Price", "Quote",
	}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{
		"Ann", "Miller", "female", "ann.miller@mail.com", "Lisbon",
		"3", "BMW", "12000.5", "Stay hungry, stay foolish.",
	}, table.Rows[0])
	assert.Equal(t, "4.25", table.Rows[1][5])
}

func TestUsersTableEmpty(t *testing.T) {
	table := UsersTable(nil)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
	assert.Len(t, table.Headers, 9)
}

func TestCitiesTable(t *testing.T) {
	table := CitiesTable([]types.CityAggregate{
		{City: "Lisbon", Count: 3, AverageIncome: 28.333333},
		{City: "Porto", Count: 1, AverageIncome: 4},
	})

	assert.Equal(t, []string{"City", "Users", "Average Income"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Lisbon", "3", "28.33"},
		{"Porto", "1", "4.00"},
	}, table.Rows)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, "Income & cars", UsersTable(users)))

	out := buf.String()
	assert.Contains(t, out, "<title>Income &amp; cars</title>")
	assert.Contains(t, out, "<th>Last Name</th>")
	assert.Contains(t, out, "<td>Miller</td>")
	assert.Contains(t, out, "2 result(s)")
	assert.NotContains(t, out, "<script>", "cell values must be escaped")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHTMLEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, "Top cities", CitiesTable(nil)))

	out := buf.String()
	assert.Contains(t, out, "No results")
	assert.Contains(t, out, `colspan="3"`)
}

func TestReportHTML(t *testing.T) {
	report := &types.Report{
		ID:                   uuid.New(),
		GeneratedAt:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Source:               "file:embedded",
		TotalUsers:           2,
		IncomeAndCar:         users[:1],
		GenderAndPhonePrice:  []types.UserRecord{},
		NameQuoteEmail:       users[:1],
		CarAndDigitFreeEmail: users,
		TopCities:            []types.CityAggregate{{City: "Lisbon", Count: 1, AverageIncome: 3}},
	}

	var buf bytes.Buffer
	require.NoError(t, ReportHTML(&buf, report))

	out := buf.String()
	assert.Contains(t, out, report.ID.String())
	assert.Contains(t, out, "2024-05-01 12:00:00 UTC")
	assert.Contains(t, out, "file:embedded")
	assert.Equal(t, 5, strings.Count(out, "<section>"))
	assert.Contains(t, out, "<td>Lisbon</td>")
}
