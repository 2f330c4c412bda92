package users

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

func TestDecodeRecords(t *testing.T) {
	want := types.UserRecord{
		FirstName:  "Ann",
		LastName:   "Miller",
		Email:      "ann.miller@mail.com",
		Gender:     types.GenderFemale,
		Income:     3,
		CarBrand:   "BMW",
		PhonePrice: 12000,
		Quote:      "Stay hungry, stay foolish.",
		City:       "Lisbon",
	}

	shapes := map[string]string{
		"Canonical": `[{"firstName":"Ann","lastName":"Miller","email":"ann.miller@mail.com","gender":"female",
			"income":3,"carBrand":"BMW","phonePrice":12000,"quote":"Stay hungry, stay foolish.","city":"Lisbon"}]`,
		"CarStringAndCapitalisedGender": `[{"firstName":"Ann","lastName":"Miller","email":"ann.miller@mail.com","gender":"Female",
			"income":3,"car":"BMW","phonePrice":12000,"quote":"Stay hungry, stay foolish.","city":"Lisbon"}]`,
		"SnakeCaseColumns": `[{"first_name":"Ann","last_name":"Miller","email":"ann.miller@mail.com","gender":"female",
			"income":3,"car":"BMW","phone_price":12000,"quote":"Stay hungry, stay foolish.","city":"Lisbon"}]`,
		"NestedObjectsAndFullName": `[{"name":"Ann Miller","email":"ann.miller@mail.com","gender":"female",
			"income":3,"car":{"brand":"BMW"},"phone":{"price":12000},"quote":"Stay hungry, stay foolish.",
			"address":{"city":"Lisbon"}}]`,
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeRecords(strings.NewReader(body))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0])
		})
	}

	t.Run("UnknownGenderBecomesOther", func(t *testing.T) {
		body := `[{"lastName":"Ng","email":"eve@mail.com","income":1,"city":"Porto"}]`
		got, err := DecodeRecords(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, types.GenderOther, got[0].Gender)
		assert.Zero(t, got[0].PhonePrice)
	})

	t.Run("SingleWordNameIsLastName", func(t *testing.T) {
		body := `[{"name":"Prince","email":"prince@mail.com","income":1,"city":"Porto"}]`
		got, err := DecodeRecords(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, "", got[0].FirstName)
		assert.Equal(t, "Prince", got[0].LastName)
	})

	t.Run("FullNameSplitsOnFirstSpace", func(t *testing.T) {
		body := `[{"name":"Ann van der Berg","email":"ann@mail.com","income":1,"city":"Porto"}]`
		got, err := DecodeRecords(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, "Ann", got[0].FirstName)
		assert.Equal(t, "van der Berg", got[0].LastName)
	})

	t.Run("CapitalisedAndEmptyGender", func(t *testing.T) {
		body := `[{"lastName":"Ng","email":"e@x.com","income":1,"city":"Porto","gender":"Male"},
			{"lastName":"Ng","email":"e@x.com","income":1,"city":"Porto","gender":""}]`
		got, err := DecodeRecords(strings.NewReader(body))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, types.GenderMale, got[0].Gender)
		assert.Equal(t, types.GenderOther, got[1].Gender)
	})

	t.Run("EmptyArray", func(t *testing.T) {
		got, err := DecodeRecords(strings.NewReader(`[]`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	failures := map[string]struct {
		body  string
		field string
	}{
		"NotAnArray":      {`{"users":[]}`, ""},
		"Null":            {`null`, ""},
		"EmptyBody":       {``, ""},
		"MissingIncome":   {`[{"lastName":"Ng","email":"e@x.com","city":"Porto"}]`, "income"},
		"MissingCity":     {`[{"lastName":"Ng","email":"e@x.com","income":2}]`, "city"},
		"NegativeIncome":  {`[{"lastName":"Ng","email":"e@x.com","income":-2,"city":"Porto"}]`, "income"},
		"CarWrongType":    {`[{"lastName":"Ng","email":"e@x.com","income":2,"city":"Porto","car":42}]`, "car"},
		"IncomeNotNumber": {`[{"lastName":"Ng","email":"e@x.com","income":"lots","city":"Porto"}]`, ""},
	}

	for name, tc := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecords(strings.NewReader(tc.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidInput), "got %v", err)

			if tc.field != "" {
				var inputErr *types.InputError
				require.True(t, errors.As(err, &inputErr))
				assert.Equal(t, 0, inputErr.Index)
				assert.Equal(t, tc.field, inputErr.Field)
			}
		})
	}
}
