package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

func TestValidate(t *testing.T) {
	t.Run("ValidRecords", func(t *testing.T) {
		assert.NoError(t, Validate(sampleUsers()))
	})

	t.Run("EmptyListIsValid", func(t *testing.T) {
		assert.NoError(t, Validate([]types.UserRecord{}))
	})

	t.Run("NilList", func(t *testing.T) {
		err := Validate(nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
	})

	tests := []struct {
		name   string
		mutate func(*types.UserRecord)
		field  string
	}{
		{"MissingLastName", func(u *types.UserRecord) { u.LastName = "" }, "lastName"},
		{"MissingEmail", func(u *types.UserRecord) { u.Email = "" }, "email"},
		{"MissingCity", func(u *types.UserRecord) { u.City = "" }, "city"},
		{"NegativeIncome", func(u *types.UserRecord) { u.Income = -1 }, "income"},
		{"NegativePhonePrice", func(u *types.UserRecord) { u.PhonePrice = -0.5 }, "phonePrice"},
		{"UnknownGender", func(u *types.UserRecord) { u.Gender = "robot" }, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := sampleUsers()
			tt.mutate(&users[2])

			err := Validate(users)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidInput))

			var inputErr *types.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, 2, inputErr.Index)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}
