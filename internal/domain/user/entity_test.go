//go:build unit

package user_test

import (
	"testing"
	"time"

	"service-booking/internal/domain/user"
	"service-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("asha@example.com")
		mobile, _ := user.NewMobile("9876543210")
		expected := user.NewUser("Asha Rao", email, mobile, "hashed_password", user.RoleCustomer, time.Now())

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.False(t, actual.IsEmployee())
		assert.Equal(t, "asha@example.com", actual.Email().Value())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid email",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "empty email",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing domain",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("user@") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("mobile validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "with country code",
				mutate: func(b *builder.UserBuilder) { b.WithMobile("+919876543210") },
			},
			{
				name:   "spaces are stripped",
				mutate: func(b *builder.UserBuilder) { b.WithMobile("98765 43210") },
			},
			{
				name:   "too short",
				mutate: func(b *builder.UserBuilder) { b.WithMobile("12345") },
				errIs:  user.ErrInvalidMobile,
			},
			{
				name:   "letters",
				mutate: func(b *builder.UserBuilder) { b.WithMobile("98765abcde") },
				errIs:  user.ErrInvalidMobile,
			},
		})
	})

	t.Run("employee capability", func(t *testing.T) {
		actual, err := builder.NewEmployeeBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, actual.IsEmployee())
	})
}

func TestRole(t *testing.T) {
	for _, s := range []string{"CUSTOMER", "employee", " Admin "} {
		_, err := user.NewRole(s)
		assert.NoError(t, err, s)
	}
	_, err := user.NewRole("viewer")
	require.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestCredentials(t *testing.T) {
	c, err := user.NewCredentials(" Asha@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", c.Email().Value())

	_, err = user.NewCredentials("asha@example.com", "short")
	require.ErrorIs(t, err, user.ErrPasswordTooWeak)
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
