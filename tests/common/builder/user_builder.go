//go:build unit || e2e

package builder

import (
	"time"

	"service-booking/internal/domain/booking"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/domain/user"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Mobile       string
	PasswordHash string
	Role         user.Role
	IsActive     bool
	Now          time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:           uuid.New(),
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		Mobile:       "9876543210",
		PasswordHash: "hashed_password",
		Role:         user.RoleCustomer,
		IsActive:     true,
		Now:          time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func NewEmployeeBuilder() *UserBuilder {
	b := NewUserBuilder()
	b.Name = "Ravi Kumar"
	b.Email = "ravi@example.com"
	b.Mobile = "9123456780"
	b.Role = user.RoleEmployee
	return b
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

func (b *UserBuilder) WithMobile(mobile string) *UserBuilder {
	b.Mobile = mobile
	return b
}

func (b *UserBuilder) WithRole(role user.Role) *UserBuilder {
	b.Role = role
	return b
}

func (b *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	mobile, err := user.NewMobile(b.Mobile)
	if err != nil {
		return nil, err
	}
	return user.NewUser(b.Name, email, mobile, b.PasswordHash, b.Role, b.Now), nil
}

func (b *UserBuilder) BuildSnapshot() *shared.UserSnapshot {
	return &shared.UserSnapshot{
		ID:       b.ID,
		Name:     b.Name,
		Mobile:   b.Mobile,
		Role:     b.Role,
		IsActive: b.IsActive,
	}
}

func (b *UserBuilder) BuildParty() booking.Party {
	return booking.Party{ID: b.ID, Name: b.Name, Mobile: b.Mobile}
}

func (b *UserBuilder) BuildView() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       b.ID,
		Name:     b.Name,
		Email:    b.Email,
		Mobile:   b.Mobile,
		Role:     b.Role.String(),
		IsActive: b.IsActive,
	}
}

// AuthBuilder is a login attempt. Its defaults match NewUserBuilder.
type AuthBuilder struct {
	Email    string
	Password string
}

func NewAuthBuilder() *AuthBuilder {
	return NewUserBuilder().Login("password123")
}

// Login pairs the user's email with a plain password.
func (b *UserBuilder) Login(password string) *AuthBuilder {
	return &AuthBuilder{Email: b.Email, Password: password}
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{Email: a.Email, Password: a.Password}
}
