package user

import (
	"regexp"
	"strings"

	"service-booking/internal/pkg/errs"
)

var (
	ErrInvalidEmail    = errs.NewKind("invalid email format", errs.ErrValidationFailed)
	ErrInvalidMobile   = errs.NewKind("invalid mobile number", errs.ErrValidationFailed)
	ErrInvalidRole     = errs.NewKind("invalid role", errs.ErrValidationFailed)
	ErrPasswordTooWeak = errs.NewKind("password must be at least 8 characters long", errs.ErrValidationFailed)
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Mobile struct {
	value string
}

func NewMobile(s string) (Mobile, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if !mobileRegex.MatchString(s) {
		return Mobile{}, ErrInvalidMobile
	}
	return Mobile{value: s}, nil
}

func (m Mobile) Value() string {
	return m.value
}

type Credentials struct {
	email    Email
	password string
}

func NewCredentials(email, password string) (Credentials, error) {
	e, err := NewEmail(email)
	if err != nil {
		return Credentials{}, err
	}
	if len(password) < 8 {
		return Credentials{}, ErrPasswordTooWeak
	}
	return Credentials{email: e, password: password}, nil
}

func (c Credentials) Email() Email     { return c.email }
func (c Credentials) Password() string { return c.password }
