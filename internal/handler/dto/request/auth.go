package request

import (
	"service-booking/internal/domain/user"
)

// LoginRequest caps the password at bcrypt's 72 byte input limit.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}
