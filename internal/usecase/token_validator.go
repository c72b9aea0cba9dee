package usecase

import (
	"service-booking/internal/domain/user"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrTokenSubjectInvalid = errs.NewKind("token carries no usable identity", errs.ErrUnauthorized)

// TokenValidator resolves a bearer token to the caller's id and role.
// Every failure is marked errs.ErrUnauthorized.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, errs.ErrUnauthorized)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, "", ErrTokenSubjectInvalid
	}

	// a role renamed or removed since issue invalidates the token
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", errs.Mark(errs.Wrap(err, "token role"), ErrTokenSubjectInvalid)
	}

	return claims.UserID, role, nil
}
