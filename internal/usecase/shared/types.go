package shared

import (
	"service-booking/internal/domain/money"
	"service-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Write-side snapshots of collaborator records (directory and catalog).
type UserSnapshot struct {
	ID       uuid.UUID
	Name     string
	Mobile   string
	Role     user.Role
	IsActive bool
}

type PackageSnapshot struct {
	ID          uuid.UUID
	Name        string
	Price       money.Money
	ServiceID   uuid.UUID
	ServiceName string
	IsActive    bool
}
