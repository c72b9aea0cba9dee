package readstore

import (
	"context"

	"service-booking/internal/domain/user"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/pgconv"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrUserNotFound = errs.NewKind("user not found", errs.ErrNotFound)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const q = `SELECT id, name, email, mobile, role, is_active FROM users WHERE id = $1`

	var v queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, q, id).Scan(&v.ID, &v.Name, &v.Email, &v.Mobile, &v.Role, &v.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", ErrUserNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}

// FindByEmail also returns the password hash for credential checks.
func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const q = `SELECT id, name, email, mobile, role, is_active, password_hash FROM users WHERE email = $1`

	var (
		v    queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, q, email).Scan(&v.ID, &v.Name, &v.Email, &v.Mobile, &v.Role, &v.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", ErrUserNotFound, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &v, hash, nil
}

// SnapshotByID loads the fields a booking copies from its parties.
func (r *UserReadStore) SnapshotByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.UserSnapshot{
		ID:       v.ID,
		Name:     v.Name,
		Mobile:   v.Mobile,
		Role:     user.Role(v.Role),
		IsActive: v.IsActive,
	}, nil
}
