package readstore

import (
	"context"

	"service-booking/internal/domain/money"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/pgconv"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPackageNotFound = errs.NewKind("service package not found", errs.ErrNotFound)

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

// PackageByID is active only when both the package and its service are.
func (r *CatalogReadStore) PackageByID(ctx context.Context, id uuid.UUID) (*shared.PackageSnapshot, error) {
	const q = `SELECT p.id, p.name, p.price, s.id, s.name, p.is_active AND s.is_active
		FROM service_packages p JOIN catalog_services s ON s.id = p.service_id
		WHERE p.id = $1`

	var (
		snap  shared.PackageSnapshot
		price int64
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &price, &snap.ServiceID, &snap.ServiceName, &snap.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("package not found", ErrPackageNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find package", err)
	}
	snap.Price = money.FromMinor(price)
	return &snap, nil
}
