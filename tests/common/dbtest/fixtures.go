//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"service-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const (
	DefaultPassword = "password123"

	DefaultServiceName = "Home Cleaning"
	DefaultPackageName = "Deep Clean"
	DefaultPackagePrice int64 = 50000
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	hashOnce   sync.Once
	cachedHash string
)

// defaultHash hashes DefaultPassword once per process; bcrypt is slow on purpose.
func defaultHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.Hash(DefaultPassword)
		require.NoError(t, err)
		cachedHash = h
	})
	return cachedHash
}

func randomMobile() string {
	return fmt.Sprintf("9%09d", rand.Int64N(1_000_000_000))
}

// CreateTestUser inserts an active user whose password is DefaultPassword.
func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	name := strings.Split(email, "@")[0]
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, name, email, mobile, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, true)`,
		userID, name, email, randomMobile(), defaultHash(t), role)
	require.NoError(t, err)
	return userID
}

func DeactivateUser(t *testing.T, db DBLike, userID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE users SET is_active = false WHERE id = $1", userID)
	require.NoError(t, err)
}

// CreateTestPackage inserts an active package under a fresh catalog service.
func CreateTestPackage(t *testing.T, db DBLike, name string, price int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var serviceID uuid.UUID
	err := db.QueryRow(ctx,
		"INSERT INTO catalog_services (name) VALUES ($1) RETURNING id", name+" service").Scan(&serviceID)
	require.NoError(t, err)

	var packageID uuid.UUID
	err = db.QueryRow(ctx,
		"INSERT INTO service_packages (service_id, name, price) VALUES ($1, $2, $3) RETURNING id",
		serviceID, name, price).Scan(&packageID)
	require.NoError(t, err)
	return packageID
}

// DefaultPackageID returns the package seeded by SeedReferenceData.
func DefaultPackageID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM service_packages WHERE name = $1 LIMIT 1", DefaultPackageName).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestCoupon inserts an active coupon valid for a day either side of now.
func CreateTestCoupon(t *testing.T, db DBLike, code, discountType string, value int64, usageLimit int) uuid.UUID {
	t.Helper()
	now := time.Now()

	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		`INSERT INTO coupons (code, discount_type, discount_value, valid_from, valid_until, usage_limit)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		code, discountType, value, now.Add(-24*time.Hour), now.Add(24*time.Hour), usageLimit).Scan(&id)
	require.NoError(t, err)
	return id
}

func CouponUsedCount(t *testing.T, db DBLike, code string) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(), "SELECT used_count FROM coupons WHERE code = $1", code).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountOutboxEvents(t *testing.T, db DBLike, eventType string) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM outbox_events WHERE event_type = $1", eventType).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts the catalog entries every test can book against
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		WITH svc AS (
			INSERT INTO catalog_services (name, description) VALUES ($1, 'Whole-home cleaning')
			RETURNING id
		)
		INSERT INTO service_packages (service_id, name, price)
		SELECT id, $2, $3 FROM svc;
	`, DefaultServiceName, DefaultPackageName, DefaultPackagePrice)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
