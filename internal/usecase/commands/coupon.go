package commands

import (
	"context"
	"log/slog"

	"service-booking/internal/domain/coupon"
	"service-booking/internal/domain/money"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/pkg/tracing"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	redemptionRedeemed = "redeemed"
	redemptionRejected = "rejected"
)

// Redemption is the outcome of a successful redeem. Discount is already
// clamped to the order amount.
type Redemption struct {
	CouponID uuid.UUID
	Code     string
	Discount money.Money
}

// DiscountQuote previews a coupon against an order amount without spending it.
type DiscountQuote struct {
	Code        string `json:"code"`
	OrderAmount int64  `json:"orderAmount"`
	Discount    int64  `json:"discount"`
	FinalAmount int64  `json:"finalAmount"`
}

// CouponRedeemer is the slice of the ledger the booking facade needs.
type CouponRedeemer interface {
	Redeem(ctx context.Context, tx shared.Tx, code string, orderAmount money.Money) (*Redemption, error)
}

type CouponCommands interface {
	CouponRedeemer
	Create(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error)
	Update(ctx context.Context, code string, req reqdto.UpdateCouponRequest) (*queries.CouponView, error)
	Deactivate(ctx context.Context, code string) error
	ComputeDiscount(ctx context.Context, code string, orderAmount int64) (*DiscountQuote, error)
}

type couponCommandsImpl struct {
	uow     shared.UnitOfWork
	coupons shared.CouponRepository
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewCouponCommands(uow shared.UnitOfWork, coupons shared.CouponRepository, clk clock.Clock, m *metrics.Metrics) CouponCommands {
	return &couponCommandsImpl{
		uow:     uow,
		coupons: coupons,
		clock:   clk,
		metrics: m,
	}
}

func (c *couponCommandsImpl) Create(ctx context.Context, req reqdto.CreateCouponRequest) (*queries.CouponView, error) {
	cp, err := coupon.New(req.ToParams(), c.clock.Now())
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, tx.DB(), cp)
	})
	if err != nil {
		return nil, err
	}
	return toCouponView(cp), nil
}

func (c *couponCommandsImpl) Update(ctx context.Context, code string, req reqdto.UpdateCouponRequest) (*queries.CouponView, error) {
	cc, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}

	var updated *coupon.Coupon
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cp, err := tx.Coupons().FindByCodeForUpdate(ctx, tx.DB(), cc)
		if err != nil {
			return err
		}
		if err := cp.Update(req.ToParams(), c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Coupons().Update(ctx, tx.DB(), cp); err != nil {
			return err
		}
		updated = cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCouponView(updated), nil
}

func (c *couponCommandsImpl) Deactivate(ctx context.Context, code string) error {
	cc, err := coupon.NewCode(code)
	if err != nil {
		return err
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cp, err := tx.Coupons().FindByCodeForUpdate(ctx, tx.DB(), cc)
		if err != nil {
			return err
		}
		cp.Deactivate(c.clock.Now())
		return tx.Coupons().Update(ctx, tx.DB(), cp)
	})
}

// ComputeDiscount evaluates every redeemability gate but never touches usage.
func (c *couponCommandsImpl) ComputeDiscount(ctx context.Context, code string, orderAmount int64) (*DiscountQuote, error) {
	cc, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}
	amount, err := money.New(orderAmount)
	if err != nil {
		return nil, err
	}

	var cp *coupon.Coupon
	err = c.uow.WithDB(ctx, func(ctx context.Context, db db.DBTX) error {
		found, err := c.coupons.FindByCode(ctx, db, cc)
		cp = found
		return err
	})
	if err != nil {
		return nil, err
	}

	discount, err := cp.Evaluate(c.clock.Now(), amount)
	if err != nil {
		return nil, err
	}
	discount = discount.Min(amount)
	return &DiscountQuote{
		Code:        cp.Code().String(),
		OrderAmount: amount.Minor(),
		Discount:    discount.Minor(),
		FinalAmount: amount.Sub(discount).Minor(),
	}, nil
}

// Redeem must run inside the caller's transaction. The coupon row is locked
// for validation and the usage slot is taken by a conditional increment, so
// concurrent redeems never push used_count past usage_limit.
func (c *couponCommandsImpl) Redeem(ctx context.Context, tx shared.Tx, code string, orderAmount money.Money) (_ *Redemption, err error) {
	ctx, span := tracing.Start(ctx, "coupon.Redeem")
	defer func() { tracing.End(span, err) }()

	defer func() {
		if err != nil {
			c.metrics.CouponRedemption(redemptionRejected)
			return
		}
		c.metrics.CouponRedemption(redemptionRedeemed)
	}()

	cc, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}
	cp, err := tx.Coupons().FindByCodeForUpdate(ctx, tx.DB(), cc)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	discount, err := cp.Evaluate(now, orderAmount)
	if err != nil {
		return nil, err
	}

	ok, err := tx.Coupons().IncrementUsage(ctx, tx.DB(), cp.ID(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, coupon.ErrUsageLimitReached
	}
	if err := cp.RecordRedemption(now); err != nil {
		return nil, err
	}

	discount = discount.Min(orderAmount)
	err = tx.Outbox().Append(ctx, tx.DB(), shared.Event{
		AggregateType: shared.AggregateCoupon,
		AggregateID:   cp.ID(),
		Type:          shared.EventCouponRedeemed,
		Payload: map[string]any{
			"code":        cp.Code().String(),
			"orderAmount": orderAmount.Minor(),
			"discount":    discount.Minor(),
			"usedCount":   cp.UsedCount(),
		},
		OccurredAt: now,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("coupon redeemed", "code", cp.Code().String(), "used_count", cp.UsedCount(), "usage_limit", cp.UsageLimit())
	return &Redemption{CouponID: cp.ID(), Code: cp.Code().String(), Discount: discount}, nil
}
