package validate

import (
	"service-booking/internal/domain/coupon"
	"service-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the domain tags used by request DTOs to gin's validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("gin validator engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("coupon_code", couponCode); err != nil {
		return errs.Wrap(err, "register coupon_code")
	}
	return nil
}

func couponCode(fl validator.FieldLevel) bool {
	_, err := coupon.NewCode(fl.Field().String())
	return err == nil
}
