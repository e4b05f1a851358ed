package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by the request DTOs.
// decimal.Decimal is validated through its string form. Only the first call has effect.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() { err = registerValidators() })
	return err
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimalgt0", validateDecimalGreaterThanZero); err != nil {
		return fmt.Errorf("failed to register decimalgt0: %w", err)
	}
	if err := v.RegisterValidation("roundingmode", validateRoundingMode); err != nil {
		return fmt.Errorf("failed to register roundingmode: %w", err)
	}
	return nil
}

func validateDecimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func validateRoundingMode(fl validator.FieldLevel) bool {
	return domain.RoundingMode(fl.Field().String()).IsValid()
}
