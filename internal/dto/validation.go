package dto

import (
	"reflect"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators teaches gin's validator about decimal amounts so that
// tags such as gte=0 work on decimal.Decimal fields, adds the money_positive
// tag, and makes validation errors report JSON field names.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("money_positive", moneyPositive)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func decimalValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

// moneyPositive accepts strictly positive amounts with at most two decimals
// below domain.AmountLimit.
func moneyPositive(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Float64 {
		return false
	}
	d := decimal.NewFromFloat(fl.Field().Float())
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(domain.AmountLimit)
}
