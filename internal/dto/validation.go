package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// init registers decimal-aware validations with gin's binding engine.
// `required` only rejects the zero value, so amount fields additionally use
// dgt0 to reject negative input at the edge.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dgt0", decimalGreaterThanZero)
	}
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && d.IsPositive()
}
