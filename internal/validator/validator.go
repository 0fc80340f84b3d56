// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("risk_tolerance", validateRiskTolerance)
		_ = v.RegisterValidation("obligation_type", validateObligationType)
		_ = v.RegisterValidation("obligation_frequency", validateObligationFrequency)
		_ = v.RegisterValidation("product_type", validateProductType)
		_ = v.RegisterValidation("risk_level", validateRiskLevel)
		_ = v.RegisterValidation("future_date", validateFutureDate)
	}
}

func validateRiskTolerance(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "conservative", "moderate", "aggressive":
		return true
	}
	return false
}

func validateObligationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "credit_card_bill", "emi", "sip", "insurance", "utility":
		return true
	}
	return false
}

func validateObligationFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "monthly", "quarterly", "yearly", "one_time":
		return true
	}
	return false
}

func validateProductType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "mutual_fund", "credit_card", "savings", "insurance", "fixed_deposit", "bond":
		return true
	}
	return false
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "moderate", "high":
		return true
	}
	return false
}

func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}
