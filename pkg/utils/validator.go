package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex     = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)
	phoneDigitsMin = 7
	phoneDigitsMax = 15
)

// ValidPhone accepts 7-15 digits with an optional leading '+' and space or dash separators.
func ValidPhone(phone string) bool {
	if !phoneRegex.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= phoneDigitsMin && digits <= phoneDigitsMax
}

func validatePhone(fl validator.FieldLevel) bool {
	return ValidPhone(fl.Field().String())
}

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("phone", validatePhone)
}
