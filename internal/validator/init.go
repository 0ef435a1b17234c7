package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// "command" accepts slash commands such as /start; emptiness is left to required tags.
	if err := validate.RegisterValidation("command", func(fl validator.FieldLevel) bool {
		cmd := fl.Field().String()
		if cmd == "" {
			return true
		}
		return len(cmd) > 1 && strings.HasPrefix(cmd, "/") && !strings.ContainsAny(cmd, " \t\n")
	}); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}
