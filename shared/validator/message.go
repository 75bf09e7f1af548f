package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"len":         "{field} must be exactly {param} characters long",
		"email":       "{field} must be a valid email address",
		"uuid":        "{field} must be a valid UUID",
		"iso8601":     "{field} must be an ISO-8601 date (2006-01-02) or date-time (2006-01-02T15:04:05Z07:00)",
		"iso4217":     "{field} must be an ISO-4217 currency code",
		"ltefield":    "{field} must be less than or equal to {param}",
		"gtfield":     "{field} must be greater than {param}",
		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not exceed {param} MB",
		"e164":        "{field} must be a phone number in E.164 format",
		"alphanum":    "{field} must contain only letters and digits",
		"resort":      "{field} is invalid",
	}
)

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			errStr := messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
				errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

				return errStr
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}
