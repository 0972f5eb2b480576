package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":         "{field} is required",
		"required_if":      "{field} is required",
		"required_without": "{field} is required when {param} is empty",
		"gte":              "{field} must be greater than or equal to {param}",
		"lte":              "{field} must be less than or equal to {param}",
		"gtfield":          "{field} must be after {param}",
		"oneof":            "{field} must be one of {param}",
		"max":              "{field} must be less than or equal to {param}",
		"min":              "{field} must be greater than or equal to {param}",
		"email":            "{field} must be a valid email address",
		"uuid":             "{field} must be a valid id",
		"paymentmethod":    "{field} must be a valid payment method id",
		"currency":         "{field} must be a supported currency code",
		"money":            "{field} must be a non-negative amount with at most two decimals",
		"url":              "{field} must be a valid url",
		"dateonly":         "{field} must be a date formatted as YYYY-MM-DD",
		"month":            "{field} must be a month formatted as YYYY-MM",
		"mimetypes":        "{field} must be one of {param}",
		"maxfilesize":      "{field} must not exceed {param} MB",
	}
)

// message lists every failing field, one sentence per field.
func message(err error) string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		errStr := messages[valErr.Tag()]
		if errStr == "" {
			msgs = append(msgs, valErr.Error())

			continue
		}

		errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
		errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

		msgs = append(msgs, errStr)
	}

	return strings.Join(msgs, "; ")
}
