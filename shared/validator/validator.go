package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"regexp"
	"rental/config"
	"rental/shared/constant"
	"rental/shared/failure"
	"slices"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PaymentMethodID matches processor payment-method identifiers such as pm_1PqX2a.
var PaymentMethodID = regexp.MustCompile(`^pm_[A-Za-z0-9]+$`)

var validate *val.Validate

func registerMimetypeValidation(field val.FieldLevel) bool {
	file, ok := field.Field().Interface().(multipart.FileHeader)
	if !ok {
		return false
	}

	allowedTypes := strings.Split(field.Param(), " ")

	return slices.Contains(allowedTypes, file.Header.Get(constant.RequestHeaderContentType))
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	fileSize := 0
	if file, ok := field.Field().Interface().(multipart.FileHeader); ok {
		fileSize = int(file.Size)
	} else if str, ok := field.Field().Interface().(string); ok {
		fileSize = len(str)
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0
	maxSizeBytes := int(maxSizeMB * bytesConversion * bytesConversion)

	return fileSize <= maxSizeBytes
}

// registerMoneyValidation accepts non-negative major-unit amounts with at most two decimals.
func registerMoneyValidation(fl val.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return !amount.IsNegative() && amount.Equal(amount.Truncate(2))
}

func layoutValidation(layout string) val.Func {
	return func(fl val.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())

		return err == nil
	}
}

func init() {
	cfg := config.Get()

	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	validations := map[string]val.Func{
		"selfcheck": func(fl val.FieldLevel) bool {
			method := fl.Field().MethodByName("Validate")
			if method.IsValid() {
				result := method.Call([]reflect.Value{reflect.ValueOf(cfg)})

				return result[0].IsNil()
			}

			return false
		},
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"paymentmethod": func(fl val.FieldLevel) bool {
			return PaymentMethodID.MatchString(fl.Field().String())
		},
		"currency": func(fl val.FieldLevel) bool {
			_, ok := constant.CurrencySymbols[fl.Field().String()]

			return ok
		},
		"money":       registerMoneyValidation,
		"dateonly":    layoutValidation(constant.DateOnlyFormat),
		"month":       layoutValidation(constant.MonthFormat),
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
