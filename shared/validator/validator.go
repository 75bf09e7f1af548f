package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"resort/config"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

const (
	bytesPerMegabyte = 1024 * 1024
	dataURIPrefix    = "data:"
	dataURIMarker    = ";base64,"
)

var validate *val.Validate

// dataURIContentType returns the media type of a base64 data URI, or "" when value is not one.
func dataURIContentType(value string) string {
	end := strings.Index(value, dataURIMarker)
	if !strings.HasPrefix(value, dataURIPrefix) || end < len(dataURIPrefix) {
		return constant.Empty
	}

	return value[len(dataURIPrefix):end]
}

func fileHeader(field val.FieldLevel) (*multipart.FileHeader, bool) {
	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return &file, true
	case *multipart.FileHeader:
		return file, file != nil
	default:
		return nil, false
	}
}

func registerMimetypeValidation(field val.FieldLevel) bool {
	var contentType string

	if file, ok := fileHeader(field); ok {
		contentType = file.Header.Get(constant.RequestHeaderContentType)
	} else if str, ok := field.Field().Interface().(string); ok {
		contentType = dataURIContentType(str)
	}

	if contentType == constant.Empty {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	var fileSize int64

	if file, ok := fileHeader(field); ok {
		fileSize = file.Size
	} else if str, ok := field.Field().Interface().(string); ok {
		fileSize = int64(len(str))
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(fileSize) <= maxSizeMB*bytesPerMegabyte
}

func registerISO8601Validation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := timezone.ParseISO8601(value)

	return err == nil
}

// jsonFieldName makes error messages name the field the client actually sent.
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form", "db"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0] //nolint:mnd
		if name != "" && name != "-" {
			return name
		}
	}

	return field.Name
}

func init() {
	cfg := config.Get()

	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	validations := map[string]val.Func{
		"resort": func(fl val.FieldLevel) bool {
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
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"iso8601":     registerISO8601Validation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it. Decoding and validation problems
// are both reported as BadRequest failures.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
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
