// Package validation turns raw path segments, query strings and request bodies
// into typed values, or rejects them with a *util.ValidationError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"user-service/internal/util"
)

// Input locations reported in field errors.
const (
	LocationPath  = "path"
	LocationQuery = "query"
	LocationBody  = "body"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name instead of the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct checks v against its `validate` tags.
func Struct(location string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	verr := &util.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, util.FieldError{
			Location: location,
			Field:    fe.Field(),
			Message:  message(fe),
		})
	}
	return verr
}

func message(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if text {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if text {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

type userIDParam struct {
	UserID int64 `json:"user_id" validate:"min=1"`
}

// UserID parses the user_id path segment. It must be an integer >= 1.
func UserID(raw string) (int64, error) {
	id, err := parseInt(LocationPath, "user_id", raw)
	if err != nil {
		return 0, err
	}
	if err := Struct(LocationPath, userIDParam{UserID: id}); err != nil {
		return 0, err
	}
	return id, nil
}

// SearchParams are the query parameters of the user search endpoint.
type SearchParams struct {
	Name string `json:"name" validate:"required,min=2"`
	Age  *int64 `json:"age" validate:"omitempty,min=1"`
}

// Search reads name (required, at least 2 characters) and age (optional, >= 1).
func Search(query url.Values) (SearchParams, error) {
	params := SearchParams{Name: query.Get("name")}
	if raw := query.Get("age"); raw != "" {
		age, err := parseInt(LocationQuery, "age", raw)
		if err != nil {
			return SearchParams{}, err
		}
		params.Age = &age
	}
	if err := Struct(LocationQuery, params); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}

// Field returns the optional projection selector. Any value is accepted;
// unrecognised selectors mean the full record.
func Field(query url.Values) string {
	return query.Get("field")
}

type itemParam struct {
	ItemName string `json:"item_name" validate:"max=6"`
}

// ItemName checks the item_name path segment is at most 6 characters.
// escaped reports whether raw still carries percent-encoding, which is the case
// when the router matched on the request's RawPath.
func ItemName(raw string, escaped bool) (string, error) {
	name := raw
	if escaped {
		var err error
		if name, err = url.PathUnescape(raw); err != nil {
			return "", util.NewValidationError(LocationPath, "item_name", "must be a valid path segment")
		}
	}
	if err := Struct(LocationPath, itemParam{ItemName: name}); err != nil {
		return "", err
	}
	return name, nil
}

// DecodeJSON decodes a request body holding exactly one JSON value into dst
// and validates it. Malformed JSON, trailing data, type mismatches and rule
// violations all yield a *util.ValidationError. A body cut off by
// http.MaxBytesReader yields util.ErrPayloadTooLarge.
func DecodeJSON(body io.Reader, dst interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			return util.ErrPayloadTooLarge
		}
		return util.NewValidationError(LocationBody, "", "malformed JSON")
	}
	return Struct(LocationBody, dst)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case tooLarge(err):
		return util.ErrPayloadTooLarge
	case errors.Is(err, io.EOF):
		return util.NewValidationError(LocationBody, "", "request body required")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return util.NewValidationError(LocationBody, "", "request body must be a JSON object")
		}
		return util.NewValidationError(LocationBody, field, fmt.Sprintf("must be of type %s", jsonType(typeErr.Type)))
	case errors.As(err, &syntaxErr):
		return util.NewValidationError(LocationBody, "", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	default:
		return util.NewValidationError(LocationBody, "", "malformed JSON")
	}
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func parseInt(location, field, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, util.NewValidationError(location, field, "must be a valid integer")
	}
	return v, nil
}
