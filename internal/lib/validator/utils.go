package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	govalidator "github.com/go-playground/validator/v10"
)

// New returns a validator reporting fields by their json (or schema) names,
// with the custom tags of this package registered.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "schema"} {
			name := strings.Split(field.Tag.Get(key), ",")[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return camelToSnake(field.Name)
	})
	if err := v.RegisterValidation("sortby", ValidateSortBy); err != nil {
		panic(err)
	}
	return v
}

func camelToSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[fieldPath(e)] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

// fieldPath drops the top level struct name from the namespace: "Body.items[0].title" -> "items[0].title".
func fieldPath(e govalidator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		if errs, ok := err.(govalidator.ValidationErrors); ok {
			validationErrs = ProcessValidationErrors(obj, errs)
		} else {
			validationErrs = map[string]string{"body": err.Error()}
		}
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if field, found := t.FieldByName(err.StructField()); found {
			errorMsg = field.Tag.Get("errorMsg")
		}
	}
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "eqfield", "eq":
			errorMsg = fmt.Sprintf("Value should be equal to %s", err.Param())
		case "nefield", "ne":
			errorMsg = fmt.Sprintf("Value should not be equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "len":
			errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "url", "http_url":
			errorMsg = "Value must be a valid URL"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "alphanum":
			errorMsg = "Value must be alphanumeric"
		case "uuid", "uuid4":
			errorMsg = "Value must be a valid UUID"
		case "sortby":
			errorMsg = fmt.Sprintf("Value must be one of %s, optionally prefixed with - (e.g. -%s)",
				err.Param(), strings.Fields(err.Param())[0])
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

// ValidateSortBy accepts an empty value or one of the space separated
// parameter names with an optional "-" prefix, e.g. `validate:"sortby=id title"`.
func ValidateSortBy(fl govalidator.FieldLevel) bool {
	sort := fl.Field().String()
	if sort == "" {
		return true
	}
	sort = strings.TrimPrefix(sort, "-")
	for _, allowed := range strings.Fields(fl.Param()) {
		if strings.EqualFold(sort, allowed) {
			return true
		}
	}
	return false
}
