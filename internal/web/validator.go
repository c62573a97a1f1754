package web

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func init() {
	validate = validator.New()

	// Report fields by their form/JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("decimal", validateDecimal)
}

// validateDecimal accepts a non-negative amount with at most two decimals.
func validateDecimal(fl validator.FieldLevel) bool {
	return decimalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

var fieldLabels = map[string]string{
	"nombre":            "Name",
	"nacionalidad":      "Nationality",
	"fecha_nacimiento":  "Birth date",
	"pais":              "Country",
	"titulo":            "Title",
	"fecha_publicacion": "Publication date",
	"editorial_id":      "Publisher",
	"autores":           "Authors",
	"autor_id":          "Author",
	"libro_id":          "Book",
	"new_autor_id":      "Author",
	"new_libro_id":      "Book",
	"libreria_nombre":   "Bookstore",
	"cantidad":          "Quantity",
	"precio":            "Price",
	"fecha_venta":       "Sale date",
	"username":          "Username",
	"password":          "Password",
	"confirmPassword":   "Password confirmation",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// FieldError is a form validation failure for one field.
type FieldError struct {
	Field   string
	Message string
}

func ValidateStruct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Message: err.Error()}}
	}

	var errors []FieldError
	for _, err := range verrs {
		field := err.Field()
		name := label(field)
		param := err.Param()

		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", name)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", name, param)
		case "gte":
			message = fmt.Sprintf("%s must be %s or greater", name, param)
		case "decimal":
			message = fmt.Sprintf("%s must be a non-negative amount with up to two decimals", name)
		case "datetime":
			message = fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name)
		default:
			message = fmt.Sprintf("%s is invalid", name)
		}

		errors = append(errors, FieldError{Field: field, Message: message})
	}

	return errors
}

func fieldInvalid(field string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("%s is invalid", label(field))}
}
