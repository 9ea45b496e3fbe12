package routes

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func init() {
	// report violations by form field name, not Go struct field
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindForm parses the request body into T and runs struct validation.
func bindForm[T any](c *fiber.Ctx) (T, error) {
	var form T
	if err := c.BodyParser(&form); err != nil {
		return form, err
	}
	if err := validate.Struct(form); err != nil {
		return form, err
	}
	return form, nil
}
