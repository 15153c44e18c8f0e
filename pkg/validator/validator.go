// Package validator valida los DTO de entrada en la frontera HTTP antes de
// que cualquier dato llegue al motor de libro (admisión todo-o-nada).
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Reportar errores con el nombre del campo JSON, no el de Go
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Struct valida las etiquetas `validate` del struct y devuelve un error con
// mensajes legibles por campo.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", fe.Field())
	case "email":
		return fmt.Sprintf("%s no es un email válido", fe.Field())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s supera el máximo %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
	}
}
