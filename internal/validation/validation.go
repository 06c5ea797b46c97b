package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldErrors содержит ошибки валидации в формате field -> message.
// Имена полей берутся из json тегов, чтобы совпадать с телом запроса.
type FieldErrors map[string]string

// Error реализует интерфейс error
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Используем json имена полей в сообщениях об ошибках
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// notblank: строка не должна состоять только из пробелов
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Struct проверяет структуру по validate тегам.
// Возвращает FieldErrors если есть нарушения, nil если все ок.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		// первая ошибка по полю выигрывает
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

// message формирует человекочитаемое сообщение для нарушенного правила
func message(fe validator.FieldError) string {
	name := capitalize(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
