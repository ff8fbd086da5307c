// Валидация входных данных API заметок с использованием библиотеки
// go-playground/validator.
//
// Основные возможности:
//   - Валидация названий заметок (длина, непустое содержимое).
//   - Интеграция с echo через интерфейс Validator.
package ainotes

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"github.com/aisa-it/ainotes/internal/ainotes/dao"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	err := v.RegisterValidation("noteTitle", noteTitleValidator)
	if err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

func noteTitleValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		return false
	}
	return utf8.RuneCountInString(value) <= dao.NoteTitleMaxLen
}
