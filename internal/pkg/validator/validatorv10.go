package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/followup/internal/pkg/strcase"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	enTrans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustom(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}
	return out
}

type customRule struct {
	tag     string
	message string
	fn      validator.Func
}

var customRules = []customRule{
	{
		tag:     "notblank",
		message: "{0} must not be blank",
		fn: func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && strings.TrimSpace(s) != ""
		},
	},
}

func registerCustom(validate *validator.Validate, trans ut.Translator) error {
	for _, rule := range customRules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}

		msg := rule.message
		err := validate.RegisterTranslation(rule.tag, trans,
			func(t ut.Translator) error {
				return t.Add(rule.tag, msg, false)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				s, err := t.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
					return fe.Error()
				}
				return s
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
