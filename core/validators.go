package core

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const requiredText = "this field is required"

// InitValidators wires the shared validator instance: english defaults,
// json-tag field names in messages, and the overrides every payload relies on.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
	validate.RegisterTagNameFunc(jsonFieldName)

	for _, tag := range []string{"required", "required_with"} {
		registerTranslation(validate, translator, tag, requiredText, true)
	}
}

// jsonFieldName reports a struct field by its json name so validation errors
// line up with the payload the caller actually sent.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// RegisterCustomTranslation maps a validation tag to a fixed message.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	registerTranslation(validate, translator, tag, text, len(override) > 0 && override[0])
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	addFn := func(t ut.Translator) error { return t.Add(tag, text, override) }
	transFn := func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T(tag, fe.Field())
		return msg
	}
	_ = validate.RegisterTranslation(tag, translator, addFn, transFn)
}
