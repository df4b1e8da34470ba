package httperr

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Translator ut.Translator
	setupOnce  sync.Once

	// custom validation tags
	strongPasswordTag = "strong_password"
	roleTag           = "signup_role"
)

// SetupValidator configures gin's validator once: english messages, json
// field names and the custom tags used by request bodies.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		Translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, Translator)

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(strongPasswordTag, strongPassword)
		_ = v.RegisterValidation(roleTag, signupRole)

		registerFn := func(ut.Translator) error { return nil }
		for _, tag := range []string{strongPasswordTag, roleTag} {
			_ = v.RegisterTranslation(tag, Translator, registerFn, translateCustom)
		}
	})
}

// strongPassword: at least 8 characters with a letter and a digit.
func strongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, c := range pw {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func signupRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "teacher", "assistant":
		return true
	}
	return false
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case strongPasswordTag:
		return fe.Field() + " must be at least 8 characters long and contain both letters and numbers"
	case roleTag:
		return fe.Field() + " must be teacher or assistant"
	}
	return fe.Error()
}

// fieldErrors renders validation errors keyed by json field name.
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		if Translator != nil {
			out[fe.Field()] = fe.Translate(Translator)
		} else {
			out[fe.Field()] = fe.Error()
		}
	}
	return out
}
