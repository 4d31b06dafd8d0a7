package models

import (
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
	errs "github.com/techagentng/citypulse/errors"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// ValidateStruct trims the request's tagged strings, then checks its
// validate tags. Failures come back as a single bad-request error with
// translated messages.
func ValidateStruct(req interface{}) error {
	if err := validateWhiteSpaces(req); err != nil {
		return errs.Wrap(errs.ErrBadRequest, err)
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Wrap(errs.ErrBadRequest, err)
	}
	return errs.New(strings.Join(translateError(validationErrs, trans), "; "), http.StatusBadRequest)
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(validationErrs validator.ValidationErrors, trans ut.Translator) []string {
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return msgs
}
