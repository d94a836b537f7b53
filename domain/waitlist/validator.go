package waitlist

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
)

// whitespaceClass is the Unicode whitespace set plus the byte order mark. Go's `\s` only
// matches ASCII whitespace.
const whitespaceClass = `\t\n\v\f\r \x{A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var emailPattern = regexp.MustCompile(
	`^[^` + whitespaceClass + `@]+@[^` + whitespaceClass + `@]+\.[^` + whitespaceClass + `@]+$`,
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("waitlist_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate trims the submission and checks it. Missing fields are reported before a
// malformed email. The trimmed request is returned even on failure.
func (v *Validator) Validate(req *CreateWaitlistEntryRequest) (*CreateWaitlistEntryRequest, error) {
	clean := req.trimmed()

	err := v.validate.Struct(clean)
	if err == nil {
		return clean, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return clean, apperrors.NewUnexpectedError(err)
	}

	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "required" {
			return clean, apperrors.NewInvalidRequestError(apperrors.MessageFieldsRequired, err)
		}
	}

	return clean, apperrors.NewInvalidRequestError(apperrors.MessageInvalidEmail, err)
}
